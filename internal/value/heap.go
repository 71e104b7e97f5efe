package value

import "sync"

// Object is a heap-resident class instance (spec §3 "Heap").
type Object struct {
	ID       ObjectID
	Class    string
	Fields   map[string]Value
	Strong   int
	Tracked  bool // has at least one @tracked field; pins it against the cycle sweep
	Destroyed bool
}

// Heap owns every live object. All mutation goes through it so the
// background cycle collector can snapshot consistent state under Lock
// (spec §5 "every strong reference count adjustment... takes the heap
// lock").
type Heap struct {
	mu      sync.Mutex
	objects map[ObjectID]*Object
	nextID  ObjectID
}

// NewHeap constructs an empty heap.
func NewHeap() *Heap {
	return &Heap{objects: make(map[ObjectID]*Object)}
}

// Alloc creates a new object of class with zero-valued fields (caller
// fills Fields in before first use) and a strong count of zero; the
// caller is expected to Retain it immediately into the binding that owns
// it.
func (h *Heap) Alloc(class string) *Object {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	obj := &Object{ID: h.nextID, Class: class, Fields: make(map[string]Value)}
	h.objects[obj.ID] = obj
	return obj
}

// Retain increments id's strong count.
func (h *Heap) Retain(id ObjectID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if obj, ok := h.objects[id]; ok {
		obj.Strong++
	}
}

// Release decrements id's strong count and reports whether it reached
// zero, in which case the caller must run the object's destructor chain
// and then call Reclaim.
func (h *Heap) Release(id ObjectID) (zero bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	obj, ok := h.objects[id]
	if !ok || obj.Destroyed {
		return false
	}
	obj.Strong--
	return obj.Strong <= 0
}

// Reclaim removes id from the heap after its destructor has run.
func (h *Heap) Reclaim(id ObjectID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if obj, ok := h.objects[id]; ok {
		obj.Destroyed = true
		delete(h.objects, id)
	}
}

// Get returns the live object for id, or false if it is absent or
// already destroyed.
func (h *Heap) Get(id ObjectID) (*Object, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	obj, ok := h.objects[id]
	if !ok || obj.Destroyed {
		return nil, false
	}
	return obj, true
}

// Count returns the number of live objects (used by the "heap_object_count"
// property in spec §8).
func (h *Heap) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.objects)
}

// snapshot copies id, class, fields and strong counts for every live
// object, for the collector to analyse outside the lock.
func (h *Heap) snapshot() map[ObjectID]*Object {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[ObjectID]*Object, len(h.objects))
	for id, obj := range h.objects {
		fields := make(map[string]Value, len(obj.Fields))
		for k, v := range obj.Fields {
			fields[k] = v
		}
		out[id] = &Object{ID: obj.ID, Class: obj.Class, Fields: fields, Strong: obj.Strong, Tracked: obj.Tracked}
	}
	return out
}

// tryReclaimCycle verifies that id's strong count and object-reference
// fields are unchanged from the snapshot (no new external references
// arrived between the scan and the reclaim attempt) and, if so, marks it
// destroyed and removes it. It returns true if id was reclaimed.
func (h *Heap) tryReclaimCycle(id ObjectID, expectStrong int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	obj, ok := h.objects[id]
	if !ok || obj.Destroyed || obj.Strong != expectStrong {
		return false
	}
	obj.Destroyed = true
	delete(h.objects, id)
	return true
}
