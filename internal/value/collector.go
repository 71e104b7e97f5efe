package value

import (
	"sync"
	"time"
)

// Collector is the background cycle sweep described in spec §4.5.4 and
// §5: a cooperative auxiliary thread, started only once a class has been
// instantiated, that periodically identifies strongly connected
// components reachable only through internal strong references and
// queues them for destruction. Destructors themselves run on the
// evaluator's single thread; the collector only decides *what* to
// reclaim, via the classic trial-deletion technique (as used by
// reference-counting cyclic garbage collectors): subtract each object's
// internal incoming reference count from its strong count to find the
// portion attributable to live roots, then flood-fill liveness from any
// object with a positive remainder.
type Collector struct {
	heap     *Heap
	interval time.Duration

	mu      sync.Mutex
	victims [][]*Object

	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
	active bool
}

// NewCollector constructs a collector over heap. It does not start
// running until Start is called.
func NewCollector(heap *Heap, interval time.Duration) *Collector {
	return &Collector{heap: heap, interval: interval}
}

// Start launches the sweep goroutine. Calling Start more than once is a
// no-op, matching "the sweep is started when the first class object is
// created" (spec §4.5.4) — the evaluator calls this once, on the first
// `new`.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return
	}
	c.active = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run()
}

func (c *Collector) run() {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			c.sweep()
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep performs one trial-deletion pass and queues any reclaimed
// victims for the evaluator to destroy.
func (c *Collector) sweep() {
	snap := c.heap.snapshot()
	if len(snap) == 0 {
		return
	}

	internal := make(map[ObjectID]int, len(snap))
	refsOf := func(obj *Object) []ObjectID {
		var out []ObjectID
		for _, v := range obj.Fields {
			switch x := v.(type) {
			case ObjectRef:
				if !x.Null {
					out = append(out, x.ID)
				}
			case *Array:
				for _, e := range x.Elements {
					if ref, ok := e.(ObjectRef); ok && !ref.Null {
						out = append(out, ref.ID)
					}
				}
			}
		}
		return out
	}

	for _, obj := range snap {
		for _, target := range refsOf(obj) {
			internal[target]++
		}
	}

	live := make(map[ObjectID]bool, len(snap))
	var stack []ObjectID
	for id, obj := range snap {
		if obj.Tracked {
			live[id] = true
			stack = append(stack, id)
			continue
		}
		if obj.Strong-internal[id] > 0 {
			live[id] = true
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		obj := snap[id]
		for _, target := range refsOf(obj) {
			if !live[target] {
				live[target] = true
				stack = append(stack, target)
			}
		}
	}

	var victims []*Object
	for id, obj := range snap {
		if live[id] {
			continue
		}
		if c.heap.tryReclaimCycle(id, obj.Strong) {
			victims = append(victims, obj)
		}
	}
	if len(victims) > 0 {
		c.mu.Lock()
		c.victims = append(c.victims, victims)
		c.mu.Unlock()
	}
}

// Drain returns and clears every victim batch queued since the last
// Drain call. Each returned *Object is a frozen snapshot (ID, Class,
// Fields, Strong) taken at sweep time, since tryReclaimCycle has already
// excised the live object from the heap by the time Drain is called.
// The evaluator calls this at safe points (between top-level statements,
// and once more after Stop returns) to run destructors on its own
// thread using that snapshot.
func (c *Collector) Drain() []*Object {
	c.mu.Lock()
	defer c.mu.Unlock()
	var all []*Object
	for _, batch := range c.victims {
		all = append(all, batch...)
	}
	c.victims = nil
	return all
}

// Stop signals the sweep goroutine to run one final pass and exit, and
// blocks until it has (spec §5: "joined deterministically... before
// tracked outcomes are emitted"). Safe to call on a collector that was
// never started.
func (c *Collector) Stop() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if !active {
		return
	}
	c.once.Do(func() { close(c.stop) })
	<-c.done
}
