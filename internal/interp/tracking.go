package interp

import (
	"strings"

	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/semantic"
	"github.com/bloch-lang/bloch/internal/value"
)

// outcomeOf renders v's tracked outcome string (spec §4.5.6): the
// classical bit for a qubit measured during the binding's lifetime, the
// sentinel "?" for a qubit never measured, and the concatenated bit
// string in index order for a qubit array.
func (it *Interp) outcomeOf(v value.Value) string {
	switch x := v.(type) {
	case value.Qubit:
		return it.qubitOutcome(x.Index)
	case *value.Array:
		var sb strings.Builder
		for _, e := range x.Elements {
			sb.WriteString(it.outcomeOf(e))
		}
		return sb.String()
	}
	return "?"
}

func (it *Interp) qubitOutcome(idx int) string {
	if idx < 0 || it.sim == nil || !it.sim.Measured(idx) {
		return "?"
	}
	bit, ok := it.qubitBits[idx]
	if !ok {
		return "?"
	}
	if bit == 0 {
		return "0"
	}
	return "1"
}

// recordTrackedOutcome adds one outcome row for a released tracked
// binding.
func (it *Interp) recordTrackedOutcome(name string, v value.Value) {
	outcome := it.outcomeOf(v)
	byOutcome, ok := it.tracked[name]
	if !ok {
		byOutcome = make(map[string]int)
		it.tracked[name] = byOutcome
	}
	byOutcome[outcome]++
}

// recordTrackedFields records one outcome per @tracked field of obj,
// walking obj's declared class and its base chain, just before its
// destructor chain runs (spec §4.5.6: "a variable or field... scope
// exit or object destruction").
func (it *Interp) recordTrackedFields(obj *value.Object, info *semantic.ClassInfo) {
	for c := info; c != nil; c = c.Base {
		for name, f := range c.Fields {
			if !f.IsTracked {
				continue
			}
			if v, ok := obj.Fields[name]; ok {
				it.recordTrackedOutcome(info.Decl.Name+"."+name, v)
			}
		}
	}
}

// retainValue increments the strong count of every object reference
// reachable from v (recursing into arrays), per spec §4.5.4's "each
// strong field assignment or variable binding adjusts the target
// object's strong reference count".
func (it *Interp) retainValue(v value.Value) {
	switch x := v.(type) {
	case value.ObjectRef:
		if !x.Null {
			it.heap.Retain(x.ID)
		}
	case *value.Array:
		for _, e := range x.Elements {
			it.retainValue(e)
		}
	}
}

// releaseValue decrements the strong count of every object reference
// reachable from v, running destructor chains for any that drop to
// zero.
func (it *Interp) releaseValue(v value.Value, pos lexer.Position) error {
	switch x := v.(type) {
	case value.ObjectRef:
		return it.releaseRef(x, pos)
	case *value.Array:
		for _, e := range x.Elements {
			if err := it.releaseValue(e, pos); err != nil {
				return err
			}
		}
	}
	return nil
}

func (it *Interp) releaseRef(ref value.ObjectRef, pos lexer.Position) error {
	if ref.Null {
		return nil
	}
	if it.heap.Release(ref.ID) {
		return it.destroyObject(ref.ID, pos)
	}
	return nil
}

// destroyObject runs obj's destructor chain (derived first, then base)
// and then recursively releases its own fields (spec §4.5.4), before
// reclaiming the heap slot.
func (it *Interp) destroyObject(id value.ObjectID, pos lexer.Position) error {
	obj, ok := it.heap.Get(id)
	if !ok {
		return nil
	}
	info, ok := it.reg.Classes[obj.Class]
	if !ok {
		it.heap.Reclaim(id)
		return nil
	}

	it.recordTrackedFields(obj, info)

	for c := info; c != nil; c = c.Base {
		if c.Decl.Destructor != nil && c.Decl.Destructor.Body != nil {
			e := newEnv(nil)
			e.this = value.ObjectRef{ID: id, Class: obj.Class}
			if _, err := it.execBlock(c.Decl.Destructor.Body, e); err != nil {
				it.heap.Reclaim(id)
				return err
			}
			if err := it.popScope(e, pos); err != nil {
				it.heap.Reclaim(id)
				return err
			}
		}
	}

	var firstErr error
	for _, v := range obj.Fields {
		if err := it.releaseValue(v, pos); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	it.heap.Reclaim(id)
	return firstErr
}
