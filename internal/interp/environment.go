package interp

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/value"
)

// binding is one environment cell: a value slot plus enough metadata for
// tracked-outcome recording, final-field bookkeeping, and the
// statically-declared type a method-call site dispatches against
// (spec §4.5.1, §4.5.3).
type binding struct {
	val     value.Value
	declTyp ast.Type // nil when not statically known (e.g. a for-loop index)
	final   bool
	tracked bool
}

// env is one frame of the environment stack. Scope entry and exit are
// paired by the caller: whoever opens a frame with newEnv calls popScope
// on it when the scope ends, matching spec §4.5.1's "scope entry and exit
// are paired" invariant.
type env struct {
	parent    *env
	vars      map[string]*binding
	this      value.Value // the bound `this`, or nil outside a method/ctor/dtor
	thisClass string      // the static class of the executing method/ctor/dtor body
}

func newEnv(parent *env) *env {
	var this value.Value
	var thisClass string
	if parent != nil {
		this = parent.this
		thisClass = parent.thisClass
	}
	return &env{parent: parent, vars: make(map[string]*binding), this: this, thisClass: thisClass}
}

func (e *env) declare(name string, v value.Value, final, tracked bool) {
	e.vars[name] = &binding{val: v, final: final, tracked: tracked}
}

func (e *env) declareTyped(name string, v value.Value, declTyp ast.Type, final, tracked bool) {
	e.vars[name] = &binding{val: v, declTyp: declTyp, final: final, tracked: tracked}
}

func (e *env) lookup(name string) (*binding, bool) {
	for s := e; s != nil; s = s.parent {
		if b, ok := s.vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// popScope releases every binding declared directly in e (not its
// parents) and records one tracked outcome per tracked binding, in map
// iteration order rather than declaration order. This is the "scope exit" half of spec
// §4.5.1's "scope entry and exit are paired" and §4.5.6's "tracked
// variables... emit one outcome record on scope exit". The caller is
// still responsible for discarding e itself.
func (it *Interp) popScope(e *env, pos lexer.Position) error {
	for name, b := range e.vars {
		if b.tracked {
			it.recordTrackedOutcome(name, b.val)
		}
	}
	var firstErr error
	for _, b := range e.vars {
		if err := it.releaseValue(b.val, pos); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
