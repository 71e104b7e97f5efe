package semantic

import "github.com/bloch-lang/bloch/internal/ast"

// Binding is one symbol table entry (spec §3 "Symbol table").
type Binding struct {
	Type    ast.Type
	IsFinal bool
}

// Scope is one frame of the environment's chained-scope stack. Shadowing
// is allowed only at function/method/constructor/destructor scope
// boundaries (spec §3): IsFunctionBoundary marks those frames so
// declare() can apply the right rule.
type Scope struct {
	parent             *Scope
	vars               map[string]*Binding
	IsFunctionBoundary bool
}

func newScope(parent *Scope, boundary bool) *Scope {
	return &Scope{parent: parent, vars: make(map[string]*Binding), IsFunctionBoundary: boundary}
}

// lookup walks outward to enclosing scopes.
func (s *Scope) lookup(name string) (*Binding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// declare adds name to s, rejecting redeclaration within s itself, and
// rejecting a name that shadows an outer binding before the nearest
// function boundary (spec §3: "within a function, inner scopes may not
// shadow outer names").
func (s *Scope) declare(name string, b *Binding) bool {
	if _, exists := s.vars[name]; exists {
		return false
	}
	for sc := s.parent; sc != nil; sc = sc.parent {
		if _, exists := sc.vars[name]; exists {
			return false
		}
		if sc.IsFunctionBoundary {
			break
		}
	}
	s.vars[name] = b
	return true
}
