package semantic

import "github.com/bloch-lang/bloch/internal/ast"

// candidate is anything with a fixed parameter-type list that overload
// resolution can rank (spec §4.4.5).
type candidate struct {
	Params []*ast.Param
	Method *MethodInfo       // non-nil for a method candidate
	Ctor   *ast.ConstructorDecl // non-nil for a constructor candidate
}

// resolveOverload ranks candidates by (1) exact match on every parameter,
// then (2) assignable match, and returns the most specific applicable
// one. It reports an error string describing ambiguity or no-match,
// leaving position annotation to the caller.
func (reg *Registry) resolveOverload(candidates []candidate, argTypes []ast.Type) (*candidate, string) {
	var exact, assignable []*candidate

	for i := range candidates {
		c := &candidates[i]
		if len(c.Params) != len(argTypes) {
			continue
		}
		allExact := true
		allAssignable := true
		for j, p := range c.Params {
			if typeEquals(p.Type, argTypes[j]) {
				continue
			}
			allExact = false
			if !reg.isAssignable(argTypes[j], p.Type) {
				allAssignable = false
			}
		}
		if allExact {
			exact = append(exact, c)
		} else if allAssignable {
			assignable = append(assignable, c)
		}
	}

	switch {
	case len(exact) == 1:
		return exact[0], ""
	case len(exact) > 1:
		return nil, "ambiguous call: multiple exact-match overloads"
	case len(assignable) == 1:
		return assignable[0], ""
	case len(assignable) > 1:
		return nil, "ambiguous call: multiple applicable overloads"
	default:
		return nil, "no applicable overload for the given argument types"
	}
}
