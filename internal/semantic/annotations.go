package semantic

import "github.com/bloch-lang/bloch/internal/ast"

// checkFunctionAnnotations enforces spec §4.4.6 for a top-level function.
func (c *checker) checkFunctionAnnotations(fn *ast.FunctionDecl) error {
	for _, a := range fn.Annotations {
		switch a.Name {
		case "quantum":
			if fn.Name == "main" {
				return semErr(a.Position, "@quantum may not decorate main")
			}
			if !quantumReturnOK(fn.ReturnType) {
				return semErr(a.Position, "@quantum requires a return type of bit, bit[], or void")
			}
		case "shots":
			if fn.Name != "main" {
				return semErr(a.Position, "@shots is only valid on main")
			}
			if a.Arg == nil || *a.Arg <= 0 {
				return semErr(a.Position, "@shots(N) requires N > 0")
			}
		case "tracked":
			return semErr(a.Position, "@tracked is not valid on a function")
		}
	}
	return nil
}

func quantumReturnOK(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	if ok && (p.Name == "bit" || p.Name == "void") {
		return true
	}
	arr, ok := t.(*ast.ArrayType)
	if !ok {
		return false
	}
	elem, ok := arr.Elem.(*ast.PrimitiveType)
	return ok && elem.Name == "bit"
}

// checkMethodAnnotations applies checkFunctionAnnotations' @quantum
// return-type rule to methods and rejects @shots and @tracked on every
// method; a method's name is not checked.
func (c *checker) checkMethodAnnotations(m *ast.MethodDecl) error {
	for _, a := range m.Annotations {
		switch a.Name {
		case "quantum":
			if !quantumReturnOK(m.ReturnType) {
				return semErr(a.Position, "@quantum requires a return type of bit, bit[], or void")
			}
		case "shots":
			return semErr(a.Position, "@shots is only valid on main")
		case "tracked":
			return semErr(a.Position, "@tracked is not valid on a method")
		}
	}
	return nil
}
