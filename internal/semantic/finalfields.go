package semantic

import "github.com/bloch-lang/bloch/internal/ast"

// checkFinalFields enforces spec §4.4.3: a final static field must carry
// a declaration initialiser; a final instance field must be assigned
// along exactly one of two paths — a declaration initialiser, or every
// constructor of its declaring class — and a derived class's
// constructors may never assign an inherited final field.
func checkFinalFields(info *ClassInfo) error {
	for _, f := range info.Decl.Fields {
		if !f.IsFinal {
			continue
		}
		if f.IsStatic {
			if f.Init == nil {
				return semErr(f.Position, "final static field %q requires a declaration initialiser", f.Name)
			}
			continue
		}
		if f.Init != nil {
			if assignedSomewhere(info.Decl, f.Name) {
				return semErr(f.Position, "final field %q may not be assigned in a constructor once it has a declaration initialiser", f.Name)
			}
			continue
		}
		if len(info.Decl.Constructors) == 0 {
			return semErr(f.Position, "final field %q has no declaration initialiser and class %q has no constructor to assign it", f.Name, info.Decl.Name)
		}
		for _, ctor := range info.Decl.Constructors {
			if ctor.IsDefault {
				return semErr(f.Position, "final field %q is not assigned by the default constructor of class %q", f.Name, info.Decl.Name)
			}
			n := countAssignments(ctor.Body, f.Name)
			if n == 0 {
				return semErr(ctor.Position, "constructor of class %q does not assign final field %q", info.Decl.Name, f.Name)
			}
			if n > 1 {
				return semErr(ctor.Position, "constructor of class %q assigns final field %q more than once", info.Decl.Name, f.Name)
			}
		}
	}

	if info.Base != nil {
		for owner := info.Base; owner != nil; owner = owner.Base {
			for _, f := range owner.Decl.Fields {
				if !f.IsFinal || f.IsStatic {
					continue
				}
				for _, ctor := range info.Decl.Constructors {
					if countAssignments(ctor.Body, f.Name) > 0 {
						return semErr(ctor.Position, "constructor of class %q may not assign inherited final field %q", info.Decl.Name, f.Name)
					}
				}
			}
		}
	}

	return nil
}

func assignedSomewhere(cls *ast.ClassDecl, field string) bool {
	for _, ctor := range cls.Constructors {
		if ctor.Body != nil && countAssignments(ctor.Body, field) > 0 {
			return true
		}
	}
	return false
}

// countAssignments counts direct assignments to `field` or `this.field`
// anywhere within body, recursing through nested control-flow statements.
func countAssignments(body *ast.BlockStmt, field string) int {
	if body == nil {
		return 0
	}
	n := 0
	var walkStmt func(ast.Stmt)
	isTarget := func(e ast.Expr) bool {
		switch t := e.(type) {
		case *ast.VarExpr:
			return t.Name == field
		case *ast.MemberExpr:
			_, isThis := t.Object.(*ast.ThisExpr)
			return isThis && t.Name == field
		}
		return false
	}
	walkStmt = func(s ast.Stmt) {
		switch st := s.(type) {
		case *ast.AssignStmt:
			if isTarget(st.Target) {
				n++
			}
		case *ast.ExprStmt:
			if ae, ok := st.Expr.(*ast.AssignExpr); ok && isTarget(ae.Target) {
				n++
			}
		case *ast.BlockStmt:
			for _, inner := range st.Stmts {
				walkStmt(inner)
			}
		case *ast.IfStmt:
			walkStmt(st.Then)
			if st.Else != nil {
				walkStmt(st.Else)
			}
		case *ast.WhileStmt:
			walkStmt(st.Body)
		case *ast.ForStmt:
			if st.Init != nil {
				walkStmt(st.Init)
			}
			walkStmt(st.Body)
		case *ast.TernaryStmt:
			walkStmt(st.Then)
			if st.Else != nil {
				walkStmt(st.Else)
			}
		}
	}
	for _, s := range body.Stmts {
		walkStmt(s)
	}
	return n
}
