package semantic

import (
	"strconv"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
)

// checker carries the state threaded through one Analyze pass.
type checker struct {
	reg       *Registry
	functions map[string]*ast.FunctionDecl
}

// Analyze runs the full semantic analysis pipeline of spec §4.4: the
// class registry pass, override/implementation checks, final-field
// discipline, annotation rules, and scope/type checking of every
// function, method, constructor, destructor, and top-level statement.
func Analyze(prog *ast.Program) (*Registry, error) {
	reg, err := BuildRegistry(prog)
	if err != nil {
		return nil, err
	}
	c := &checker{reg: reg, functions: make(map[string]*ast.FunctionDecl)}

	for _, name := range reg.Order {
		info := reg.Classes[name]
		if err := checkOverrides(reg, info); err != nil {
			return nil, err
		}
		if err := checkFinalFields(info); err != nil {
			return nil, err
		}
		for _, m := range info.Decl.Methods {
			if err := c.checkMethodAnnotations(m); err != nil {
				return nil, err
			}
		}
	}

	sawMain := false
	for _, fn := range prog.Functions {
		if _, dup := c.functions[fn.Name]; dup {
			return nil, semErr(fn.Position, "duplicate function %q", fn.Name)
		}
		c.functions[fn.Name] = fn
		if fn.Name == "main" {
			sawMain = true
		}
		if err := c.checkFunctionAnnotations(fn); err != nil {
			return nil, err
		}
	}
	if !sawMain {
		return nil, semErr(lexer.Position{}, "program has no main function")
	}

	for _, name := range reg.Order {
		info := reg.Classes[name]
		for _, f := range info.Decl.Fields {
			if at, ok := f.Type.(*ast.ArrayType); ok {
				if lit, ok := at.Size.(*ast.Literal); ok && lit.Kind == ast.IntLit {
					at.ResolvedSize, _ = strconv.Atoi(lit.Raw)
				}
			}
			if f.Init != nil {
				if _, err := c.inferExprType(f.Init, newScope(nil, true), info); err != nil {
					return nil, err
				}
			}
		}
		for _, ctor := range info.Decl.Constructors {
			if ctor.IsDefault {
				continue
			}
			sc := newScope(nil, true)
			for _, p := range ctor.Params {
				sc.declare(p.Name, &Binding{Type: p.Type})
			}
			if err := c.checkBlock(ctor.Body, sc, info, voidType()); err != nil {
				return nil, err
			}
		}
		if info.Decl.Destructor != nil && !info.Decl.Destructor.IsDefault {
			sc := newScope(nil, true)
			if err := c.checkBlock(info.Decl.Destructor.Body, sc, info, voidType()); err != nil {
				return nil, err
			}
		}
		for _, m := range info.Decl.Methods {
			if m.Body == nil {
				continue
			}
			sc := newScope(nil, true)
			for _, p := range m.Params {
				sc.declare(p.Name, &Binding{Type: p.Type})
			}
			if err := c.checkBlock(m.Body, sc, info, m.ReturnType); err != nil {
				return nil, err
			}
		}
	}

	for _, fn := range prog.Functions {
		sc := newScope(nil, true)
		for _, p := range fn.Params {
			sc.declare(p.Name, &Binding{Type: p.Type})
		}
		if err := c.checkBlock(fn.Body, sc, nil, fn.ReturnType); err != nil {
			return nil, err
		}
	}

	if len(prog.Statements) > 0 {
		sc := newScope(nil, true)
		for _, s := range prog.Statements {
			if err := c.checkStmt(s, sc, nil, voidType()); err != nil {
				return nil, err
			}
		}
	}

	return reg, nil
}

// checkBlock opens a fresh, non-boundary scope for body (spec §3's
// shadowing rule is enforced by Scope.declare).
func (c *checker) checkBlock(body *ast.BlockStmt, parent *Scope, cls *ClassInfo, retType ast.Type) error {
	sc := newScope(parent, false)
	for _, s := range body.Stmts {
		if err := c.checkStmt(s, sc, cls, retType); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) checkStmt(s ast.Stmt, sc *Scope, cls *ClassInfo, retType ast.Type) error {
	switch st := s.(type) {
	case *ast.VarDecl:
		for _, a := range st.Annotations {
			if a.Name == "tracked" && !isQubitLike(st.Type) {
				return semErr(a.Position, "@tracked may only decorate a qubit or qubit[] declaration")
			}
		}
		if at, ok := st.Type.(*ast.ArrayType); ok {
			if lit, ok := at.Size.(*ast.Literal); ok && lit.Kind == ast.IntLit {
				at.ResolvedSize, _ = strconv.Atoi(lit.Raw)
			}
		}
		if st.Init != nil {
			initType, err := c.inferExprType(st.Init, sc, cls)
			if err != nil {
				return err
			}
			if !c.reg.isAssignable(initType, st.Type) {
				return semErr(st.Position, "cannot initialise %q of type %s with value of type %s", st.Name, st.Type.String(), initType.String())
			}
		}
		if !sc.declare(st.Name, &Binding{Type: st.Type, IsFinal: st.IsFinal}) {
			return semErr(st.Position, "%q is already declared in this scope", st.Name)
		}
		return nil

	case *ast.BlockStmt:
		return c.checkBlock(st, sc, cls, retType)

	case *ast.ExprStmt:
		_, err := c.inferExprType(st.Expr, sc, cls)
		return err

	case *ast.ReturnStmt:
		if st.Value == nil {
			return nil
		}
		t, err := c.inferExprType(st.Value, sc, cls)
		if err != nil {
			return err
		}
		if !c.reg.isAssignable(t, retType) {
			return semErr(st.Position, "return type mismatch: expected %s, got %s", retType.String(), t.String())
		}
		return nil

	case *ast.IfStmt:
		if _, err := c.inferExprType(st.Cond, sc, cls); err != nil {
			return err
		}
		if err := c.checkStmt(st.Then, sc, cls, retType); err != nil {
			return err
		}
		if st.Else != nil {
			return c.checkStmt(st.Else, sc, cls, retType)
		}
		return nil

	case *ast.WhileStmt:
		if _, err := c.inferExprType(st.Cond, sc, cls); err != nil {
			return err
		}
		return c.checkStmt(st.Body, sc, cls, retType)

	case *ast.ForStmt:
		inner := newScope(sc, false)
		if st.Init != nil {
			if err := c.checkStmt(st.Init, inner, cls, retType); err != nil {
				return err
			}
		}
		if st.Cond != nil {
			if _, err := c.inferExprType(st.Cond, inner, cls); err != nil {
				return err
			}
		}
		if st.Post != nil {
			if err := c.checkStmt(st.Post, inner, cls, retType); err != nil {
				return err
			}
		}
		return c.checkStmt(st.Body, inner, cls, retType)

	case *ast.EchoStmt:
		_, err := c.inferExprType(st.Value, sc, cls)
		return err

	case *ast.ResetStmt:
		t, err := c.inferExprType(st.Target, sc, cls)
		if err != nil {
			return err
		}
		if !isQubitLike(t) {
			return semErr(st.Position, "'reset' requires a qubit or qubit[] operand, got %s", t.String())
		}
		return nil

	case *ast.MeasureStmt:
		t, err := c.inferExprType(st.Target, sc, cls)
		if err != nil {
			return err
		}
		if !isQubitLike(t) {
			return semErr(st.Position, "'measure' requires a qubit or qubit[] operand, got %s", t.String())
		}
		return nil

	case *ast.DestroyStmt:
		t, err := c.inferExprType(st.Target, sc, cls)
		if err != nil {
			return err
		}
		if !isClassType(t) {
			return semErr(st.Position, "'destroy' requires a class-typed operand, got %s", t.String())
		}
		return nil

	case *ast.AssignStmt:
		if v, ok := st.Target.(*ast.VarExpr); ok {
			if b, ok := sc.lookup(v.Name); ok && b.IsFinal {
				return semErr(st.Position, "%q is final and cannot be reassigned", v.Name)
			}
		}
		targetType, err := c.inferExprType(st.Target, sc, cls)
		if err != nil {
			return err
		}
		valueType, err := c.inferExprType(st.Value, sc, cls)
		if err != nil {
			return err
		}
		if !c.reg.isAssignable(valueType, targetType) {
			return semErr(st.Position, "cannot assign value of type %s to target of type %s", valueType.String(), targetType.String())
		}
		return nil

	case *ast.TernaryStmt:
		if _, err := c.inferExprType(st.Cond, sc, cls); err != nil {
			return err
		}
		if err := c.checkStmt(st.Then, sc, cls, retType); err != nil {
			return err
		}
		if st.Else != nil {
			return c.checkStmt(st.Else, sc, cls, retType)
		}
		return nil
	}

	return semErr(s.Pos(), "internal: unhandled statement kind")
}
