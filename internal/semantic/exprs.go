package semantic

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
)

// inferExprType implements spec §4.4.4's coarse type lattice.
func (c *checker) inferExprType(expr ast.Expr, sc *Scope, cls *ClassInfo) (ast.Type, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.IntLit:
			return intType(), nil
		case ast.LongLit:
			return longType(), nil
		case ast.FloatLit:
			return floatType(), nil
		case ast.BitLit:
			return bitType(), nil
		case ast.BooleanLit:
			return boolType(), nil
		case ast.CharLit:
			return charType(), nil
		case ast.StringLit:
			return stringType(), nil
		}
		return nil, semErr(e.Position, "internal: unhandled literal kind")

	case *ast.NullLiteral:
		return &ast.NamedType{Name: "null"}, nil

	case *ast.VarExpr:
		if b, ok := sc.lookup(e.Name); ok {
			return b.Type, nil
		}
		if cls != nil {
			if f, _ := cls.FindField(e.Name); f != nil {
				return f.Type, nil
			}
		}
		if _, ok := c.functions[e.Name]; ok {
			return voidType(), nil
		}
		if _, ok := c.reg.Classes[e.Name]; ok {
			return &ast.NamedType{Name: classRefPrefix + e.Name}, nil
		}
		return nil, semErr(e.Position, "undeclared identifier %q", e.Name)

	case *ast.ThisExpr:
		if cls == nil {
			return nil, semErr(e.Position, "'this' used outside a method")
		}
		return &ast.NamedType{Name: cls.Decl.Name}, nil

	case *ast.SuperExpr:
		if cls == nil || cls.Base == nil {
			return nil, semErr(e.Position, "'super' used without a base class")
		}
		return &ast.NamedType{Name: cls.Base.Decl.Name}, nil

	case *ast.ParenExpr:
		return c.inferExprType(e.Inner, sc, cls)

	case *ast.UnaryExpr:
		t, err := c.inferExprType(e.Operand, sc, cls)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case "!":
			return boolType(), nil
		case "-", "~":
			return t, nil
		}
		return t, nil

	case *ast.PostfixExpr:
		return c.inferExprType(e.Operand, sc, cls)

	case *ast.BinaryExpr:
		return c.inferBinary(e, sc, cls)

	case *ast.TernaryExpr:
		if _, err := c.inferExprType(e.Cond, sc, cls); err != nil {
			return nil, err
		}
		return c.inferExprType(e.Then, sc, cls)

	case *ast.AssignExpr:
		return c.inferExprType(e.Target, sc, cls)

	case *ast.CastExpr:
		operandType, err := c.inferExprType(e.Operand, sc, cls)
		if err != nil {
			return nil, err
		}
		if !isCastable(operandType, e.Target) {
			return nil, semErr(e.Position, "invalid cast from %s to %s", operandType.String(), e.Target.String())
		}
		return e.Target, nil

	case *ast.IndexExpr:
		arrType, err := c.inferExprType(e.Array, sc, cls)
		if err != nil {
			return nil, err
		}
		arr, ok := arrType.(*ast.ArrayType)
		if !ok {
			return nil, semErr(e.Position, "cannot index non-array type %s", arrType.String())
		}
		if _, err := c.inferExprType(e.Index, sc, cls); err != nil {
			return nil, err
		}
		return arr.Elem, nil

	case *ast.MemberExpr:
		objType, err := c.inferExprType(e.Object, sc, cls)
		if err != nil {
			return nil, err
		}
		named, ok := objType.(*ast.NamedType)
		if !ok {
			return nil, semErr(e.Position, "cannot access member %q on non-class type %s", e.Name, objType.String())
		}
		className, static := classRefName(named.Name)
		target, ok := c.reg.Classes[className]
		if !ok {
			return nil, semErr(e.Position, "unknown class %q", className)
		}
		if f, _ := target.FindField(e.Name); f != nil {
			if static && !f.IsStatic {
				return nil, semErr(e.Position, "field %q is an instance field of %q", e.Name, className)
			}
			return f.Type, nil
		}
		methods := target.AllMethods(e.Name)
		if len(methods) > 0 {
			if static && !methods[0].Decl.IsStatic {
				return nil, semErr(e.Position, "method %q is an instance method of %q", e.Name, className)
			}
			return methods[0].Decl.ReturnType, nil
		}
		return nil, semErr(e.Position, "class %q has no member %q", className, e.Name)

	case *ast.CallExpr:
		return c.inferCall(e, sc, cls)

	case *ast.NewExpr:
		target, ok := c.reg.Classes[e.Type.Name]
		if !ok {
			return nil, semErr(e.Position, "unknown class %q", e.Type.Name)
		}
		if target.IsAbstract {
			return nil, semErr(e.Position, "cannot instantiate abstract class %q", e.Type.Name)
		}
		if target.Decl.IsStatic {
			return nil, semErr(e.Position, "cannot instantiate static class %q", e.Type.Name)
		}
		for _, a := range e.Args {
			if _, err := c.inferExprType(a, sc, cls); err != nil {
				return nil, err
			}
		}
		return e.Type, nil

	case *ast.ArrayLiteral:
		if len(e.Elements) == 0 {
			return &ast.ArrayType{Elem: intType()}, nil
		}
		elemType, err := c.inferExprType(e.Elements[0], sc, cls)
		if err != nil {
			return nil, err
		}
		for _, elem := range e.Elements[1:] {
			if _, err := c.inferExprType(elem, sc, cls); err != nil {
				return nil, err
			}
		}
		return &ast.ArrayType{Elem: elemType}, nil

	case *ast.MeasureExpr:
		t, err := c.inferExprType(e.Target, sc, cls)
		if err != nil {
			return nil, err
		}
		if !isQubitLike(t) {
			return nil, semErr(e.Position, "'measure' requires a qubit or qubit array, got %s", t.String())
		}
		if arr, ok := t.(*ast.ArrayType); ok {
			_ = arr
			return &ast.ArrayType{Elem: bitType()}, nil
		}
		return bitType(), nil
	}

	return nil, semErr(expr.Pos(), "internal: unhandled expression kind")
}

func (c *checker) inferBinary(e *ast.BinaryExpr, sc *Scope, cls *ClassInfo) (ast.Type, error) {
	lt, err := c.inferExprType(e.Left, sc, cls)
	if err != nil {
		return nil, err
	}
	rt, err := c.inferExprType(e.Right, sc, cls)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "==", "!=":
		if isNullType(lt) || isNullType(rt) {
			if !isClassType(lt) && !isNullType(lt) || !isClassType(rt) && !isNullType(rt) {
				return nil, semErr(e.Position, "'null' may only be compared against a class-typed operand")
			}
		}
		return boolType(), nil
	case "<", ">", "<=", ">=":
		if !isNumeric(lt) || !isNumeric(rt) {
			return nil, semErr(e.Position, "comparison operator %q requires numeric operands, got %s and %s", e.Op, lt.String(), rt.String())
		}
		return boolType(), nil
	case "&&", "||":
		return boolType(), nil
	case "&", "|", "^":
		if isBitLike(lt) && isBitLike(rt) {
			return lt, nil
		}
		return nil, semErr(e.Position, "bitwise operator %q requires bit or bit[] operands", e.Op)
	case "+":
		if isStringLike(lt) || isStringLike(rt) {
			return stringType(), nil
		}
		return arithmeticResult(e.Position, lt, rt)
	case "-", "*":
		return arithmeticResult(e.Position, lt, rt)
	case "/":
		if _, err := arithmeticResult(e.Position, lt, rt); err != nil {
			return nil, err
		}
		return floatType(), nil
	case "%":
		if !isIntegerLike(lt) || !isIntegerLike(rt) {
			return nil, semErr(e.Position, "'%%' requires integer operands")
		}
		return lt, nil
	}
	return nil, semErr(e.Position, "internal: unhandled binary operator %q", e.Op)
}

func arithmeticResult(pos lexer.Position, lt, rt ast.Type) (ast.Type, error) {
	if !isNumeric(lt) || !isNumeric(rt) {
		return nil, semErr(pos, "arithmetic operator requires numeric operands, got %s and %s", lt.String(), rt.String())
	}
	if isFloatType(lt) || isFloatType(rt) {
		return floatType(), nil
	}
	if isLongType(lt) || isLongType(rt) {
		return longType(), nil
	}
	return intType(), nil
}

func isFloatType(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Name == "float"
}

func isLongType(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Name == "long"
}

func isStringLike(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Name == "string"
}

func isNullType(t ast.Type) bool {
	n, ok := t.(*ast.NamedType)
	return ok && n.Name == "null"
}

func isCastable(from, to ast.Type) bool {
	allowed := map[string]bool{"int": true, "long": true, "float": true, "bit": true}
	fp, fok := from.(*ast.PrimitiveType)
	tp, tok := to.(*ast.PrimitiveType)
	return fok && tok && allowed[fp.Name] && allowed[tp.Name]
}

// builtinGates maps each quantum gate built-in to its arity; the
// evaluator dispatches these directly to the simulator (spec §4.6).
var builtinGates = map[string]int{
	"h": 1, "x": 1, "y": 1, "z": 1,
	"rx": 2, "ry": 2, "rz": 2,
	"cx": 2,
}

func (c *checker) inferCall(e *ast.CallExpr, sc *Scope, cls *ClassInfo) (ast.Type, error) {
	argTypes := make([]ast.Type, len(e.Args))
	for i, a := range e.Args {
		t, err := c.inferExprType(a, sc, cls)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}

	switch callee := e.Callee.(type) {
	case *ast.VarExpr:
		if arity, ok := builtinGates[callee.Name]; ok {
			if len(argTypes) != arity {
				return nil, semErr(e.Position, "gate %q expects %d argument(s), got %d", callee.Name, arity, len(argTypes))
			}
			if !isQubitLike(argTypes[0]) {
				return nil, semErr(e.Position, "gate %q requires a qubit as its first argument", callee.Name)
			}
			if arity == 2 {
				if callee.Name == "cx" {
					if !isQubitLike(argTypes[1]) {
						return nil, semErr(e.Position, "gate %q requires two qubit arguments", callee.Name)
					}
				} else if !isNumeric(argTypes[1]) {
					return nil, semErr(e.Position, "gate %q requires a numeric angle argument", callee.Name)
				}
			}
			return voidType(), nil
		}

		fn, ok := c.functions[callee.Name]
		if !ok {
			return nil, semErr(e.Position, "call to undeclared function %q", callee.Name)
		}
		if len(fn.Params) != len(argTypes) {
			return nil, semErr(e.Position, "function %q expects %d argument(s), got %d", callee.Name, len(fn.Params), len(argTypes))
		}
		return fn.ReturnType, nil

	case *ast.MemberExpr:
		objType, err := c.inferExprType(callee.Object, sc, cls)
		if err != nil {
			return nil, err
		}
		named, ok := objType.(*ast.NamedType)
		if !ok {
			return nil, semErr(e.Position, "cannot call method on non-class type %s", objType.String())
		}
		className, static := classRefName(named.Name)
		target, ok := c.reg.Classes[className]
		if !ok {
			return nil, semErr(e.Position, "unknown class %q", className)
		}
		methods := target.AllMethods(callee.Name)
		if len(methods) == 0 {
			return nil, semErr(e.Position, "class %q has no method %q", className, callee.Name)
		}
		if static {
			var statics []*MethodInfo
			for _, m := range methods {
				if m.Decl.IsStatic {
					statics = append(statics, m)
				}
			}
			if len(statics) == 0 {
				return nil, semErr(e.Position, "method %q is an instance method of %q", callee.Name, className)
			}
			methods = statics
		}
		candidates := make([]candidate, len(methods))
		for i, m := range methods {
			candidates[i] = candidate{Params: m.Decl.Params, Method: m}
		}
		best, msg := c.reg.resolveOverload(candidates, argTypes)
		if best == nil {
			return nil, semErr(e.Position, "call to %s.%s: %s", className, callee.Name, msg)
		}
		return best.Method.Decl.ReturnType, nil
	}

	return nil, semErr(e.Position, "call target is not callable")
}
