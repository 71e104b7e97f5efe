package semantic

import "github.com/bloch-lang/bloch/internal/ast"

// typeEquals reports structural equality of two type-grammar nodes,
// ignoring source position.
func typeEquals(a, b ast.Type) bool {
	switch x := a.(type) {
	case *ast.PrimitiveType:
		y, ok := b.(*ast.PrimitiveType)
		return ok && x.Name == y.Name
	case *ast.NamedType:
		y, ok := b.(*ast.NamedType)
		if !ok || x.Name != y.Name || len(x.TypeArgs) != len(y.TypeArgs) {
			return false
		}
		for i := range x.TypeArgs {
			if !typeEquals(x.TypeArgs[i], y.TypeArgs[i]) {
				return false
			}
		}
		return true
	case *ast.ArrayType:
		y, ok := b.(*ast.ArrayType)
		return ok && typeEquals(x.Elem, y.Elem)
	}
	return false
}

func sameParamTypes(a, b []*ast.Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !typeEquals(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

func isNumeric(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && (p.Name == "int" || p.Name == "long" || p.Name == "float")
}

func isIntegerLike(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && (p.Name == "int" || p.Name == "long")
}

func isBitLike(t ast.Type) bool {
	if p, ok := t.(*ast.PrimitiveType); ok && p.Name == "bit" {
		return true
	}
	if arr, ok := t.(*ast.ArrayType); ok {
		return isBitLike(arr.Elem)
	}
	return false
}

func isClassType(t ast.Type) bool {
	_, ok := t.(*ast.NamedType)
	return ok
}

func isQubitLike(t ast.Type) bool {
	if p, ok := t.(*ast.PrimitiveType); ok && p.Name == "qubit" {
		return true
	}
	if arr, ok := t.(*ast.ArrayType); ok {
		return isQubitLike(arr.Elem)
	}
	return false
}

// isAssignable reports whether a value of type from may be assigned to a
// binding of type to: identical kinds, or a subclass reference assigned
// to a base-class-typed name (spec §4.4.4 "Assignment rules").
func (reg *Registry) isAssignable(from, to ast.Type) bool {
	if typeEquals(from, to) {
		return true
	}
	fromNamed, fok := from.(*ast.NamedType)
	toNamed, tok := to.(*ast.NamedType)
	if fok && tok {
		fromClass, ok1 := reg.Classes[fromNamed.Name]
		toClass, ok2 := reg.Classes[toNamed.Name]
		if ok1 && ok2 {
			return fromClass.IsSubclassOf(toClass)
		}
	}
	return false
}

// classRefPrefix tags a NamedType produced when an identifier resolves
// to a class name rather than a variable (a static member access, e.g.
// Math.sqrt(x)), so member/call resolution can require static members.
const classRefPrefix = "@class:"

func classRefName(named string) (name string, static bool) {
	if len(named) > len(classRefPrefix) && named[:len(classRefPrefix)] == classRefPrefix {
		return named[len(classRefPrefix):], true
	}
	return named, false
}

func voidType() ast.Type     { return &ast.PrimitiveType{Name: "void"} }
func intType() ast.Type      { return &ast.PrimitiveType{Name: "int"} }
func longType() ast.Type     { return &ast.PrimitiveType{Name: "long"} }
func floatType() ast.Type    { return &ast.PrimitiveType{Name: "float"} }
func boolType() ast.Type     { return &ast.PrimitiveType{Name: "boolean"} }
func bitType() ast.Type      { return &ast.PrimitiveType{Name: "bit"} }
func charType() ast.Type     { return &ast.PrimitiveType{Name: "char"} }
func stringType() ast.Type   { return &ast.PrimitiveType{Name: "string"} }
func qubitType() ast.Type    { return &ast.PrimitiveType{Name: "qubit"} }
