package ast

import "github.com/bloch-lang/bloch/internal/lexer"

// Visibility is public or private. Static classes default members to
// public; every other class defaults to private (spec §4.2).
type Visibility int

const (
	Private Visibility = iota
	Public
)

// TypeParam is a class generic parameter with an optional named-type
// upper bound.
type TypeParam struct {
	Name  string
	Bound *NamedType // nil if unbounded
}

// Param is a function/method/constructor parameter.
type Param struct {
	Name     string
	Type     Type
	Position lexer.Position
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	Name         string
	TypeParams   []TypeParam
	Base         *NamedType // nil if no explicit base
	IsAbstract   bool       // `abstract class`
	IsStatic     bool       // `static class`
	Fields       []*FieldDecl
	Methods      []*MethodDecl
	Constructors []*ConstructorDecl
	Destructor   *DestructorDecl // nil if none declared
	Position     lexer.Position
}

func (c *ClassDecl) Pos() lexer.Position { return c.Position }

// FieldDecl is a class field.
type FieldDecl struct {
	Visibility Visibility
	IsStatic   bool
	IsFinal    bool
	IsTracked  bool
	Type       Type
	Name       string
	Init       Expr // nil if no declaration initialiser
	Position   lexer.Position
}

func (f *FieldDecl) Pos() lexer.Position { return f.Position }

// MethodDecl is a class method.
type MethodDecl struct {
	Visibility  Visibility
	IsStatic    bool
	IsVirtual   bool
	IsOverride  bool
	Annotations []Annotation
	Name        string
	Params      []*Param
	ReturnType  Type
	Body        *BlockStmt // nil for an abstract method (no body)
	Position    lexer.Position
}

func (m *MethodDecl) Pos() lexer.Position { return m.Position }

// IsAbstract reports whether this method declaration has no body, making
// it the unimplemented virtual method of an abstract class.
func (m *MethodDecl) IsAbstract() bool { return m.Body == nil }

// ConstructorDecl is a class constructor.
type ConstructorDecl struct {
	Visibility Visibility
	Params     []*Param
	Body       *BlockStmt // nil if IsDefault
	IsDefault  bool       // `= default`
	Position   lexer.Position
}

func (c *ConstructorDecl) Pos() lexer.Position { return c.Position }

// DestructorDecl is a class destructor. At most one per class
// (spec §3 "Invariants").
type DestructorDecl struct {
	Visibility Visibility
	Body       *BlockStmt
	IsDefault  bool
	Position   lexer.Position
}

func (d *DestructorDecl) Pos() lexer.Position { return d.Position }

// FunctionDecl is a top-level function.
type FunctionDecl struct {
	Annotations []Annotation
	Name        string
	Params      []*Param
	ReturnType  Type
	Body        *BlockStmt
	Position    lexer.Position
}

func (f *FunctionDecl) Pos() lexer.Position { return f.Position }

// HasAnnotation reports whether the function carries an annotation with
// the given name (without its leading '@').
func (f *FunctionDecl) HasAnnotation(name string) bool {
	for _, a := range f.Annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Shots returns the function's @shots(N) argument and whether it was
// present.
func (f *FunctionDecl) Shots() (int, bool) {
	for _, a := range f.Annotations {
		if a.Name == "shots" && a.Arg != nil {
			return *a.Arg, true
		}
	}
	return 0, false
}
