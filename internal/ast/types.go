package ast

import (
	"strings"

	"github.com/bloch-lang/bloch/internal/lexer"
)

// PrimitiveType is one of int, long, float, bit, boolean, char, string,
// qubit, void.
type PrimitiveType struct {
	Name     string
	Position lexer.Position
}

func (p *PrimitiveType) Pos() lexer.Position { return p.Position }
func (p *PrimitiveType) typeNode()           {}
func (p *PrimitiveType) String() string      { return p.Name }

// NamedType is a (possibly generic) reference to a declared class, e.g.
// `Box<int>` or `Shape`.
type NamedType struct {
	Name     string
	TypeArgs []Type
	Position lexer.Position
}

func (n *NamedType) Pos() lexer.Position { return n.Position }
func (n *NamedType) typeNode()           {}
func (n *NamedType) String() string {
	if len(n.TypeArgs) == 0 {
		return n.Name
	}
	args := make([]string, len(n.TypeArgs))
	for i, a := range n.TypeArgs {
		args[i] = a.String()
	}
	return n.Name + "<" + strings.Join(args, ", ") + ">"
}

// ArrayType is an element type with an optional compile-time size
// expression. Size == nil means an unsized dynamic array (`T[]`);
// otherwise it is a fixed-size array (`T[N]`). ResolvedSize is filled in
// by the analyser once Size is known to be a compile-time constant — the
// one mutation the AST permits after parsing (spec §3 "Lifecycles").
type ArrayType struct {
	Elem         Type
	Size         Expr
	ResolvedSize int
	Position     lexer.Position
}

func (a *ArrayType) Pos() lexer.Position { return a.Position }
func (a *ArrayType) typeNode()           {}
func (a *ArrayType) String() string {
	if a.Size == nil {
		return a.Elem.String() + "[]"
	}
	return a.Elem.String() + "[N]"
}
