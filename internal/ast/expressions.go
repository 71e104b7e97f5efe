package ast

import "github.com/bloch-lang/bloch/internal/lexer"

// LiteralKind tags the kind of a Literal node, used directly by the
// analyser's literal-kind lattice (spec §4.4.4).
type LiteralKind int

const (
	IntLit LiteralKind = iota
	LongLit
	FloatLit
	BitLit
	BooleanLit
	CharLit
	StringLit
)

// Literal is a tagged literal value. Raw preserves the lexeme exactly as
// written (without its suffix), so the evaluator can parse it with the
// right numeric width.
type Literal struct {
	Kind     LiteralKind
	Raw      string
	Position lexer.Position
}

func (l *Literal) Pos() lexer.Position { return l.Position }
func (l *Literal) exprNode()           {}

// NullLiteral is the `null` keyword used at class-reference positions.
type NullLiteral struct{ Position lexer.Position }

func (n *NullLiteral) Pos() lexer.Position { return n.Position }
func (n *NullLiteral) exprNode()           {}

// VarExpr references a variable, field, function, or class name by
// identifier; which it resolves to is decided by the analyser/evaluator,
// not the parser.
type VarExpr struct {
	Name     string
	Position lexer.Position
}

func (v *VarExpr) Pos() lexer.Position { return v.Position }
func (v *VarExpr) exprNode()           {}

// ThisExpr is the `this` keyword.
type ThisExpr struct{ Position lexer.Position }

func (t *ThisExpr) Pos() lexer.Position { return t.Position }
func (t *ThisExpr) exprNode()           {}

// SuperExpr is the `super` keyword, valid only as a call target inside a
// constructor body (spec §4.5.2).
type SuperExpr struct{ Position lexer.Position }

func (s *SuperExpr) Pos() lexer.Position { return s.Position }
func (s *SuperExpr) exprNode()           {}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Op       string
	Left     Expr
	Right    Expr
	Position lexer.Position
}

func (b *BinaryExpr) Pos() lexer.Position { return b.Position }
func (b *BinaryExpr) exprNode()           {}

// UnaryExpr is a prefix unary operator application (-, !, ~).
type UnaryExpr struct {
	Op       string
	Operand  Expr
	Position lexer.Position
}

func (u *UnaryExpr) Pos() lexer.Position { return u.Position }
func (u *UnaryExpr) exprNode()           {}

// PostfixExpr is a ++/-- application. Postfix forms carry Op "++" or
// "--"; the prefix forms are parsed into the same node with Op "pre++"
// or "pre--".
type PostfixExpr struct {
	Op       string
	Operand  Expr
	Position lexer.Position
}

func (p *PostfixExpr) Pos() lexer.Position { return p.Position }
func (p *PostfixExpr) exprNode()           {}

// CastExpr is `(Target) Operand`.
type CastExpr struct {
	Target   Type
	Operand  Expr
	Position lexer.Position
}

func (c *CastExpr) Pos() lexer.Position { return c.Position }
func (c *CastExpr) exprNode()           {}

// CallExpr is a function or method call. Callee is a VarExpr for a
// top-level function call, or a MemberExpr for a method call.
type CallExpr struct {
	Callee   Expr
	Args     []Expr
	Position lexer.Position
}

func (c *CallExpr) Pos() lexer.Position { return c.Position }
func (c *CallExpr) exprNode()           {}

// IndexExpr is `Array[Index]`.
type IndexExpr struct {
	Array    Expr
	Index    Expr
	Position lexer.Position
}

func (i *IndexExpr) Pos() lexer.Position { return i.Position }
func (i *IndexExpr) exprNode()           {}

// MemberExpr is `Object.Name`.
type MemberExpr struct {
	Object   Expr
	Name     string
	Position lexer.Position
}

func (m *MemberExpr) Pos() lexer.Position { return m.Position }
func (m *MemberExpr) exprNode()           {}

// AssignExpr is an assignment used in expression position (e.g. a for
// loop's post-clause `i = i + 1`). Target may be a VarExpr, MemberExpr,
// or IndexExpr.
type AssignExpr struct {
	Target   Expr
	Op       string // "=", or "+=" etc. if the grammar is extended later
	Value    Expr
	Position lexer.Position
}

func (a *AssignExpr) Pos() lexer.Position { return a.Position }
func (a *AssignExpr) exprNode()           {}

// ArrayLiteral is `{e1, e2, ...}`.
type ArrayLiteral struct {
	Elements []Expr
	Position lexer.Position
}

func (a *ArrayLiteral) Pos() lexer.Position { return a.Position }
func (a *ArrayLiteral) exprNode()           {}

// ParenExpr is a parenthesised expression, kept distinct from its inner
// expression so the parser's cast-vs-parenthesised-expr disambiguation
// has somewhere to record the source location of the parens.
type ParenExpr struct {
	Inner    Expr
	Position lexer.Position
}

func (p *ParenExpr) Pos() lexer.Position { return p.Position }
func (p *ParenExpr) exprNode()           {}

// MeasureExpr is `measure expr` used where a value is expected.
type MeasureExpr struct {
	Target   Expr
	Position lexer.Position
}

func (m *MeasureExpr) Pos() lexer.Position { return m.Position }
func (m *MeasureExpr) exprNode()           {}

// NewExpr is `new C(args)`, possibly with generic type arguments on C.
type NewExpr struct {
	Type     *NamedType
	Args     []Expr
	Position lexer.Position
}

func (n *NewExpr) Pos() lexer.Position { return n.Position }
func (n *NewExpr) exprNode()           {}

// TernaryExpr is `cond ? then : else` in expression position.
type TernaryExpr struct {
	Cond     Expr
	Then     Expr
	Else     Expr
	Position lexer.Position
}

func (t *TernaryExpr) Pos() lexer.Position { return t.Position }
func (t *TernaryExpr) exprNode()           {}
