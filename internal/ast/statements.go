package ast

import "github.com/bloch-lang/bloch/internal/lexer"

// VarDecl declares one local variable or (inside `qubit a, b, c;`) is one
// of several declarations produced from a single grammar production; the
// parser flushes the overflow ones via its staging queue (spec §4.2,
// §9 "Parser overflow queue").
type VarDecl struct {
	IsFinal     bool
	Annotations []Annotation
	Type        Type
	Name        string
	Init        Expr // nil if uninitialised
	Position    lexer.Position
}

func (v *VarDecl) Pos() lexer.Position { return v.Position }
func (v *VarDecl) stmtNode()           {}

// Annotation is `@tracked`, `@quantum`, or `@shots(N)`.
type Annotation struct {
	Name     string
	Arg      *int // non-nil only for @shots(N)
	Position lexer.Position
}

// BlockStmt is `{ stmt* }`.
type BlockStmt struct {
	Stmts    []Stmt
	Position lexer.Position
}

func (b *BlockStmt) Pos() lexer.Position { return b.Position }
func (b *BlockStmt) stmtNode()           {}

// ExprStmt is an expression evaluated for its side effect.
type ExprStmt struct {
	Expr     Expr
	Position lexer.Position
}

func (e *ExprStmt) Pos() lexer.Position { return e.Position }
func (e *ExprStmt) stmtNode()           {}

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	Value    Expr // nil for bare `return;`
	Position lexer.Position
}

func (r *ReturnStmt) Pos() lexer.Position { return r.Position }
func (r *ReturnStmt) stmtNode()           {}

// IfStmt is `if (cond) then [else else_]`.
type IfStmt struct {
	Cond     Expr
	Then     Stmt
	Else     Stmt // nil if no else clause
	Position lexer.Position
}

func (i *IfStmt) Pos() lexer.Position { return i.Position }
func (i *IfStmt) stmtNode()           {}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Cond     Expr
	Body     Stmt
	Position lexer.Position
}

func (w *WhileStmt) Pos() lexer.Position { return w.Position }
func (w *WhileStmt) stmtNode()           {}

// ForStmt is `for (init; cond; post) body`. Init and Post may be nil.
type ForStmt struct {
	Init     Stmt
	Cond     Expr
	Post     Stmt
	Body     Stmt
	Position lexer.Position
}

func (f *ForStmt) Pos() lexer.Position { return f.Position }
func (f *ForStmt) stmtNode()           {}

// EchoStmt is `echo(expr);`.
type EchoStmt struct {
	Value    Expr
	Position lexer.Position
}

func (e *EchoStmt) Pos() lexer.Position { return e.Position }
func (e *EchoStmt) stmtNode()           {}

// ResetStmt is `reset expr;`.
type ResetStmt struct {
	Target   Expr
	Position lexer.Position
}

func (r *ResetStmt) Pos() lexer.Position { return r.Position }
func (r *ResetStmt) stmtNode()           {}

// MeasureStmt is `measure expr;` used in statement position (the result
// is discarded; see MeasureExpr for the value-producing form).
type MeasureStmt struct {
	Target   Expr
	Position lexer.Position
}

func (m *MeasureStmt) Pos() lexer.Position { return m.Position }
func (m *MeasureStmt) stmtNode()           {}

// DestroyStmt is `destroy expr;`.
type DestroyStmt struct {
	Target   Expr
	Position lexer.Position
}

func (d *DestroyStmt) Pos() lexer.Position { return d.Position }
func (d *DestroyStmt) stmtNode()           {}

// AssignStmt is `target = value;` where target is a variable, member, or
// array-element lvalue.
type AssignStmt struct {
	Target   Expr
	Value    Expr
	Position lexer.Position
}

func (a *AssignStmt) Pos() lexer.Position { return a.Position }
func (a *AssignStmt) stmtNode()           {}

// TernaryStmt is `cond ? thenStmt : elseStmt;` used as a control-flow
// shorthand at statement level (distinct from TernaryExpr, which
// produces a value).
type TernaryStmt struct {
	Cond     Expr
	Then     Stmt
	Else     Stmt
	Position lexer.Position
}

func (t *TernaryStmt) Pos() lexer.Position { return t.Position }
func (t *TernaryStmt) stmtNode()           {}
