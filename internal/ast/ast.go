// Package ast defines the Bloch abstract syntax tree. Every node carries a
// source Position (spec §3 "Invariants: every AST node has a resolved
// source location") and, once the parser hands the tree to the analyser,
// is never mutated again except for the analyser's array-size cache
// (spec §3 "Lifecycles").
package ast

import "github.com/bloch-lang/bloch/internal/lexer"

// Node is the root of the AST node hierarchy.
type Node interface {
	Pos() lexer.Position
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Type is any type-grammar node (primitive, named, or array).
type Type interface {
	Node
	typeNode()
	String() string
}

// Program is the root of a parsed (and, after the module loader, merged)
// source tree.
type Program struct {
	Imports    []*Import
	Classes    []*ClassDecl
	Functions  []*FunctionDecl
	Statements []Stmt // free top-level statements, run before main
}

// Import is a dotted import path, optionally wildcarded.
type Import struct {
	Path     []string
	Wildcard bool
	Position lexer.Position
}

func (i *Import) Pos() lexer.Position { return i.Position }
