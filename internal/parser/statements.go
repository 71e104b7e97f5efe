package parser

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
)

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	start, err := p.expect(lexer.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	block := &ast.BlockStmt{Position: pos(start)}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
		block.Stmts = append(block.Stmts, p.flushPending()...)
	}
	if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.ECHO:
		return p.parseEcho()
	case lexer.RESET:
		return p.parseReset()
	case lexer.MEASURE:
		return p.parseMeasureStmt()
	case lexer.DESTROY:
		return p.parseDestroy()
	case lexer.FINAL, lexer.AT:
		return p.parseDeclOrAnnotatedStmt()
	}

	if p.looksLikeType() {
		if stmt, ok, err := p.tryParseDeclaration(); err != nil {
			return nil, err
		} else if ok {
			return stmt, nil
		}
	}

	return p.parseExprOrTernaryStmt()
}

// parseDeclOrAnnotatedStmt handles statements starting with `final` or a
// leading `@tracked` annotation, both of which only ever precede a
// variable declaration.
func (p *Parser) parseDeclOrAnnotatedStmt() (ast.Stmt, error) {
	stmt, ok, err := p.tryParseDeclaration()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.errf("expected a variable declaration")
	}
	return stmt, nil
}

// tryParseDeclaration implements spec §4.2's bounded-lookahead rule: after
// an optional `final`, a statement is a variable declaration iff a type
// grammar followed by an identifier appears.
func (p *Parser) tryParseDeclaration() (ast.Stmt, bool, error) {
	mark := p.mark()

	var anns []ast.Annotation
	var err error
	if p.at(lexer.AT) {
		anns, err = p.parseAnnotations()
		if err != nil {
			return nil, false, err
		}
		for _, a := range anns {
			if a.Name != "tracked" {
				return nil, false, p.errf("@%s is not valid on a variable declaration", a.Name)
			}
		}
	}

	isFinal := false
	if p.at(lexer.FINAL) {
		isFinal = true
		p.advance()
	}

	if !p.looksLikeType() {
		p.reset(mark)
		return nil, false, nil
	}

	typeMark := p.mark()
	t, ok := p.tryParseType()
	if !ok || !p.at(lexer.IDENT) {
		p.reset(mark)
		_ = typeMark
		return nil, false, nil
	}

	first, err := p.parseOneVarDecl(isFinal, anns, t)
	if err != nil {
		return nil, false, err
	}

	if p.at(lexer.COMMA) {
		if pt, ok := t.(*ast.PrimitiveType); !ok || pt.Name != "qubit" {
			return nil, false, p.errf("multiple declarations in one statement are only allowed for qubit")
		}
		for p.at(lexer.COMMA) {
			p.advance()
			nameTok, err := p.expect(lexer.IDENT, "identifier")
			if err != nil {
				return nil, false, err
			}
			p.pending = append(p.pending, &ast.VarDecl{
				IsFinal: isFinal, Annotations: anns, Type: t, Name: nameTok.Lexeme, Position: pos(nameTok),
			})
		}
	}

	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, false, err
	}
	return first, true, nil
}

func (p *Parser) parseOneVarDecl(isFinal bool, anns []ast.Annotation, t ast.Type) (*ast.VarDecl, error) {
	nameTok, err := p.expect(lexer.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{IsFinal: isFinal, Annotations: anns, Type: t, Name: nameTok.Lexeme, Position: pos(nameTok)}
	if p.at(lexer.ASSIGN) {
		p.advance()
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	return decl, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.advance()
	if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Then: then, Position: pos(start)}
	if p.at(lexer.ELSE) {
		p.advance()
		els, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := p.advance()
	if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Position: pos(start)}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	start := p.advance()
	if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}

	var initStmt ast.Stmt
	if !p.at(lexer.SEMI) {
		var err error
		if initStmt, _, err = p.forInitStatement(); err != nil {
			return nil, err
		}
	} else {
		p.advance()
	}

	var cond ast.Expr
	if !p.at(lexer.SEMI) {
		var err error
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, err
	}

	var post ast.Stmt
	if !p.at(lexer.RPAREN) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		post = exprToStmt(expr)
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &ast.ForStmt{Init: initStmt, Cond: cond, Post: post, Body: body, Position: pos(start)}, nil
}

// forInitStatement parses the for-loop init clause (a declaration or an
// expression) and consumes its trailing ';'.
func (p *Parser) forInitStatement() (ast.Stmt, bool, error) {
	if p.looksLikeType() {
		if stmt, ok, err := p.tryParseDeclaration(); err != nil {
			return nil, false, err
		} else if ok {
			return stmt, true, nil
		}
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, false, err
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, false, err
	}
	return exprToStmt(expr), true, nil
}

func exprToStmt(expr ast.Expr) ast.Stmt {
	if assign, ok := expr.(*ast.AssignExpr); ok {
		return &ast.AssignStmt{Target: assign.Target, Value: assign.Value, Position: assign.Position}
	}
	return &ast.ExprStmt{Expr: expr, Position: expr.Pos()}
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	start := p.advance()
	stmt := &ast.ReturnStmt{Position: pos(start)}
	if !p.at(lexer.SEMI) {
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseEcho() (ast.Stmt, error) {
	start := p.advance()
	if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, err
	}
	return &ast.EchoStmt{Value: val, Position: pos(start)}, nil
}

func (p *Parser) parseReset() (ast.Stmt, error) {
	start := p.advance()
	target, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, err
	}
	return &ast.ResetStmt{Target: target, Position: pos(start)}, nil
}

func (p *Parser) parseMeasureStmt() (ast.Stmt, error) {
	start := p.advance()
	target, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, err
	}
	return &ast.MeasureStmt{Target: target, Position: pos(start)}, nil
}

func (p *Parser) parseDestroy() (ast.Stmt, error) {
	start := p.advance()
	target, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, err
	}
	return &ast.DestroyStmt{Target: target, Position: pos(start)}, nil
}

// statementKeyword reports whether tt begins a statement form that is
// unambiguous with the start of an expression, used to disambiguate the
// ternary-statement form `cond ? stmt : stmt;` from the ternary-expression
// form `cond ? expr : expr` (spec §3 "Statement ... ternary statement").
func statementKeyword(tt lexer.Type) bool {
	switch tt {
	case lexer.IF, lexer.WHILE, lexer.FOR, lexer.RETURN, lexer.ECHO, lexer.RESET, lexer.MEASURE, lexer.DESTROY, lexer.LBRACE:
		return true
	}
	return false
}

func (p *Parser) parseExprOrTernaryStmt() (ast.Stmt, error) {
	cond, err := p.parseLogicalOrAssignAware()
	if err != nil {
		return nil, err
	}

	if p.at(lexer.QUESTION) && statementKeyword(p.peek(1).Type) {
		p.advance() // '?'
		then, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON, "':'"); err != nil {
			return nil, err
		}
		els, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &ast.TernaryStmt{Cond: cond, Then: then, Else: els, Position: cond.Pos()}, nil
	}

	expr, err := p.finishExpressionFrom(cond)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, err
	}
	return exprToStmt(expr), nil
}

// parseLogicalOrAssignAware parses an operand at logical-or precedence but
// still allows a trailing '=' to be picked up by finishExpressionFrom, so
// that `a = b;` and `cond ? stmt : stmt;` can share a single lookahead
// without re-parsing.
func (p *Parser) parseLogicalOrAssignAware() (ast.Expr, error) {
	return p.parseLogicalOr()
}

// finishExpressionFrom completes parsing of an expression whose leftmost
// operand (up to logical-or precedence) has already been parsed as left.
func (p *Parser) finishExpressionFrom(left ast.Expr) (ast.Expr, error) {
	if p.at(lexer.QUESTION) {
		tok := p.advance()
		then, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON, "':'"); err != nil {
			return nil, err
		}
		els, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		left = &ast.TernaryExpr{Cond: left, Then: then, Else: els, Position: pos(tok)}
	}
	if p.at(lexer.ASSIGN) {
		tok := p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Target: left, Op: "=", Value: value, Position: pos(tok)}, nil
	}
	return left, nil
}
