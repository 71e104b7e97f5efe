package parser

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
)

// parseExpression parses a full expression at the lowest precedence level
// (assignment, right-associative).
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.ASSIGN) {
		tok := p.advance()
		value, err := p.parseAssignment() // right-associative
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Target: left, Op: "=", Value: value, Position: pos(tok)}, nil
	}
	return left, nil
}

func (p *Parser) parseTernary() (ast.Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
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
		return &ast.TernaryExpr{Cond: cond, Then: then, Else: els, Position: pos(tok)}, nil
	}
	return cond, nil
}

func (p *Parser) parseBinaryLevel(ops map[lexer.Type]string, next func(*Parser) (ast.Expr, error)) (ast.Expr, error) {
	left, err := next(p)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.cur().Type]
		if !ok {
			return left, nil
		}
		tok := p.advance()
		right, err := next(p)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Position: pos(tok)}
	}
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	return p.parseBinaryLevel(map[lexer.Type]string{lexer.OR: "||"}, (*Parser).parseLogicalAnd)
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	return p.parseBinaryLevel(map[lexer.Type]string{lexer.AND: "&&"}, (*Parser).parseBitOr)
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.parseBinaryLevel(map[lexer.Type]string{lexer.PIPE: "|"}, (*Parser).parseBitXor)
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.parseBinaryLevel(map[lexer.Type]string{lexer.CARET: "^"}, (*Parser).parseBitAnd)
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.parseBinaryLevel(map[lexer.Type]string{lexer.AMP: "&"}, (*Parser).parseEquality)
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.parseBinaryLevel(map[lexer.Type]string{lexer.EQ: "==", lexer.NE: "!="}, (*Parser).parseComparison)
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.parseBinaryLevel(map[lexer.Type]string{
		lexer.LT: "<", lexer.GT: ">", lexer.LE: "<=", lexer.GE: ">=",
	}, (*Parser).parseAdditive)
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.parseBinaryLevel(map[lexer.Type]string{lexer.PLUS: "+", lexer.MINUS: "-"}, (*Parser).parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.parseBinaryLevel(map[lexer.Type]string{
		lexer.STAR: "*", lexer.SLASH: "/", lexer.PERCENT: "%",
	}, (*Parser).parseUnary)
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur().Type {
	case lexer.MINUS, lexer.BANG, lexer.TILDE:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: tok.Lexeme, Operand: operand, Position: pos(tok)}, nil
	case lexer.INC, lexer.DEC:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.PostfixExpr{Op: "pre" + tok.Lexeme, Operand: operand, Position: pos(tok)}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.LPAREN:
			tok := p.advance()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Callee: expr, Args: args, Position: pos(tok)}
		case lexer.LBRACKET:
			tok := p.advance()
			if p.at(lexer.MINUS) && p.peek(1).Type == lexer.INT_LIT {
				return nil, p.errf("array index must not be a literal negative integer")
			}
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET, "']'"); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Array: expr, Index: idx, Position: pos(tok)}
		case lexer.DOT:
			p.advance()
			name, err := p.expect(lexer.IDENT, "member name")
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Object: expr, Name: name.Lexeme, Position: pos(name)}
		case lexer.INC, lexer.DEC:
			tok := p.advance()
			expr = &ast.PostfixExpr{Op: tok.Lexeme, Operand: expr, Position: pos(tok)}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgList() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.at(lexer.RPAREN) {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		return &ast.Literal{Kind: ast.IntLit, Raw: tok.Lexeme, Position: pos(tok)}, nil
	case lexer.LONG_LIT:
		p.advance()
		return &ast.Literal{Kind: ast.LongLit, Raw: tok.Lexeme[:len(tok.Lexeme)-1], Position: pos(tok)}, nil
	case lexer.FLOAT_LIT:
		p.advance()
		return &ast.Literal{Kind: ast.FloatLit, Raw: tok.Lexeme[:len(tok.Lexeme)-1], Position: pos(tok)}, nil
	case lexer.BIT_LIT:
		p.advance()
		return &ast.Literal{Kind: ast.BitLit, Raw: tok.Lexeme[:len(tok.Lexeme)-1], Position: pos(tok)}, nil
	case lexer.CHAR_LIT:
		p.advance()
		return &ast.Literal{Kind: ast.CharLit, Raw: tok.Lexeme, Position: pos(tok)}, nil
	case lexer.STRING_LIT:
		p.advance()
		return &ast.Literal{Kind: ast.StringLit, Raw: tok.Lexeme, Position: pos(tok)}, nil
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.Literal{Kind: ast.BooleanLit, Raw: tok.Lexeme, Position: pos(tok)}, nil
	case lexer.NULL:
		p.advance()
		return &ast.NullLiteral{Position: pos(tok)}, nil
	case lexer.THIS:
		p.advance()
		return &ast.ThisExpr{Position: pos(tok)}, nil
	case lexer.SUPER:
		p.advance()
		return &ast.SuperExpr{Position: pos(tok)}, nil
	case lexer.IDENT:
		p.advance()
		return &ast.VarExpr{Name: tok.Lexeme, Position: pos(tok)}, nil
	case lexer.MEASURE:
		p.advance()
		target, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.MeasureExpr{Target: target, Position: pos(tok)}, nil
	case lexer.NEW:
		return p.parseNewExpr()
	case lexer.LBRACE:
		return p.parseArrayLiteral()
	case lexer.LPAREN:
		return p.parseParenOrCast()
	}
	return nil, p.errf("unexpected token %q in expression", tok.Lexeme)
}

func (p *Parser) parseNewExpr() (ast.Expr, error) {
	tok := p.advance() // 'new'
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	named, ok := t.(*ast.NamedType)
	if !ok {
		return nil, p.errf("'new' requires a class type")
	}
	if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return &ast.NewExpr{Type: named, Args: args, Position: pos(tok)}, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expr, error) {
	tok := p.advance() // '{'
	var elems []ast.Expr
	if !p.at(lexer.RBRACE) {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Elements: elems, Position: pos(tok)}, nil
}

// parseParenOrCast implements spec §4.2's rule: "A primary in parentheses
// that begins with a type grammar is a cast." It speculatively parses a
// type grammar after '(' and, if that is immediately followed by ')' and
// then a token that can start a unary expression, commits to a cast;
// otherwise it backtracks and parses an ordinary parenthesised expression.
func (p *Parser) parseParenOrCast() (ast.Expr, error) {
	start := p.advance() // '('

	if p.looksLikeType() {
		mark := p.mark()
		if t, ok := p.tryParseType(); ok && p.at(lexer.RPAREN) {
			afterParen := p.mark()
			p.advance() // ')'
			if p.canStartUnary() {
				operand, err := p.parseUnary()
				if err != nil {
					return nil, err
				}
				return &ast.CastExpr{Target: t, Operand: operand, Position: pos(start)}, nil
			}
			p.reset(afterParen)
		}
		p.reset(mark)
	}

	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return &ast.ParenExpr{Inner: inner, Position: pos(start)}, nil
}

func (p *Parser) canStartUnary() bool {
	switch p.cur().Type {
	case lexer.INT_LIT, lexer.LONG_LIT, lexer.FLOAT_LIT, lexer.BIT_LIT, lexer.CHAR_LIT, lexer.STRING_LIT,
		lexer.TRUE, lexer.FALSE, lexer.NULL, lexer.THIS, lexer.SUPER, lexer.IDENT,
		lexer.MEASURE, lexer.NEW, lexer.LBRACE, lexer.LPAREN,
		lexer.MINUS, lexer.BANG, lexer.TILDE, lexer.INC, lexer.DEC:
		return true
	}
	return false
}
