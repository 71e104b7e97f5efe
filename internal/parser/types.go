package parser

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
)

var primitiveNames = map[lexer.Type]string{
	lexer.INT_KW:     "int",
	lexer.LONG_KW:    "long",
	lexer.FLOAT_KW:   "float",
	lexer.BIT_KW:     "bit",
	lexer.BOOLEAN_KW: "boolean",
	lexer.CHAR_KW:    "char",
	lexer.STRING_KW:  "string",
	lexer.QUBIT_KW:   "qubit",
	lexer.VOID_KW:    "void",
}

// looksLikeType reports whether the token at the parser's current
// position could begin a type grammar: a primitive keyword, or an
// identifier (the start of a dotted named-type chain).
func (p *Parser) looksLikeType() bool {
	if _, ok := primitiveNames[p.cur().Type]; ok {
		return true
	}
	return p.at(lexer.IDENT)
}

// tryParseType speculatively parses a type grammar, backtracking to mark
// and returning ok=false if the tokens at the current position do not form
// one. Used by declaration disambiguation (spec §4.2) and cast parsing.
func (p *Parser) tryParseType() (ast.Type, bool) {
	mark := p.mark()
	t, err := p.parseType()
	if err != nil {
		p.reset(mark)
		return nil, false
	}
	return t, true
}

// parseType parses: primitive | dotted-ident ('<' type (',' type)* '>')?
// followed by zero or more '[' [size-expr] ']' suffixes.
func (p *Parser) parseType() (ast.Type, error) {
	start := p.cur()
	var base ast.Type

	if name, ok := primitiveNames[p.cur().Type]; ok {
		p.advance()
		base = &ast.PrimitiveType{Name: name, Position: pos(start)}
	} else {
		nameTok, err := p.expect(lexer.IDENT, "type name")
		if err != nil {
			return nil, err
		}
		name := nameTok.Lexeme
		for p.at(lexer.DOT) {
			p.advance()
			part, err := p.expect(lexer.IDENT, "identifier")
			if err != nil {
				return nil, err
			}
			name += "." + part.Lexeme
		}
		named := &ast.NamedType{Name: name, Position: pos(start)}
		if p.at(lexer.LT) {
			p.advance()
			for {
				arg, err := p.parseType()
				if err != nil {
					return nil, err
				}
				named.TypeArgs = append(named.TypeArgs, arg)
				if p.at(lexer.COMMA) {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expect(lexer.GT, "'>'"); err != nil {
				return nil, err
			}
		}
		base = named
	}

	for p.at(lexer.LBRACKET) {
		lb := p.advance()
		var size ast.Expr
		if !p.at(lexer.RBRACKET) {
			if p.at(lexer.MINUS) && p.peek(1).Type == lexer.INT_LIT {
				return nil, p.errf("array size must not be a literal negative integer")
			}
			var err error
			size, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.RBRACKET, "']'"); err != nil {
			return nil, err
		}
		base = &ast.ArrayType{Elem: base, Size: size, Position: pos(lb)}
	}

	return base, nil
}
