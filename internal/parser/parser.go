// Package parser implements Bloch's recursive-descent parser (spec §4.2).
// It consumes a pre-scanned token stream and produces an *ast.Program,
// failing fast at the first syntax error in the current top-level
// construct, per spec §7's phase-local fail-fast policy.
package parser

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/errors"
	"github.com/bloch-lang/bloch/internal/lexer"
)

// Parser holds the token stream and parse position.
type Parser struct {
	tokens []lexer.Token
	pos    int
	source string
	file   string

	// pending holds statements staged by a multi-declaration production
	// (`qubit a, b, c;`) beyond the first, to be flushed by the caller
	// after the statement that produced them (spec §9 "Parser overflow
	// queue").
	pending []ast.Stmt
}

// New creates a Parser over source, tokenizing it first. file is used only
// to annotate error messages.
func New(source, file string) (*Parser, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		if ce, ok := errors.As(err); ok {
			ce.WithSource(source, file)
		}
		return nil, err
	}
	return &Parser{tokens: tokens, source: source, file: file}, nil
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.pos] }
func (p *Parser) peek(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[idx]
}

func (p *Parser) at(tt lexer.Type) bool { return p.cur().Type == tt }

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) errf(format string, args ...any) error {
	pos := errors.Position{Line: p.cur().Pos.Line, Column: p.cur().Pos.Column}
	return errors.New(errors.Parse, pos, format, args...).WithSource(p.source, p.file)
}

func (p *Parser) expect(tt lexer.Type, what string) (lexer.Token, error) {
	if !p.at(tt) {
		return lexer.Token{}, p.errf("expected %s, found %q", what, p.cur().Lexeme)
	}
	return p.advance(), nil
}

// mark/reset implement the backtracking the cast-vs-paren and
// declaration-vs-statement disambiguations need (spec §4.2).
func (p *Parser) mark() int        { return p.pos }
func (p *Parser) reset(mark int)   { p.pos = mark }

func pos(tok lexer.Token) lexer.Position { return tok.Pos }

// ParseProgram parses the entire token stream.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for !p.at(lexer.EOF) {
		switch {
		case p.at(lexer.IMPORT):
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			prog.Imports = append(prog.Imports, imp)

		case p.at(lexer.ABSTRACT) || p.at(lexer.STATIC) || p.at(lexer.CLASS):
			cls, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			prog.Classes = append(prog.Classes, cls)

		case p.at(lexer.FUNCTION) || (p.at(lexer.AT) && p.annotationsPrecedeFunction()):
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, fn)

		default:
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			prog.Statements = append(prog.Statements, stmt)
			prog.Statements = append(prog.Statements, p.flushPending()...)
		}
	}

	return prog, nil
}

func (p *Parser) flushPending() []ast.Stmt {
	pending := p.pending
	p.pending = nil
	return pending
}

func (p *Parser) parseImport() (*ast.Import, error) {
	start := p.advance() // 'import'
	var path []string
	tok, err := p.expect(lexer.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	path = append(path, tok.Lexeme)
	wildcard := false
	for p.at(lexer.DOT) {
		p.advance()
		if p.at(lexer.STAR) {
			p.advance()
			wildcard = true
			break
		}
		tok, err := p.expect(lexer.IDENT, "identifier")
		if err != nil {
			return nil, err
		}
		path = append(path, tok.Lexeme)
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return nil, err
	}
	return &ast.Import{Path: path, Wildcard: wildcard, Position: pos(start)}, nil
}

func (p *Parser) parseAnnotations() ([]ast.Annotation, error) {
	var anns []ast.Annotation
	for p.at(lexer.AT) {
		start := p.advance()
		name, err := p.expect(lexer.IDENT, "annotation name")
		if err != nil {
			return nil, err
		}
		ann := ast.Annotation{Name: name.Lexeme, Position: pos(start)}
		if ann.Name == "shots" {
			if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
				return nil, err
			}
			n, err := p.expect(lexer.INT_LIT, "integer literal")
			if err != nil {
				return nil, err
			}
			val := parseIntLexeme(n.Lexeme)
			ann.Arg = &val
			if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
				return nil, err
			}
		}
		anns = append(anns, ann)
	}
	return anns, nil
}

// annotationsPrecedeFunction looks past a run of `@name` / `@name(n)`
// annotations, without consuming any tokens, to decide whether they lead
// into a top-level function declaration (`@quantum`/`@shots`) rather than
// a top-level tracked variable declaration (`@tracked`).
func (p *Parser) annotationsPrecedeFunction() bool {
	i := p.pos
	for i < len(p.tokens) && p.tokens[i].Type == lexer.AT {
		i++
		if i >= len(p.tokens) || p.tokens[i].Type != lexer.IDENT {
			return false
		}
		name := p.tokens[i].Lexeme
		i++
		if name == "shots" && i < len(p.tokens) && p.tokens[i].Type == lexer.LPAREN {
			for i < len(p.tokens) && p.tokens[i].Type != lexer.RPAREN {
				i++
			}
			if i < len(p.tokens) {
				i++ // ')'
			}
		}
	}
	return i < len(p.tokens) && p.tokens[i].Type == lexer.FUNCTION
}

func parseIntLexeme(lexeme string) int {
	n := 0
	for _, r := range lexeme {
		n = n*10 + int(r-'0')
	}
	return n
}
