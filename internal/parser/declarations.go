package parser

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
)

// parseClass parses a class declaration, including its optional
// `abstract`/`static` modifiers, generic type parameters, and `: Base`
// base-class clause (spec §4.2's class grammar).
func (p *Parser) parseClass() (*ast.ClassDecl, error) {
	start := p.cur()
	decl := &ast.ClassDecl{Position: pos(start)}

	for {
		switch p.cur().Type {
		case lexer.ABSTRACT:
			decl.IsAbstract = true
			p.advance()
			continue
		case lexer.STATIC:
			decl.IsStatic = true
			p.advance()
			continue
		}
		break
	}

	if decl.IsAbstract && decl.IsStatic {
		return nil, p.errf("a class cannot be both abstract and static")
	}

	if _, err := p.expect(lexer.CLASS, "'class'"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, "class name")
	if err != nil {
		return nil, err
	}
	decl.Name = nameTok.Lexeme

	if p.at(lexer.LT) {
		p.advance()
		for {
			paramTok, err := p.expect(lexer.IDENT, "type parameter name")
			if err != nil {
				return nil, err
			}
			tp := ast.TypeParam{Name: paramTok.Lexeme}
			if p.at(lexer.COLON) {
				p.advance()
				boundTok, err := p.expect(lexer.IDENT, "bound type name")
				if err != nil {
					return nil, err
				}
				tp.Bound = &ast.NamedType{Name: boundTok.Lexeme, Position: pos(boundTok)}
			}
			decl.TypeParams = append(decl.TypeParams, tp)
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

	if p.at(lexer.COLON) {
		p.advance()
		baseTok, err := p.expect(lexer.IDENT, "base class name")
		if err != nil {
			return nil, err
		}
		decl.Base = &ast.NamedType{Name: baseTok.Lexeme, Position: pos(baseTok)}
	}

	if _, err := p.expect(lexer.LBRACE, "'{'"); err != nil {
		return nil, err
	}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if err := p.parseClassMember(decl); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
		return nil, err
	}

	return decl, nil
}

// parseClassMember parses one field, method, constructor, or destructor
// and appends it to decl.
func (p *Parser) parseClassMember(decl *ast.ClassDecl) error {
	anns, err := p.parseAnnotations()
	if err != nil {
		return err
	}

	visibility := defaultVisibility(decl)
	isStatic := false
	isVirtual := false
	isOverride := false
	isFinal := false

modifierLoop:
	for {
		switch p.cur().Type {
		case lexer.PUBLIC:
			visibility = ast.Public
			p.advance()
		case lexer.PRIVATE:
			visibility = ast.Private
			p.advance()
		case lexer.STATIC:
			isStatic = true
			p.advance()
		case lexer.VIRTUAL:
			isVirtual = true
			p.advance()
		case lexer.OVERRIDE:
			isOverride = true
			p.advance()
		case lexer.FINAL:
			isFinal = true
			p.advance()
		default:
			break modifierLoop
		}
	}

	for _, a := range anns {
		if a.Name == "quantum" || a.Name == "shots" {
			if p.at(lexer.CONSTRUCTOR) || p.at(lexer.DESTRUCTOR) {
				return p.errf("@%s is not valid on a constructor or destructor", a.Name)
			}
		}
	}

	switch p.cur().Type {
	case lexer.CONSTRUCTOR:
		ctor, err := p.parseConstructor(visibility)
		if err != nil {
			return err
		}
		decl.Constructors = append(decl.Constructors, ctor)
		return nil
	case lexer.DESTRUCTOR:
		if decl.Destructor != nil {
			return p.errf("class %s already has a destructor", decl.Name)
		}
		dtor, err := p.parseDestructor(visibility)
		if err != nil {
			return err
		}
		decl.Destructor = dtor
		return nil
	case lexer.FUNCTION:
		method, err := p.parseFunctionStyleMethod(visibility, isStatic, isVirtual, isOverride, anns)
		if err != nil {
			return err
		}
		decl.Methods = append(decl.Methods, method)
		return nil
	}

	if !p.looksLikeType() {
		return p.errf("expected a field or method declaration")
	}

	t, err := p.parseType()
	if err != nil {
		return err
	}
	nameTok, err := p.expect(lexer.IDENT, "member name")
	if err != nil {
		return err
	}

	if p.at(lexer.LPAREN) {
		method, err := p.parseMethodTail(visibility, isStatic, isVirtual, isOverride, anns, t, nameTok)
		if err != nil {
			return err
		}
		decl.Methods = append(decl.Methods, method)
		return nil
	}

	for _, a := range anns {
		if a.Name != "tracked" {
			return p.errf("@%s is not valid on a field", a.Name)
		}
	}

	field := &ast.FieldDecl{
		Visibility: visibility, IsStatic: isStatic, IsFinal: isFinal,
		IsTracked: hasAnnotation(anns, "tracked"), Type: t, Name: nameTok.Lexeme, Position: pos(nameTok),
	}
	if p.at(lexer.ASSIGN) {
		p.advance()
		init, err := p.parseExpression()
		if err != nil {
			return err
		}
		field.Init = init
	}
	if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
		return err
	}
	decl.Fields = append(decl.Fields, field)
	return nil
}

func hasAnnotation(anns []ast.Annotation, name string) bool {
	for _, a := range anns {
		if a.Name == name {
			return true
		}
	}
	return false
}

// defaultVisibility returns the default visibility for members of decl:
// public for a static class, private otherwise (spec §4.2).
func defaultVisibility(decl *ast.ClassDecl) ast.Visibility {
	if decl.IsStatic {
		return ast.Public
	}
	return ast.Private
}

func (p *Parser) parseMethodTail(vis ast.Visibility, isStatic, isVirtual, isOverride bool, anns []ast.Annotation, returnType ast.Type, nameTok lexer.Token) (*ast.MethodDecl, error) {
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	method := &ast.MethodDecl{
		Visibility: vis, IsStatic: isStatic, IsVirtual: isVirtual, IsOverride: isOverride,
		Annotations: anns, Name: nameTok.Lexeme, Params: params, ReturnType: returnType, Position: pos(nameTok),
	}
	if p.at(lexer.SEMI) {
		p.advance() // abstract method, no body
		return method, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	method.Body = body
	return method, nil
}

// parseFunctionStyleMethod parses `function name(params) -> ReturnType { body }`
// on a class member, the same `function`-keyword/arrow grammar parseFunction
// uses at the top level (spec.md §8 scenario 6: `public function get() -> T { ... }`).
func (p *Parser) parseFunctionStyleMethod(vis ast.Visibility, isStatic, isVirtual, isOverride bool, anns []ast.Annotation) (*ast.MethodDecl, error) {
	start, err := p.expect(lexer.FUNCTION, "'function'")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, "method name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	returnType, err := p.parseOptionalArrowReturnType(start)
	if err != nil {
		return nil, err
	}
	method := &ast.MethodDecl{
		Visibility: vis, IsStatic: isStatic, IsVirtual: isVirtual, IsOverride: isOverride,
		Annotations: anns, Name: nameTok.Lexeme, Params: params, ReturnType: returnType, Position: pos(nameTok),
	}
	if p.at(lexer.SEMI) {
		p.advance() // abstract method, no body
		return method, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	method.Body = body
	return method, nil
}

// parseOptionalArrowReturnType parses `-> Type`, defaulting to void if the
// arrow is absent. posTok anchors the default void type's position.
func (p *Parser) parseOptionalArrowReturnType(posTok lexer.Token) (ast.Type, error) {
	if !p.at(lexer.ARROW) {
		return &ast.PrimitiveType{Name: "void", Position: pos(posTok)}, nil
	}
	p.advance()
	return p.parseType()
}

func (p *Parser) parseConstructor(vis ast.Visibility) (*ast.ConstructorDecl, error) {
	start := p.advance() // 'constructor'
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	// `-> ClassName` is an optional, purely documentary return clause
	// (spec.md §8 scenario 6: `constructor(T v) -> Box<T> { ... }`); a
	// constructor always returns the newly instantiated object, so the
	// parsed type is consumed and discarded rather than stored.
	if p.at(lexer.ARROW) {
		p.advance()
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
	}
	ctor := &ast.ConstructorDecl{Visibility: vis, Params: params, Position: pos(start)}
	if p.at(lexer.ASSIGN) {
		p.advance()
		if _, err := p.expect(lexer.DEFAULT, "'default'"); err != nil {
			return nil, err
		}
		ctor.IsDefault = true
		if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
			return nil, err
		}
		return ctor, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	ctor.Body = body
	return ctor, nil
}

func (p *Parser) parseDestructor(vis ast.Visibility) (*ast.DestructorDecl, error) {
	start := p.advance() // 'destructor'
	if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	dtor := &ast.DestructorDecl{Visibility: vis, Position: pos(start)}
	if p.at(lexer.ASSIGN) {
		p.advance()
		if _, err := p.expect(lexer.DEFAULT, "'default'"); err != nil {
			return nil, err
		}
		dtor.IsDefault = true
		if _, err := p.expect(lexer.SEMI, "';'"); err != nil {
			return nil, err
		}
		return dtor, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	dtor.Body = body
	return dtor, nil
}

func (p *Parser) parseParamList() ([]*ast.Param, error) {
	if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var params []*ast.Param
	if p.at(lexer.RPAREN) {
		p.advance()
		return params, nil
	}
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		nameTok, err := p.expect(lexer.IDENT, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Name: nameTok.Lexeme, Type: t, Position: pos(nameTok)})
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseFunction parses a top-level function declaration, including any
// leading `@quantum`/`@shots(N)` annotations.
func (p *Parser) parseFunction() (*ast.FunctionDecl, error) {
	anns, err := p.parseAnnotations()
	if err != nil {
		return nil, err
	}
	start, err := p.expect(lexer.FUNCTION, "'function'")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	returnType, err := p.parseOptionalArrowReturnType(start)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{
		Annotations: anns, Name: nameTok.Lexeme, Params: params,
		ReturnType: returnType, Body: body, Position: pos(start),
	}, nil
}
