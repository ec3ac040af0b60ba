package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// pathMode задаёт, где разбирается путь: в типах `<` сразу открывает аргументы,
// в выражениях и паттернах нужен turbofish `::<`.
type pathMode uint8

const (
	pathExpr pathMode = iota
	pathType
)

func isPathStart(k token.Kind) bool {
	switch k {
	case token.Ident, token.KwSelfValue, token.KwSelfType, token.KwSuper, token.KwCrate, token.ColonColon:
		return true
	}
	return false
}

func isPathSegment(k token.Kind) bool {
	return k != token.ColonColon && isPathStart(k)
}

// parsePath: `::`? seg (`::` seg)* с generic-аргументами по режиму.
func (p *Parser) parsePath(mode pathMode) ast.Path {
	start := p.peek().Span
	var path ast.Path
	if p.eat(token.ColonColon) {
		path.Global = true
	}
	for {
		if !isPathSegment(p.peek().Kind) {
			p.fail(diag.SynExpectIdentifier, p.getDiagnosticSpan(), "expected path segment")
		}
		tok := p.advance()
		seg := ast.PathSegment{Name: tok.Text, Span: tok.Span}
		switch {
		case mode == pathType && p.at(token.Lt):
			seg.Args = p.parseGenericArgs(false)
		case mode == pathType && p.at(token.LParen):
			seg.Args = p.parseParenArgs()
		case p.at(token.ColonColon) && p.peekN(1).Kind == token.Lt:
			p.advance()
			seg.Args = p.parseGenericArgs(true)
		}
		path.Segments = append(path.Segments, seg)
		if !p.at(token.ColonColon) || !isPathSegment(p.peekN(1).Kind) {
			break
		}
		p.advance()
	}
	path.Span = p.spanFrom(start)
	return path
}

// parseGenericArgs: `<` arg (, arg)* ,? `>`
func (p *Parser) parseGenericArgs(turbofish bool) *ast.GenericArgs {
	start := p.expect(token.Lt).Span
	args := &ast.GenericArgs{Turbofish: turbofish}
	for !p.at(token.Gt) {
		args.Args = append(args.Args, p.parseGenericArg())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expectGt()
	args.Span = p.spanFrom(start)
	return args
}

func (p *Parser) parseGenericArg() ast.GenericArg {
	tok := p.peek()
	next := p.peekN(1).Kind
	switch {
	case tok.Kind == token.Lifetime:
		p.advance()
		return ast.GenericArg{Kind: ast.GenericArgLifetime, Lifetime: tok.Text, Span: tok.Span}
	case tok.Kind == token.Ident && next == token.Assign:
		p.advance()
		p.advance()
		ty := p.parseType()
		return ast.GenericArg{Kind: ast.GenericArgBinding, Name: tok.Text, Type: ty, Span: p.spanFrom(tok.Span)}
	case tok.Kind == token.Ident && next == token.Colon:
		p.advance()
		p.advance()
		p.parseBounds()
		return ast.GenericArg{Kind: ast.GenericArgBoundKey, Name: tok.Text, Span: p.spanFrom(tok.Span)}
	case tok.IsLiteral(), tok.Kind == token.Minus, tok.Kind == token.LBrace:
		var x ast.ExprID
		if tok.Kind == token.LBrace {
			x = p.parseBlockExpr(ast.ExprBlockData{})
		} else {
			x = p.parseUnary()
		}
		return ast.GenericArg{Kind: ast.GenericArgConst, Expr: x, Span: p.spanFrom(tok.Span)}
	}
	ty := p.parseType()
	return ast.GenericArg{Kind: ast.GenericArgType, Type: ty, Span: p.spanFrom(tok.Span)}
}

// parseParenArgs: Fn(A, B) -> C
func (p *Parser) parseParenArgs() *ast.GenericArgs {
	args := &ast.GenericArgs{Parenthesized: true}
	args.Span = p.parseDelimited(token.LParen, func() {
		args.Inputs = append(args.Inputs, p.parseType())
	})
	if p.eat(token.Arrow) {
		args.Output = p.parseTypeNoBounds()
		args.Span = p.spanFrom(args.Span)
	}
	return args
}

// parseBounds: bound (+ bound)*; допускается пустой список (`T:` в where).
func (p *Parser) parseBounds() []ast.Bound {
	var bounds []ast.Bound
	for p.atBoundStart() {
		bounds = append(bounds, p.parseBound())
		if !p.eat(token.Plus) {
			break
		}
	}
	return bounds
}

func (p *Parser) atBoundStart() bool {
	k := p.peek().Kind
	return k == token.Lifetime || k == token.Question || k == token.LParen || k == token.Tilde ||
		k == token.KwFor || k == token.KwConst || k == token.Lt || isPathStart(k)
}

func (p *Parser) parseBound() ast.Bound {
	start := p.peek().Span
	if tok := p.peek(); tok.Kind == token.Lifetime {
		p.advance()
		return ast.Bound{Lifetime: tok.Text, Span: tok.Span}
	}
	if p.at(token.LParen) {
		p.advance()
		b := p.parseBound()
		p.expect(token.RParen)
		b.Span = p.spanFrom(start)
		return b
	}
	var b ast.Bound
	if p.eat(token.Question) {
		b.Maybe = true
	}
	if p.eat(token.Tilde) {
		p.expect(token.KwConst)
	} else {
		p.eat(token.KwConst)
	}
	if p.at(token.KwFor) {
		p.parseForLifetimes()
	}
	b.Trait = p.parsePathType()
	b.Span = p.spanFrom(start)
	return b
}

// parseForLifetimes: for<'a, 'b>
func (p *Parser) parseForLifetimes() {
	p.expect(token.KwFor)
	p.expect(token.Lt)
	for p.at(token.Lifetime) {
		p.advance()
		if p.eat(token.Colon) {
			p.parseBounds()
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expectGt()
}

// parseQualifiedPrefix: `<T as Trait>::` - возвращает self-тип и трейт.
func (p *Parser) parseQualifiedPrefix() (self, trait ast.TypeID, start source.Span) {
	start = p.expect(token.Lt).Span
	self = p.parseType()
	if p.eat(token.KwAs) {
		trait = p.parsePathType()
	}
	p.expectGt()
	p.expect(token.ColonColon)
	return self, trait, start
}
