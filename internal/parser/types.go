package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// parseType разбирает тип; `dyn A + B` и `impl A + B` съедают все `+`.
func (p *Parser) parseType() ast.TypeID {
	return p.parseTypeInner(true)
}

// parseTypeNoBounds: тип без хвостовых `+ Bound` (после `->` в Fn(..) -> T и после `&`).
func (p *Parser) parseTypeNoBounds() ast.TypeID {
	return p.parseTypeInner(false)
}

func (p *Parser) parseTypeInner(allowPlus bool) ast.TypeID {
	p.enter()
	defer p.leave()

	types := p.arenas.Types
	tok := p.peek()
	start := tok.Span
	switch tok.Kind {
	case token.LParen:
		p.advance()
		if p.eat(token.RParen) {
			return types.NewTuple(p.spanFrom(start), nil)
		}
		first := p.parseType()
		if p.eat(token.RParen) {
			return types.NewParen(p.spanFrom(start), first)
		}
		elems := []ast.TypeID{first}
		for p.eat(token.Comma) && !p.at(token.RParen) {
			elems = append(elems, p.parseType())
		}
		p.expect(token.RParen)
		return types.NewTuple(p.spanFrom(start), elems)

	case token.LBracket:
		p.advance()
		elem := p.parseType()
		var length ast.ExprID
		if p.eat(token.Semicolon) {
			length = withStruct(p, true, p.parseExpr)
		}
		p.expect(token.RBracket)
		return types.NewArray(p.spanFrom(start), elem, length)

	case token.Amp, token.AndAnd:
		p.advance()
		lifetime := ""
		if p.at(token.Lifetime) {
			lifetime = p.advance().Text
		}
		mut := p.eat(token.KwMut)
		elem := p.parseTypeNoBounds()
		ref := types.NewRef(p.spanFrom(start), lifetime, mut, elem)
		if tok.Kind == token.AndAnd {
			ref = types.NewRef(p.spanFrom(start), "", false, ref)
		}
		return ref

	case token.Star:
		p.advance()
		mut := false
		switch {
		case p.eat(token.KwMut):
			mut = true
		case p.eat(token.KwConst):
		default:
			p.unexpected("'mut' or 'const' in raw pointer type")
		}
		elem := p.parseTypeNoBounds()
		return types.NewPtr(p.spanFrom(start), mut, elem)

	case token.Bang:
		p.advance()
		return types.NewSimple(ast.TypeNever, tok.Span)

	case token.Underscore:
		p.advance()
		return types.NewSimple(ast.TypeInfer, tok.Span)

	case token.KwFn, token.KwUnsafe, token.KwExtern:
		return p.parseFnPtrType()

	case token.KwFor:
		p.parseForLifetimes()
		if p.atAny(token.KwFn, token.KwUnsafe, token.KwExtern) {
			return p.parseFnPtrType()
		}
		return p.parseBareTraitObject(start, allowPlus)

	case token.KwImpl, token.KwDyn:
		p.advance()
		kind := ast.TypeImplTrait
		if tok.Kind == token.KwDyn {
			kind = ast.TypeDyn
		}
		var bounds []ast.Bound
		if allowPlus {
			bounds = p.parseBounds()
		} else {
			bounds = []ast.Bound{p.parseBound()}
		}
		if len(bounds) == 0 {
			p.fail(diag.SynExpectType, p.getDiagnosticSpan(), "expected at least one trait bound")
		}
		return types.NewBounds(kind, p.spanFrom(start), bounds)

	case token.Lt:
		self, trait, qstart := p.parseQualifiedPrefix()
		rest := p.parsePath(pathType)
		return types.NewQualified(p.spanFrom(qstart), self, trait, rest)
	}

	if isPathStart(tok.Kind) {
		path := p.parsePath(pathType)
		if p.at(token.Bang) && p.peekN(1).IsOpenDelim() {
			p.advance()
			delim, toks, _ := p.parseTokenTree()
			sp := p.spanFrom(start)
			return types.NewMacro(sp, ast.MacroCall{Path: path, Delim: delim, Tokens: toks, Span: sp})
		}
		id := types.NewPath(p.spanFrom(start), path)
		if allowPlus && p.at(token.Plus) {
			// bare trait object: Box<Error + Send> в старом синтаксисе
			bounds := []ast.Bound{{Trait: id, Span: path.Span}}
			for p.eat(token.Plus) {
				bounds = append(bounds, p.parseBound())
			}
			return types.NewBounds(ast.TypeDyn, p.spanFrom(start), bounds)
		}
		return id
	}

	p.fail(diag.SynExpectType, p.getDiagnosticSpan(), "expected type, found \""+tok.Text+"\"")
	return ast.NoTypeID
}

// parsePathType разбирает путь-тип (трейт в bound, impl Trait for ...).
func (p *Parser) parsePathType() ast.TypeID {
	start := p.peek().Span
	if p.at(token.Lt) {
		self, trait, qstart := p.parseQualifiedPrefix()
		rest := p.parsePath(pathType)
		return p.arenas.Types.NewQualified(p.spanFrom(qstart), self, trait, rest)
	}
	path := p.parsePath(pathType)
	return p.arenas.Types.NewPath(p.spanFrom(start), path)
}

func (p *Parser) parseBareTraitObject(start source.Span, allowPlus bool) ast.TypeID {
	b := p.parseBound()
	bounds := []ast.Bound{b}
	for allowPlus && p.eat(token.Plus) {
		bounds = append(bounds, p.parseBound())
	}
	return p.arenas.Types.NewBounds(ast.TypeDyn, p.spanFrom(start), bounds)
}

// parseFnPtrType: unsafe? (extern "abi")? fn(A, B) -> C
func (p *Parser) parseFnPtrType() ast.TypeID {
	start := p.peek().Span
	var data ast.TypeFnData
	data.Unsafe = p.eat(token.KwUnsafe)
	if p.eat(token.KwExtern) {
		data.ABI = "C"
		if p.at(token.StringLit) {
			data.ABI = p.advance().Text
		}
	}
	p.expect(token.KwFn)
	p.parseDelimited(token.LParen, func() {
		p.parseOuterAttrs()
		if p.at(token.DotDotDot) {
			p.advance()
			return
		}
		// именованные параметры: fn(x: u8)
		if (p.at(token.Ident) || p.at(token.Underscore)) && p.peekN(1).Kind == token.Colon && p.peekN(2).Kind != token.Colon {
			p.advance()
			p.advance()
		}
		data.Params = append(data.Params, p.parseType())
	})
	if p.eat(token.Arrow) {
		data.Ret = p.parseTypeNoBounds()
	}
	return p.arenas.Types.NewFn(p.spanFrom(start), data)
}
