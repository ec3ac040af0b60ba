package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// parseFnItem: [const] [async] [unsafe] [extern "abi"] fn name<G>(params) [-> T] [where] (body | ;)
func (p *Parser) parseFnItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	var fn ast.FnItem
	fn.Const = p.eat(token.KwConst)
	fn.Async = p.eat(token.KwAsync)
	fn.Unsafe = p.eat(token.KwUnsafe)
	if p.atIdent("safe") {
		p.advance()
	}
	if p.eat(token.KwExtern) {
		fn.ABI = "C"
		if p.at(token.StringLit) {
			fn.ABI = trimQuotes(p.advance().Text)
		}
	}
	p.expect(token.KwFn)
	h.Name, h.NameSpan = p.parseIdent()
	fn.Generics.Params = p.parseGenericParams()
	fn.Params, fn.Variadic = p.parseFnParams()
	if p.eat(token.Arrow) {
		fn.Ret = p.parseTypeNoBounds()
	}
	fn.Generics.Where = p.parseWhereClause()
	if !p.eat(token.Semicolon) {
		fn.Body = p.parseBlockExpr(ast.ExprBlockData{})
	}
	return p.arenas.Items.NewFn(p.spanFrom(start), h, fn)
}

// parseFnParams: (self-param?, name: T, ...)
func (p *Parser) parseFnParams() (params []ast.FnParam, variadic bool) {
	p.parseDelimited(token.LParen, func() {
		attrs := p.parseOuterAttrs()
		start := p.peek().Span
		if len(attrs) > 0 {
			start = attrs[0].Span
		}
		if p.at(token.DotDotDot) {
			p.advance()
			variadic = true
			return
		}
		param := ast.FnParam{Attrs: attrs}
		if self, ok := p.parseSelfParam(&param); ok {
			param.Self = self
		} else {
			param.Pat = p.parsePatternNoTop()
			p.expect(token.Colon)
			if p.at(token.DotDotDot) {
				p.advance()
				variadic = true
			} else {
				param.Type = p.parseType()
			}
		}
		param.Span = p.spanFrom(start)
		params = append(params, param)
	})
	return params, variadic
}

// parseSelfParam распознаёт self, mut self, &self, &'a mut self и self: T.
func (p *Parser) parseSelfParam(param *ast.FnParam) (ast.SelfKind, bool) {
	pats := p.arenas.Pats
	switch {
	case p.at(token.Amp):
		n := 1
		if p.peekN(n).Kind == token.Lifetime {
			n++
		}
		mut := false
		if p.peekN(n).Kind == token.KwMut {
			mut = true
			n++
		}
		if p.peekN(n).Kind != token.KwSelfValue {
			return ast.SelfNone, false
		}
		p.advanceN(n)
		tok := p.advance()
		param.Pat = pats.NewIdent(tok.Span, ast.PatIdentData{Name: "self", NameSpan: tok.Span})
		if mut {
			return ast.SelfRefMut, true
		}
		return ast.SelfRef, true

	case p.at(token.KwSelfValue) && p.peekN(1).Kind != token.ColonColon,
		p.at(token.KwMut) && p.peekN(1).Kind == token.KwSelfValue:
		mut := p.eat(token.KwMut)
		tok := p.advance()
		param.Pat = pats.NewIdent(tok.Span, ast.PatIdentData{Name: "self", NameSpan: tok.Span, Mut: mut})
		if p.eat(token.Colon) {
			param.Type = p.parseType()
		}
		return ast.SelfValue, true
	}
	return ast.SelfNone, false
}

// parseGenericParams: <'a: 'b, T: Bound = Default, const N: usize = 1>
func (p *Parser) parseGenericParams() []ast.GenericParam {
	if !p.at(token.Lt) {
		return nil
	}
	var params []ast.GenericParam
	p.advance()
	for !p.at(token.Gt) {
		p.parseOuterAttrs()
		params = append(params, p.parseGenericParam())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expectGt()
	return params
}

func (p *Parser) parseGenericParam() ast.GenericParam {
	tok := p.peek()
	start := tok.Span
	switch tok.Kind {
	case token.Lifetime:
		p.advance()
		gp := ast.GenericParam{Kind: ast.GenericParamLifetime, Name: tok.Text}
		if p.eat(token.Colon) {
			gp.Bounds = p.parseBounds()
		}
		gp.Span = p.spanFrom(start)
		return gp
	case token.KwConst:
		p.advance()
		gp := ast.GenericParam{Kind: ast.GenericParamConst}
		gp.Name, _ = p.parseIdent()
		p.expect(token.Colon)
		gp.Type = p.parseType()
		if p.eat(token.Assign) {
			// значение по умолчанию: литерал или блок
			if p.at(token.LBrace) {
				p.parseBlockExpr(ast.ExprBlockData{})
			} else {
				p.parseUnary()
			}
		}
		gp.Span = p.spanFrom(start)
		return gp
	}
	gp := ast.GenericParam{Kind: ast.GenericParamType}
	gp.Name, _ = p.parseIdent()
	if p.eat(token.Colon) {
		gp.Bounds = p.parseBounds()
	}
	if p.eat(token.Assign) {
		gp.Default = p.parseType()
	}
	gp.Span = p.spanFrom(start)
	return gp
}

// parseWhereClause: where T: A + B, 'a: 'b, for<'x> F: Fn(&'x u8),
func (p *Parser) parseWhereClause() []ast.WherePredicate {
	if !p.eat(token.KwWhere) {
		return nil
	}
	var preds []ast.WherePredicate
	for !p.atAny(token.LBrace, token.Semicolon, token.Assign, token.EOF) {
		start := p.peek().Span
		var pred ast.WherePredicate
		if tok := p.peek(); tok.Kind == token.Lifetime {
			p.advance()
			pred.Lifetime = tok.Text
		} else {
			if p.at(token.KwFor) {
				p.parseForLifetimes()
			}
			pred.Type = p.parseType()
		}
		p.expect(token.Colon)
		pred.Bounds = p.parseBounds()
		pred.Span = p.spanFrom(start)
		preds = append(preds, pred)
		if !p.eat(token.Comma) {
			break
		}
	}
	return preds
}
