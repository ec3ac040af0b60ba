package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/token"
)

// parsePattern: паттерн верхнего уровня: допускает ведущий `|` и or-альтернативы.
func (p *Parser) parsePattern() ast.PatID {
	start := p.peek().Span
	p.eat(token.Pipe)
	first := p.parsePatternNoTop()
	if !p.at(token.Pipe) {
		return first
	}
	alts := []ast.PatID{first}
	for p.eat(token.Pipe) {
		alts = append(alts, p.parsePatternNoTop())
	}
	return p.arenas.Pats.NewList(ast.PatOr, p.spanFrom(start), ast.Path{}, alts)
}

// parsePatternNoTop: паттерн без or на верхнем уровне (параметры замыканий и функций).
func (p *Parser) parsePatternNoTop() ast.PatID {
	p.enter()
	defer p.leave()

	pats := p.arenas.Pats
	tok := p.peek()
	start := tok.Span

	switch tok.Kind {
	case token.Underscore:
		p.advance()
		return pats.NewSimple(ast.PatWild, tok.Span)

	case token.DotDot:
		p.advance()
		return pats.NewSimple(ast.PatRest, tok.Span)

	case token.Amp, token.AndAnd:
		p.advance()
		mut := p.eat(token.KwMut)
		inner := p.parsePatternNoTop()
		ref := pats.NewRef(p.spanFrom(start), mut, inner)
		if tok.Kind == token.AndAnd {
			ref = pats.NewRef(p.spanFrom(start), false, ref)
		}
		return ref

	case token.LParen:
		elems, single := p.parsePatList(token.LParen)
		if single {
			return elems[0]
		}
		return pats.NewList(ast.PatTuple, p.spanFrom(start), ast.Path{}, elems)

	case token.LBracket:
		elems, _ := p.parsePatList(token.LBracket)
		return pats.NewList(ast.PatSlice, p.spanFrom(start), ast.Path{}, elems)

	case token.KwRef, token.KwMut:
		return p.parseIdentPat()

	case token.Minus:
		lit := p.parsePatLitExpr()
		return p.parseRangePatRest(lit)
	}

	if _, ok := litKinds[tok.Kind]; ok {
		lit := p.parseLiteral()
		return p.parseRangePatRest(lit)
	}

	if isPathStart(tok.Kind) {
		// одиночное имя без `::`, `(`, `{`, `!` - это привязка
		next := p.peekN(1).Kind
		if tok.Kind == token.Ident && next != token.ColonColon && next != token.LParen &&
			next != token.LBrace && next != token.Bang && next != token.DotDotEq && next != token.DotDotDot {
			return p.parseIdentPat()
		}
		return p.parsePathPat()
	}

	p.fail(diag.SynExpectPattern, p.getDiagnosticSpan(), "expected pattern, found "+describe(tok))
	return ast.NoPatID
}

// parsePatList: (a, b) / [a, .., b]; single=true для `(x)` без запятой.
func (p *Parser) parsePatList(open token.Kind) (elems []ast.PatID, single bool) {
	trailingComma := false
	p.parseDelimited(open, func() {
		elems = append(elems, p.parsePattern())
		trailingComma = p.at(token.Comma)
	})
	single = open == token.LParen && len(elems) == 1 && !trailingComma
	if single {
		if pat := p.arenas.Pats.Get(elems[0]); pat != nil && pat.Kind == ast.PatRest {
			single = false
		}
	}
	return elems, single
}

// parseIdentPat: [ref] [mut] name [@ sub]
func (p *Parser) parseIdentPat() ast.PatID {
	start := p.peek().Span
	var data ast.PatIdentData
	data.ByRef = p.eat(token.KwRef)
	data.Mut = p.eat(token.KwMut)
	if p.at(token.KwSelfValue) {
		tok := p.advance()
		data.Name, data.NameSpan = tok.Text, tok.Span
	} else {
		data.Name, data.NameSpan = p.parseIdent()
	}
	if p.eat(token.At) {
		data.Sub = p.parsePatternNoTop()
	}
	return p.arenas.Pats.NewIdent(p.spanFrom(start), data)
}

// parsePathPat: None, Enum::A, Some(x), Point { x, .. }, path-границы диапазонов.
func (p *Parser) parsePathPat() ast.PatID {
	pats := p.arenas.Pats
	path := p.parsePath(pathExpr)
	switch p.peek().Kind {
	case token.Bang:
		p.advance()
		return pats.NewMacro(p.spanFrom(path.Span), p.parseMacroCall(path))
	case token.LParen:
		elems, _ := p.parsePatList(token.LParen)
		return pats.NewList(ast.PatTupleStruct, p.spanFrom(path.Span), path, elems)
	case token.LBrace:
		return p.parseStructPat(path)
	case token.DotDotEq, token.DotDotDot, token.DotDot:
		lo := p.arenas.Exprs.NewPath(path.Span, path)
		return p.parseRangePatRest(lo)
	}
	return pats.NewList(ast.PatPath, path.Span, path, nil)
}

func (p *Parser) parseStructPat(path ast.Path) ast.PatID {
	data := ast.PatStructData{Path: path}
	p.expect(token.LBrace)
	for !p.at(token.RBrace) {
		p.parseOuterAttrs()
		if p.eat(token.DotDot) {
			data.Rest = true
			break
		}
		start := p.peek().Span
		var field ast.PatField
		if (p.at(token.Ident) || p.at(token.IntLit)) && p.peekN(1).Kind == token.Colon {
			field.Name = p.advance().Text
			p.advance()
			field.Pat = p.parsePattern()
		} else {
			field.Pat = p.parseIdentPat()
			field.Shorthand = true
			if id, ok := p.arenas.Pats.Ident(field.Pat); ok {
				field.Name = id.Name
			}
		}
		field.Span = p.spanFrom(start)
		data.Fields = append(data.Fields, field)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	return p.arenas.Pats.NewStruct(p.spanFrom(path.Span), data)
}

// parsePatLitExpr: литерал с необязательным минусом.
func (p *Parser) parsePatLitExpr() ast.ExprID {
	start := p.peek().Span
	if p.eat(token.Minus) {
		if _, ok := litKinds[p.peek().Kind]; !ok {
			p.fail(diag.SynExpectPattern, p.getDiagnosticSpan(), "expected literal after '-'")
		}
		lit := p.parseLiteral()
		return p.arenas.Exprs.NewUnary(p.spanFrom(start), ast.ExprUnaryNeg, lit)
	}
	if _, ok := litKinds[p.peek().Kind]; ok {
		return p.parseLiteral()
	}
	if isPathStart(p.peek().Kind) {
		path := p.parsePath(pathExpr)
		return p.arenas.Exprs.NewPath(path.Span, path)
	}
	p.fail(diag.SynExpectPattern, p.getDiagnosticSpan(), "expected range bound")
	return ast.NoExprID
}

// parseRangePatRest: lo..=hi, lo..hi, lo... или lo.. (открытый конец).
func (p *Parser) parseRangePatRest(lo ast.ExprID) ast.PatID {
	pats := p.arenas.Pats
	start := p.exprSpan(lo)
	if !p.atAny(token.DotDotEq, token.DotDotDot, token.DotDot) {
		return pats.NewLit(start, lo)
	}
	inclusive := p.advance().Kind != token.DotDot
	var hi ast.ExprID
	if p.peek().Kind == token.Minus || p.peek().IsLiteral() || isPathStart(p.peek().Kind) {
		hi = p.parsePatLitExpr()
	}
	return pats.NewRange(p.spanFrom(start), lo, hi, inclusive)
}
