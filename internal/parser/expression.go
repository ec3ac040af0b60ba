package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// parseExpr: полное выражение, включая присваивание и диапазоны.
func (p *Parser) parseExpr() ast.ExprID {
	p.enter()
	defer p.leave()
	return p.parseAssignRest(p.parseRange())
}

// parseExprFrom продолжает разбор, когда левая часть уже построена
// (блочное выражение-инструкция с постфиксом: `match x {}.unwrap() + 1`).
func (p *Parser) parseExprFrom(lhs ast.ExprID) ast.ExprID {
	lhs = p.parseBinaryRest(lhs, precLowest)
	lhs = p.parseRangeRest(lhs)
	return p.parseAssignRest(lhs)
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

// parseAssignRest: присваивание правоассоциативно.
func (p *Parser) parseAssignRest(lhs ast.ExprID) ast.ExprID {
	op, compound, n, ok := p.peekAssignOp()
	if !ok {
		return lhs
	}
	opSpan := p.advanceN(n)
	rhs := p.parseAssignRest(p.parseRange())
	sp := p.exprSpan(lhs).Cover(p.exprSpan(rhs))
	if compound {
		return p.arenas.Exprs.NewAssignOp(sp, opSpan, op, lhs, rhs)
	}
	return p.arenas.Exprs.NewAssign(sp, opSpan, lhs, rhs)
}

func (p *Parser) parseRange() ast.ExprID {
	if p.atAny(token.DotDot, token.DotDotEq) {
		start := p.peek().Span
		inclusive := p.advance().Kind == token.DotDotEq
		var hi ast.ExprID
		if p.canStartExpr() {
			hi = p.parseBinary(precLogicalOr)
		}
		return p.arenas.Exprs.NewRange(p.spanFrom(start), ast.NoExprID, hi, inclusive)
	}
	return p.parseRangeRest(p.parseBinary(precLowest))
}

func (p *Parser) parseRangeRest(lo ast.ExprID) ast.ExprID {
	if !p.atAny(token.DotDot, token.DotDotEq) {
		return lo
	}
	inclusive := p.advance().Kind == token.DotDotEq
	var hi ast.ExprID
	if p.canStartExpr() {
		hi = p.parseBinary(precLogicalOr)
	}
	return p.arenas.Exprs.NewRange(p.spanFrom(p.exprSpan(lo)), lo, hi, inclusive)
}

func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	return p.parseBinaryRest(p.parseUnary(), minPrec)
}

// parseBinaryRest: цикл Пратта; `as` связывает сильнее любого бинарного.
func (p *Parser) parseBinaryRest(lhs ast.ExprID, minPrec int) ast.ExprID {
	exprs := p.arenas.Exprs
	for {
		if p.at(token.KwAs) && precCast >= minPrec {
			p.advance()
			ty := p.parseTypeNoBounds()
			lhs = exprs.NewCast(p.spanFrom(p.exprSpan(lhs)), lhs, ty)
			continue
		}
		op, prec, n, ok := p.peekBinaryOp()
		if !ok || prec < minPrec {
			return lhs
		}
		p.advanceN(n)
		rhs := p.parseBinary(prec + 1)
		lhs = exprs.NewBinary(p.exprSpan(lhs).Cover(p.exprSpan(rhs)), op, lhs, rhs)
	}
}

// parseUnary: - ! * & &mut &raw; постфиксы связывают сильнее префиксов.
func (p *Parser) parseUnary() ast.ExprID {
	exprs := p.arenas.Exprs
	tok := p.peek()
	switch tok.Kind {
	case token.Minus, token.Bang, token.Star:
		p.advance()
		x := p.parseUnary()
		op := ast.ExprUnaryNeg
		switch tok.Kind {
		case token.Bang:
			op = ast.ExprUnaryNot
		case token.Star:
			op = ast.ExprUnaryDeref
		}
		return exprs.NewUnary(p.spanFrom(tok.Span), op, x)

	case token.Amp, token.AndAnd:
		p.advance()
		raw := false
		if p.atIdent("raw") && (p.peekN(1).Kind == token.KwConst || p.peekN(1).Kind == token.KwMut) {
			p.advance()
			raw = true
			p.eat(token.KwConst)
		}
		mut := p.eat(token.KwMut)
		x := p.parseUnary()
		ref := exprs.NewRef(p.spanFrom(tok.Span), mut, raw, x)
		if tok.Kind == token.AndAnd {
			ref = exprs.NewRef(p.spanFrom(tok.Span), false, false, ref)
		}
		return ref
	}
	return p.parsePostfix(p.parsePrimary())
}

// canStartExpr: может ли текущий токен начинать выражение
// (значение у return/break, правая граница диапазона).
func (p *Parser) canStartExpr() bool {
	tok := p.peek()
	if tok.IsLiteral() || isPathStart(tok.Kind) {
		return true
	}
	switch tok.Kind {
	case token.LParen, token.LBracket, token.Lt, token.Minus, token.Bang, token.Star,
		token.Amp, token.AndAnd, token.Pipe, token.OrOr, token.DotDot, token.DotDotEq, token.Lifetime,
		token.KwIf, token.KwMatch, token.KwWhile, token.KwLoop, token.KwFor, token.KwUnsafe,
		token.KwMove, token.KwReturn, token.KwBreak, token.KwContinue, token.KwLet, token.KwAsync:
		return true
	case token.LBrace:
		return !p.noStruct
	}
	return false
}
