package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// parseBlockExpr: `{` inner-attrs stmts `}`.
func (p *Parser) parseBlockExpr(data ast.ExprBlockData) ast.ExprID {
	return p.parseBlockExprFrom(p.peek().Span, data)
}

// parseBlockExprFrom: то же, но span начинается с уже съеденного префикса (unsafe, метка).
func (p *Parser) parseBlockExprFrom(start source.Span, data ast.ExprBlockData) ast.ExprID {
	p.enter()
	defer p.leave()

	p.expect(token.LBrace)
	withStruct(p, true, func() struct{} {
		p.parseInnerAttrs()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			data.Stmts = append(data.Stmts, p.parseStmt())
		}
		return struct{}{}
	})
	p.expect(token.RBrace)
	return p.arenas.Exprs.NewBlock(p.spanFrom(start), data)
}

// parseIfExpr: if cond {..} [else if ... | else {..}]
func (p *Parser) parseIfExpr() ast.ExprID {
	start := p.expect(token.KwIf).Span
	cond := p.cond()
	then := p.parseBlockExpr(ast.ExprBlockData{})
	var els ast.ExprID
	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			els = p.parseIfExpr()
		} else {
			els = p.parseBlockExpr(ast.ExprBlockData{})
		}
	}
	return p.arenas.Exprs.NewIf(p.spanFrom(start), cond, then, els)
}

// parseMatchExpr: match x { pat [if guard] => body, ... }
func (p *Parser) parseMatchExpr() ast.ExprID {
	start := p.expect(token.KwMatch).Span
	scrutinee := p.cond()
	p.expect(token.LBrace)

	var arms []ast.MatchArm
	withStruct(p, true, func() struct{} {
		p.parseInnerAttrs()
		for !p.at(token.RBrace) {
			arms = append(arms, p.parseMatchArm())
		}
		return struct{}{}
	})
	p.expect(token.RBrace)
	return p.arenas.Exprs.NewMatch(p.spanFrom(start), scrutinee, arms)
}

func (p *Parser) parseMatchArm() ast.MatchArm {
	var arm ast.MatchArm
	arm.Attrs = p.parseOuterAttrs()
	start := p.peek().Span
	arm.Pat = p.parsePattern()
	if p.eat(token.KwIf) {
		arm.Guard = p.parseExpr()
	}
	p.expect(token.FatArrow)
	body, blockLike := p.parseStmtLikeExpr()
	arm.Body = body
	arm.Span = p.spanFrom(start)

	// после блочного тела запятая не обязательна
	if !p.eat(token.Comma) && !p.at(token.RBrace) && !blockLike {
		p.expect(token.Comma)
	}
	return arm
}

// atBlockLikeStart: начинается ли здесь выражение, заканчивающееся на `}`.
func (p *Parser) atBlockLikeStart() bool {
	switch p.peek().Kind {
	case token.LBrace, token.KwIf, token.KwMatch, token.KwWhile, token.KwLoop, token.KwFor:
		return true
	case token.KwUnsafe, token.KwConst:
		return p.peekN(1).Kind == token.LBrace
	case token.KwAsync:
		next := p.peekN(1).Kind
		return next == token.LBrace || next == token.KwMove && p.peekN(2).Kind == token.LBrace
	case token.Lifetime:
		return p.peekN(1).Kind == token.Colon
	}
	return false
}

// parseStmtLikeExpr разбирает выражение в позиции инструкции или тела match-ветки.
// Блочное выражение заканчивается на `}`, если за ним не идёт `.` или `?`.
func (p *Parser) parseStmtLikeExpr() (ast.ExprID, bool) {
	if !p.atBlockLikeStart() {
		x := p.parseExpr()
		return x, p.isBlockLike(x)
	}
	x := p.parsePrimary()
	if !p.atAny(token.Dot, token.Question) {
		return x, true
	}
	return p.parseExprFrom(p.parsePostfix(x)), false
}

func (p *Parser) parseWhileExpr(start source.Span, label string) ast.ExprID {
	p.expect(token.KwWhile)
	cond := p.cond()
	body := p.parseBlockExpr(ast.ExprBlockData{})
	return p.arenas.Exprs.NewWhile(p.spanFrom(start), label, cond, body)
}

func (p *Parser) parseLoopExpr(start source.Span, label string) ast.ExprID {
	p.expect(token.KwLoop)
	body := p.parseBlockExpr(ast.ExprBlockData{})
	return p.arenas.Exprs.NewLoop(p.spanFrom(start), label, body)
}

// parseForExpr: for pat in iter { }
func (p *Parser) parseForExpr(start source.Span, label string) ast.ExprID {
	p.expect(token.KwFor)
	data := ast.ExprForData{Label: label}
	data.Pat = p.parsePattern()
	p.expect(token.KwIn)
	data.Iter = p.cond()
	data.Body = p.parseBlockExpr(ast.ExprBlockData{})
	return p.arenas.Exprs.NewFor(p.spanFrom(start), data)
}

// isBlockLike: выражения, которые заканчиваются `}` и могут стоять инструкцией без `;`.
func (p *Parser) isBlockLike(id ast.ExprID) bool {
	e := p.arenas.Exprs.Get(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprBlock, ast.ExprIf, ast.ExprMatch, ast.ExprWhile, ast.ExprLoop, ast.ExprFor:
		return true
	case ast.ExprMacro:
		mac, _ := p.arenas.Exprs.Macro(id)
		return mac.Delim == token.LBrace
	}
	return false
}
