package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// parseStmt разбирает одну инструкцию блока.
func (p *Parser) parseStmt() ast.StmtID {
	stmts := p.arenas.Stmts
	if tok := p.peek(); tok.Kind == token.Semicolon {
		p.advance()
		return stmts.NewEmpty(tok.Span)
	}

	attrs := p.parseOuterAttrs()
	start := p.peek().Span
	if len(attrs) > 0 {
		start = attrs[0].Span
	}

	if p.at(token.KwLet) {
		return p.parseLetStmt(start, attrs)
	}
	if p.atItemStart() {
		item := p.parseItemWith(attrs)
		return stmts.NewItem(p.spanFrom(start), item)
	}

	x, blockLike := p.parseStmtLikeExpr()
	semi := p.eat(token.Semicolon)
	if !semi && !blockLike && !p.at(token.RBrace) {
		p.expect(token.Semicolon)
	}
	return stmts.NewExpr(p.spanFrom(start), attrs, x, semi)
}

// parseLetStmt: let pat [: T] [= init [else { }]];
func (p *Parser) parseLetStmt(start source.Span, attrs ast.Attrs) ast.StmtID {
	p.expect(token.KwLet)
	var data ast.StmtLetData
	data.Pat = p.parsePattern()
	if p.eat(token.Colon) {
		data.Type = p.parseType()
	}
	if p.eat(token.Assign) {
		data.Init = p.parseExpr()
		if p.eat(token.KwElse) {
			data.Else = p.parseBlockExpr(ast.ExprBlockData{})
		}
	}
	p.expect(token.Semicolon)
	return p.arenas.Stmts.NewLet(p.spanFrom(start), attrs, data)
}

// atItemStart: начинается ли здесь item (после атрибутов).
func (p *Parser) atItemStart() bool {
	next := p.peekN(1)
	switch p.peek().Kind {
	case token.KwPub, token.KwFn, token.KwStruct, token.KwEnum, token.KwImpl, token.KwTrait,
		token.KwMod, token.KwUse, token.KwStatic, token.KwType, token.KwExtern:
		return true
	case token.KwConst:
		return next.Kind != token.LBrace
	case token.KwUnsafe:
		switch next.Kind {
		case token.KwFn, token.KwImpl, token.KwTrait, token.KwExtern, token.KwMod:
			return true
		}
	case token.KwAsync:
		return next.Kind == token.KwFn || next.Kind == token.KwUnsafe
	case token.Ident:
		switch p.peek().Text {
		case "union":
			return next.Kind == token.Ident
		case "auto":
			return next.Kind == token.KwTrait
		case "macro_rules":
			return next.Kind == token.Bang && p.peekN(2).Kind == token.Ident
		}
	}
	return false
}
