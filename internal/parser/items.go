package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// parseItem разбирает один item вместе с его атрибутами.
func (p *Parser) parseItem() ast.ItemID {
	return p.parseItemWith(p.parseOuterAttrs())
}

// parseItemWith разбирает item, чьи outer-атрибуты уже собраны.
// Span item начинается с первого атрибута.
func (p *Parser) parseItemWith(attrs ast.Attrs) ast.ItemID {
	start := p.peek().Span
	if len(attrs) > 0 {
		start = attrs[0].Span
	}
	h := ast.ItemHeader{Attrs: attrs}
	h.Vis = p.parseVis()

	tok := p.peek()
	switch tok.Kind {
	case token.KwFn:
		return p.parseFnItem(start, h)
	case token.KwConst:
		// const fn / const unsafe fn / const X: T = ...
		switch p.peekN(1).Kind {
		case token.KwFn, token.KwUnsafe, token.KwAsync, token.KwExtern:
			return p.parseFnItem(start, h)
		}
		return p.parseConstItem(start, h)
	case token.KwAsync:
		return p.parseFnItem(start, h)
	case token.KwUnsafe:
		switch p.peekN(1).Kind {
		case token.KwImpl:
			return p.parseImplItem(start, h)
		case token.KwTrait:
			return p.parseTraitItem(start, h)
		case token.KwExtern:
			if p.peekN(2).Kind == token.LBrace || p.peekN(2).Kind == token.StringLit && p.peekN(3).Kind == token.LBrace {
				return p.parseExternBlock(start, h)
			}
			return p.parseFnItem(start, h)
		case token.KwMod:
			p.advance()
			return p.parseModItem(start, h)
		}
		return p.parseFnItem(start, h)
	case token.KwExtern:
		switch next := p.peekN(1); {
		case next.Kind == token.KwCrate:
			return p.parseExternCrate(start, h)
		case next.Kind == token.LBrace, next.Kind == token.StringLit && p.peekN(2).Kind == token.LBrace:
			return p.parseExternBlock(start, h)
		}
		return p.parseFnItem(start, h)
	case token.KwStatic:
		return p.parseConstItem(start, h)
	case token.KwStruct:
		return p.parseStructItem(start, h)
	case token.KwEnum:
		return p.parseEnumItem(start, h)
	case token.KwImpl:
		return p.parseImplItem(start, h)
	case token.KwTrait:
		return p.parseTraitItem(start, h)
	case token.KwMod:
		return p.parseModItem(start, h)
	case token.KwUse:
		return p.parseUseItem(start, h)
	case token.KwType:
		return p.parseTypeAliasItem(start, h)
	case token.Ident:
		switch {
		case tok.Text == "union" && p.peekN(1).Kind == token.Ident:
			return p.parseStructItem(start, h)
		case tok.Text == "auto" && p.peekN(1).Kind == token.KwTrait:
			return p.parseTraitItem(start, h)
		case tok.Text == "default" && (p.peekN(1).Kind == token.KwFn || p.peekN(1).Kind == token.KwType ||
			p.peekN(1).Kind == token.KwConst || p.peekN(1).Kind == token.KwUnsafe || p.peekN(1).Kind == token.KwImpl):
			p.advance()
			return p.parseItemAfterDefault(start, h)
		}
	}
	if isPathStart(tok.Kind) {
		return p.parseMacroItem(start, h)
	}
	p.fail(diag.SynExpectItem, p.getDiagnosticSpan(), "expected item, found "+describe(tok))
	return ast.NoItemID
}

// parseItemAfterDefault: `default fn` в специализированных impl.
func (p *Parser) parseItemAfterDefault(start source.Span, h ast.ItemHeader) ast.ItemID {
	switch p.peek().Kind {
	case token.KwType:
		return p.parseTypeAliasItem(start, h)
	case token.KwImpl:
		return p.parseImplItem(start, h)
	case token.KwConst:
		if p.peekN(1).Kind != token.KwFn {
			return p.parseConstItem(start, h)
		}
	}
	return p.parseFnItem(start, h)
}

// parseVis: pub, pub(crate), pub(super), pub(self), pub(in path), crate.
func (p *Parser) parseVis() ast.Visibility {
	if p.at(token.KwCrate) && p.peekN(1).Kind != token.ColonColon {
		p.advance()
		return ast.VisCrate
	}
	if !p.eat(token.KwPub) {
		return ast.VisPrivate
	}
	if !p.at(token.LParen) {
		return ast.VisPublic
	}
	// pub (A, B) в tuple-структуре - это уже типы, а не ограничение
	switch next := p.peekN(1).Kind; {
	case next == token.KwCrate && p.peekN(2).Kind == token.RParen:
		p.advanceN(3)
		return ast.VisCrate
	case (next == token.KwSuper || next == token.KwSelfValue) && p.peekN(2).Kind == token.RParen:
		p.advanceN(3)
		return ast.VisRestricted
	case next == token.KwIn:
		p.advance()
		p.advance()
		p.parsePath(pathExpr)
		p.expect(token.RParen)
		return ast.VisRestricted
	}
	return ast.VisPublic
}

// parseMacroItem: `declare_id!("...");`, `macro_rules! name { ... }`.
func (p *Parser) parseMacroItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	path := p.parsePath(pathExpr)
	p.expect(token.Bang)
	if name, ok := path.Ident(); ok && name == "macro_rules" && p.at(token.Ident) {
		h.Name, h.NameSpan = p.parseIdent()
	}
	mac := p.parseMacroCall(path)
	if mac.Delim != token.LBrace {
		p.expect(token.Semicolon)
	}
	return p.arenas.Items.NewMacro(p.spanFrom(start), h, mac)
}

// parseModItem: mod name; | mod name { items }
func (p *Parser) parseModItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	p.expect(token.KwMod)
	h.Name, h.NameSpan = p.parseIdent()
	var m ast.ModItem
	if !p.eat(token.Semicolon) {
		m.Inline = true
		p.expect(token.LBrace)
		m.InnerAttrs = p.parseInnerAttrs()
		for !p.at(token.RBrace) {
			if p.at(token.EOF) {
				p.expect(token.RBrace)
			}
			m.Items = append(m.Items, p.parseItem())
		}
		p.expect(token.RBrace)
	}
	return p.arenas.Items.NewMod(p.spanFrom(start), h, m)
}

// parseExternCrate: extern crate name [as alias];
func (p *Parser) parseExternCrate(start source.Span, h ast.ItemHeader) ast.ItemID {
	p.expect(token.KwExtern)
	p.expect(token.KwCrate)
	if p.at(token.KwSelfValue) {
		tok := p.advance()
		h.Name, h.NameSpan = tok.Text, tok.Span
	} else {
		h.Name, h.NameSpan = p.parseIdent()
	}
	alias := ""
	if p.eat(token.KwAs) {
		alias, _ = p.parseNameOrUnderscore()
	}
	p.expect(token.Semicolon)
	return p.arenas.Items.NewExternCrate(p.spanFrom(start), h, alias)
}

// parseExternBlock: [unsafe] extern "C" { fn ...; static ...; }
func (p *Parser) parseExternBlock(start source.Span, h ast.ItemHeader) ast.ItemID {
	p.eat(token.KwUnsafe)
	p.expect(token.KwExtern)
	b := ast.ExternBlockItem{ABI: "C"}
	if p.at(token.StringLit) {
		b.ABI = trimQuotes(p.advance().Text)
	}
	p.expect(token.LBrace)
	p.parseInnerAttrs()
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.expect(token.RBrace)
		}
		b.Items = append(b.Items, p.parseForeignItem())
	}
	p.expect(token.RBrace)
	return p.arenas.Items.NewExternBlock(p.spanFrom(start), h, b)
}

// parseForeignItem допускает `safe`/`unsafe` перед fn и static внутри extern-блока.
func (p *Parser) parseForeignItem() ast.ItemID {
	attrs := p.parseOuterAttrs()
	if p.atIdent("safe") {
		p.advance()
	}
	return p.parseItemWith(attrs)
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
