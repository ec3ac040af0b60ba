package parser

import (
	"strconv"

	"anchorsec/internal/ast"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// parseStructItem: struct/union Name<G> [where] { fields } | (fields) [where]; | ;
func (p *Parser) parseStructItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	var st ast.StructItem
	if p.atIdent("union") {
		p.advance()
		st.Union = true
	} else {
		p.expect(token.KwStruct)
	}
	h.Name, h.NameSpan = p.parseIdent()
	st.Generics.Params = p.parseGenericParams()
	st.Generics.Where = p.parseWhereClause()

	switch {
	case p.at(token.LBrace):
		st.Shape = ast.StructNamed
		st.Fields = p.parseNamedFields()
	case p.at(token.LParen):
		st.Shape = ast.StructTuple
		st.Fields = p.parseTupleFields()
		st.Generics.Where = append(st.Generics.Where, p.parseWhereClause()...)
		p.expect(token.Semicolon)
	default:
		st.Shape = ast.StructUnit
		p.expect(token.Semicolon)
	}
	return p.arenas.Items.NewStruct(p.spanFrom(start), h, st)
}

// parseNamedFields: { #[attr] pub name: T, ... }; span поля начинается с атрибутов.
func (p *Parser) parseNamedFields() []ast.Field {
	var fields []ast.Field
	p.parseDelimited(token.LBrace, func() {
		attrs := p.parseOuterAttrs()
		start := p.peek().Span
		if len(attrs) > 0 {
			start = attrs[0].Span
		}
		f := ast.Field{Attrs: attrs, Vis: p.parseVis()}
		f.Name, f.NameSpan = p.parseIdent()
		p.expect(token.Colon)
		f.Type = p.parseType()
		f.Span = p.spanFrom(start)
		fields = append(fields, f)
	})
	return fields
}

// parseTupleFields: (pub T, U)
func (p *Parser) parseTupleFields() []ast.Field {
	var fields []ast.Field
	p.parseDelimited(token.LParen, func() {
		attrs := p.parseOuterAttrs()
		start := p.peek().Span
		if len(attrs) > 0 {
			start = attrs[0].Span
		}
		f := ast.Field{Attrs: attrs, Vis: p.parseVis(), Name: strconv.Itoa(len(fields))}
		f.NameSpan = p.peek().Span
		f.Type = p.parseType()
		f.Span = p.spanFrom(start)
		fields = append(fields, f)
	})
	return fields
}

// parseEnumItem: enum Name<G> [where] { Variant, Variant(T), Variant { f: T }, Variant = 3 }
func (p *Parser) parseEnumItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	p.expect(token.KwEnum)
	h.Name, h.NameSpan = p.parseIdent()
	var en ast.EnumItem
	en.Generics.Params = p.parseGenericParams()
	en.Generics.Where = p.parseWhereClause()
	p.parseDelimited(token.LBrace, func() {
		attrs := p.parseOuterAttrs()
		vstart := p.peek().Span
		if len(attrs) > 0 {
			vstart = attrs[0].Span
		}
		p.parseVis()
		v := ast.Variant{Attrs: attrs}
		v.Name, v.NameSpan = p.parseIdent()
		switch {
		case p.at(token.LBrace):
			v.Shape = ast.StructNamed
			v.Fields = p.parseNamedFields()
		case p.at(token.LParen):
			v.Shape = ast.StructTuple
			v.Fields = p.parseTupleFields()
		default:
			v.Shape = ast.StructUnit
		}
		if p.eat(token.Assign) {
			v.Discriminant = p.parseExpr()
		}
		v.Span = p.spanFrom(vstart)
		en.Variants = append(en.Variants, v)
	})
	return p.arenas.Items.NewEnum(p.spanFrom(start), h, en)
}

// parseImplItem: [unsafe] impl<G> [!]Trait for Type [where] { items } | impl<G> Type { items }
func (p *Parser) parseImplItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	var im ast.ImplItem
	im.Unsafe = p.eat(token.KwUnsafe)
	p.expect(token.KwImpl)
	// `impl <T as X>::Y` здесь не встречается: `<` после impl - это параметры
	im.Generics.Params = p.parseGenericParams()
	p.eat(token.KwConst)
	im.Negative = p.eat(token.Bang)

	first := p.parseTypeNoBounds()
	if p.eat(token.KwFor) {
		im.Trait = first
		im.SelfType = p.parseType()
	} else {
		im.SelfType = first
	}
	im.Generics.Where = p.parseWhereClause()
	im.Items = p.parseAssocItems()
	return p.arenas.Items.NewImpl(p.spanFrom(start), h, im)
}

// parseTraitItem: [unsafe] [auto] trait Name<G> [: Super] [where] { items }
func (p *Parser) parseTraitItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	var tr ast.TraitItem
	tr.Unsafe = p.eat(token.KwUnsafe)
	if p.atIdent("auto") {
		p.advance()
		tr.Auto = true
	}
	p.expect(token.KwTrait)
	h.Name, h.NameSpan = p.parseIdent()
	tr.Generics.Params = p.parseGenericParams()
	if p.eat(token.Colon) {
		tr.Supertrait = p.parseBounds()
	}
	tr.Generics.Where = p.parseWhereClause()
	tr.Items = p.parseAssocItems()
	return p.arenas.Items.NewTrait(p.spanFrom(start), h, tr)
}

// parseAssocItems: тело impl/trait.
func (p *Parser) parseAssocItems() []ast.ItemID {
	var items []ast.ItemID
	p.expect(token.LBrace)
	p.parseInnerAttrs()
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.expect(token.RBrace)
		}
		if p.eat(token.Semicolon) {
			continue
		}
		items = append(items, p.parseItem())
	}
	p.expect(token.RBrace)
	return items
}

// parseTypeAliasItem: type Name<G> [: Bounds] [where] [= T] [where];
func (p *Parser) parseTypeAliasItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	p.expect(token.KwType)
	h.Name, h.NameSpan = p.parseIdent()
	var ta ast.TypeAliasItem
	ta.Generics.Params = p.parseGenericParams()
	if p.eat(token.Colon) {
		ta.Bounds = p.parseBounds()
	}
	ta.Generics.Where = p.parseWhereClause()
	if p.eat(token.Assign) {
		ta.Type = p.parseType()
	}
	ta.Generics.Where = append(ta.Generics.Where, p.parseWhereClause()...)
	p.expect(token.Semicolon)
	return p.arenas.Items.NewTypeAlias(p.spanFrom(start), h, ta)
}

// parseConstItem: const NAME: T = e; | static [mut] NAME: T = e;
func (p *Parser) parseConstItem(start source.Span, h ast.ItemHeader) ast.ItemID {
	var c ast.ConstItem
	if p.eat(token.KwStatic) {
		c.Static = true
		c.Mut = p.eat(token.KwMut)
	} else {
		p.expect(token.KwConst)
	}
	h.Name, h.NameSpan = p.parseNameOrUnderscore()
	if p.eat(token.Colon) {
		c.Type = p.parseType()
	}
	if p.eat(token.Assign) {
		c.Value = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return p.arenas.Items.NewConst(p.spanFrom(start), h, c)
}
