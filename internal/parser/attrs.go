package parser

import (
	"strings"

	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// liftDocs превращает outer doc-комментарии перед текущим токеном в атрибуты `doc`.
// Каждый токен отдаёт свои trivia один раз.
func (p *Parser) liftDocs(attrs ast.Attrs, inner bool) ast.Attrs {
	if p.docsUsed >= p.pos {
		return attrs
	}
	p.docsUsed = p.pos
	for _, tr := range p.peek().Leading {
		if inner && !tr.IsInnerDoc() || !inner && !tr.IsDoc() {
			continue
		}
		style := ast.AttrOuter
		if inner {
			style = ast.AttrInner
		}
		attrs = append(attrs, ast.Attr{
			Style:   style,
			Path:    "doc",
			Span:    tr.Span,
			Doc:     tr.DocText(),
			IsDoc:   true,
			DocSpan: tr.Span,
		})
	}
	return attrs
}

// parseOuterAttrs собирает `#[...]` и doc-комментарии в исходном порядке.
func (p *Parser) parseOuterAttrs() ast.Attrs {
	var attrs ast.Attrs
	for {
		attrs = p.liftDocs(attrs, false)
		if !p.at(token.Pound) || p.peekN(1).Kind == token.Bang {
			return attrs
		}
		attrs = append(attrs, p.parseAttr(ast.AttrOuter))
	}
}

// parseInnerAttrs собирает `#![...]` и `//!` в начале файла, модуля или блока.
func (p *Parser) parseInnerAttrs() ast.Attrs {
	var attrs ast.Attrs
	for {
		attrs = p.liftInnerDocs(attrs)
		if !p.at(token.Pound) || p.peekN(1).Kind != token.Bang {
			return attrs
		}
		attrs = append(attrs, p.parseAttr(ast.AttrInner))
	}
}

// liftInnerDocs не помечает токен использованным: за inner-доками того же токена
// могут идти outer-доки первого item.
func (p *Parser) liftInnerDocs(attrs ast.Attrs) ast.Attrs {
	for _, tr := range p.peek().Leading {
		if tr.IsInnerDoc() {
			attrs = append(attrs, ast.Attr{Style: ast.AttrInner, Path: "doc", Span: tr.Span, Doc: tr.DocText(), IsDoc: true, DocSpan: tr.Span})
		}
	}
	return attrs
}

// parseAttr: `#` `!`? `[` path (tokentree | `=` tokens)? `]`
func (p *Parser) parseAttr(style ast.AttrStyle) ast.Attr {
	start := p.expect(token.Pound).Span
	if style == ast.AttrInner {
		p.expect(token.Bang)
	}
	p.expect(token.LBracket)
	if p.at(token.KwUnsafe) {
		// #[unsafe(no_mangle)]
		p.advance()
		_, toks, _ := p.parseTokenTree()
		p.expect(token.RBracket)
		return p.attrFromTokens(style, toks, start)
	}
	path, pathSpan := p.parseAttrPath()
	attr := ast.Attr{Style: style, Path: path, PathSpan: pathSpan, Delim: token.Invalid}
	switch {
	case p.peek().IsOpenDelim():
		attr.Delim, attr.Tokens, _ = p.parseTokenTree()
	case p.eat(token.Assign):
		attr.Delim = token.Assign
		first := p.pos
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			if p.peek().IsOpenDelim() {
				p.parseTokenTree()
				continue
			}
			p.advance()
		}
		attr.Tokens = p.toks[first:p.pos]
	}
	p.expect(token.RBracket)
	attr.Span = p.spanFrom(start)
	if attr.Path == "doc" && attr.Delim == token.Assign && len(attr.Tokens) == 1 && attr.Tokens[0].Kind == token.StringLit {
		attr.IsDoc = true
		attr.Doc = strings.Trim(attr.Tokens[0].Text, `"`)
		attr.DocSpan = attr.Tokens[0].Span
	}
	return attr
}

func (p *Parser) attrFromTokens(style ast.AttrStyle, toks []token.Token, start source.Span) ast.Attr {
	attr := ast.Attr{Style: style, Delim: token.Invalid, Span: p.spanFrom(start)}
	if len(toks) == 0 || !toks[0].IsWordLike() {
		p.fail(diag.SynBadAttribute, attr.Span, "expected attribute path")
	}
	attr.Path, attr.PathSpan = toks[0].Text, toks[0].Span
	if len(toks) > 2 && toks[1].IsOpenDelim() {
		attr.Delim = toks[1].Kind
		attr.Tokens = toks[2 : len(toks)-1]
	}
	return attr
}

// parseAttrPath: `ident (:: ident)*`; ключевые слова допустимы (`#[crate::x]`).
func (p *Parser) parseAttrPath() (string, source.Span) {
	if !p.peek().IsWordLike() {
		p.fail(diag.SynBadAttribute, p.getDiagnosticSpan(), "expected attribute path")
	}
	first := p.advance()
	var b strings.Builder
	b.WriteString(first.Text)
	sp := first.Span
	for p.at(token.ColonColon) && p.peekN(1).IsWordLike() {
		p.advance()
		seg := p.advance()
		b.WriteString("::")
		b.WriteString(seg.Text)
		sp = sp.Cover(seg.Span)
	}
	return b.String(), sp
}
