package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/token"
)

// looksLikeStructLiteral: после пути стоит `{`, а внутри `}`, `..`, `name:`, `name,` или `name }`.
func (p *Parser) looksLikeStructLiteral() bool {
	if !p.at(token.LBrace) {
		return false
	}
	first := p.peekN(1)
	switch first.Kind {
	case token.RBrace, token.DotDot:
		return true
	case token.Pound:
		return true
	case token.Ident, token.IntLit:
		switch p.peekN(2).Kind {
		case token.Colon, token.Comma, token.RBrace:
			return true
		}
	}
	return false
}

// parseStructLiteral: Path { a: x, b, ..base }
func (p *Parser) parseStructLiteral(path ast.Path) ast.ExprID {
	data := ast.ExprStructData{Path: path}
	withStruct(p, true, func() struct{} {
		p.expect(token.LBrace)
		for !p.at(token.RBrace) {
			if p.eat(token.DotDot) {
				if p.at(token.RBrace) {
					data.Rest = true
				} else {
					data.Base = p.parseExpr()
				}
				break
			}
			p.parseOuterAttrs()
			data.Fields = append(data.Fields, p.parseFieldInit())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RBrace)
		return struct{}{}
	})
	return p.arenas.Exprs.NewStruct(p.spanFrom(path.Span), data)
}

func (p *Parser) parseFieldInit() ast.ExprFieldInit {
	tok := p.peek()
	if tok.Kind != token.Ident && tok.Kind != token.IntLit {
		p.unexpected("field name")
	}
	p.advance()
	init := ast.ExprFieldInit{Name: tok.Text, NameSpan: tok.Span}
	if p.eat(token.Colon) {
		init.Value = p.parseExpr()
	} else {
		init.Shorthand = true
		path := ast.Path{Segments: []ast.PathSegment{{Name: tok.Text, Span: tok.Span}}, Span: tok.Span}
		init.Value = p.arenas.Exprs.NewPath(tok.Span, path)
	}
	init.Span = p.spanFrom(tok.Span)
	return init
}
