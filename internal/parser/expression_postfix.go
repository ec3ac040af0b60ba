package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/token"
)

// parsePostfix: вызовы, методы, поля, индексы, `?` и `.await`.
func (p *Parser) parsePostfix(x ast.ExprID) ast.ExprID {
	exprs := p.arenas.Exprs
	for {
		start := p.exprSpan(x)
		switch p.peek().Kind {
		case token.LParen:
			args := p.parseCallArgs()
			x = exprs.NewCall(p.spanFrom(start), x, args)

		case token.LBracket:
			p.advance()
			idx := withStruct(p, true, p.parseExpr)
			p.expect(token.RBracket)
			x = exprs.NewIndex(p.spanFrom(start), x, idx)

		case token.Question:
			p.advance()
			x = exprs.NewWrap(ast.ExprTry, p.spanFrom(start), x)

		case token.Dot:
			p.advance()
			x = p.parseDotSuffix(x)

		default:
			return x
		}
	}
}

func (p *Parser) parseCallArgs() []ast.ExprID {
	var args []ast.ExprID
	withStruct(p, true, func() struct{} {
		p.parseDelimited(token.LParen, func() {
			args = append(args, p.parseExpr())
		})
		return struct{}{}
	})
	return args
}

// parseDotSuffix разбирает то, что идёт после `.`: поле, индекс кортежа, метод или await.
func (p *Parser) parseDotSuffix(x ast.ExprID) ast.ExprID {
	exprs := p.arenas.Exprs
	start := p.exprSpan(x)
	tok := p.peek()
	switch tok.Kind {
	case token.KwAwait:
		p.advance()
		return exprs.NewWrap(ast.ExprAwait, p.spanFrom(start), x)

	case token.IntLit:
		// лексер отдаёт после точки только цифры: x.0.1 - два индекса
		p.advance()
		return exprs.NewField(p.spanFrom(start), x, tok.Text, tok.Span, true)

	case token.Ident, token.KwSelfValue, token.KwSelfType, token.KwCrate, token.KwSuper:
		p.advance()
		var generics *ast.GenericArgs
		if p.at(token.ColonColon) && p.peekN(1).Kind == token.Lt {
			p.advance()
			generics = p.parseGenericArgs(true)
		}
		if p.at(token.LParen) {
			args := p.parseCallArgs()
			return exprs.NewMethodCall(p.spanFrom(start), ast.ExprMethodCallData{
				Receiver: x,
				Name:     tok.Text,
				NameSpan: tok.Span,
				Generics: generics,
				Args:     args,
			})
		}
		if generics != nil {
			p.fail(diag.SynUnexpectedToken, p.getDiagnosticSpan(), "field expressions cannot have generic arguments")
		}
		return exprs.NewField(p.spanFrom(start), x, tok.Text, tok.Span, false)
	}
	p.fail(diag.SynExpectIdentifier, p.getDiagnosticSpan(), "expected field or method name after '.'")
	return ast.NoExprID
}
