package parser

import (
	"anchorsec/internal/ast"
	"anchorsec/internal/diag"
	"anchorsec/internal/token"
)

var litKinds = map[token.Kind]ast.ExprLitKind{
	token.IntLit:        ast.ExprLitInt,
	token.FloatLit:      ast.ExprLitFloat,
	token.StringLit:     ast.ExprLitStr,
	token.ByteStringLit: ast.ExprLitByteStr,
	token.CharLit:       ast.ExprLitChar,
	token.ByteLit:       ast.ExprLitByte,
	token.KwTrue:        ast.ExprLitBool,
	token.KwFalse:       ast.ExprLitBool,
}

// parseLiteral съедает литерал; вызывается только если текущий токен - литерал.
func (p *Parser) parseLiteral() ast.ExprID {
	tok := p.advance()
	return p.arenas.Exprs.NewLiteral(tok.Span, litKinds[tok.Kind], tok.Text)
}

// parsePrimary разбирает атом выражения.
func (p *Parser) parsePrimary() ast.ExprID {
	exprs := p.arenas.Exprs
	tok := p.peek()
	start := tok.Span

	if _, ok := litKinds[tok.Kind]; ok {
		return p.parseLiteral()
	}

	switch tok.Kind {
	case token.LParen:
		return p.parseParenOrTuple()

	case token.LBracket:
		return p.parseArrayExpr()

	case token.LBrace:
		return p.parseBlockExpr(ast.ExprBlockData{})

	case token.KwUnsafe:
		p.advance()
		return p.parseBlockExprFrom(start, ast.ExprBlockData{Unsafe: true})

	case token.KwConst:
		p.advance()
		return p.parseBlockExprFrom(start, ast.ExprBlockData{Const: true})

	case token.KwAsync:
		if p.peekN(1).Kind == token.Pipe || p.peekN(1).Kind == token.OrOr ||
			p.peekN(1).Kind == token.KwMove && p.peekN(2).Kind != token.LBrace {
			return p.parseClosure()
		}
		p.advance()
		move := p.eat(token.KwMove)
		return p.parseBlockExprFrom(start, ast.ExprBlockData{Async: true, Move: move})

	case token.KwMove, token.Pipe, token.OrOr:
		return p.parseClosure()

	case token.Lifetime:
		return p.parseLabeled()

	case token.KwIf:
		return p.parseIfExpr()

	case token.KwMatch:
		return p.parseMatchExpr()

	case token.KwWhile:
		return p.parseWhileExpr(start, "")

	case token.KwLoop:
		return p.parseLoopExpr(start, "")

	case token.KwFor:
		return p.parseForExpr(start, "")

	case token.KwLet:
		return p.parseLetExpr()

	case token.KwReturn:
		p.advance()
		var value ast.ExprID
		if p.canStartExpr() {
			value = p.parseExpr()
		}
		return exprs.NewJump(ast.ExprReturn, p.spanFrom(start), "", value)

	case token.KwBreak, token.KwContinue:
		p.advance()
		label := ""
		if p.at(token.Lifetime) {
			label = p.advance().Text
		}
		kind := ast.ExprContinue
		var value ast.ExprID
		if tok.Kind == token.KwBreak {
			kind = ast.ExprBreak
			if p.canStartExpr() {
				value = p.parseExpr()
			}
		}
		return exprs.NewJump(kind, p.spanFrom(start), label, value)

	case token.Lt:
		return p.parseQualifiedPathExpr()
	}

	if isPathStart(tok.Kind) {
		return p.parsePathExpr()
	}
	p.fail(diag.SynExpectExpression, p.getDiagnosticSpan(), "expected expression, found "+describe(tok))
	return ast.NoExprID
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return tok.Kind.String()
	}
	return "'" + tok.Text + "'"
}

// parsePathExpr: путь, макрос `name!(...)` или struct-литерал.
func (p *Parser) parsePathExpr() ast.ExprID {
	path := p.parsePath(pathExpr)
	if p.at(token.Bang) && p.peekN(1).IsOpenDelim() {
		p.advance()
		return p.arenas.Exprs.NewMacro(p.spanFrom(path.Span), p.parseMacroCall(path))
	}
	if p.at(token.LBrace) && !p.noStruct && p.looksLikeStructLiteral() {
		return p.parseStructLiteral(path)
	}
	return p.arenas.Exprs.NewPath(path.Span, path)
}

// parseMacroCall ожидает открывающую скобку сразу после `!`.
func (p *Parser) parseMacroCall(path ast.Path) ast.MacroCall {
	delim, toks, sp := p.parseTokenTree()
	return ast.MacroCall{Path: path, Delim: delim, Tokens: toks, Span: path.Span.Cover(sp)}
}

// parseQualifiedPathExpr: `<T as Trait>::method`. Квалифицированная часть
// сохраняется как первый сегмент с исходным текстом.
func (p *Parser) parseQualifiedPathExpr() ast.ExprID {
	_, _, start := p.parseQualifiedPrefix()
	qual := ast.PathSegment{Name: p.file.Text(p.spanFrom(start)), Span: p.spanFrom(start)}
	rest := p.parsePath(pathExpr)
	path := ast.Path{Segments: append([]ast.PathSegment{qual}, rest.Segments...), Span: p.spanFrom(start)}
	return p.arenas.Exprs.NewPath(path.Span, path)
}

func (p *Parser) parseParenOrTuple() ast.ExprID {
	exprs := p.arenas.Exprs
	start := p.expect(token.LParen).Span
	return withStruct(p, true, func() ast.ExprID {
		if p.eat(token.RParen) {
			return exprs.NewList(ast.ExprTuple, p.spanFrom(start), nil)
		}
		first := p.parseExpr()
		if p.eat(token.RParen) {
			return exprs.NewWrap(ast.ExprParen, p.spanFrom(start), first)
		}
		elems := []ast.ExprID{first}
		for p.eat(token.Comma) && !p.at(token.RParen) {
			elems = append(elems, p.parseExpr())
		}
		p.expect(token.RParen)
		return exprs.NewList(ast.ExprTuple, p.spanFrom(start), elems)
	})
}

// parseArrayExpr: `[a, b]` или `[x; n]`.
func (p *Parser) parseArrayExpr() ast.ExprID {
	exprs := p.arenas.Exprs
	start := p.expect(token.LBracket).Span
	return withStruct(p, true, func() ast.ExprID {
		if p.eat(token.RBracket) {
			return exprs.NewList(ast.ExprArray, p.spanFrom(start), nil)
		}
		first := p.parseExpr()
		if p.eat(token.Semicolon) {
			n := p.parseExpr()
			p.expect(token.RBracket)
			return exprs.NewRepeat(p.spanFrom(start), first, n)
		}
		elems := []ast.ExprID{first}
		for p.eat(token.Comma) && !p.at(token.RBracket) {
			elems = append(elems, p.parseExpr())
		}
		p.expect(token.RBracket)
		return exprs.NewList(ast.ExprArray, p.spanFrom(start), elems)
	})
}

// parseClosure: [async] [move] |params| [-> T] body
func (p *Parser) parseClosure() ast.ExprID {
	start := p.peek().Span
	var data ast.ExprClosureData
	data.Async = p.eat(token.KwAsync)
	data.Move = p.eat(token.KwMove)

	if !p.eat(token.OrOr) {
		p.expect(token.Pipe)
		for !p.at(token.Pipe) {
			p.parseOuterAttrs()
			pstart := p.peek().Span
			param := ast.ClosureParam{Pat: p.parsePatternNoTop()}
			if p.eat(token.Colon) {
				param.Type = p.parseTypeNoBounds()
			}
			param.Span = p.spanFrom(pstart)
			data.Params = append(data.Params, param)
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.Pipe)
	}

	if p.eat(token.Arrow) {
		data.Ret = p.parseTypeNoBounds()
		data.Body = p.parseBlockExpr(ast.ExprBlockData{})
	} else {
		data.Body = p.parseExpr()
	}
	return p.arenas.Exprs.NewClosure(p.spanFrom(start), data)
}

// parseLetExpr: `let P = e` в условии; правая часть не захватывает `&&` и `||`.
func (p *Parser) parseLetExpr() ast.ExprID {
	start := p.expect(token.KwLet).Span
	pat := p.parsePattern()
	p.expect(token.Assign)
	init := p.parseBinary(precLogicalAnd + 1)
	return p.arenas.Exprs.NewLet(p.spanFrom(start), pat, init)
}

// parseLabeled: 'label: loop/while/for/{ }
func (p *Parser) parseLabeled() ast.ExprID {
	tok := p.advance()
	p.expect(token.Colon)
	switch p.peek().Kind {
	case token.KwLoop:
		return p.parseLoopExpr(tok.Span, tok.Text)
	case token.KwWhile:
		return p.parseWhileExpr(tok.Span, tok.Text)
	case token.KwFor:
		return p.parseForExpr(tok.Span, tok.Text)
	case token.LBrace:
		return p.parseBlockExprFrom(tok.Span, ast.ExprBlockData{Label: tok.Text})
	}
	p.unexpected("loop or block after label")
	return ast.NoExprID
}

// cond разбирает заголовок if/while/match/for, где `{` открывает тело.
func (p *Parser) cond() ast.ExprID {
	return withStruct(p, false, p.parseExpr)
}
