package parser

import (
	"fmt"

	"anchorsec/internal/diag"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// fail репортит ошибку и прерывает разбор файла.
func (p *Parser) fail(code diag.Code, sp source.Span, msg string) {
	p.rep.Report(code, diag.SevError, sp, msg)
	panic(bailout{})
}

// getDiagnosticSpan: на EOF указываем сразу за последним токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) unexpected(what string) {
	tok := p.peek()
	got := tok.Text
	if tok.Kind == token.EOF {
		got = tok.Kind.String()
	}
	p.fail(diag.SynUnexpectedToken, p.getDiagnosticSpan(), fmt.Sprintf("expected %s, found %q", what, got))
}

// expect: ожидаем конкретный токен; иначе ошибка и bailout.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	code := diag.SynUnexpectedToken
	switch k {
	case token.Semicolon:
		code = diag.SynExpectSemicolon
	case token.RParen, token.RBracket, token.RBrace:
		code = diag.SynUnclosedDelimiter
	}
	tok := p.peek()
	got := tok.Text
	if tok.Kind == token.EOF {
		got = tok.Kind.String()
	}
	p.fail(code, p.getDiagnosticSpan(), fmt.Sprintf("expected %q, found %q", k.String(), got))
	return token.Token{}
}

// expectGt closes a generic list. A glued `>>`, `>=` or `>>=` is already split by the lexer.
func (p *Parser) expectGt() {
	p.expect(token.Gt)
}

// parseIdent: ожидает Ident и возвращает имя и span.
func (p *Parser) parseIdent() (string, source.Span) {
	if p.at(token.Ident) {
		tok := p.advance()
		return tok.Text, tok.Span
	}
	tok := p.peek()
	p.fail(diag.SynExpectIdentifier, p.getDiagnosticSpan(), fmt.Sprintf("expected identifier, found %q", tok.Text))
	return "", source.Span{}
}

// parseNameOrUnderscore принимает `_` там, где Rust разрешает безымянные items (const _).
func (p *Parser) parseNameOrUnderscore() (string, source.Span) {
	if p.at(token.Underscore) {
		tok := p.advance()
		return "_", tok.Span
	}
	return p.parseIdent()
}

// parseDelimited parses `open elem (, elem)* ,? close` and returns the span of the group.
func (p *Parser) parseDelimited(open token.Kind, elem func()) source.Span {
	start := p.expect(open).Span
	closer := token.Closer(open)
	for !p.at(closer) {
		elem()
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(closer)
	return p.spanFrom(start)
}

// parseTokenTree захватывает сбалансированную группу токенов.
// Возвращает разделитель и содержимое без внешних скобок.
func (p *Parser) parseTokenTree() (token.Kind, []token.Token, source.Span) {
	open := p.peek()
	if !open.IsOpenDelim() {
		p.unexpected("'(', '[' or '{'")
	}
	p.advance()
	first := p.pos
	stack := []token.Kind{token.Closer(open.Kind)}
	for len(stack) > 0 {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF:
			p.fail(diag.SynUnclosedDelimiter, open.Span, "unclosed delimiter")
		case tok.IsOpenDelim():
			stack = append(stack, token.Closer(tok.Kind))
		case tok.IsCloseDelim():
			if tok.Kind != stack[len(stack)-1] {
				p.fail(diag.SynUnclosedDelimiter, tok.Span, fmt.Sprintf("mismatched closing delimiter %q", tok.Text))
			}
			stack = stack[:len(stack)-1]
		}
		p.advance()
	}
	inner := p.toks[first : p.pos-1]
	return open.Kind, inner, p.spanFrom(open.Span)
}
