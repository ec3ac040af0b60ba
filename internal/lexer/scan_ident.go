package lexer

import (
	"golang.org/x/text/unicode/norm"

	"anchorsec/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Non-ASCII identifiers are NFC-normalized in Token.Text; Span still covers the source bytes.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	// Первый символ: ASCII fast-path или Unicode
	r, sz := lx.peekRune()
	if sz == 0 {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp, Text: ""}
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
	} else if !isIdentStartRune(r) {
		return lx.scanOperatorOrPunct()
	}
	ascii := lx.scanIdentBody()

	sp := lx.cursor.SpanFrom(start)
	lex := lx.file.Content[sp.Start:sp.End]
	text := string(lex)

	if len(lex) == 1 && lex[0] == '_' {
		return token.Token{Kind: token.Underscore, Span: sp, Text: text}
	}
	if !ascii {
		return token.Token{Kind: token.Ident, Span: sp, Text: norm.NFC.String(text)}
	}

	// Проверка на ключевое слово (регистрозависимо)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanIdentBody consumes ident-continue runes and reports whether all were ASCII.
func (lx *Lexer) scanIdentBody() bool {
	ascii := true
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if lx.cursor.EOF() || !isIdentContinueByte(b) {
				return ascii
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			return ascii
		}
		ascii = false
		lx.bumpRune()
	}
}

// scanRawIdent: r#ident. Keywords lose their meaning, Text holds the bare name.
func (lx *Lexer) scanRawIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // r
	lx.cursor.Bump() // #
	nameStart := lx.cursor.Off
	ascii := lx.scanIdentBody()
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[nameStart:sp.End])
	if !ascii {
		text = norm.NFC.String(text)
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
