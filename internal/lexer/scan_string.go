package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"anchorsec/internal/diag"
	"anchorsec/internal/token"
)

// scanString: "..." с escape-последовательностями. Переводы строк внутри допустимы.
// Escape-ы не валидируются: для анализа важна только граница литерала.
func (lx *Lexer) scanString(kind token.Kind) token.Token {
	return lx.scanQuoted(lx.cursor.Mark(), kind)
}

func (lx *Lexer) scanQuoted(start Mark, kind token.Kind) token.Token {
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			return lx.emit(kind, start)
		case '\\':
			lx.cursor.Bump()
		}
	}
	// EOF без закрывающей кавычки
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated double quote string")
	return tok
}

// scanPrefixedLiteral разбирает b"..", b'x', br#".."#, r#".."#, c"..", cr"..".
func (lx *Lexer) scanPrefixedLiteral() token.Token {
	start := lx.cursor.Mark()
	kind := token.StringLit
	switch lx.cursor.Peek() {
	case 'b':
		lx.cursor.Bump()
		if lx.cursor.Peek() == '\'' {
			return lx.scanByteChar(start)
		}
		kind = token.ByteStringLit
	case 'c':
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == 'r' {
		lx.cursor.Bump()
		return lx.scanRawString(start, kind)
	}
	return lx.scanQuoted(start, kind)
}

// scanRawString: курсор стоит на первом '#' или '"'. Закрывается '"' и тем же числом '#'.
func (lx *Lexer) scanRawString(start Mark, kind token.Kind) token.Token {
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	if !lx.cursor.Eat('"') {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadRawString, tok.Span, "expected '\"' in raw string literal")
		return tok
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			return lx.emit(kind, start)
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated raw string")
	return tok
}

// scanCharOrLifetime: 'a' и '\n' - символы, 'info и 'outer - lifetime/label.
func (lx *Lexer) scanCharOrLifetime() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.At(1, '\\') {
		return lx.scanCharBody(start, token.CharLit)
	}
	r, sz := lx.runeAt(1)
	if sz == 0 {
		lx.cursor.Bump()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadChar, tok.Span, "unterminated character literal")
		return tok
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("char size overflow: %w", err))
	}
	if lx.cursor.At(1+usz, '\'') {
		return lx.scanCharBody(start, token.CharLit)
	}
	if isIdentStartRune(r) {
		lx.cursor.Bump() // '
		lx.scanIdentBody()
		return lx.emit(token.Lifetime, start)
	}
	lx.cursor.Bump()
	lx.bumpRune()
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexBadChar, tok.Span, "unterminated character literal")
	return tok
}

func (lx *Lexer) scanByteChar(start Mark) token.Token {
	return lx.scanCharBody(start, token.ByteLit)
}

// scanCharBody: курсор на открывающей '\''.
func (lx *Lexer) scanCharBody(start Mark, kind token.Kind) token.Token {
	lx.cursor.Bump() // '
	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		if lx.cursor.Peek() == 'u' && lx.cursor.At(1, '{') {
			for !lx.cursor.EOF() && lx.cursor.Peek() != '}' && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.cursor.Eat('}')
		} else if lx.cursor.Peek() == 'x' {
			lx.cursor.Bump()
			for range 2 {
				if isHex(lx.cursor.Peek()) {
					lx.cursor.Bump()
				}
			}
		} else {
			lx.bumpRune()
		}
	} else {
		lx.bumpRune()
	}
	if !lx.cursor.Eat('\'') {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadChar, tok.Span, "unterminated character literal")
		return tok
	}
	return lx.emit(kind, start)
}
