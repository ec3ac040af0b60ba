package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

const utf8RuneSelf = utf8.RuneSelf

// ===== Работа с рунами поверх Cursor =====

// peekRune читает текущий байт как руну
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(lx.cursor.Rest(0))
	return r, sz
}

// bumpRune читает текущий байт как руну и перемещает курсор на размер руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// runeAt decodes the rune n bytes ahead of the cursor.
func (lx *Lexer) runeAt(n uint32) (rune, int) {
	rest := lx.cursor.Rest(n)
	if len(rest) == 0 {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(rest)
}

// ===== Классификаторы =====

// ASCII fast-path для идентификаторов; Unicode - через isIdentStartRune/Continue.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}
func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Other_ID_Start, r)
}
func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

func (lx *Lexer) isIdentStartAt(n uint32) bool {
	r, sz := lx.runeAt(n)
	return sz > 0 && isIdentStartRune(r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// atStringPrefix: b"", b'', br"", r"", r#"", c"", cr"".
func (lx *Lexer) atStringPrefix() bool {
	c := lx.cursor
	switch c.Peek() {
	case 'b':
		return c.At(1, '"') || c.At(1, '\'') ||
			(c.At(1, 'r') && (c.At(2, '"') || c.At(2, '#')))
	case 'c':
		return c.At(1, '"') || (c.At(1, 'r') && (c.At(2, '"') || c.At(2, '#')))
	case 'r':
		if c.At(1, '"') {
			return true
		}
		// r#"..." vs r#ident
		var n uint32 = 1
		for c.At(n, '#') {
			n++
		}
		return n > 1 && c.At(n, '"')
	}
	return false
}
