package lexer

import (
	"anchorsec/internal/diag"
	"anchorsec/internal/token"
)

// Поддержка: 0, 1_000, 0b..., 0o..., 0x..., 1.0, 1e-3, 1.0e+10, 1., суффиксы (u64, i128, f32, usize).
// Суффикс остаётся в Token.Text.
// "1..2" - это range, "1.max(2)" - вызов метода, "t.0.1" - два индекса кортежа.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	// tuple index: x.0 - только цифры
	if lx.prev == token.Dot {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.emit(token.IntLit, start)
	}

	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch {
		case lx.cursor.At(1, 'b'):
			digit = func(b byte) bool { return b == '0' || b == '1' }
		case lx.cursor.At(1, 'o'):
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		case lx.cursor.At(1, 'x'):
			digit = isHex
		}
		if digit != nil {
			lx.cursor.Bump()
			lx.cursor.Bump()
			seen := false
			for {
				b := lx.cursor.Peek()
				if b == '_' {
					lx.cursor.Bump()
					continue
				}
				if !digit(b) {
					break
				}
				seen = true
				lx.cursor.Bump()
			}
			if !seen || isDec(lx.cursor.Peek()) {
				for isDec(lx.cursor.Peek()) {
					lx.cursor.Bump()
				}
				tok := lx.emit(token.Invalid, start)
				lx.errLex(diag.LexBadNumber, tok.Span, "invalid digits in integer literal")
				return tok
			}
			lx.scanSuffix()
			return lx.emit(token.IntLit, start)
		}
	}

	lx.scanDecDigits()

	// дробная часть
	if lx.cursor.Peek() == '.' && !lx.cursor.At(1, '.') {
		r, sz := lx.runeAt(1)
		switch {
		case sz > 0 && r < utf8RuneSelf && isDec(byte(r)):
			lx.cursor.Bump() // '.'
			lx.scanDecDigits()
			kind = token.FloatLit
		case sz > 0 && isIdentStartRune(r):
			// 1.max(2) - метод, не дробь
		default:
			lx.cursor.Bump() // "1." - допустимый float
			return lx.emit(token.FloatLit, start)
		}
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		var n uint32 = 1
		if lx.cursor.At(1, '+') || lx.cursor.At(1, '-') {
			n = 2
		}
		if lx.isDecAt(n) {
			for range n {
				lx.cursor.Bump()
			}
			lx.scanDecDigits()
			kind = token.FloatLit
		} else if n == 2 {
			lx.cursor.Bump()
			lx.cursor.Bump()
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected at least one digit in exponent")
			return tok
		}
	}

	if suffix := lx.scanSuffix(); suffix == "f32" || suffix == "f64" {
		kind = token.FloatLit
	}
	return lx.emit(kind, start)
}

func (lx *Lexer) scanDecDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) isDecAt(n uint32) bool {
	rest := lx.cursor.Rest(n)
	return len(rest) > 0 && isDec(rest[0])
}

func (lx *Lexer) scanSuffix() string {
	if !isIdentStartByte(lx.cursor.Peek()) {
		return ""
	}
	start := lx.cursor.Off
	for isIdentContinueByte(lx.cursor.Peek()) && !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
	return string(lx.file.Content[start:lx.cursor.Off])
}
