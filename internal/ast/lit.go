package ast

import (
	"strconv"
	"strings"
)

// IntLit: разобранный целочисленный литерал.
type IntLit struct {
	Digits string // без префикса базы и без '_'
	Base   int
	Suffix string // "u64", "usize", "" если нет
}

// ParseIntLit splits integer literal text into digits, base and suffix.
func ParseIntLit(text string) (IntLit, bool) {
	lit := IntLit{Base: 10}
	body := text
	if len(body) > 2 && body[0] == '0' {
		switch body[1] {
		case 'x':
			lit.Base, body = 16, body[2:]
		case 'o':
			lit.Base, body = 8, body[2:]
		case 'b':
			lit.Base, body = 2, body[2:]
		}
	}
	end := 0
	for end < len(body) && isLitDigit(body[end], lit.Base) {
		end++
	}
	lit.Digits = strings.ReplaceAll(body[:end], "_", "")
	lit.Suffix = body[end:]
	if lit.Digits == "" {
		return IntLit{}, false
	}
	return lit, true
}

func isLitDigit(b byte, base int) bool {
	switch {
	case b == '_':
		return true
	case b >= '0' && b <= '9':
		return int(b-'0') < base
	case base == 16 && (b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'):
		return true
	}
	return false
}

// IsZero reports whether every digit is zero, whatever the radix or suffix.
func (l IntLit) IsZero() bool {
	return strings.Trim(l.Digits, "0") == ""
}

// Uint64 returns the value; ok is false when it does not fit.
func (l IntLit) Uint64() (uint64, bool) {
	v, err := strconv.ParseUint(l.Digits, l.Base, 64)
	return v, err == nil
}

// IntLiteral returns the parsed integer literal behind id, looking through parens.
func (e *Exprs) IntLiteral(id ExprID) (IntLit, bool) {
	id = e.Unparen(id)
	lit, ok := e.Literal(id)
	if !ok || lit.Kind != ExprLitInt {
		return IntLit{}, false
	}
	return ParseIntLit(lit.Text)
}

// Unparen strips (x) groupings.
func (e *Exprs) Unparen(id ExprID) ExprID {
	for {
		expr := e.Get(id)
		if expr == nil || expr.Kind != ExprParen {
			return id
		}
		id = e.Wraps.Get(uint32(expr.Payload)).X
	}
}
