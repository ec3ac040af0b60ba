package token

import (
	"anchorsec/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a literal (booleans included).
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, ByteStringLit, CharLit, ByteLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a strict keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwAs && t.Kind <= KwWhile
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsWordLike reports whether the token reads as a word: identifier or keyword.
// Attribute arguments and macro bodies treat both the same way.
func (t Token) IsWordLike() bool {
	return t.Kind == Ident || t.IsKeyword()
}

// IsOpenDelim reports whether the token opens a delimited group.
func (t Token) IsOpenDelim() bool {
	return t.Kind == LParen || t.Kind == LBracket || t.Kind == LBrace
}

// IsCloseDelim reports whether the token closes a delimited group.
func (t Token) IsCloseDelim() bool {
	return t.Kind == RParen || t.Kind == RBracket || t.Kind == RBrace
}

// Closer returns the closing delimiter for an opening one, or Invalid.
func Closer(open Kind) Kind {
	switch open {
	case LParen:
		return RParen
	case LBracket:
		return RBracket
	case LBrace:
		return RBrace
	default:
		return Invalid
	}
}
