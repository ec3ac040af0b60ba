package lexer

import (
	"anchorsec/internal/diag"
	"anchorsec/internal/token"
)

// multiOps is tried in order, so longer spellings come first.
// '>' is always emitted alone: the parser glues ">>", ">=" and ">>=" from
// adjacent tokens, otherwise Vec<Vec<u8>> could not be closed.
var multiOps = []struct {
	text string
	kind token.Kind
}{
	{"..=", token.DotDotEq},
	{"...", token.DotDotDot},
	{"<<=", token.ShlAssign},
	{"..", token.DotDot},
	{"::", token.ColonColon},
	{"->", token.Arrow},
	{"=>", token.FatArrow},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{"<<", token.Shl},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"^=", token.CaretAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
}

// singleOps maps an ASCII byte to its one-character token; Invalid means none.
var singleOps = func() (t [utf8RuneSelf]token.Kind) {
	for b, k := range map[byte]token.Kind{
		'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
		'%': token.Percent, '=': token.Assign, '!': token.Bang, '<': token.Lt,
		'>': token.Gt, '&': token.Amp, '|': token.Pipe, '^': token.Caret,
		'?': token.Question, ':': token.Colon, ';': token.Semicolon, ',': token.Comma,
		'.': token.Dot, '(': token.LParen, ')': token.RParen, '{': token.LBrace,
		'}': token.RBrace, '[': token.LBracket, ']': token.RBracket, '@': token.At,
		'#': token.Pound, '$': token.Dollar, '~': token.Tilde,
	} {
		t[b] = k
	}
	return t
}()

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range multiOps {
		if lx.cursor.EatStr(op.text) {
			return lx.emit(op.kind, start)
		}
	}

	if b := lx.cursor.Peek(); b < utf8RuneSelf {
		lx.cursor.Bump()
		if k := singleOps[b]; k != token.Invalid {
			return lx.emit(k, start)
		}
	} else {
		lx.bumpRune()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown start of token")
	return tok
}
