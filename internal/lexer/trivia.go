package lexer

import (
	"anchorsec/internal/diag"
	"anchorsec/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t', '\r' коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - //... , ///..., //!... до \n
// - /* ... */ (вложенные), /** */, /*! */
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\r' && b2 != '\f' && b2 != '\v' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanComment() {
			continue
		}

		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

func (lx *Lexer) scanComment() bool {
	start := lx.cursor.Mark()
	switch {
	case lx.cursor.EatStr("//"):
		kind := token.TriviaLineComment
		switch {
		case lx.cursor.Peek() == '/' && !lx.cursor.At(1, '/'):
			// "///" but not "////"
			kind = token.TriviaDocLine
		case lx.cursor.Peek() == '!':
			kind = token.TriviaInnerDocLine
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(kind, start)
		return true

	case lx.cursor.EatStr("/*"):
		kind := token.TriviaBlockComment
		switch {
		case lx.cursor.Peek() == '*' && !lx.cursor.At(1, '*') && !lx.cursor.At(1, '/'):
			// "/**" but not "/***" or "/**/"
			kind = token.TriviaDocBlock
		case lx.cursor.Peek() == '!':
			kind = token.TriviaInnerDocBlock
		}
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			switch {
			case lx.cursor.EatStr("/*"):
				depth++
			case lx.cursor.EatStr("*/"):
				depth--
			default:
				lx.cursor.Bump()
			}
		}
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(kind, start)
		return true
	}
	return false
}
