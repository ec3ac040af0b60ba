package token

import "anchorsec/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine       // ///
	TriviaDocBlock      // /** */
	TriviaInnerDocLine  // //!
	TriviaInnerDocBlock // /*! */
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsDoc reports whether the trivia is an outer doc comment.
func (t Trivia) IsDoc() bool {
	return t.Kind == TriviaDocLine || t.Kind == TriviaDocBlock
}

// IsInnerDoc reports whether the trivia documents the enclosing item.
func (t Trivia) IsInnerDoc() bool {
	return t.Kind == TriviaInnerDocLine || t.Kind == TriviaInnerDocBlock
}

// DocText strips the comment markers from a doc trivia.
// "/// CHECK: x" yields " CHECK: x"; block docs lose "/**" and "*/".
func (t Trivia) DocText() string {
	s := t.Text
	switch t.Kind {
	case TriviaDocLine, TriviaInnerDocLine:
		return s[3:]
	case TriviaDocBlock, TriviaInnerDocBlock:
		if len(s) >= 5 {
			return s[3 : len(s)-2]
		}
	}
	return ""
}
