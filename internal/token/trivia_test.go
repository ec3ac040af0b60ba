package token_test

import (
	"testing"

	"anchorsec/internal/token"
)

func TestTriviaDocText(t *testing.T) {
	tests := []struct {
		name string
		tv   token.Trivia
		want string
		doc  bool
	}{
		{"line doc", token.Trivia{Kind: token.TriviaDocLine, Text: "/// CHECK: safe"}, " CHECK: safe", true},
		{"block doc", token.Trivia{Kind: token.TriviaDocBlock, Text: "/** CHECK: ok */"}, " CHECK: ok ", true},
		{"inner line", token.Trivia{Kind: token.TriviaInnerDocLine, Text: "//! crate"}, " crate", false},
		{"plain comment", token.Trivia{Kind: token.TriviaLineComment, Text: "// x"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tv.DocText(); got != tt.want {
				t.Errorf("DocText() = %q, want %q", got, tt.want)
			}
			if tt.tv.IsDoc() != tt.doc {
				t.Errorf("IsDoc() = %v, want %v", tt.tv.IsDoc(), tt.doc)
			}
		})
	}
}
