package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"anchorsec/internal/diag"
	"anchorsec/internal/lexer"
	"anchorsec/internal/source"
	"anchorsec/internal/token"
)

// testReporter собирает все ошибки, полученные от лексера
type testReporter struct {
	codes    []diag.Code
	messages []string
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string) {
	r.codes = append(r.codes, code)
	r.messages = append(r.messages, fmt.Sprintf("[%s] %s: %s", code.ID(), sev, msg))
}

func (r *testReporter) HasErrors() bool { return len(r.codes) > 0 }

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("lib.rs", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.messages)
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tok := lx.Next()

	if tok.Kind != expectedKind {
		t.Errorf("Expected kind %v, got %v (errors: %v)", expectedKind, tok.Kind, reporter.messages)
	}
	if tok.Text != expectedText {
		t.Errorf("Expected text %q, got %q", expectedText, tok.Text)
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Errorf("Expected a single token, next is %v(%q)", next.Kind, next.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func TestIdentifiersAndKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"foo", token.Ident, "foo"},
		{"_bar", token.Ident, "_bar"},
		{"x123", token.Ident, "x123"},
		{"_", token.Underscore, "_"},
		{"fn", token.KwFn, "fn"},
		{"self", token.KwSelfValue, "self"},
		{"Self", token.KwSelfType, "Self"},
		{"union", token.Ident, "union"},
		{"r#type", token.Ident, "type"},
		{"r#match_", token.Ident, "match_"},
		{"счёт", token.Ident, "счёт"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestIdentifiers_NFC(t *testing.T) {
	// "e" + combining acute -> precomposed é
	expectSingleToken(t, "cafe\u0301", token.Ident, "caf\u00e9")
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"1_000_000", token.IntLit},
		{"42u64", token.IntLit},
		{"0xffu8", token.IntLit},
		{"0b1010_1010", token.IntLit},
		{"0o777", token.IntLit},
		{"3usize", token.IntLit},
		{"1.5", token.FloatLit},
		{"1e10", token.FloatLit},
		{"2.5E-3", token.FloatLit},
		{"2f32", token.FloatLit},
		{"1.0f64", token.FloatLit},
		{"1.", token.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestNumbers_NotFloat(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Kind
	}{
		{"1..2", []token.Kind{token.IntLit, token.DotDot, token.IntLit}},
		{"0..=9", []token.Kind{token.IntLit, token.DotDotEq, token.IntLit}},
		{"1.max(2)", []token.Kind{token.IntLit, token.Dot, token.Ident, token.LParen, token.IntLit, token.RParen}},
		{"t.0.1", []token.Kind{token.Ident, token.Dot, token.IntLit, token.Dot, token.IntLit}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, tt.want)
		})
	}
}

func TestNumbers_Invalid(t *testing.T) {
	for _, input := range []string{"0x", "1e+"} {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			if tok := lx.Next(); tok.Kind != token.Invalid {
				t.Errorf("Expected Invalid, got %v", tok.Kind)
			}
			if len(reporter.codes) != 1 || reporter.codes[0] != diag.LexBadNumber {
				t.Errorf("Expected one LexBadNumber, got %v", reporter.messages)
			}
		})
	}
}

func TestStringsAndChars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  token.Kind
	}{
		{"plain", `"hello"`, token.StringLit},
		{"escapes", `"a\"b\\"`, token.StringLit},
		{"multiline", "\"a\nb\"", token.StringLit},
		{"raw", `r"C:\dir"`, token.StringLit},
		{"raw hashes", `r#"say "hi""#`, token.StringLit},
		{"raw double hashes", `r##"a "# b"##`, token.StringLit},
		{"byte string", `b"seed"`, token.ByteStringLit},
		{"raw byte string", `br#"x"#`, token.ByteStringLit},
		{"c string", `c"x"`, token.StringLit},
		{"byte", `b'x'`, token.ByteLit},
		{"byte escape", `b'\x7f'`, token.ByteLit},
		{"char", `'a'`, token.CharLit},
		{"char escape", `'\n'`, token.CharLit},
		{"char quote", `'\''`, token.CharLit},
		{"char unicode escape", `'\u{1F600}'`, token.CharLit},
		{"char non-ascii", `'ё'`, token.CharLit},
		{"lifetime", `'info`, token.Lifetime},
		{"static lifetime", `'static`, token.Lifetime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestLifetimeInContext(t *testing.T) {
	expectTokens(t, "Account<'info, T>", []token.Kind{
		token.Ident, token.Lt, token.Lifetime, token.Comma, token.Ident, token.Gt,
	})
	expectTokens(t, "&'a str", []token.Kind{token.Amp, token.Lifetime, token.Ident})
	expectTokens(t, "fn f<'a>(x: &'a u8) -> char { 'x' }", []token.Kind{
		token.KwFn, token.Ident, token.Lt, token.Lifetime, token.Gt,
		token.LParen, token.Ident, token.Colon, token.Amp, token.Lifetime, token.Ident, token.RParen,
		token.Arrow, token.Ident, token.LBrace, token.CharLit, token.RBrace,
	})
}

func TestString_Unterminated(t *testing.T) {
	for _, input := range []string{`"abc`, `r#"abc"`} {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			if tok := lx.Next(); tok.Kind != token.Invalid {
				t.Errorf("Expected Invalid, got %v", tok.Kind)
			}
			if len(reporter.codes) != 1 || reporter.codes[0] != diag.LexUnterminatedString {
				t.Errorf("Expected LexUnterminatedString, got %v", reporter.messages)
			}
		})
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Kind
	}{
		{"+= -= *= /= %=", []token.Kind{token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign, token.PercentAssign}},
		{"^= &= |= <<=", []token.Kind{token.CaretAssign, token.AmpAssign, token.PipeAssign, token.ShlAssign}},
		{":: -> => .. ... ..=", []token.Kind{token.ColonColon, token.Arrow, token.FatArrow, token.DotDot, token.DotDotDot, token.DotDotEq}},
		{"&& || == != <= <<", []token.Kind{token.AndAnd, token.OrOr, token.EqEq, token.BangEq, token.LtEq, token.Shl}},
		{"# ! $ ~ @ ?", []token.Kind{token.Pound, token.Bang, token.Dollar, token.Tilde, token.At, token.Question}},
		// '>' никогда не склеивается лексером
		{">>", []token.Kind{token.Gt, token.Gt}},
		{">=", []token.Kind{token.Gt, token.Assign}},
		{">>=", []token.Kind{token.Gt, token.Gt, token.Assign}},
		{"Vec<Vec<u8>>", []token.Kind{token.Ident, token.Lt, token.Ident, token.Lt, token.Ident, token.Gt, token.Gt}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, tt.want)
		})
	}
}

func TestTrivia(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TriviaKind
	}{
		{"spaces", "  \t x", []token.TriviaKind{token.TriviaSpace}},
		{"newlines coalesce", "\n\n\nx", []token.TriviaKind{token.TriviaNewline}},
		{"line comment", "// c\nx", []token.TriviaKind{token.TriviaLineComment, token.TriviaNewline}},
		{"doc line", "/// d\nx", []token.TriviaKind{token.TriviaDocLine, token.TriviaNewline}},
		{"four slashes", "//// d\nx", []token.TriviaKind{token.TriviaLineComment, token.TriviaNewline}},
		{"inner doc", "//! d\nx", []token.TriviaKind{token.TriviaInnerDocLine, token.TriviaNewline}},
		{"doc block", "/** d */x", []token.TriviaKind{token.TriviaDocBlock}},
		{"empty block", "/**/x", []token.TriviaKind{token.TriviaBlockComment}},
		{"three stars", "/*** d */x", []token.TriviaKind{token.TriviaBlockComment}},
		{"inner doc block", "/*! d */x", []token.TriviaKind{token.TriviaInnerDocBlock}},
		{"nested block", "/* a /* b */ c */x", []token.TriviaKind{token.TriviaBlockComment}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, reporter := makeTestLexer(tt.input)
			tok := lx.Next()
			if tok.Kind != token.Ident || tok.Text != "x" {
				t.Fatalf("Expected ident x, got %v(%q), errors %v", tok.Kind, tok.Text, reporter.messages)
			}
			if len(tok.Leading) != len(tt.want) {
				t.Fatalf("Expected %d trivia, got %d", len(tt.want), len(tok.Leading))
			}
			for i, tr := range tok.Leading {
				if tr.Kind != tt.want[i] {
					t.Errorf("Trivia %d: expected kind %d, got %d (%q)", i, tt.want[i], tr.Kind, tr.Text)
				}
			}
		})
	}
}

func TestTrivia_UnterminatedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("/* open /* nested */ x")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Errorf("Expected EOF, got %v", tok.Kind)
	}
	if len(reporter.codes) != 1 || reporter.codes[0] != diag.LexUnterminatedBlockComment {
		t.Errorf("Expected LexUnterminatedBlockComment, got %v", reporter.messages)
	}
}

func TestLexer_AnchorSnippet(t *testing.T) {
	input := `#[derive(Accounts)]
pub struct Init<'info> {
    #[account(mut)]
    pub payer: Signer<'info>,
}`
	expectTokens(t, input, []token.Kind{
		token.Pound, token.LBracket, token.Ident, token.LParen, token.Ident, token.RParen, token.RBracket,
		token.KwPub, token.KwStruct, token.Ident, token.Lt, token.Lifetime, token.Gt, token.LBrace,
		token.Pound, token.LBracket, token.Ident, token.LParen, token.KwMut, token.RParen, token.RBracket,
		token.KwPub, token.Ident, token.Colon, token.Ident, token.Lt, token.Lifetime, token.Gt, token.Comma,
		token.RBrace,
	})
}

func TestLexer_Spans(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte("let  αβ = r#fn;"))
	file := fs.Get(id)
	toks := lexer.Tokenize(file, lexer.Options{})

	for _, tok := range toks[:len(toks)-1] {
		if tok.Kind == token.Ident && tok.Text == "fn" {
			if got := file.Text(tok.Span); got != "r#fn" {
				t.Errorf("raw ident span covers %q", got)
			}
			continue
		}
		if got := file.Text(tok.Span); got != tok.Text {
			t.Errorf("span text %q != token text %q", got, tok.Text)
		}
	}
}

func TestLexer_PeekBehavior(t *testing.T) {
	lx, _ := makeTestLexer("a b")

	first := lx.Peek()
	if again := lx.Peek(); again.Span != first.Span {
		t.Error("Peek must be idempotent")
	}
	if got := lx.Next(); got.Text != "a" {
		t.Errorf("Next after Peek returned %q", got.Text)
	}
	if got := lx.Next(); got.Text != "b" {
		t.Errorf("Expected b, got %q", got.Text)
	}
	for range 3 {
		if lx.Next().Kind != token.EOF {
			t.Fatal("Expected repeated EOF")
		}
	}
}

func TestTokenize_TrailingTrivia(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte("x // tail\n"))
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{})
	if len(toks) != 2 {
		t.Fatalf("Expected 2 tokens, got %d", len(toks))
	}
	eof := toks[1]
	if eof.Kind != token.EOF || len(eof.Leading) != 3 {
		t.Errorf("Expected EOF carrying space, comment, newline; got %v with %d trivia", eof.Kind, len(eof.Leading))
	}
}

func TestLexer_UnknownCharacter(t *testing.T) {
	for _, input := range []string{"€", "\\"} {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Invalid || tok.Text != input {
				t.Errorf("Expected Invalid(%q), got %v(%q)", input, tok.Kind, tok.Text)
			}
			if !reporter.HasErrors() {
				t.Error("Expected error report for unknown character")
			}
		})
	}
}

func BenchmarkLexer_LargeFile(b *testing.B) {
	var sb strings.Builder
	for i := range 100 {
		fmt.Fprintf(&sb, "pub fn handler%d(ctx: Context<'_, '_, '_, 'info, Foo<'info>>, amount: u64) -> Result<()> {\n", i)
		sb.WriteString("    ctx.accounts.vault.amount = ctx.accounts.vault.amount + amount; // add\n    Ok(())\n}\n")
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bench.rs", []byte(sb.String())))

	b.ResetTimer()
	for b.Loop() {
		lexer.Tokenize(file, lexer.Options{})
	}
}
