package lexer

import (
	"testing"

	"anchorsec/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte(content))
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump() = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("expected EOF state after the last byte")
	}
}

func TestCursorPeekAndAt(t *testing.T) {
	cursor := NewCursor(createFile("r#\""))

	b0, b1, ok := cursor.Peek2()
	if !ok || b0 != 'r' || b1 != '#' {
		t.Fatalf("Peek2() = %q %q %v", b0, b1, ok)
	}
	if _, _, _, ok := cursor.Peek3(); !ok {
		t.Fatal("Peek3 should succeed on three bytes")
	}
	if !cursor.At(2, '"') || cursor.At(3, '"') {
		t.Fatal("At() reported the wrong bytes")
	}
}

func TestCursorMarkResetSpan(t *testing.T) {
	file := createFile("hello world")
	cursor := NewCursor(file)

	m := cursor.Mark()
	for range 5 {
		cursor.Bump()
	}
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 5 || file.Text(sp) != "hello" {
		t.Fatalf("SpanFrom = %+v", sp)
	}

	cursor.Reset(m)
	if !cursor.Eat('h') || cursor.Eat('x') {
		t.Fatal("Eat after Reset misbehaved")
	}
}
