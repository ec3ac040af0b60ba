package parser

import (
	"slices"
	"testing"

	"anchorsec/internal/ast"
)

func letPattern(t *testing.T, src string) (*ast.Builder, ast.PatID) {
	t.Helper()
	b, _ := mustParse(t, "fn f() { "+src+" }")
	stmts := fnBody(t, b, "f")
	let, ok := b.Stmts.Let(stmts[0])
	if !ok {
		t.Fatalf("expected let statement")
	}
	return b, let.Pat
}

func TestPatternKinds(t *testing.T) {
	tests := []struct {
		src      string
		kind     ast.PatKind
		bindings []string
	}{
		{"let x = 1;", ast.PatIdent, []string{"x"}},
		{"let mut acc = 1;", ast.PatIdent, []string{"acc"}},
		{"let (a, mut b) = t;", ast.PatTuple, []string{"a", "b"}},
		{"let Point { x, y: ref z, .. } = p;", ast.PatStruct, []string{"x", "z"}},
		{"let Some(inner) = opt else { return; };", ast.PatTupleStruct, []string{"inner"}},
		{"let [first, rest @ ..] = xs;", ast.PatSlice, []string{"first", "rest"}},
		{"let &mut v = r;", ast.PatRef, []string{"v"}},
		{"let _ = f();", ast.PatWild, nil},
		{"let (x) = 1;", ast.PatIdent, []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			b, pat := letPattern(t, tt.src)
			if got := b.Pats.Get(pat).Kind; got != tt.kind {
				t.Fatalf("kind = %d, want %d", got, tt.kind)
			}
			if got := b.Pats.Bindings(pat); !slices.Equal(got, tt.bindings) {
				t.Errorf("bindings = %v, want %v", got, tt.bindings)
			}
		})
	}
}

func TestMatchArmPatterns(t *testing.T) {
	b, _, x := exprOf(t, `match v {
    0 | 1 => a,
    2..=9 => b,
    -5 => c,
    Kind::A { .. } if ok => d,
    None => {}

    _ => e,
}`)
	m, ok := b.Exprs.Match(x)
	if !ok {
		t.Fatalf("expected match")
	}
	want := []ast.PatKind{ast.PatOr, ast.PatRange, ast.PatLit, ast.PatStruct, ast.PatIdent, ast.PatWild}
	if len(m.Arms) != len(want) {
		t.Fatalf("expected %d arms, got %d", len(want), len(m.Arms))
	}
	for i, arm := range m.Arms {
		if got := b.Pats.Get(arm.Pat).Kind; got != want[i] {
			t.Errorf("arm %d: kind = %d, want %d", i, got, want[i])
		}
	}
	if !m.Arms[3].Guard.IsValid() {
		t.Errorf("expected guard on arm 3")
	}
}
