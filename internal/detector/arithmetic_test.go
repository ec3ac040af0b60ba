package detector

import (
	"strings"
	"testing"
)

func TestUnsafeArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want int
	}{
		{"a + b", 1},
		{"1u64 + 2u64", 0},
		{"a + 1u64", 0},
		{"1 + 2", 0},
		{"3 * -1", 0},
		{"-(2) + (1)", 0},
		{"a * -1", 1},
		{"5_000_000_000 + 1", 1},
		{"a * 2.0", 0},
		{"a + 1f32", 0},
		{"(a as u128) * b", 0},
		{"a - size_of::<u64>()", 0},
		{"a.checked_add(b).unwrap()", 0},
		{"a % b", 0},
		{"a / 2", 1},
		{"a + b + c", 2},
		{"(a + b) * 3u64", 1},
	}
	d := NewUnsafeArithmetic()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			text := program("fn f(a: u64, b: u64, c: u64) {\n    let total = " + tt.expr + ";\n}\n")
			got := d.Analyze(text, "lib.rs")
			wantCount(t, got, tt.want)
			for _, dg := range got {
				if dg.Code != "UNSAFE_ARITHMETIC" || dg.Message != arithmeticInfo.Message {
					t.Errorf("unexpected diagnostic %+v", dg)
				}
			}
		})
	}
}

func TestUnsafeArithmeticCompound(t *testing.T) {
	text := program(`fn f(a: u64) {
    let mut x = a;
    x += 1;
    x -= 1u64;
    x <<= 1;
}
`)
	got := NewUnsafeArithmetic().Analyze(text, "lib.rs")
	wantCount(t, got, 1)
	if got[0].Range.StartLine != 4 {
		t.Errorf("line = %d, want 4", got[0].Range.StartLine)
	}
}

func TestUnsafeArithmeticShouldRun(t *testing.T) {
	d := NewUnsafeArithmetic()
	if d.ShouldRun("fn f() { let x = a + b; }") {
		t.Error("files without anchor imports are skipped")
	}
	if d.ShouldRun("use anchor_lang::prelude::Pubkey;\nfn f() {}") {
		t.Error("files without operators are skipped")
	}
	if !d.ShouldRun(program("fn f() { a + b }")) {
		t.Error("anchor file with operators must run")
	}
	if !strings.Contains(arithmeticInfo.Message, "checked_add()") {
		t.Error("message must suggest checked operations")
	}
}
