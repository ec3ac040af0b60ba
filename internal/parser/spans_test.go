package parser

import (
	"testing"

	"anchorsec/internal/testkit"
)

func TestSpanInvariants(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"anchor program", anchorProgram},
		{"impl block", "struct S;\n\nimpl S {\n    pub fn new() -> Self { S }\n    fn get(&self) -> u64 { 1 }\n}\n"},
		{"nested mods", "mod a {\n    mod b {\n        fn f() {}\n    }\n    #[cfg(test)]\n    mod tests {}\n}\n"},
		{"macro item", "declare_id!(\"Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS\");\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, file := mustParse(t, tt.src)
			if err := testkit.CheckSpanInvariants(b, file); err != nil {
				t.Fatal(err)
			}
		})
	}
}
