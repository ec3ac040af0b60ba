package detector

import (
	"strings"
	"testing"

	"anchorsec/internal/diag"
)

// program wraps handler bodies and accounts structs into an Anchor file.
func program(body string) string {
	return "use anchor_lang::prelude::*;\n\n" + body
}

func codes(ds []diag.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func only(ds []diag.Diagnostic, code string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func wantCount(t *testing.T, ds []diag.Diagnostic, n int) {
	t.Helper()
	if len(ds) != n {
		var msgs []string
		for _, d := range ds {
			msgs = append(msgs, d.Code+": "+d.Message)
		}
		t.Fatalf("got %d diagnostics, want %d:\n%s", len(ds), n, strings.Join(msgs, "\n"))
	}
}
