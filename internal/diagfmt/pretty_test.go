package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"anchorsec/internal/diag"
	"anchorsec/internal/source"
)

const sample = `pub fn update(ctx: Context<Update>) -> Result<()> {
	ctx.accounts.vault.balance = 100;
    let név = a + b;
    Ok(())
}
`

func sampleFile(t *testing.T, path string) File {
	t.Helper()
	fs := source.NewFileSet()
	src := fs.Get(fs.AddVirtual(path, []byte(sample)))

	site := diag.New("IMMUTABLE_ACCOUNT_MUTATED", diag.SevError,
		diag.Range{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 33},
		"Attempting to mutate immutable account 'vault'. Add #[account(mut)] to allow mutation.")
	decl := diag.New("IMMUTABLE_ACCOUNT_MUTATED", diag.SevError,
		diag.Range{StartLine: 0, StartCol: 27, EndLine: 0, EndCol: 33},
		"Account 'vault' is defined here without #[account(mut)]")
	diag.Pair(&site, &decl, path, decl.Message, "Account 'vault' is mutated here")
	arith := diag.New("UNSAFE_ARITHMETIC", diag.SevWarning,
		diag.Range{StartLine: 2, StartCol: 14, EndLine: 2, EndCol: 19},
		"Unchecked arithmetic operation detected.\nConsider using checked_add().")
	return File{Path: path, Source: src, Diagnostics: []diag.Diagnostic{site, decl, arith}}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	f := sampleFile(t, "/home/user/project/programs/vault/src/lib.rs")
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/programs/vault/src/lib.rs:2:2:"},
		{"Relative path", PathModeRelative, "programs/vault/src/lib.rs:2:2:"},
		{"Basename only", PathModeBasename, "\nlib.rs:2:2:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, []File{f}, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("expected %q in:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyLayout(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, []File{sampleFile(t, "lib.rs")}, PrettyOpts{ShowNotes: true})
	underline := func(pad, width int) string {
		return "   | " + strings.Repeat(" ", pad) + "^" + strings.Repeat("~", width-1)
	}
	want := strings.Join([]string{
		"lib.rs:1:28: ERROR IMMUTABLE_ACCOUNT_MUTATED: Account 'vault' is defined here without #[account(mut)]",
		" 1 | pub fn update(ctx: Context<Update>) -> Result<()> {",
		underline(27, 6),
		"  note: lib.rs:2:2: Account 'vault' is mutated here",
		"lib.rs:2:2: ERROR IMMUTABLE_ACCOUNT_MUTATED: Attempting to mutate immutable account 'vault'. Add #[account(mut)] to allow mutation.",
		" 2 | \tctx.accounts.vault.balance = 100;",
		"   | \t^" + strings.Repeat("~", 31),
		"  note: lib.rs:1:28: Account 'vault' is defined here without #[account(mut)]",
		"lib.rs:3:15: WARNING UNSAFE_ARITHMETIC: Unchecked arithmetic operation detected.",
		" 3 |     let név = a + b;",
		underline(14, 5),
		"  = Consider using checked_add().",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyContextAndMax(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, []File{sampleFile(t, "lib.rs")}, PrettyOpts{Context: 1, Max: 2})
	out := buf.String()
	if !strings.Contains(out, " 1 | pub fn update") || !strings.Contains(out, " 2 | \tctx.accounts") {
		t.Errorf("context line missing:\n%s", out)
	}
	if strings.Contains(out, "UNSAFE_ARITHMETIC") || !strings.Contains(out, "... 1 more diagnostics not shown") {
		t.Errorf("max not honored:\n%s", out)
	}
	if strings.Contains(out, "note:") {
		t.Error("notes are opt-in")
	}
}

func TestPrettyColor(t *testing.T) {
	var plain, colored bytes.Buffer
	f := sampleFile(t, "lib.rs")
	Pretty(&plain, []File{f}, PrettyOpts{})
	Pretty(&colored, []File{f}, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output must not contain escapes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output must contain escapes")
	}
}

func TestPrettyWithoutSource(t *testing.T) {
	f := sampleFile(t, "lib.rs")
	f.Source = nil
	var buf bytes.Buffer
	Pretty(&buf, []File{f}, PrettyOpts{})
	if strings.Contains(buf.String(), " | ") {
		t.Errorf("no snippet expected:\n%s", buf.String())
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	Short(&buf, []File{sampleFile(t, "lib.rs")}, PathModeAuto, "")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d:\n%s", len(lines), buf.String())
	}
	want := "lib.rs:3:15: warning UNSAFE_ARITHMETIC: Unchecked arithmetic operation detected. Consider using checked_add()."
	if lines[2] != want {
		t.Errorf("got %q", lines[2])
	}
}

func TestByteCol(t *testing.T) {
	tests := []struct {
		line string
		col  uint32
		want int
	}{
		{"abc", 0, 0},
		{"abc", 2, 2},
		{"abc", 9, 3},
		{"név = 1", 3, 4},
		{"😀x", 2, 4},
	}
	for _, tt := range tests {
		if got := byteCol(tt.line, tt.col); got != tt.want {
			t.Errorf("byteCol(%q, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
}
