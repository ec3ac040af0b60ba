package source

import (
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		flags FileFlags
	}{
		{"plain", "fn f() {}\n", "fn f() {}\n", 0},
		{"crlf", "a\r\nb\r\n", "a\nb\n", FileNormalizedCRLF},
		{"lone cr", "a\rb", "a\rb", 0},
		{"bom", "\xEF\xBB\xBFuse x;", "use x;", FileHadBOM},
		{"bom and crlf", "\xEF\xBB\xBFa\r\n", "a\n", FileHadBOM | FileNormalizedCRLF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags := Normalize([]byte(tt.in))
			if string(got) != tt.want || flags != tt.flags {
				t.Fatalf("Normalize(%q) = %q, %b; want %q, %b", tt.in, got, flags, tt.want, tt.flags)
			}
		})
	}
}

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"inside", filepath.Join(base, "programs", "lib.rs"), "programs/lib.rs"},
		{"base itself", base, "."},
		{"outside falls back to absolute", filepath.Join(tmp, "other", "lib.rs"), filepath.ToSlash(filepath.Join(tmp, "other", "lib.rs"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativePath(tt.target, base)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("RelativePath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPath(t *testing.T) {
	tmp := t.TempDir()
	f := File{Path: filepath.ToSlash(filepath.Join(tmp, "src", "lib.rs"))}
	if got := f.FormatPath("basename", ""); got != "lib.rs" {
		t.Errorf("basename = %q", got)
	}
	if got := f.FormatPath("relative", tmp); got != "src/lib.rs" {
		t.Errorf("relative = %q", got)
	}
	if got := f.FormatPath("auto", ""); got != f.Path {
		t.Errorf("auto = %q", got)
	}
}
