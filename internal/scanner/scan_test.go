package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"testing"

	"anchorsec/internal/detector"
	"anchorsec/internal/diag"
	"anchorsec/internal/observ"
)

const vulnerable = `use anchor_lang::prelude::*;

#[program]
pub mod vault {
    use super::*;
    pub fn drain(ctx: Context<Drain>) -> Result<()> {
        ctx.accounts.vault.lamports = 0;
        Ok(())
    }
}

#[derive(Accounts)]
pub struct Drain<'info> {
    #[account(mut)]
    pub vault: Account<'info, Vault>,
    pub owner: Signer<'info>,
}

#[account]
#[derive(InitSpace)]
pub struct Vault {
    pub owner: Pubkey,
}
`

const clean = `use anchor_lang::prelude::*;

#[derive(Accounts)]
pub struct Close<'info> {
    pub owner: Signer<'info>,
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, text := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func paths(sum *Summary) []string {
	var out []string
	for _, f := range sum.Files {
		out = append(out, f.Path)
	}
	return out
}

func workspace(t *testing.T) string {
	return writeTree(t, map[string]string{
		"Anchor.toml":                       "[programs.localnet]\nvault = \"Vau1t11111111111111111111111111111111111111\"\n",
		"Cargo.toml":                        "[workspace]\nmembers = [\"programs/*\"]\n",
		"programs/vault/Cargo.toml":         "[package]\nname = \"vault\"\n",
		"programs/vault/src/lib.rs":         vulnerable,
		"programs/vault/src/close.rs":       clean,
		"programs/vault/src/util.rs":        "pub fn add(a: u64, b: u64) -> u64 { a + b }\n",
		"programs/vault/src/vault_test.rs":  vulnerable,
		"tests/integration.rs":              vulnerable,
		"target/debug/build/gen.rs":         vulnerable,
		"node_modules/pkg/x.rs":             vulnerable,
		".hidden/x.rs":                      vulnerable,
		"programs/vault/src/generated.rs":   vulnerable,
		"programs/vault/src/notes.txt":      vulnerable,
	})
}

func TestScan(t *testing.T) {
	root := workspace(t)
	sum, err := Scan(context.Background(), root, Options{Exclude: []string{"generated.rs"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"programs/vault/src/close.rs",
		"programs/vault/src/lib.rs",
		"programs/vault/src/util.rs",
	}
	if !reflect.DeepEqual(paths(sum), want) {
		t.Fatalf("files = %v", paths(sum))
	}
	if sum.FilesScanned != 3 || sum.FlaggedFiles != 1 || sum.TotalIssues != 1 {
		t.Errorf("scanned=%d flagged=%d issues=%d", sum.FilesScanned, sum.FlaggedFiles, sum.TotalIssues)
	}
	lib := sum.Files[1]
	if len(lib.Diagnostics) != 1 || lib.Diagnostics[0].Code != "MANUAL_LAMPORTS_ZEROING" {
		t.Errorf("lib.rs diagnostics: %+v", lib.Diagnostics)
	}
	if !lib.Anchor || lib.Test {
		t.Errorf("lib.rs classification: anchor=%v test=%v", lib.Anchor, lib.Test)
	}
	if sum.Files[2].Anchor {
		t.Error("util.rs does not import anchor")
	}
	if !sum.HasErrors() || sum.Count(diag.SevError) != 1 || sum.Count(diag.SevWarning) != 0 {
		t.Errorf("severity counts: errors=%d warnings=%d", sum.Count(diag.SevError), sum.Count(diag.SevWarning))
	}

	var kinds []string
	for _, m := range sum.Manifests {
		kinds = append(kinds, m.Path+":"+m.Kind)
	}
	wantKinds := []string{"Anchor.toml:Anchor.toml", "Cargo.toml:Cargo.toml", "programs/vault/Cargo.toml:Cargo.toml"}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("manifests = %v", kinds)
	}
	if !sum.Manifests[0].Workspace || !reflect.DeepEqual(sum.Manifests[0].Programs, []string{"vault"}) {
		t.Errorf("anchor manifest = %+v", sum.Manifests[0])
	}
}

func TestScanIncludeTests(t *testing.T) {
	root := workspace(t)
	sum, err := Scan(context.Background(), root, Options{IncludeTests: true, Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, f := range sum.Files {
		got[f.Path] = f.Test
	}
	for _, p := range []string{"programs/vault/src/vault_test.rs", "tests/integration.rs"} {
		test, ok := got[p]
		if !ok || !test {
			t.Errorf("%s: present=%v test=%v", p, ok, test)
		}
	}
	if _, ok := got["target/debug/build/gen.rs"]; ok {
		t.Error("target/ is never scanned")
	}
}

func TestScanDeterministicAcrossJobs(t *testing.T) {
	root := workspace(t)
	var prev *Summary
	for _, jobs := range []int{1, 2, 8} {
		sum, err := Scan(context.Background(), root, Options{IncludeTests: true, Jobs: jobs})
		if err != nil {
			t.Fatal(err)
		}
		if prev != nil {
			for i := range sum.Files {
				if !reflect.DeepEqual(sum.Files[i].Diagnostics, prev.Files[i].Diagnostics) {
					t.Fatalf("jobs=%d: %s differs", jobs, sum.Files[i].Path)
				}
			}
		}
		prev = sum
	}
}

func TestScanRegistryPerWorker(t *testing.T) {
	root := workspace(t)
	var mu sync.Mutex
	built := 0
	sum, err := Scan(context.Background(), root, Options{
		Jobs: 2,
		NewRegistry: func() *detector.Registry {
			mu.Lock()
			built++
			mu.Unlock()
			r := detector.Default(detector.Options{WorkspaceRoot: root})
			r.SetEnabled("MANUAL_LAMPORTS_ZEROING", false)
			return r
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if built != 2 {
		t.Errorf("registries built = %d, want 2", built)
	}
	if sum.TotalIssues != 0 {
		t.Errorf("disabled detector still reported %d issues", sum.TotalIssues)
	}
}

func TestScanProgress(t *testing.T) {
	root := writeTree(t, map[string]string{"a.rs": clean, "b.rs": vulnerable})
	var mu sync.Mutex
	var events []Event
	timer := observ.NewTimer()
	_, err := Scan(context.Background(), root, Options{
		Timer: timer,
		Progress: SinkFunc(func(ev Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	done := map[string]int{}
	for _, ev := range events {
		if ev.Stage == StageAnalyze && ev.Status == StatusDone && ev.File != "" {
			done[ev.File] = ev.Issues
		}
	}
	if !reflect.DeepEqual(done, map[string]int{"a.rs": 0, "b.rs": 1}) {
		t.Errorf("done events = %v", done)
	}
	last := events[len(events)-1]
	if last.File != "" || last.Status != StatusDone || last.Issues != 1 {
		t.Errorf("final event = %+v", last)
	}
	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	if !reflect.DeepEqual(names, []string{"walk", "analyze"}) {
		t.Errorf("phases = %v", names)
	}
}

func TestScanUnreadableFile(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	root := writeTree(t, map[string]string{"a.rs": clean, "b.rs": vulnerable})
	if err := os.Chmod(filepath.Join(root, "b.rs"), 0); err != nil {
		t.Fatal(err)
	}
	sum, err := Scan(context.Background(), root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if sum.FilesScanned != 1 || sum.Files[1].Err == nil || sum.Files[1].Error == "" {
		t.Errorf("unreadable file: %+v", sum.Files[1])
	}
}

func TestScanErrors(t *testing.T) {
	if _, err := Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing root: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, workspace(t), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled scan: %v", err)
	}
}

func TestResolveRoot(t *testing.T) {
	root := writeTree(t, map[string]string{"src/lib.rs": clean})
	tests := []struct {
		arg  string
		want string
	}{
		{root, root},
		{filepath.Join(root, "src", "lib.rs"), filepath.Join(root, "src")},
	}
	for _, tt := range tests {
		got, err := ResolveRoot(tt.arg)
		if err != nil || got != tt.want {
			t.Errorf("ResolveRoot(%q) = %q, %v", tt.arg, got, err)
		}
	}
	if _, err := ResolveRoot(filepath.Join(root, "nope")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing: %v", err)
	}
}

func TestAnalyzeText(t *testing.T) {
	got := AnalyzeText(vulnerable, "untitled:lib.rs", detector.Options{})
	var codes []string
	for _, d := range got {
		codes = append(codes, d.Code)
	}
	sort.Strings(codes)
	if !reflect.DeepEqual(codes, []string{"MANUAL_LAMPORTS_ZEROING"}) {
		t.Errorf("codes = %v", codes)
	}
}
