package signergraph

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"anchorsec/internal/project"
)

func decl(name string, signer bool, composites ...string) Located {
	return Located{Decl: Decl{Name: name, HasSigner: signer, Composites: composites}, Path: name + ".rs"}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		decls  []Located
		target string
		want   Verdict
	}{
		{
			name:   "direct signer",
			decls:  []Located{decl("A", true)},
			target: "A",
			want:   Verdict{Found: true, Signed: true, Files: []string{"A.rs"}},
		},
		{
			name:   "nested signer",
			decls:  []Located{decl("A", false, "B"), decl("B", false, "C"), decl("C", true)},
			target: "A",
			want:   Verdict{Found: true, Signed: true, Files: []string{"A.rs"}, Composites: []string{"B"}},
		},
		{
			name:   "empty context",
			decls:  []Located{decl("A", false)},
			target: "A",
			want:   Verdict{Found: true, Files: []string{"A.rs"}},
		},
		{
			name:   "cycle without signer",
			decls:  []Located{decl("A", false, "B"), decl("B", false, "A")},
			target: "A",
			want:   Verdict{Found: true, Files: []string{"A.rs"}, Composites: []string{"B"}},
		},
		{
			name:   "cycle with signer on a side branch",
			decls:  []Located{decl("A", false, "B", "C"), decl("B", false, "A"), decl("C", true)},
			target: "B",
			want:   Verdict{Found: true, Signed: true, Files: []string{"B.rs"}, Composites: []string{"A"}},
		},
		{
			name:   "unknown composite",
			decls:  []Located{decl("A", false, "Missing")},
			target: "A",
			want:   Verdict{Found: true, Files: []string{"A.rs"}, Composites: []string{"Missing"}},
		},
		{
			name:   "not found",
			decls:  []Located{decl("A", true)},
			target: "B",
			want:   Verdict{},
		},
		{
			name: "disagreeing duplicates",
			decls: []Located{
				{Decl: Decl{Name: "A", HasSigner: true}, Path: "x.rs"},
				{Decl: Decl{Name: "A"}, Path: "y.rs"},
			},
			target: "A",
			want:   Verdict{Found: true, Signed: true, Ambiguous: true, Files: []string{"x.rs", "y.rs"}},
		},
		{
			name: "agreeing duplicates",
			decls: []Located{
				{Decl: Decl{Name: "A", HasSigner: true}, Path: "x.rs"},
				{Decl: Decl{Name: "A", HasSigner: true}, Path: "y.rs"},
			},
			target: "A",
			want:   Verdict{Found: true, Signed: true, Files: []string{"x.rs", "y.rs"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResolver(FromDecls(tt.decls...)).Resolve(tt.target)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolverMemoIsOrderIndependent(t *testing.T) {
	g := FromDecls(decl("A", false, "B", "C"), decl("B", false, "A"), decl("C", true))
	r := NewResolver(g)
	for _, name := range []string{"A", "B", "C", "B"} {
		if v := r.Resolve(name); !v.Signed {
			t.Errorf("%s should reach the signer", name)
		}
	}
}

const (
	poolRS = `use anchor_lang::prelude::*;
#[derive(Accounts)]
pub struct Auth<'info> { pub user: Signer<'info> }
`
	libRS = `use anchor_lang::prelude::*;
#[derive(Accounts)]
pub struct Swap<'info> { pub auth: Auth<'info>, pub pool: Account<'info, Pool> }
`
)

func TestBuildWorkspace(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) string {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}
	write("Anchor.toml", "")
	write("programs/amm/src/auth.rs", poolRS)
	lib := write("programs/amm/src/lib.rs", "this does not parse {")
	write("target/stale.rs", "#[derive(Accounts)] pub struct Swap { }")

	cache := NewCache(nil)
	g := Build(context.Background(), dir, Options{Cache: cache, OverlayPath: lib, OverlayText: []byte(libRS)})
	if v := NewResolver(g).Resolve("Swap"); !v.Found || !v.Signed || v.Ambiguous {
		t.Fatalf("Swap: %+v", v)
	}
	if len(g.Lookup("Swap")) != 1 {
		t.Errorf("target/ must be excluded and the overlay must replace the disk copy: %+v", g.Lookup("Swap"))
	}

	// второй проход берёт сводки из кеша
	Build(context.Background(), dir, Options{Cache: cache, OverlayPath: lib, OverlayText: []byte(libRS)})
	if hits, _ := cache.Stats(); hits < 2 {
		t.Errorf("expected cache hits on rebuild, got %d", hits)
	}
}

func TestBuildMissingRoot(t *testing.T) {
	g := Build(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	if g.Len() != 0 {
		t.Errorf("missing root should give an empty graph, got %d names", g.Len())
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	disk, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.HashContent([]byte(libRS))
	want := SummarizeText("lib.rs", []byte(libRS))
	if err := disk.Put(key, &want); err != nil {
		t.Fatal(err)
	}

	// свежий Cache без памяти поднимает запись с диска
	c := NewCache(disk)
	got, ok := c.Get(key)
	if !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v ok=%v, want %+v", got, ok, want)
	}
	if _, ok := c.Get(project.HashContent([]byte("other"))); ok {
		t.Error("unexpected hit for unknown content")
	}
	if err := disk.DropAll(); err != nil {
		t.Fatal(err)
	}
	var out Summary
	if found, err := disk.Get(key, &out); err != nil || found {
		t.Errorf("after DropAll: found=%v err=%v", found, err)
	}
}

func TestSummarizeBroken(t *testing.T) {
	sum := SummarizeText("bad.rs", []byte("fn ("))
	if !sum.Broken || len(sum.Decls) != 0 {
		t.Errorf("broken file summary: %+v", sum)
	}
}
