package signergraph

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"anchorsec/internal/project"
)

// Located is a declaration together with the file it came from.
type Located struct {
	Decl
	Path string
}

// Graph maps a context name to all of its declarations in the workspace.
type Graph struct {
	Root  string
	decls map[string][]Located
}

// Options controls Build.
type Options struct {
	Cache *Cache
	// Overlay replaces the disk copy of one file (the buffer being analyzed).
	OverlayPath string
	OverlayText []byte
	// Overlay is the already computed summary of OverlayPath; it wins over OverlayText.
	Overlay *Summary
	Walk        project.WalkOptions
	Jobs        int
}

// Build indexes every reachable .rs file under root. A missing or unreadable
// root yields a graph holding only the overlay; per-file read errors are skipped.
func Build(ctx context.Context, root string, opts Options) *Graph {
	g := &Graph{Root: root, decls: make(map[string][]Located)}

	var files []string
	if root != "" {
		if tree, err := project.Walk(ctx, root, opts.Walk); err == nil {
			files = tree.Sources
		}
	}
	overlay := ""
	if opts.OverlayPath != "" {
		overlay = canonical(opts.OverlayPath)
	}

	summaries := make([]Summary, len(files))
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, path := range files {
		if overlay != "" && canonical(path) == overlay {
			continue
		}
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return nil
			}
			text, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			summaries[i] = summarizeCached(opts.Cache, path, text)
			return nil
		})
	}
	_ = eg.Wait()

	for i, path := range files {
		g.add(path, summaries[i])
	}
	switch {
	case opts.Overlay != nil:
		g.add(opts.OverlayPath, *opts.Overlay)
	case overlay != "":
		g.add(opts.OverlayPath, summarizeCached(opts.Cache, opts.OverlayPath, opts.OverlayText))
	}
	for name := range g.decls {
		sort.SliceStable(g.decls[name], func(a, b int) bool {
			return g.decls[name][a].Path < g.decls[name][b].Path
		})
	}
	return g
}

func summarizeCached(cache *Cache, path string, text []byte) Summary {
	key := project.HashContent(text)
	if sum, ok := cache.Get(key); ok {
		return sum
	}
	sum := SummarizeText(path, text)
	cache.Put(key, sum)
	return sum
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func (g *Graph) add(path string, sum Summary) {
	for _, d := range sum.Decls {
		g.decls[d.Name] = append(g.decls[d.Name], Located{Decl: d, Path: path})
	}
}

// FromDecls builds a graph directly; used by tests and single-file analysis.
func FromDecls(decls ...Located) *Graph {
	g := &Graph{decls: make(map[string][]Located)}
	for _, d := range decls {
		g.decls[d.Name] = append(g.decls[d.Name], d)
	}
	return g
}

// Lookup returns the declarations of name, sorted by path.
func (g *Graph) Lookup(name string) []Located {
	return g.decls[name]
}

// Len returns the number of distinct context names.
func (g *Graph) Len() int { return len(g.decls) }
