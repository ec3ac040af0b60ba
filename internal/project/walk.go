package project

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

var excludedDirs = map[string]bool{
	"target":       true,
	"node_modules": true,
	".git":         true,
	".vscode":      true,
	".idea":        true,
	"out":          true,
	".anchor":      true,
}

// ExcludedDir reports directories never descended into. Hidden directories
// are skipped too; test directories only when tests are excluded.
func ExcludedDir(name string, includeTests bool) bool {
	if excludedDirs[name] {
		return true
	}
	if len(name) > 1 && strings.HasPrefix(name, ".") {
		return true
	}
	return !includeTests && IsTestDir(name)
}

// IsTestDir reports directories holding tests: tests/ and test/.
func IsTestDir(name string) bool {
	return name == "tests" || name == "test"
}

// IsTestFile reports test sources by name: foo_test.rs, test_foo.rs, tests.rs.
func IsTestFile(name string) bool {
	base := strings.TrimSuffix(name, ".rs")
	return strings.HasSuffix(base, "_test") || strings.HasPrefix(base, "test_") || base == "tests" || base == "test"
}

// IsTestPath reports whether any path element marks a test.
func IsTestPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if IsTestDir(part) || IsTestFile(part) && strings.HasSuffix(part, ".rs") {
			return true
		}
	}
	return false
}

// IsAnchorProgram is a textual check for Anchor program sources.
func IsAnchorProgram(text string) bool {
	return strings.Contains(text, "anchor_lang") ||
		strings.Contains(text, "anchor_spl") ||
		strings.Contains(text, "#[program]") ||
		strings.Contains(text, "#[derive(Accounts)]")
}

// WalkOptions controls Walk.
type WalkOptions struct {
	IncludeTests bool
	// Exclude holds extra glob patterns matched against slash paths relative to the root
	// and against base names.
	Exclude []string
}

func (o WalkOptions) excluded(rel, name string) bool {
	for _, pat := range o.Exclude {
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
		if strings.HasSuffix(pat, "/**") && strings.HasPrefix(rel+"/", strings.TrimSuffix(pat, "**")) {
			return true
		}
	}
	return false
}

// Tree is the result of Walk: sources and manifests, each sorted.
type Tree struct {
	Root      string
	Sources   []string
	Manifests []string
}

// Walk collects every reachable .rs file and manifest under root.
// Unreadable entries are skipped; only cancellation and an unreadable root fail.
func Walk(ctx context.Context, root string, opts WalkOptions) (*Tree, error) {
	tree := &Tree{Root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()
		if d.IsDir() {
			if path != root && (ExcludedDir(name, opts.IncludeTests) || opts.excluded(rel, name)) {
				return fs.SkipDir
			}
			return nil
		}
		if opts.excluded(rel, name) {
			return nil
		}
		switch {
		case name == AnchorManifest || name == CargoManifest:
			tree.Manifests = append(tree.Manifests, path)
		case strings.HasSuffix(name, ".rs"):
			if !opts.IncludeTests && IsTestFile(name) {
				return nil
			}
			tree.Sources = append(tree.Sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(tree.Sources)
	sort.Strings(tree.Manifests)
	return tree, nil
}
