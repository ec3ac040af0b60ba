package detector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"anchorsec/internal/anchor"
	"anchorsec/internal/diag"
	"anchorsec/internal/project"
	"anchorsec/internal/signergraph"
)

var signerInfo = Info{
	ID:              "MISSING_SIGNER",
	Name:            "Missing Signer Check",
	Description:     "Detects Anchor accounts structs that have no signer accounts, which could allow unauthorized access",
	DefaultSeverity: diag.SevWarning,
	Message:         "Accounts struct has no signer. Consider adding a Signer<'info> field to ensure proper authorization.",
}

// SignerCache is the content-hash summary cache shared by signer detectors.
type SignerCache = signergraph.Cache

// MissingSigner flags public handlers whose accounts context reaches no
// Signer, following nested contexts across the whole workspace.
type MissingSigner struct {
	cache *signergraph.Cache
	root  string
}

// NewMissingSigner returns the detector. cache may be nil; an empty root
// means "search upward from the analyzed file".
func NewMissingSigner(cache *SignerCache, root string) *MissingSigner {
	return &MissingSigner{cache: cache, root: root}
}

func (d *MissingSigner) Info() Info                 { return signerInfo }
func (d *MissingSigner) ShouldRun(text string) bool { return MentionsAnchor(text) }

func (d *MissingSigner) Analyze(text, path string) []diag.Diagnostic {
	return analyze(text, path, d.analyzeProgram)
}

func (d *MissingSigner) analyzeProgram(prog *anchor.Program) []diag.Diagnostic {
	var handlers []*anchor.Handler
	for _, h := range prog.Handlers {
		if h.Public {
			handlers = append(handlers, h)
		}
	}
	if len(handlers) == 0 {
		return nil
	}

	root := d.root
	if root == "" {
		root = workspaceRootFor(prog.Path)
	}
	overlay := signergraph.Summarize(prog)
	g := signergraph.Build(context.Background(), root, signergraph.Options{
		Cache:       d.cache,
		OverlayPath: prog.Path,
		Overlay:     &overlay,
	})
	r := signergraph.NewResolver(g)

	var out []diag.Diagnostic
	for _, h := range handlers {
		rng := diag.RangeOf(prog.File, h.ContextSpan)
		v := r.Resolve(h.Context)
		switch {
		case !v.Found:
			out = append(out, diag.New(signerInfo.ID, diag.SevInfo, rng, fmt.Sprintf(
				"Accounts struct '%s' definition was not found in the workspace; signer requirement could not be verified.", h.Context)))
		case v.Ambiguous:
			out = append(out, finding(signerInfo, rng, fmt.Sprintf(
				"Accounts struct '%s' is declared more than once with conflicting signer requirements (%s); the signer check is ambiguous.",
				h.Context, strings.Join(displayPaths(root, v.Files), ", "))))
		case !v.Signed:
			msg := fmt.Sprintf("Accounts struct '%s' has no signer. Consider adding a Signer<'info> field to ensure proper authorization.", h.Context)
			if len(v.Composites) > 0 {
				msg += fmt.Sprintf(" Nested account groups checked: %s.", strings.Join(v.Composites, ", "))
			}
			out = append(out, finding(signerInfo, rng, msg))
		}
	}
	return out
}

// workspaceRootFor returns "" for virtual paths: nothing on disk to index.
func workspaceRootFor(path string) string {
	if path == "" {
		return ""
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	root, err := project.FindWorkspaceRoot(dir)
	if err != nil {
		return ""
	}
	return root
}

func displayPaths(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p
		if root == "" {
			continue
		}
		if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
			out[i] = filepath.ToSlash(rel)
		}
	}
	return out
}
