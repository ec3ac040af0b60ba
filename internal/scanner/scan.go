// Package scanner runs the detector registry across an Anchor workspace.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"anchorsec/internal/detector"
	"anchorsec/internal/diag"
	"anchorsec/internal/observ"
	"anchorsec/internal/project"
	"anchorsec/internal/signergraph"
)

// Options controls Scan.
type Options struct {
	IncludeTests bool
	// Exclude holds extra glob patterns, see project.WalkOptions.
	Exclude []string
	// Jobs limits parallel workers; <= 0 means GOMAXPROCS.
	Jobs int
	// NewRegistry builds one registry per worker. Nil means detector.Default(Detectors).
	NewRegistry func() *detector.Registry
	// Detectors configures the default registry factory.
	Detectors detector.Options
	Progress  ProgressSink
	// Timer, when set, receives the walk and analyze phases.
	Timer *observ.Timer
}

// FileResult is the outcome for one source file.
type FileResult struct {
	// Path is slash-separated and relative to the scan root.
	Path        string            `json:"path"`
	AbsPath     string            `json:"-"`
	Anchor      bool              `json:"anchor"`
	Test        bool              `json:"test,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Err         error             `json:"-"`
	Error       string            `json:"error,omitempty"`
	Text        []byte            `json:"-"`
}

// Flagged reports a file with at least one finding.
func (r *FileResult) Flagged() bool { return len(r.Diagnostics) > 0 }

// Summary aggregates a scan.
type Summary struct {
	Root         string             `json:"root"`
	Files        []FileResult       `json:"files"`
	Manifests    []project.Manifest `json:"manifests,omitempty"`
	FilesScanned int                `json:"filesScanned"`
	FlaggedFiles int                `json:"flaggedFiles"`
	TotalIssues  int                `json:"totalIssues"`
	Elapsed      time.Duration      `json:"-"`
}

// Count returns the number of findings of severity sev.
func (s *Summary) Count(sev diag.Severity) int {
	n := 0
	for i := range s.Files {
		for _, d := range s.Files[i].Diagnostics {
			if d.Severity == sev {
				n++
			}
		}
	}
	return n
}

// HasErrors reports any Error-severity finding.
func (s *Summary) HasErrors() bool { return s.Count(diag.SevError) > 0 }

// Scan walks root, analyzes every Rust source in parallel and aggregates the
// results in path order. Unreadable files are recorded and skipped; only
// cancellation or an unreadable root fail the scan.
func Scan(ctx context.Context, root string, opts Options) (*Summary, error) {
	start := time.Now()
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	walkIdx := opts.Timer.Begin("walk")
	emit(opts.Progress, Event{Stage: StageWalk, Status: StatusWorking})
	tree, err := project.Walk(ctx, absRoot, project.WalkOptions{
		IncludeTests: opts.IncludeTests,
		Exclude:      opts.Exclude,
	})
	if err != nil {
		emit(opts.Progress, Event{Stage: StageWalk, Status: StatusError, Err: err})
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	opts.Timer.End(walkIdx, fmt.Sprintf("%d files", len(tree.Sources)))

	sum := &Summary{Root: absRoot, Files: make([]FileResult, len(tree.Sources))}
	for _, path := range tree.Manifests {
		// битый манифест не мешает сканированию
		if m, err := project.LoadManifest(path); err == nil {
			m.Path = rel(absRoot, path)
			sum.Manifests = append(sum.Manifests, m)
		}
	}
	for i, path := range tree.Sources {
		sum.Files[i] = FileResult{Path: rel(absRoot, path), AbsPath: path}
		emit(opts.Progress, Event{File: sum.Files[i].Path, Stage: StageAnalyze, Status: StatusQueued})
	}

	newRegistry := opts.NewRegistry
	if newRegistry == nil {
		dopts := opts.Detectors
		if dopts.WorkspaceRoot == "" {
			dopts.WorkspaceRoot = workspaceRoot(absRoot)
		}
		if dopts.SignerCache == nil {
			// без общего кеша каждый файл заново индексирует весь workspace
			dopts.SignerCache = signergraph.NewCache(nil)
		}
		newRegistry = func() *detector.Registry { return detector.Default(dopts) }
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = max(1, min(jobs, len(tree.Sources)))

	analyzeIdx := opts.Timer.Begin("analyze")
	work := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(work)
		for i := range sum.Files {
			select {
			case work <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for range jobs {
		g.Go(func() error {
			// Registry не потокобезопасен: по одному на воркер
			reg := newRegistry()
			for i := range work {
				if err := gctx.Err(); err != nil {
					return err
				}
				analyzeFile(reg, &sum.Files[i], opts.Progress)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	for i := range sum.Files {
		f := &sum.Files[i]
		if f.Err != nil {
			continue
		}
		sum.FilesScanned++
		if f.Flagged() {
			sum.FlaggedFiles++
			sum.TotalIssues += len(f.Diagnostics)
		}
	}
	opts.Timer.End(analyzeIdx, fmt.Sprintf("%d issues", sum.TotalIssues))
	sum.Elapsed = time.Since(start)
	emit(opts.Progress, Event{Stage: StageAnalyze, Status: StatusDone, Issues: sum.TotalIssues, Elapsed: sum.Elapsed})
	return sum, nil
}

func analyzeFile(reg *detector.Registry, f *FileResult, sink ProgressSink) {
	start := time.Now()
	emit(sink, Event{File: f.Path, Stage: StageAnalyze, Status: StatusWorking})
	text, err := os.ReadFile(f.AbsPath)
	if err != nil {
		f.Err = err
		f.Error = err.Error()
		emit(sink, Event{File: f.Path, Stage: StageAnalyze, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return
	}
	f.Text = text
	src := string(text)
	f.Anchor = project.IsAnchorProgram(src)
	f.Test = project.IsTestPath(f.Path)
	f.Diagnostics = reg.AnalyzeFile(src, f.AbsPath)
	emit(sink, Event{File: f.Path, Stage: StageAnalyze, Status: StatusDone, Issues: len(f.Diagnostics), Elapsed: time.Since(start)})
}

// AnalyzeText runs a fresh default registry over one in-memory buffer.
func AnalyzeText(text, path string, opts detector.Options) []diag.Diagnostic {
	return detector.Default(opts).AnalyzeFile(text, path)
}

// ErrNotDir is returned by ResolveRoot for paths that are neither a file nor a directory.
var ErrNotDir = errors.New("not a directory")

// ResolveRoot turns a CLI argument into a scan root: a directory as is,
// a file's parent directory otherwise.
func ResolveRoot(arg string) (string, error) {
	if arg == "" {
		arg = "."
	}
	info, err := os.Stat(arg)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", arg, err)
	}
	switch {
	case info.IsDir():
		return arg, nil
	case info.Mode().IsRegular():
		return filepath.Dir(arg), nil
	}
	return "", fmt.Errorf("resolve %s: %w", arg, ErrNotDir)
}

// workspaceRoot pins the signer graph to the enclosing workspace so each
// file does not search upward on its own.
func workspaceRoot(dir string) string {
	root, err := project.FindWorkspaceRoot(dir)
	if err != nil {
		return dir
	}
	return root
}

func rel(root, path string) string {
	r, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(r)
}
