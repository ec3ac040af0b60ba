package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"anchorsec/internal/config"
	"anchorsec/internal/project"
)

const watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [dir]",
	Short: "Rescan the workspace whenever a source file changes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("format", "short", "output format (pretty|json|sarif|short)")
	watchCmd.Flags().Bool("include-tests", false, "also scan test files and tests/ directories")
	watchCmd.Flags().StringSlice("exclude", nil, "extra glob patterns to skip (relative to dir)")
	watchCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	watchCmd.Flags().Bool("cache", false, "persist the signer-graph cache on disk between runs")
	addDetectorFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	stopProfiling, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	run, err := prepareScan(cmd, args)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer w.Close()
	if err := addWatchRecursive(w, run.root, run.opts.IncludeTests); err != nil {
		return fmt.Errorf("watch %s: %w", run.root, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	loop := &watchLoop{
		run:     run,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		digests: make(map[string]project.Digest),
	}
	return loop.serve(ctx, w)
}

// watchLoop rescans after bursts of file events settle.
type watchLoop struct {
	run    *scanRun
	out    io.Writer
	errOut io.Writer
	// digests remembers the content hash each file had in the last scan so
	// the matching cache entries can be dropped when it changes.
	digests map[string]project.Digest
}

func (l *watchLoop) serve(ctx context.Context, w *fsnotify.Watcher) error {
	l.rescan(ctx, nil)

	pending := make(map[string]struct{})
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addWatchRecursive(w, ev.Name, l.run.opts.IncludeTests); err != nil {
						fmt.Fprintf(l.errOut, "warning: watch %s: %v\n", ev.Name, err)
					}
				}
			}
			if !relevantChange(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(l.errOut, "warning: watch error: %v\n", err)
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			l.rescan(ctx, changed)
		}
	}
}

func (l *watchLoop) rescan(ctx context.Context, changed []string) {
	if len(changed) > 0 {
		l.forget(changed)
		if !l.run.globals.quiet {
			fmt.Fprintf(l.errOut, "\n%s: %d file(s) changed, rescanning\n", time.Now().Format(time.TimeOnly), len(changed))
		}
	}
	if touchesConfig(changed) {
		if err := l.reloadConfig(); err != nil {
			fmt.Fprintf(l.errOut, "warning: config not reloaded: %v\n", err)
		}
	}
	rep, err := l.run.execute(ctx, false, l.errOut)
	if err != nil {
		if ctx.Err() == nil {
			fmt.Fprintf(l.errOut, "error: %v\n", err)
		}
		return
	}
	if err := l.run.print(l.out, rep); err != nil {
		fmt.Fprintf(l.errOut, "error: %v\n", err)
	}
	l.remember()
}

// forget drops cached summaries of the changed files.
func (l *watchLoop) forget(changed []string) {
	for _, p := range changed {
		if d, ok := l.digests[p]; ok {
			l.run.cache.Forget(d)
			delete(l.digests, p)
		}
	}
}

// remember hashes the current content of every Rust file under the root.
func (l *watchLoop) remember() {
	_ = filepath.WalkDir(l.run.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != l.run.root && project.ExcludedDir(d.Name(), l.run.opts.IncludeTests) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".rs" {
			return nil
		}
		// #nosec G304 -- path comes from walking the scan root
		if text, err := os.ReadFile(path); err == nil {
			l.digests[path] = project.HashContent(text)
		}
		return nil
	})
}

func (l *watchLoop) reloadConfig() error {
	cfg, err := l.run.reload()
	if err != nil {
		return err
	}
	l.run.cfg = cfg
	l.run.opts.IncludeTests = cfg.Scan.IncludeTests
	l.run.opts.Exclude = cfg.Scan.Exclude
	l.run.opts.Jobs = cfg.Scan.Jobs
	l.run.opts.NewRegistry = registryFactory(cfg, l.run.opts.Detectors, l.errOut)
	return nil
}

// relevantChange keeps writes to Rust sources, manifests and config files.
func relevantChange(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(ev.Name)
	switch {
	case strings.HasSuffix(name, ".rs"):
		return true
	case name == project.AnchorManifest || name == project.CargoManifest:
		return true
	case isConfigFile(name):
		return true
	}
	return false
}

func isConfigFile(name string) bool {
	return name == config.FileName || name == config.YAMLFileName || name == ".anchorsec.yml"
}

func touchesConfig(changed []string) bool {
	for _, p := range changed {
		if isConfigFile(filepath.Base(p)) {
			return true
		}
	}
	return false
}

func addWatchRecursive(w *fsnotify.Watcher, root string, includeTests bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && project.ExcludedDir(d.Name(), includeTests) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
