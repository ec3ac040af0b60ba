package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"anchorsec/internal/config"
	"anchorsec/internal/detector"
	"anchorsec/internal/diagfmt"
	"anchorsec/internal/observ"
	"anchorsec/internal/scanner"
	"anchorsec/internal/signergraph"
	"anchorsec/internal/source"
	"anchorsec/internal/ui"
)

const cacheApp = "anchorsec"

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [dir]",
	Short: "Scan an Anchor workspace for security issues",
	Long: `Scan every Rust source under dir (default: the current directory).
Build output, dependencies, hidden directories and tests are skipped unless
--include-tests is given. Exits with status 1 when an error-severity finding exists.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	scanCmd.Flags().Bool("include-tests", false, "also scan test files and tests/ directories")
	scanCmd.Flags().StringSlice("exclude", nil, "extra glob patterns to skip (relative to dir)")
	scanCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	scanCmd.Flags().Bool("cache", false, "persist the signer-graph cache on disk between runs")
	scanCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	addDetectorFlags(scanCmd)
}

// scanRun collects the resolved options of one scan invocation so that watch
// can repeat it.
type scanRun struct {
	root     string
	format   outputFormat
	globals  globalOptions
	filter   severityFilter
	pathMode diagfmt.PathMode
	cfg      *config.Config
	// reload re-reads the config with the same flag overrides.
	reload   func() (*config.Config, error)
	cache    *signergraph.Cache
	opts     scanner.Options
	args     []string
}

func prepareScan(cmd *cobra.Command, args []string) (*scanRun, error) {
	arg := "."
	if len(args) > 0 {
		arg = args[0]
	}
	root, err := scanner.ResolveRoot(arg)
	if err != nil {
		return nil, err
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	g, err := readGlobals(cmd)
	if err != nil {
		return nil, err
	}
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readFormat(formatFlag)
	if err != nil {
		return nil, err
	}
	filter, err := readSeverityFilter(cmd)
	if err != nil {
		return nil, err
	}
	pathFlag, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathFlag)
	if !ok {
		return nil, fmt.Errorf("invalid --path-mode value %q", pathFlag)
	}
	cfg, err := loadConfig(cmd, g, root)
	if err != nil {
		return nil, err
	}

	useDisk, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	var disk *signergraph.DiskCache
	if useDisk {
		if disk, err = signergraph.OpenDiskCache(cacheApp); err != nil {
			// без диска работаем только с памятью
			fmt.Fprintf(os.Stderr, "warning: disk cache disabled: %v\n", err)
			disk = nil
		}
	}
	cache := signergraph.NewCache(disk)
	dopts := detector.Options{SignerCache: cache}

	return &scanRun{
		root:     root,
		format:   format,
		globals:  g,
		filter:   filter,
		pathMode: pathMode,
		cfg:      cfg,
		reload:   func() (*config.Config, error) { return loadConfig(cmd, g, root) },
		cache:    cache,
		args:     os.Args[1:],
		opts: scanner.Options{
			IncludeTests: cfg.Scan.IncludeTests,
			Exclude:      cfg.Scan.Exclude,
			Jobs:         cfg.Scan.Jobs,
			NewRegistry:  registryFactory(cfg, dopts, os.Stderr),
			Detectors:    dopts,
		},
	}, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	stopProfiling, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	run, err := prepareScan(cmd, args)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	useTUI := shouldUseTUI(mode) && run.format == formatPretty && !run.globals.quiet

	rep, err := run.execute(cmd.Context(), useTUI, os.Stderr)
	if err != nil {
		return err
	}
	if err := run.print(cmd.OutOrStdout(), rep); err != nil {
		return err
	}
	if rep.hasErrors() {
		return errFindings
	}
	return nil
}

// execute runs one scan and converts it into a report.
func (s *scanRun) execute(ctx context.Context, useTUI bool, stderr io.Writer) (*report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := s.opts
	var timer *observ.Timer
	if s.globals.timings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	var (
		sum *scanner.Summary
		err error
	)
	if useTUI {
		sum, err = ui.RunScan(ctx, os.Stdout, "scanning "+filepath.Base(s.root), s.root, opts)
	} else {
		sum, err = scanner.Scan(ctx, s.root, opts)
	}
	if err != nil {
		return nil, err
	}

	rep := buildReport(sum, s.filter, timer)
	rep.pathMode = s.pathMode
	rep.baseDir = s.root
	if s.format == formatSarif {
		rep.rules = sarifRules(s.opts.NewRegistry())
	}
	for _, f := range sum.Files {
		if f.Err != nil && !s.globals.quiet {
			fmt.Fprintf(stderr, "warning: skipped %s: %v\n", f.Path, f.Err)
		}
	}
	if timer != nil {
		fmt.Fprint(stderr, timer.Summary())
	}
	return rep, nil
}

func (s *scanRun) print(w io.Writer, rep *report) error {
	if err := render(w, s.format, rep, s.globals, s.args); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if s.format == formatPretty && !s.globals.quiet {
		printSummary(w, rep.summary)
	}
	return nil
}

// buildReport turns a scan summary into formatter input. Source text kept by
// the scanner backs the pretty snippets.
func buildReport(sum *scanner.Summary, filter severityFilter, timer *observ.Timer) *report {
	rep := &report{}
	timer.Track("report", func() string {
		fs := source.NewFileSetWithBase(sum.Root)
		for _, f := range sum.Files {
			if f.Err != nil {
				continue
			}
			file := diagfmt.File{Path: f.AbsPath, Diagnostics: filter.apply(f.Diagnostics)}
			if len(file.Diagnostics) > 0 {
				file.Source = fs.Get(fs.Add(f.AbsPath, f.Text, 0))
			}
			rep.add(file)
		}
		return fmt.Sprintf("%d issues", rep.summary.TotalIssues)
	})
	return rep
}
