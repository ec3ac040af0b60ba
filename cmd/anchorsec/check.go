package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"anchorsec/internal/detector"
	"anchorsec/internal/diagfmt"
	"anchorsec/internal/observ"
	"anchorsec/internal/signergraph"
	"anchorsec/internal/source"
)

// stdinPath names buffers read from stdin. Its directory does not exist, so
// the signer detector treats the buffer as standalone.
const stdinPath = "<stdin>/input.rs"

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.rs|->",
	Short: "Analyze a single Rust file, or stdin with -",
	Long: `Analyze one file. Nested account contexts are still resolved against the
enclosing workspace; with - the buffer is read from stdin and analyzed on its
own unless --stdin-path places it inside a workspace.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	checkCmd.Flags().String("stdin-path", "", "treat stdin as this file (overlays it on its workspace)")
	addDetectorFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	stopProfiling, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readFormat(formatFlag)
	if err != nil {
		return err
	}
	filter, err := readSeverityFilter(cmd)
	if err != nil {
		return err
	}
	pathFlag, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathFlag)
	if !ok {
		return fmt.Errorf("invalid --path-mode value %q", pathFlag)
	}
	stdinAs, err := cmd.Flags().GetString("stdin-path")
	if err != nil {
		return fmt.Errorf("failed to get stdin-path flag: %w", err)
	}

	path, text, err := readInput(args[0], stdinAs, cmd.InOrStdin())
	if err != nil {
		return err
	}
	configDir := filepath.Dir(path)
	if _, err := os.Stat(configDir); err != nil {
		configDir = "."
	}
	cfg, err := loadConfig(cmd, g, configDir)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if g.timings {
		timer = observ.NewTimer()
	}
	newRegistry := registryFactory(cfg, detector.Options{SignerCache: signergraph.NewCache(nil)}, cmd.ErrOrStderr())
	reg := newRegistry()

	rep := &report{pathMode: pathMode, baseDir: mustGetwd()}
	timer.Track("analyze", func() string {
		fs := source.NewFileSet()
		file := diagfmt.File{Path: path, Diagnostics: filter.apply(reg.AnalyzeFile(string(text), path))}
		file.Source = fs.Get(fs.Add(path, text, 0))
		rep.add(file)
		return fmt.Sprintf("%d issues", rep.summary.TotalIssues)
	})
	if format == formatSarif {
		rep.rules = sarifRules(reg)
	}
	if err := render(cmd.OutOrStdout(), format, rep, g, os.Args[1:]); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if format == formatPretty && !g.quiet {
		printSummary(cmd.OutOrStdout(), rep.summary)
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if rep.hasErrors() {
		return errFindings
	}
	return nil
}

// readInput returns the analyzed path and its bytes. Real files get an
// absolute path so the signer graph can find their workspace.
func readInput(arg, stdinAs string, stdin io.Reader) (string, []byte, error) {
	if arg == "-" {
		text, err := io.ReadAll(stdin)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		if stdinAs == "" {
			return stdinPath, text, nil
		}
		abs, err := filepath.Abs(stdinAs)
		if err != nil {
			return "", nil, err
		}
		return abs, text, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", nil, err
	}
	// #nosec G304 -- path is provided by the user
	text, err := os.ReadFile(abs)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return abs, text, nil
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
