package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"anchorsec/internal/config"
	"anchorsec/internal/detector"
	"anchorsec/internal/diag"
	"anchorsec/internal/diagfmt"
	"anchorsec/internal/version"
)

const toolURI = "https://github.com/anchorsec/anchorsec"

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatShort  outputFormat = "short"
	formatJSON   outputFormat = "json"
	formatSarif  outputFormat = "sarif"
)

func readFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatPretty, formatShort, formatJSON, formatSarif:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (expected pretty|json|sarif|short)", value)
}

func readColor(value string, out *os.File) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return out != nil && isTerminal(out), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	configPath     string
}

func readGlobals(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var g globalOptions
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	if g.color, err = readColor(colorFlag, os.Stdout); err != nil {
		return g, err
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.maxDiagnostics < 0 {
		return g, fmt.Errorf("max-diagnostics must not be negative (got %d)", g.maxDiagnostics)
	}
	if g.configPath, err = flags.GetString("config"); err != nil {
		return g, fmt.Errorf("failed to get config flag: %w", err)
	}
	// fatih/color решает сам по NO_COLOR и TTY, но флаг главнее
	color.NoColor = !g.color
	return g, nil
}

// addDetectorFlags registers the flags that override the config file.
func addDetectorFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("enable", nil, "enable detectors by ID (comma-separated)")
	cmd.Flags().StringSlice("disable", nil, "disable detectors by ID (comma-separated)")
	cmd.Flags().StringArray("severity", nil, "override a detector severity, ID=level (repeatable)")
	cmd.Flags().Bool("no-warnings", false, "drop findings below error severity")
	cmd.Flags().Bool("warnings-as-errors", false, "report warnings as errors")
	cmd.Flags().String("path-mode", "relative", "how to print paths (auto|absolute|relative|basename)")
}

func readOverrides(cmd *cobra.Command) (config.Overrides, error) {
	var o config.Overrides
	var err error
	if o.Enable, err = cmd.Flags().GetStringSlice("enable"); err != nil {
		return o, fmt.Errorf("failed to get enable flag: %w", err)
	}
	if o.Disable, err = cmd.Flags().GetStringSlice("disable"); err != nil {
		return o, fmt.Errorf("failed to get disable flag: %w", err)
	}
	if o.Severity, err = cmd.Flags().GetStringArray("severity"); err != nil {
		return o, fmt.Errorf("failed to get severity flag: %w", err)
	}
	if f := cmd.Flags().Lookup("include-tests"); f != nil && f.Changed {
		v, err := cmd.Flags().GetBool("include-tests")
		if err != nil {
			return o, fmt.Errorf("failed to get include-tests flag: %w", err)
		}
		o.IncludeTests = &v
	}
	if f := cmd.Flags().Lookup("exclude"); f != nil {
		if o.Exclude, err = cmd.Flags().GetStringSlice("exclude"); err != nil {
			return o, fmt.Errorf("failed to get exclude flag: %w", err)
		}
	}
	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		if o.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return o, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		o.JobsSet = true
	}
	return o, nil
}

// loadConfig reads the explicit --config file or discovers one from dir,
// then layers env and flag overrides on top.
func loadConfig(cmd *cobra.Command, g globalOptions, dir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg, err = config.Discover(dir)
	}
	if err != nil {
		return nil, err
	}
	o, err := readOverrides(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Merge(o); err != nil {
		return nil, err
	}
	return cfg, nil
}

// registryFactory validates cfg once against a probe registry and returns a
// factory for per-worker registries. Unknown detector IDs only warn.
func registryFactory(cfg *config.Config, opts detector.Options, warn io.Writer) func() *detector.Registry {
	if err := cfg.Apply(detector.Default(opts)); err != nil {
		fmt.Fprintf(warn, "warning: %s: %v\n", configName(cfg), err)
	}
	return func() *detector.Registry {
		reg := detector.Default(opts)
		_ = cfg.Apply(reg)
		return reg
	}
}

func configName(cfg *config.Config) string {
	if cfg.Path == "" {
		return "flags"
	}
	return filepath.Base(cfg.Path)
}

// severityFilter реализует --no-warnings / --warnings-as-errors.
type severityFilter struct {
	noWarnings       bool
	warningsAsErrors bool
}

func readSeverityFilter(cmd *cobra.Command) (severityFilter, error) {
	var f severityFilter
	var err error
	if f.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.noWarnings && f.warningsAsErrors {
		return f, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	return f, nil
}

func (f severityFilter) apply(ds []diag.Diagnostic) []diag.Diagnostic {
	if !f.noWarnings && !f.warningsAsErrors {
		return ds
	}
	out := make([]diag.Diagnostic, 0, len(ds))
	for _, d := range ds {
		switch {
		case f.noWarnings && d.Severity < diag.SevError:
			continue
		case f.warningsAsErrors && d.Severity == diag.SevWarning:
			d.Severity = diag.SevError
		}
		out = append(out, d)
	}
	return out
}

// report is everything a formatter needs for one run.
type report struct {
	files    []diagfmt.File
	summary  diagfmt.Summary
	rules    []diagfmt.SarifRule
	pathMode diagfmt.PathMode
	baseDir  string
}

func (r *report) add(f diagfmt.File) {
	r.files = append(r.files, f)
	r.summary.FilesScanned++
	if len(f.Diagnostics) == 0 {
		return
	}
	r.summary.FlaggedFiles++
	r.summary.TotalIssues += len(f.Diagnostics)
	for _, d := range f.Diagnostics {
		switch d.Severity {
		case diag.SevError:
			r.summary.Errors++
		case diag.SevWarning:
			r.summary.Warnings++
		}
	}
}

func (r *report) hasErrors() bool { return r.summary.Errors > 0 }

func sarifRules(reg *detector.Registry) []diagfmt.SarifRule {
	listing := reg.ListDetectors()
	rules := make([]diagfmt.SarifRule, 0, len(listing))
	for _, l := range listing {
		rules = append(rules, diagfmt.SarifRule{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Level:       diagfmt.SarifLevel(l.Severity),
			Enabled:     l.Enabled,
		})
	}
	return rules
}

func render(w io.Writer, format outputFormat, r *report, g globalOptions, args []string) error {
	switch format {
	case formatPretty:
		diagfmt.Pretty(w, r.files, diagfmt.PrettyOpts{
			Color:     g.color,
			Context:   1,
			PathMode:  r.pathMode,
			BaseDir:   r.baseDir,
			ShowNotes: true,
			Max:       g.maxDiagnostics,
		})
	case formatShort:
		diagfmt.Short(w, r.files, r.pathMode, r.baseDir)
	case formatJSON:
		sum := r.summary
		return diagfmt.JSON(w, r.files, diagfmt.JSONOpts{
			PathMode: r.pathMode,
			BaseDir:  r.baseDir,
			Max:      g.maxDiagnostics,
			Summary:  &sum,
		})
	case formatSarif:
		return diagfmt.Sarif(w, r.files, diagfmt.SarifRunMeta{
			ToolName:       "anchorsec",
			ToolVersion:    version.String(),
			InformationURI: toolURI,
			InvocationArgs: args,
			Rules:          r.rules,
			PathMode:       r.pathMode,
			BaseDir:        r.baseDir,
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

// printSummary печатает итоговую строку для pretty-вывода.
func printSummary(w io.Writer, s diagfmt.Summary) {
	if s.TotalIssues == 0 {
		fmt.Fprintf(w, "%s %d files scanned, no issues\n", okColor.Sprint("ok:"), s.FilesScanned)
		return
	}
	label := warnColor.Sprint("found:")
	if s.Errors > 0 {
		label = failColor.Sprint("found:")
	}
	fmt.Fprintf(w, "%s %d issues (%d errors, %d warnings) in %d of %d files\n",
		label, s.TotalIssues, s.Errors, s.Warnings, s.FlaggedFiles, s.FilesScanned)
}
