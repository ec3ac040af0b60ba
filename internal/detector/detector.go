// Package detector holds the security detectors and the registry that runs them.
package detector

import (
	"strings"

	"anchorsec/internal/anchor"
	"anchorsec/internal/diag"
)

// Info describes a detector. It never changes for a given detector.
type Info struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	DefaultSeverity diag.Severity `json:"defaultSeverity"`
	Message         string        `json:"message"`
}

// Detector is one security check.
type Detector interface {
	Info() Info
	// ShouldRun is a cheap textual pre-filter.
	ShouldRun(text string) bool
	// Analyze returns the findings for one file; unparseable text yields none.
	Analyze(text, path string) []diag.Diagnostic
}

// programAnalyzer lets the registry parse a file once for all detectors.
type programAnalyzer interface {
	analyzeProgram(prog *anchor.Program) []diag.Diagnostic
}

// Config is the per-detector configuration.
type Config struct {
	Enabled bool
	// Severity overrides the severity of every finding when non-nil.
	Severity *diag.Severity
	// Patterns widen ShouldRun: the detector also runs when the text contains any of them.
	Patterns []string
}

// DefaultConfig is enabled with no override.
func DefaultConfig() Config {
	return Config{Enabled: true}
}

// Disabled returns a disabled config.
func Disabled() Config {
	return Config{}
}

// WithSeverity returns an enabled config overriding severity.
func WithSeverity(sev diag.Severity) Config {
	return Config{Enabled: true, Severity: &sev}
}

// MentionsAnchor is the default pre-filter.
func MentionsAnchor(text string) bool {
	return strings.Contains(text, "anchor_lang") || strings.Contains(text, "anchor_spl")
}

// analyze parses text and runs fn; parse failures produce no findings.
func analyze(text, path string, fn func(*anchor.Program) []diag.Diagnostic) []diag.Diagnostic {
	prog, err := anchor.Parse(path, []byte(text))
	if err != nil {
		return nil
	}
	return fn(prog)
}

// finding builds a diagnostic for info at span-derived rng.
func finding(info Info, rng diag.Range, msg string) diag.Diagnostic {
	return diag.New(info.ID, info.DefaultSeverity, rng, msg)
}
