// Package config loads anchorsec.toml (or .anchorsec.yaml) and applies it to
// a detector registry.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"anchorsec/internal/detector"
	"anchorsec/internal/diag"
	"anchorsec/internal/project"
)

const (
	FileName     = "anchorsec.toml"
	YAMLFileName = ".anchorsec.yaml"

	envJobs         = "ANCHORSEC_JOBS"
	envIncludeTests = "ANCHORSEC_INCLUDE_TESTS"
	envExclude      = "ANCHORSEC_EXCLUDE"
)

// fileNames are tried in every directory, in this order.
var fileNames = []string{FileName, YAMLFileName, ".anchorsec.yml"}

// ErrUnknownDetector is returned when the file names a detector that does not exist.
var ErrUnknownDetector = errors.New("unknown detector")

// Config mirrors the file schema.
type Config struct {
	// Path is the file the config was loaded from; empty for defaults.
	Path      string              `toml:"-" yaml:"-"`
	Scan      Scan                `toml:"scan" yaml:"scan"`
	Detectors map[string]Detector `toml:"detectors" yaml:"detectors"`
}

// Scan is the [scan] table.
type Scan struct {
	IncludeTests bool     `toml:"include_tests" yaml:"include_tests"`
	Exclude      []string `toml:"exclude" yaml:"exclude"`
	Jobs         int      `toml:"jobs" yaml:"jobs"`
}

// Detector is one [detectors.<ID>] table. Unset fields keep the registry defaults.
type Detector struct {
	Enabled  *bool    `toml:"enabled,omitempty" yaml:"enabled,omitempty"`
	Severity string   `toml:"severity,omitempty" yaml:"severity,omitempty"`
	Patterns []string `toml:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// Default returns an empty config: every detector at its defaults.
func Default() *Config {
	return &Config{Detectors: make(map[string]Detector)}
}

// Find searches upward from startDir for a config file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	return project.FindFileUp(startDir, fileNames...)
}

// Discover finds and loads the nearest config; without one it returns Default.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load parses path as TOML or YAML depending on its extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	}
	if cfg.Detectors == nil {
		cfg.Detectors = make(map[string]Detector)
	}
	cfg.Path = path
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) check() error {
	if c.Scan.Jobs < 0 {
		return fmt.Errorf("[scan].jobs must not be negative (got %d)", c.Scan.Jobs)
	}
	for _, id := range c.detectorIDs() {
		if sev := c.Detectors[id].Severity; sev != "" {
			if _, err := diag.ParseSeverity(sev); err != nil {
				return fmt.Errorf("[detectors.%s]: %w", id, err)
			}
		}
	}
	return nil
}

func (c *Config) detectorIDs() []string {
	ids := make([]string, 0, len(c.Detectors))
	for id := range c.Detectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply configures reg. Unknown detector ids are reported, the rest still applies.
func (c *Config) Apply(reg *detector.Registry) error {
	var unknown []string
	for _, id := range c.detectorIDs() {
		d := c.Detectors[id]
		cfg, ok := reg.Config(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		if d.Enabled != nil {
			cfg.Enabled = *d.Enabled
		}
		if d.Severity != "" {
			sev, err := diag.ParseSeverity(d.Severity)
			if err != nil {
				return fmt.Errorf("[detectors.%s]: %w", id, err)
			}
			cfg.Severity = &sev
		}
		if len(d.Patterns) > 0 {
			cfg.Patterns = append([]string(nil), d.Patterns...)
		}
		reg.Configure(id, cfg)
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDetector, strings.Join(unknown, ", "))
	}
	return nil
}

// Overrides come from the environment and CLI flags and win over the file.
type Overrides struct {
	Enable  []string
	Disable []string
	// Severity holds ID=level pairs.
	Severity     []string
	IncludeTests *bool
	Exclude      []string
	Jobs         int
	JobsSet      bool
}

// Merge applies env overrides, then o.
func (c *Config) Merge(o Overrides) error {
	if err := c.merge(overridesFromEnv()); err != nil {
		return err
	}
	return c.merge(o)
}

func (c *Config) merge(o Overrides) error {
	if o.IncludeTests != nil {
		c.Scan.IncludeTests = *o.IncludeTests
	}
	if len(o.Exclude) > 0 {
		c.Scan.Exclude = append(c.Scan.Exclude, o.Exclude...)
	}
	if o.JobsSet {
		if o.Jobs < 0 {
			return fmt.Errorf("jobs must not be negative (got %d)", o.Jobs)
		}
		c.Scan.Jobs = o.Jobs
	}
	on, off := true, false
	for _, id := range o.Enable {
		c.detector(id, func(d *Detector) { d.Enabled = &on })
	}
	for _, id := range o.Disable {
		c.detector(id, func(d *Detector) { d.Enabled = &off })
	}
	for _, pair := range o.Severity {
		id, level, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return fmt.Errorf("severity override %q: expected ID=level", pair)
		}
		if _, err := diag.ParseSeverity(level); err != nil {
			return fmt.Errorf("severity override %q: %w", pair, err)
		}
		c.detector(id, func(d *Detector) { d.Severity = strings.TrimSpace(level) })
	}
	return nil
}

func (c *Config) detector(id string, fn func(*Detector)) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if c.Detectors == nil {
		c.Detectors = make(map[string]Detector)
	}
	d := c.Detectors[id]
	fn(&d)
	c.Detectors[id] = d
}

func overridesFromEnv() Overrides {
	ov := Overrides{}
	if value := os.Getenv(envJobs); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			ov.Jobs = parsed
			ov.JobsSet = true
		}
	}
	if value := os.Getenv(envIncludeTests); value != "" {
		parsed := strings.EqualFold(value, "true") || value == "1"
		ov.IncludeTests = &parsed
	}
	if value := os.Getenv(envExclude); value != "" {
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				ov.Exclude = append(ov.Exclude, p)
			}
		}
	}
	return ov
}

const header = `# anchorsec configuration.
# severity: error | warning | info | hint; patterns widen the default "anchor_lang" pre-filter.

`

// Render produces the default file for reg: every detector listed with its
// current state so it can be edited in place.
func Render(reg *detector.Registry) ([]byte, error) {
	cfg := Default()
	for _, l := range reg.ListDetectors() {
		enabled := l.Enabled
		cfg.Detectors[l.ID] = Detector{Enabled: &enabled, Severity: strings.ToLower(l.Severity.String())}
	}
	var buf bytes.Buffer
	buf.WriteString(header)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ErrExists is returned by Write when the target already exists.
var ErrExists = errors.New("config already exists")

// Write creates dir/anchorsec.toml for reg; it never overwrites.
func Write(dir string, reg *detector.Registry) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s: %w", path, ErrExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return path, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	data, err := Render(reg)
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
