package detector

import (
	"strings"

	"anchorsec/internal/anchor"
	"anchorsec/internal/diag"
)

type entry struct {
	det Detector
	cfg Config
}

// Registry runs detectors in registration order. Not safe for concurrent use;
// build one per goroutine.
type Registry struct {
	entries []entry
	index   map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds d. A nil cfg means DefaultConfig. Registering an id twice
// replaces the earlier detector in place.
func (r *Registry) Register(d Detector, cfg *Config) {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	id := d.Info().ID
	if i, ok := r.index[id]; ok {
		r.entries[i] = entry{det: d, cfg: c}
		return
	}
	r.index[id] = len(r.entries)
	r.entries = append(r.entries, entry{det: d, cfg: c})
}

func (r *Registry) lookup(id string) (*entry, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return &r.entries[i], true
}

// SetEnabled toggles a detector; unknown ids are ignored.
func (r *Registry) SetEnabled(id string, enabled bool) {
	if e, ok := r.lookup(id); ok {
		e.cfg.Enabled = enabled
	}
}

// SetSeverityOverride sets or clears (nil) the override; unknown ids are ignored.
func (r *Registry) SetSeverityOverride(id string, sev *diag.Severity) {
	if e, ok := r.lookup(id); ok {
		if sev != nil {
			v := *sev
			sev = &v
		}
		e.cfg.Severity = sev
	}
}

// Configure replaces the whole config; unknown ids are ignored.
func (r *Registry) Configure(id string, cfg Config) {
	if e, ok := r.lookup(id); ok {
		e.cfg = cfg
	}
}

// Config returns the current config of id.
func (r *Registry) Config(id string) (Config, bool) {
	if e, ok := r.lookup(id); ok {
		return e.cfg, true
	}
	return Config{}, false
}

// AnalyzeFile runs every enabled detector whose pre-filter passes.
// Results are concatenated in registration order without deduplication.
func (r *Registry) AnalyzeFile(text, path string) []diag.Diagnostic {
	var (
		out    []diag.Diagnostic
		prog   *anchor.Program
		parsed bool
	)
	for i := range r.entries {
		e := &r.entries[i]
		if !e.cfg.Enabled || !e.shouldRun(text) {
			continue
		}
		var found []diag.Diagnostic
		if pa, ok := e.det.(programAnalyzer); ok {
			if !parsed {
				parsed = true
				prog, _ = anchor.Parse(path, []byte(text))
			}
			if prog != nil {
				found = pa.analyzeProgram(prog)
			}
		} else {
			found = e.det.Analyze(text, path)
		}
		if e.cfg.Severity != nil {
			for j := range found {
				found[j].Severity = *e.cfg.Severity
			}
		}
		out = append(out, found...)
	}
	return out
}

func (e *entry) shouldRun(text string) bool {
	if e.det.ShouldRun(text) {
		return true
	}
	for _, p := range e.cfg.Patterns {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Listing is one row of ListDetectors.
type Listing struct {
	Info
	Enabled  bool           `json:"enabled"`
	Severity diag.Severity  `json:"severity"`
	Override *diag.Severity `json:"override,omitempty"`
}

// ListDetectors reports every detector with its effective configuration.
func (r *Registry) ListDetectors() []Listing {
	out := make([]Listing, 0, len(r.entries))
	for _, e := range r.entries {
		info := e.det.Info()
		l := Listing{Info: info, Enabled: e.cfg.Enabled, Severity: info.DefaultSeverity, Override: e.cfg.Severity}
		if e.cfg.Severity != nil {
			l.Severity = *e.cfg.Severity
		}
		out = append(out, l)
	}
	return out
}

// Count returns the number of registered detectors.
func (r *Registry) Count() int { return len(r.entries) }

// EnabledCount returns the number of enabled detectors.
func (r *Registry) EnabledCount() int {
	n := 0
	for _, e := range r.entries {
		if e.cfg.Enabled {
			n++
		}
	}
	return n
}

// Builder assembles a Registry fluently.
type Builder struct {
	r *Registry
}

func NewBuilder() *Builder {
	return &Builder{r: NewRegistry()}
}

// With registers d with the default config.
func (b *Builder) With(d Detector) *Builder {
	b.r.Register(d, nil)
	return b
}

// WithConfig registers d with cfg.
func (b *Builder) WithConfig(d Detector, cfg Config) *Builder {
	b.r.Register(d, &cfg)
	return b
}

// Build returns the registry; the builder must not be reused afterwards.
func (b *Builder) Build() *Registry {
	return b.r
}

// Options tune the detectors built by Default.
type Options struct {
	// SignerCache is shared between registries; it may be nil.
	SignerCache *SignerCache
	// WorkspaceRoot pins the signer graph root instead of searching upward.
	WorkspaceRoot string
}

// All returns fresh instances of every detector in their canonical order.
func All(opts Options) []Detector {
	return []Detector{
		NewMissingSigner(opts.SignerCache, opts.WorkspaceRoot),
		NewImmutableAccountMutated(),
		NewManualLamportsZeroing(),
		NewUnsafeArithmetic(),
		NewInstructionAttributeUnused(),
		NewInstructionAttributeInvalid(),
		NewInefficientSysvar(),
		NewMissingInitSpace(),
		NewMissingCheckComment(),
	}
}

// Default registers every detector with the default config.
func Default(opts Options) *Registry {
	b := NewBuilder()
	for _, d := range All(opts) {
		b.With(d)
	}
	return b.Build()
}
