package diagfmt

import (
	"encoding/json"
	"io"

	"anchorsec/internal/diag"
)

// FileJSON holds the diagnostics of one file.
type FileJSON struct {
	Path        string            `json:"path"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Files   []FileJSON `json:"files"`
	Count   int        `json:"count"`
	Summary *Summary   `json:"summary,omitempty"`
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// Files without diagnostics are omitted; detector order within a file is kept.
func BuildDiagnosticsOutput(files []File, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Files: make([]FileJSON, 0, len(files)), Summary: opts.Summary}
	for _, f := range files {
		if len(f.Diagnostics) == 0 {
			continue
		}
		if opts.Max > 0 && out.Count >= opts.Max {
			break
		}
		ds := f.Diagnostics
		if opts.Max > 0 && out.Count+len(ds) > opts.Max {
			ds = ds[:opts.Max-out.Count]
		}
		fj := FileJSON{
			Path:        displayPath(f.Path, opts.PathMode, opts.BaseDir),
			Diagnostics: make([]diag.Diagnostic, len(ds)),
		}
		for i, d := range ds {
			if len(d.Related) > 0 {
				rel := make([]diag.Related, len(d.Related))
				for j, r := range d.Related {
					r.FilePath = displayPath(r.FilePath, opts.PathMode, opts.BaseDir)
					rel[j] = r
				}
				d.Related = rel
			}
			fj.Diagnostics[i] = d
		}
		out.Files = append(out.Files, fj)
		out.Count += len(ds)
	}
	return out
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, files []File, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(files, opts))
}
