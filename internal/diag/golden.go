package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FormatGolden renders diagnostics of one file into a stable, single-line-per-entry
// form: "<severity> <CODE> <path>:<line>:<col> <message>" with 1-based positions.
// Related entries follow as "note" lines when includeRelated is set.
func FormatGolden(path string, diags []Diagnostic, includeRelated bool) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := append([]Diagnostic(nil), diags...)
	sort.SliceStable(sorted, func(i, j int) bool { return Before(sorted[i], sorted[j]) })

	var b strings.Builder
	for i, d := range sorted {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s",
			strings.ToLower(d.Severity.String()), d.Code, path,
			d.Range.StartLine+1, d.Range.StartCol+1, singleLine(d.Message))
		if !includeRelated {
			continue
		}
		for _, rel := range d.Related {
			relPath := rel.FilePath
			if relPath == "" {
				relPath = path
			}
			fmt.Fprintf(&b, "\nnote %s %s:%d:%d %s", d.Code, relPath,
				rel.Range.StartLine+1, rel.Range.StartCol+1, singleLine(rel.Message))
		}
	}
	return b.String()
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
