package diag

import (
	"anchorsec/internal/source"
)

// SourceName tags every finding produced by the detectors.
const SourceName = "anchor-security"

// Range is a zero-based editor range.
type Range struct {
	StartLine uint32 `json:"startLine"`
	StartCol  uint32 `json:"startCol"`
	EndLine   uint32 `json:"endLine"`
	EndCol    uint32 `json:"endCol"`
}

// Related points from one diagnostic at a causally connected location.
type Related struct {
	Range    Range  `json:"range"`
	FilePath string `json:"filePath"`
	Message  string `json:"message"`
}

type Diagnostic struct {
	Range    Range     `json:"range"`
	Severity Severity  `json:"severity"`
	Code     string    `json:"code"`
	Source   string    `json:"source,omitempty"`
	Message  string    `json:"message"`
	Related  []Related `json:"relatedInformation,omitempty"`
}

// RangeOf converts a byte span of f into an editor range.
func RangeOf(f *source.File, sp source.Span) Range {
	start := f.Position(sp.Start)
	end := f.Position(sp.End)
	return Range{
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    end.Col,
	}
}

// LineRange covers the whole 1-based line lineNum of f.
func LineRange(f *source.File, lineNum uint32) Range {
	return RangeOf(f, f.LineSpan(lineNum))
}

// New builds a detector finding tagged with SourceName.
func New(code string, sev Severity, rng Range, msg string) Diagnostic {
	return Diagnostic{
		Range:    rng,
		Severity: sev,
		Code:     code,
		Source:   SourceName,
		Message:  msg,
	}
}

// Pair links a and b: a gets a related entry at b's range with toB, b gets one at a's range with toA.
// Both live in filePath.
func Pair(a, b *Diagnostic, filePath, toB, toA string) {
	a.Related = append(a.Related, Related{Range: b.Range, FilePath: filePath, Message: toB})
	b.Related = append(b.Related, Related{Range: a.Range, FilePath: filePath, Message: toA})
}

// Linked reports whether a and b reference each other's ranges.
func Linked(a, b Diagnostic) bool {
	return refers(a, b.Range) && refers(b, a.Range)
}

func refers(d Diagnostic, rng Range) bool {
	for _, rel := range d.Related {
		if rel.Range == rng {
			return true
		}
	}
	return false
}

// Before orders diagnostics by position, then severity (desc), then code.
func Before(a, b Diagnostic) bool {
	if a.Range.StartLine != b.Range.StartLine {
		return a.Range.StartLine < b.Range.StartLine
	}
	if a.Range.StartCol != b.Range.StartCol {
		return a.Range.StartCol < b.Range.StartCol
	}
	if a.Range.EndLine != b.Range.EndLine {
		return a.Range.EndLine < b.Range.EndLine
	}
	if a.Range.EndCol != b.Range.EndCol {
		return a.Range.EndCol < b.Range.EndCol
	}
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	return a.Code < b.Code
}
