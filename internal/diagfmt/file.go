package diagfmt

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"anchorsec/internal/diag"
	"anchorsec/internal/source"
)

// File is one analyzed file as the formatters see it.
type File struct {
	Path string
	// Source is optional; without it pretty output has no snippets.
	Source      *source.File
	Diagnostics []diag.Diagnostic
}

// Summary are the aggregate counts printed with json output.
type Summary struct {
	FilesScanned int `json:"filesScanned"`
	FlaggedFiles int `json:"flaggedFiles"`
	TotalIssues  int `json:"totalIssues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
}

// Count returns the number of diagnostics across files.
func Count(files []File) int {
	n := 0
	for i := range files {
		n += len(files[i].Diagnostics)
	}
	return n
}

func displayPath(path string, mode PathMode, base string) string {
	if path == "" {
		return path
	}
	f := source.File{Path: path}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		if base == "" {
			base = "."
		}
		return f.FormatPath("relative", base)
	case PathModeBasename:
		return f.FormatPath("basename", "")
	}
	return path
}

func sorted(ds []diag.Diagnostic) []diag.Diagnostic {
	out := append([]diag.Diagnostic(nil), ds...)
	sort.SliceStable(out, func(i, j int) bool { return diag.Before(out[i], out[j]) })
	return out
}

// byteCol converts a UTF-16 column into a byte offset within line.
func byteCol(line string, col uint32) int {
	var units uint32
	for i, r := range line {
		if units >= col {
			return i
		}
		if r == utf8.RuneError {
			units++
			continue
		}
		units += uint32(utf16.RuneLen(r))
	}
	return len(line)
}
