package source

import "fmt"

// Span is a half-open byte range [Start, End) in one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

// Cover returns the smallest span enclosing both s and other.
// Spans of different files do not mix: s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	return Span{File: s.File, Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Adjacent reports whether other starts exactly where s ends, e.g. the two
// halves of a `>>` that the lexer emitted as separate `>` tokens.
func (s Span) Adjacent(other Span) bool {
	return s.File == other.File && s.End == other.Start
}
