package diag

import "anchorsec/internal/source"

// Reporter: минимальный контракт получения синтаксических проблем от лексера и парсера.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string)
}

// BagReporter: адаптер, который пишет в *Bag, переводя span в Range файла.
type BagReporter struct {
	Bag  *Bag
	File *source.File
}

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	if r.Bag == nil || r.File == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Range:    RangeOf(r.File, primary),
		Severity: sev,
		Code:     code.ID(),
		Message:  msg,
	})
}

// CountingReporter counts reports and forwards them to Next (which may be nil).
// The parser uses it to stop early once any error has been seen.
type CountingReporter struct {
	Next   Reporter
	Errors int
}

func (r *CountingReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	if sev >= SevError {
		r.Errors++
	}
	if r.Next != nil {
		r.Next.Report(code, sev, primary, msg)
	}
}
