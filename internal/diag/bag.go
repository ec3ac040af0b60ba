package diag

import "slices"

// Bag collects diagnostics up to a limit. The parser reports into a Bag of
// one: the first syntax error already rejects the file.
type Bag struct {
	items []Diagnostic
	limit int
	worst Severity
}

// NewBag creates a bag holding at most limit diagnostics; limit <= 0 means unlimited.
func NewBag(limit int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, min(max(limit, 0), 64)), limit: limit}
}

// Add appends d unless the bag is full; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if b.Full() {
		return false
	}
	if len(b.items) == 0 || d.Severity > b.worst {
		b.worst = d.Severity
	}
	b.items = append(b.items, d)
	return true
}

// Full reports that further Adds are dropped.
func (b *Bag) Full() bool { return b.limit > 0 && len(b.items) >= b.limit }

// HasErrors: хотя бы одна диагностика уровня Error.
func (b *Bag) HasErrors() bool { return len(b.items) > 0 && b.worst >= SevError }

// HasWarnings: хотя бы одна диагностика уровня Warning или выше.
func (b *Bag) HasWarnings() bool { return len(b.items) > 0 && b.worst >= SevWarning }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the collected diagnostics. The slice aliases the bag; do not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Sort orders by position, severity (desc) and code for deterministic output.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		switch {
		case Before(x, y):
			return -1
		case Before(y, x):
			return 1
		}
		return 0
	})
}
