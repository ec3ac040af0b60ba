package observ

import (
	"strings"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("walk")
	tm.End(idx, "3 files")
	tm.Track("analyze", func() string { return "1 issues" })
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != "walk" || report.Phases[0].Note != "3 files" {
		t.Fatalf("phase 0 = %+v", report.Phases[0])
	}
	if report.Phases[1].Name != "analyze" || report.Phases[1].Note != "1 issues" {
		t.Fatalf("phase 1 = %+v", report.Phases[1])
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Fatalf("total %v smaller than a phase", report.TotalMS)
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "walk", "// 3 files", "analyze", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("walk")
	if idx != -1 {
		t.Fatalf("Begin on nil = %d, want -1", idx)
	}
	tm.End(idx, "")
	tm.Track("x", func() string { return "" })
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer report = %+v", r)
	}
	if !strings.Contains(tm.Summary(), "total") {
		t.Fatal("summary should still render a total line")
	}
}
