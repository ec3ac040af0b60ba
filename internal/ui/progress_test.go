package ui

import (
	"strings"
	"testing"

	"anchorsec/internal/scanner"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan scanner.Event)
	m := NewProgressModel("scan vault", events).(*progressModel)

	feed := []scanner.Event{
		{Stage: scanner.StageWalk, Status: scanner.StatusWorking},
		{File: "programs/vault/src/lib.rs", Stage: scanner.StageAnalyze, Status: scanner.StatusQueued},
		{File: "programs/vault/src/close.rs", Stage: scanner.StageAnalyze, Status: scanner.StatusQueued},
		{File: "programs/vault/src/lib.rs", Stage: scanner.StageAnalyze, Status: scanner.StatusDone, Issues: 2},
	}
	for _, ev := range feed {
		m.Update(eventMsg(ev))
	}

	if len(m.items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.items))
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("percent = %v, want 0.5", got)
	}
	view := m.View()
	for _, want := range []string{"scan vault", "lib.rs", "close.rs", "queued", "done"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m.Update(eventMsg{File: "programs/vault/src/close.rs", Stage: scanner.StageAnalyze, Status: scanner.StatusError})
	m.Update(eventMsg{Stage: scanner.StageAnalyze, Status: scanner.StatusDone, Issues: 2})
	m.Update(doneMsg{})
	if m.percent() != 1 {
		t.Fatalf("percent after finish = %v", m.percent())
	}
	if view := m.View(); !strings.Contains(view, "done: scan vault") || !strings.Contains(view, "2 issues") {
		t.Fatalf("final view:\n%s", view)
	}
}

func TestProgressModelCapsList(t *testing.T) {
	m := NewProgressModel("scan", nil).(*progressModel)
	for i := range maxVisible + 3 {
		m.applyEvent(scanner.Event{File: strings.Repeat("x", i+1) + ".rs", Status: scanner.StatusQueued})
	}
	if view := m.View(); !strings.Contains(view, "... 3 more") {
		t.Fatalf("expected overflow marker:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.rs", 20, "short.rs"},
		{"programs/vault/src/lib.rs", 10, "program..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
