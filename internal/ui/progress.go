// Package ui renders live scan progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"anchorsec/internal/scanner"
)

// maxVisible caps the per-file list; larger workspaces show the tail only.
const maxVisible = 12

type progressModel struct {
	title      string
	events     <-chan scanner.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	issues     int
	width      int
	done       bool
}

type fileItem struct {
	path   string
	status scanner.Status
	issues int
}

type eventMsg scanner.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model fed by scanner events. Files
// appear as the scanner queues them; the model quits when events is closed.
func NewProgressModel(title string, events <-chan scanner.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(scanner.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s, %d issues", header, m.issues)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-12, 20)
	visible := m.items
	if len(visible) > maxVisible {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("... %d more", len(visible)-maxVisible)))
		visible = visible[len(visible)-maxVisible:]
	}
	for _, item := range visible {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		line := fmt.Sprintf("  %s %s", status, truncate(item.path, nameWidth))
		if item.issues > 0 {
			line += issueStyle.Render(fmt.Sprintf("  %d", item.issues))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev scanner.Event) tea.Cmd {
	if ev.File == "" {
		m.stageLabel = stageLabel(ev.Stage, ev.Status)
		if ev.Stage == scanner.StageAnalyze && ev.Status == scanner.StatusDone {
			m.issues = ev.Issues
		}
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		idx = len(m.items)
		m.index[ev.File] = idx
		m.items = append(m.items, fileItem{path: ev.File})
	}
	m.items[idx].status = ev.Status
	m.items[idx].issues = ev.Issues
	return m.prog.SetPercent(m.percent())
}

// percent is the share of files that reached a terminal status.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	finished := 0
	for _, item := range m.items {
		if item.status == scanner.StatusDone || item.status == scanner.StatusError {
			finished++
		}
	}
	return float64(finished) / float64(len(m.items))
}

func stageLabel(stage scanner.Stage, status scanner.Status) string {
	switch {
	case status == scanner.StatusError:
		return "failed"
	case stage == scanner.StageWalk:
		return "collecting files"
	case stage == scanner.StageAnalyze && status == scanner.StatusDone:
		return "analyzed"
	case stage == scanner.StageAnalyze:
		return "analyzing"
	default:
		return ""
	}
}

const statusWidth = 8

var (
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	issueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func styleStatus(status scanner.Status) lipgloss.Style {
	switch status {
	case scanner.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case scanner.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case scanner.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// Truncate учитывает ширину хвоста сам
	return runewidth.Truncate(value, width, "...")
}
