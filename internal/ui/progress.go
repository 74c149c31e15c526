// Package ui renders emission progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"ilemit/internal/buildpipeline"
)

const labelWidth = 12

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	labelStyles  = map[string]lipgloss.Style{"done": lipgloss.NewStyle().Foreground(lipgloss.Color("2")), "error": lipgloss.NewStyle().Foreground(lipgloss.Color("1"))}
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

type progressModel struct {
	*board
	title  string
	events <-chan buildpipeline.Event
	spin   spinner.Model
	bar    progress.Model
	width  int
	done   bool
}

type (
	eventMsg  buildpipeline.Event
	closedMsg struct{}
)

// NewProgressModel returns a Bubble Tea model showing one row per unit until
// events is closed. units may be empty; queued events add the units they name.
func NewProgressModel(title string, units []string, events <-chan buildpipeline.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(activeStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(76))
	return &progressModel{board: newBoard(units), title: title, events: events, spin: spin, bar: bar, width: 80}
}

func (m *progressModel) Init() tea.Cmd { return tea.Batch(m.spin.Tick, m.next) }

// next blocks on the event channel; every eventMsg schedules it again.
func (m *progressModel) next() tea.Msg {
	ev, ok := <-m.events
	if !ok {
		return closedMsg{}
	}
	return eventMsg(ev)
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.next)
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width, m.bar.Width = msg.Width, msg.Width-4
		}
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	if !m.apply(ev) {
		return nil
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-labelWidth-4, 20)
	for _, r := range m.rows {
		fmt.Fprintf(&b, "  %s %s\n", styleFor(r.label).Render(fmt.Sprintf("%*s", labelWidth, r.label)), truncate(r.name, nameWidth))
		if r.err != nil {
			fmt.Fprintf(&b, "  %*s %s\n", labelWidth, "", labelStyles["error"].Render(truncate(r.err.Error(), nameWidth)))
		}
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) header() string {
	h := fmt.Sprintf("%s, %d units", m.title, len(m.rows))
	if m.stage != "" {
		h += " (" + m.stage + ")"
	}
	if !m.done {
		return m.spin.View() + " " + h
	}
	if m.failures > 0 {
		h += fmt.Sprintf(", %d failed", m.failures)
	}
	return "done: " + h
}

func styleFor(label string) lipgloss.Style {
	if s, ok := labelStyles[label]; ok {
		return s
	}
	if label == "queued" {
		return pendingStyle
	}
	return activeStyle
}

// truncate shortens value to width display columns, marking the cut with
// "..." when there is room for it.
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
