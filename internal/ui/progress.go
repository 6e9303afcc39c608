package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"commitlang/internal/driver"
)

type itemState int

const (
	stateQueued itemState = iota
	stateRunning
	stateDone
)

type lintItem struct {
	name   string
	state  itemState
	issues int
}

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	bar      progress.Model
	items    []lintItem
	width    int
	finished bool
}

type eventMsg driver.Event
type drainedMsg struct{}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	cleanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	issueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// NewProgressModel returns a Bubble Tea model that tracks a batch lint run.
// Items are addressed by event index; the channel closing ends the program.
func NewProgressModel(title string, names []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	items := make([]lintItem, len(names))
	for i, name := range names {
		items[i] = lintItem{name: name}
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		items:   items,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitEvent())
}

func (m *progressModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return drainedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		ev := driver.Event(msg)
		if ev.Index < 0 || ev.Index >= len(m.items) {
			return m, m.waitEvent()
		}
		item := &m.items[ev.Index]
		switch ev.Status {
		case driver.EventStart:
			item.state = stateRunning
		case driver.EventEnd:
			item.state = stateDone
			item.issues = ev.Diagnostics
		}
		return m, tea.Batch(m.bar.SetPercent(m.fraction()), m.waitEvent())
	case drainedMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = min(msg.Width-4, 76)
		}
		return m, nil
	case progress.FrameMsg:
		updated, cmd := m.bar.Update(msg)
		if bar, ok := updated.(progress.Model); ok {
			m.bar = bar
		}
		return m, cmd
	}
	return m, nil
}

// fraction weighs a running item as half an item.
func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 1.0
	}
	var sum float64
	for _, item := range m.items {
		switch item.state {
		case stateDone:
			sum++
		case stateRunning:
			sum += 0.5
		}
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}

	done := 0
	for _, item := range m.items {
		if item.state == stateDone {
			done++
		}
	}
	head := fmt.Sprintf("%s [%d/%d]", m.title, done, len(m.items))
	if m.finished {
		head = "done: " + head
	} else {
		head = m.spinner.View() + " " + head
	}

	nameWidth := max(m.width-18, 20)

	var b strings.Builder
	b.WriteString(headerStyle.Render(head))
	b.WriteString("\n\n")
	for _, item := range m.items {
		b.WriteString("  ")
		b.WriteString(runewidth.FillRight(clip(item.name, nameWidth), nameWidth))
		b.WriteString(" ")
		b.WriteString(itemLabel(item))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.finished {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func itemLabel(item lintItem) string {
	switch item.state {
	case stateRunning:
		return activeStyle.Render("linting")
	case stateDone:
		if item.issues == 0 {
			return cleanStyle.Render("clean")
		}
		if item.issues == 1 {
			return issueStyle.Render("1 issue")
		}
		return issueStyle.Render(fmt.Sprintf("%d issues", item.issues))
	}
	return mutedStyle.Render("queued")
}

func clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
