// Package app is the bubbletea host of a session.
package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/snip/internal/mode"
	"github.com/renato0307/snip/internal/session"
	"github.com/renato0307/snip/internal/status"
	"github.com/renato0307/snip/internal/ui"
)

// MessageTimeout is how long a status message stays on screen.
const MessageTimeout = 3 * time.Second

// helpToggle shows the full shortcut help when no action claims it.
const helpToggle = "?"

// clearMessageMsg clears the status message it was scheduled for.
type clearMessageMsg struct {
	seq int
}

// bindings adapts the session shortcuts to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding {
	return b
}

func (b bindings) FullHelp() [][]key.Binding {
	const perColumn = 4
	var columns [][]key.Binding
	for i := 0; i < len(b); i += perColumn {
		columns = append(columns, b[i:min(i+perColumn, len(b))])
	}
	return columns
}

// Model forwards key events to the session and renders what the session
// reports through its status recorder.
type Model struct {
	session *session.Session
	events  *status.Recorder
	theme   *ui.Theme
	help    help.Model

	width     int
	message   status.Msg
	seq       int
	selection []int
}

// NewModel creates the host. events must be (part of) the session's status
// sink.
func NewModel(s *session.Session, events *status.Recorder, theme *ui.Theme) Model {
	h := help.New()
	h.Styles = theme.HelpStyles()
	h.Width = 80

	return Model{
		session: s,
		events:  events,
		theme:   theme,
		help:    h,
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.session.HandleKey(msg) {
			return m, m.drain()
		}
		switch msg.String() {
		case m.session.Keys().Quit:
			return m, tea.Quit
		case helpToggle:
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case clearMessageMsg:
		if msg.seq == m.seq {
			m.message = status.Msg{}
		}
		return m, nil
	}
	return m, nil
}

// drain takes the observations recorded since the last key and schedules
// clearing of a new message.
func (m *Model) drain() tea.Cmd {
	msgs := m.events.Messages()
	selections := m.events.Selections()
	m.events.Reset()

	if n := len(selections); n > 0 {
		m.selection = selections[n-1].IDs
	}

	var latest *status.Msg
	for i := range msgs {
		if msgs[i].Type != status.MessageTypeBuffer {
			latest = &msgs[i]
		}
	}
	if latest == nil {
		return nil
	}

	m.message = *latest
	m.seq++
	seq := m.seq
	return tea.Tick(MessageTimeout, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}

func (m Model) View() string {
	sections := []string{
		m.theme.Title.Render("snip"),
		m.selectionView(),
		ui.RenderMessage(m.message, m.theme, m.width),
		m.theme.Separator.Render(strings.Repeat("─", max(m.width, 1))),
		m.commandView(),
		m.help.View(bindings(m.session.KeyBindings())),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) selectionView() string {
	if len(m.selection) == 0 {
		return m.theme.Hint.Render("nothing selected")
	}
	ids := make([]string, len(m.selection))
	for i, id := range m.selection {
		ids[i] = strconv.Itoa(id)
	}
	text := fmt.Sprintf("selected (%d): %s", len(ids), strings.Join(ids, ","))
	return m.theme.Selection.Render(ui.Truncate(text, max(m.width, 1)))
}

func (m Model) commandView() string {
	keys := m.session.Keys()
	if m.session.Mode() == mode.CommandEntry {
		return m.theme.Prompt.Render(keys.Trigger) +
			m.theme.Buffer.Render(m.session.Buffer()) +
			m.theme.Cursor.Render("█")
	}
	return m.theme.Hint.Render(fmt.Sprintf("press %s to enter a command, %s to quit", keys.Trigger, keys.Quit))
}
