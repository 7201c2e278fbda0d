package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/snip/internal/builtin"
	"github.com/renato0307/snip/internal/session"
	"github.com/renato0307/snip/internal/status"
	"github.com/renato0307/snip/internal/ui"
)

func newModel(t *testing.T) Model {
	t.Helper()
	rec := &status.Recorder{}
	s, err := session.New(builtin.Defaults(), session.Options{Sink: rec})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewModel(s, rec, ui.GetTheme(ui.DefaultTheme))
}

// send feeds msgs to the model and returns the last command.
func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// typed turns text into key messages.
func typed(text string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range text {
		if r == ' ' {
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func enter() tea.Msg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func TestModel_CommandEntry(t *testing.T) {
	m := newModel(t)
	assert.Contains(t, m.View(), "press : to enter a command, ctrl+c to quit")
	assert.Contains(t, m.View(), "nothing selected")

	m, _ = send(t, m, typed(":c 1,2")...)
	assert.Contains(t, m.View(), ":c 1,2█")

	m, cmd := send(t, m, enter())
	assert.NotNil(t, cmd, "a new message schedules its own clearing")

	view := m.View()
	assert.Contains(t, view, "selected (2): 1,2")
	assert.Contains(t, view, "2 items selected")
	assert.Contains(t, view, "press : to enter a command")
}

func TestModel_Shortcut(t *testing.T) {
	m := newModel(t)
	m, _ = send(t, m, append(typed(":c 4"), enter())...)
	require.Equal(t, []int{4}, m.selection)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.selection)
	assert.Contains(t, m.View(), "nothing selected")
}

func TestModel_ErrorMessage(t *testing.T) {
	m := newModel(t)
	m, _ = send(t, m, append(typed(":bogus"), enter())...)

	assert.Equal(t, status.MessageTypeError, m.message.Type)
	assert.Contains(t, m.message.Text, "bogus")
}

func TestModel_ClearMessage(t *testing.T) {
	m := newModel(t)
	m, _ = send(t, m, append(typed(":c 1"), enter())...)
	require.NotEmpty(t, m.message.Text)

	m, _ = send(t, m, clearMessageMsg{seq: m.seq - 1})
	assert.NotEmpty(t, m.message.Text, "stale clear is ignored")

	m, _ = send(t, m, clearMessageMsg{seq: m.seq})
	assert.Empty(t, m.message.Text)
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name   string
		before []tea.Msg
	}{
		{"normal mode", nil},
		{"command entry", typed(":c")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t)
			m, _ = send(t, m, tt.before...)
			_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := newModel(t)
	assert.False(t, m.help.ShowAll)

	m, _ = send(t, m, typed("?")...)
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "select")

	m, _ = send(t, m, typed("?")...)
	assert.False(t, m.help.ShowAll)
}

func TestModel_WindowSize(t *testing.T) {
	m := newModel(t)
	m, cmd := send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.help.Width)
}

func TestBindings_FullHelp(t *testing.T) {
	m := newModel(t)
	b := bindings(m.session.KeyBindings())
	require.Len(t, b, 5)

	columns := b.FullHelp()
	require.Len(t, columns, 2)
	assert.Len(t, columns[0], 4)
	assert.Len(t, columns[1], 1)
}
