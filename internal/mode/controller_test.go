package mode

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/args"
	"github.com/renato0307/snip/internal/status"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter     = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc       = tea.KeyMsg{Type: tea.KeyEsc}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
	keyTab       = tea.KeyMsg{Type: tea.KeyTab}
	keyUp        = tea.KeyMsg{Type: tea.KeyUp}
	keyDown      = tea.KeyMsg{Type: tea.KeyDown}
	keySpace     = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

type call struct {
	action string
	args   args.List
}

type fixture struct {
	ctrl  *Controller
	scope *actions.Scope
	sink  *status.Recorder
	calls []call
}

func newFixture(t *testing.T, specs ...actions.Spec) *fixture {
	t.Helper()
	f := &fixture{scope: actions.NewScope(), sink: &status.Recorder{}}
	r := f.scope.NewRegistry("default")
	for _, s := range specs {
		name := s.Name
		if s.Callback == nil {
			s.Callback = func(list args.List) error {
				f.calls = append(f.calls, call{action: name, args: list})
				return nil
			}
		}
		_, err := r.Add(s)
		require.NoError(t, err)
	}
	f.ctrl = NewController(f.scope, Options{Sink: f.sink})
	return f
}

func (f *fixture) press(msgs ...tea.KeyMsg) {
	for _, m := range msgs {
		f.ctrl.HandleKey(m)
	}
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		if r == ' ' {
			f.press(keySpace)
			continue
		}
		f.press(runes(string(r)))
	}
}

func TestController_TriggerTypeEnter(t *testing.T) {
	f := newFixture(t, actions.Spec{Name: "a"})

	assert.Equal(t, Normal, f.ctrl.Mode())
	assert.True(t, f.ctrl.HandleKey(runes(":")))
	assert.Equal(t, CommandEntry, f.ctrl.Mode())
	assert.Equal(t, "", f.ctrl.Buffer())

	f.press(runes("a"))
	assert.Equal(t, "a", f.ctrl.Buffer())

	f.press(keyEnter)
	assert.Equal(t, Normal, f.ctrl.Mode())
	assert.Equal(t, "", f.ctrl.Buffer())
	require.Len(t, f.calls, 1)
	assert.Equal(t, "a", f.calls[0].action)
	assert.Empty(t, f.calls[0].args)
}

func TestController_EscapeDiscards(t *testing.T) {
	f := newFixture(t, actions.Spec{Name: "a"})

	f.press(runes(":"), runes("a"), keyEsc)

	assert.Equal(t, Normal, f.ctrl.Mode())
	assert.Equal(t, "", f.ctrl.Buffer())
	assert.Empty(t, f.calls, "escape invokes nothing")
	assert.Equal(t, 0, f.ctrl.History().Size())
}

func TestController_Backspace(t *testing.T) {
	f := newFixture(t)

	f.press(runes(":"))
	f.typeText("hé")
	f.press(keyBackspace)
	assert.Equal(t, "h", f.ctrl.Buffer())

	f.press(keyBackspace, keyBackspace)
	assert.Equal(t, "", f.ctrl.Buffer())
	assert.Equal(t, CommandEntry, f.ctrl.Mode(), "backspace on empty buffer stays in command entry")
}

func TestController_BufferObservations(t *testing.T) {
	f := newFixture(t)

	f.press(runes(":"))
	f.typeText("ab")

	var buffers []string
	for _, m := range f.sink.Messages() {
		if m.Type == status.MessageTypeBuffer {
			buffers = append(buffers, m.Text)
		}
	}
	assert.Equal(t, []string{"", "a", "ab"}, buffers)
}

func TestController_ArgumentsReachCallback(t *testing.T) {
	f := newFixture(t, actions.Spec{Name: "select", Alias: "c", Arity: actions.AtLeast(1)})

	f.press(runes(":"))
	f.typeText("c 3-6 hello")
	f.press(keyEnter)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "select", f.calls[0].action)
	assert.Equal(t, args.List{args.IntegerSet{3, 4, 5, 6}, args.String("hello")}, f.calls[0].args)
}

func TestController_Shortcuts(t *testing.T) {
	f := newFixture(t,
		actions.Spec{Name: "undo", Shortcuts: []string{"ctrl+z"}},
		actions.Spec{Name: "next", Shortcuts: []string{" "}},
	)

	assert.True(t, f.ctrl.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlZ}))
	assert.True(t, f.ctrl.HandleKey(keySpace))
	assert.False(t, f.ctrl.HandleKey(runes("q")), "unbound keys pass through")
	assert.False(t, f.ctrl.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlC}))

	require.Len(t, f.calls, 2)
	assert.Equal(t, "undo", f.calls[0].action)
	assert.Equal(t, "next", f.calls[1].action)
	assert.Equal(t, Normal, f.ctrl.Mode())
}

func TestController_ShortcutsIgnoredInCommandEntry(t *testing.T) {
	f := newFixture(t, actions.Spec{Name: "grab", Shortcuts: []string{"g"}})

	f.press(runes(":"), runes("g"))

	assert.Empty(t, f.calls)
	assert.Equal(t, "g", f.ctrl.Buffer())
}

func TestController_PromptShortcut(t *testing.T) {
	f := newFixture(t, actions.Spec{
		Name:      "select",
		Shortcuts: []string{"ctrl+s"},
		Arity:     actions.AtLeast(1),
		Prompt:    true,
	})

	f.press(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, CommandEntry, f.ctrl.Mode())
	assert.Equal(t, "select ", f.ctrl.Buffer())
	assert.Empty(t, f.calls)

	f.typeText("4")
	f.press(keyEnter)
	require.Len(t, f.calls, 1)
	assert.Equal(t, args.List{args.Integer(4)}, f.calls[0].args)
}

func TestController_Errors(t *testing.T) {
	boom := errors.New("boom")
	f := newFixture(t,
		actions.Spec{Name: "select", Arity: actions.AtLeast(1)},
		actions.Spec{Name: "fail", Callback: func(args.List) error { return boom }},
		actions.Spec{Name: "crash", Callback: func(args.List) error { panic("bad state") }},
	)

	tests := []struct {
		name     string
		line     string
		wantErr  error
		contains string
	}{
		{"unknown action with suggestion", "selec 1", actions.ErrUnknownAction, "did you mean select?"},
		{"invalid range", "select 5-2", args.ErrInvalidRange, "invalid range"},
		{"arity mismatch", "select", actions.ErrArityMismatch, "at least 1"},
		{"callback error", "fail", boom, `action "fail" failed: boom`},
		{"callback panic", "crash", nil, "panic: bad state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.sink.Reset()

			f.press(runes(":"))
			f.typeText(tt.line)
			f.press(keyEnter)

			assert.Equal(t, Normal, f.ctrl.Mode(), "the loop survives")
			msg, ok := f.sink.Last(status.MessageTypeError)
			require.True(t, ok)
			assert.Contains(t, msg.Text, tt.contains)

			err := f.ctrl.Submit(tt.line)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestController_CallbackErrorType(t *testing.T) {
	f := newFixture(t, actions.Spec{Name: "crash", Callback: func(args.List) error { panic("x") }})

	err := f.ctrl.Submit("crash")

	var cbErr *actions.CallbackError
	require.ErrorAs(t, err, &cbErr)
	assert.Equal(t, "crash", cbErr.Action)
}

func TestController_EmptyLine(t *testing.T) {
	f := newFixture(t)

	f.press(runes(":"), keyEnter)

	assert.Equal(t, Normal, f.ctrl.Mode())
	_, ok := f.sink.Last(status.MessageTypeError)
	assert.False(t, ok, "empty input is a no-op")
	assert.NoError(t, f.ctrl.Submit("   "))
}

func TestController_History(t *testing.T) {
	f := newFixture(t, actions.Spec{Name: "a"}, actions.Spec{Name: "b"})

	require.NoError(t, f.ctrl.Submit("a"))
	require.NoError(t, f.ctrl.Submit("b"))

	f.press(runes(":"), keyUp)
	assert.Equal(t, "b", f.ctrl.Buffer())
	f.press(keyUp)
	assert.Equal(t, "a", f.ctrl.Buffer())
	f.press(keyDown)
	assert.Equal(t, "b", f.ctrl.Buffer())
	f.press(keyDown)
	assert.Equal(t, "", f.ctrl.Buffer())
}

func TestController_DownKeepsTypedText(t *testing.T) {
	f := newFixture(t, actions.Spec{Name: "a"})
	require.NoError(t, f.ctrl.Submit("a"))

	f.press(runes(":"))
	f.typeText("a 1")
	f.press(keyDown)
	assert.Equal(t, "a 1", f.ctrl.Buffer())

	f.press(keyUp, keyDown)
	assert.Equal(t, "", f.ctrl.Buffer())
}

func TestController_TabCompletion(t *testing.T) {
	f := newFixture(t, actions.Spec{Name: "select"}, actions.Spec{Name: "undo"})

	f.press(runes(":"))
	f.typeText("sel")
	f.press(keyTab)
	assert.Equal(t, "select ", f.ctrl.Buffer())

	f.press(keyTab)
	assert.Equal(t, "select ", f.ctrl.Buffer(), "no completion once arguments start")
}

func TestController_Paste(t *testing.T) {
	f := newFixture(t, actions.Spec{Name: "select", Arity: actions.AtLeast(1)})

	f.press(runes(":"), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("select 1,2"), Paste: true}, keyEnter)

	require.Len(t, f.calls, 1)
	assert.Equal(t, args.List{args.IntegerSet{1, 2}}, f.calls[0].args)
}

func TestController_QuitPassesThrough(t *testing.T) {
	f := newFixture(t)

	f.press(runes(":"))
	assert.False(t, f.ctrl.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlC}))
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "command", CommandEntry.String())
	assert.Equal(t, "unknown", Mode(7).String())
}
