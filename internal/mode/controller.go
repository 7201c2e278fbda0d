// Package mode implements the keyboard state machine: keys either fire
// shortcuts (Normal) or build a command line (CommandEntry).
package mode

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/args"
	"github.com/renato0307/snip/internal/keyboard"
	"github.com/renato0307/snip/internal/logging"
	"github.com/renato0307/snip/internal/snippet"
	"github.com/renato0307/snip/internal/status"
)

// Mode is the controller state.
type Mode int

const (
	Normal Mode = iota
	CommandEntry
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case CommandEntry:
		return "command"
	default:
		return "unknown"
	}
}

// Options configures a Controller. Zero values pick defaults.
type Options struct {
	Keys   *keyboard.Keys
	Sink   status.Sink
	Logger *logging.Logger
}

// Controller is not safe for concurrent use; the session serializes
// access to it.
type Controller struct {
	scope   *actions.Scope
	parser  *snippet.Parser
	keys    *keyboard.Keys
	sink    status.Sink
	logger  *logging.Logger
	history *History
	input   *Input
	mode    Mode
}

// NewController creates a controller in Normal mode dispatching into scope.
func NewController(scope *actions.Scope, opts Options) *Controller {
	if opts.Keys == nil {
		opts.Keys = keyboard.Default()
	}
	if opts.Sink == nil {
		opts.Sink = status.Discard{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Get()
	}
	return &Controller{
		scope:   scope,
		parser:  snippet.NewParser(scope),
		keys:    opts.Keys,
		sink:    opts.Sink,
		logger:  opts.Logger.With("component", "mode"),
		history: NewHistory(),
		input:   NewInput(),
		mode:    Normal,
	}
}

// Mode returns the current state.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Buffer returns the command line being typed.
func (c *Controller) Buffer() string {
	return c.input.Get()
}

// History returns the command history.
func (c *Controller) History() *History {
	return c.history
}

// Keys returns the controller key configuration.
func (c *Controller) Keys() *keyboard.Keys {
	return c.keys
}

// HandleKey feeds one key event. It returns false when the key was not
// consumed and should be handled by the host.
func (c *Controller) HandleKey(msg tea.KeyMsg) bool {
	if c.mode == CommandEntry {
		return c.handleCommandEntry(msg)
	}
	return c.handleNormal(msg)
}

func (c *Controller) handleNormal(msg tea.KeyMsg) bool {
	key := msg.String()
	if key == c.keys.Trigger {
		c.enter("")
		return true
	}

	a, ok := c.scope.ResolveShortcut(key)
	if !ok {
		return false
	}
	c.logger.Debug("shortcut", "key", key, "action", a.Name)

	if a.Prompt {
		c.enter(a.Name + " ")
		return true
	}
	_ = c.dispatch(a, nil)
	return true
}

func (c *Controller) handleCommandEntry(msg tea.KeyMsg) bool {
	key := msg.String()
	if key == c.keys.Quit {
		return false
	}

	switch {
	case msg.Paste:
		c.input.AddText(string(msg.Runes))

	case key == c.keys.Cancel:
		c.leave()

	case key == c.keys.Submit:
		line := c.input.Get()
		_ = c.execute(line)
		c.leave()

	case key == c.keys.Backspace:
		c.input.Backspace()

	case key == c.keys.Complete:
		c.complete()

	case key == c.keys.HistoryPrev:
		if line, ok := c.history.Prev(); ok {
			c.input.Set(line)
		}

	case key == c.keys.HistoryNext:
		if !c.history.Navigating() {
			break
		}
		line, _ := c.history.Next()
		c.input.Set(line)

	case msg.Type == tea.KeySpace:
		c.input.AddText(" ")

	case msg.Type == tea.KeyRunes && !msg.Alt:
		c.input.AddText(string(msg.Runes))
	}

	c.sink.Status(status.Buffer(c.input.Get()))
	return true
}

// enter switches to CommandEntry with the buffer set to text.
func (c *Controller) enter(text string) {
	c.mode = CommandEntry
	c.history.Reset()
	c.input.Set(text)
	c.sink.Status(status.Buffer(text))
}

// leave discards the buffer and switches back to Normal.
func (c *Controller) leave() {
	c.mode = Normal
	c.history.Reset()
	c.input.Clear()
}

// complete replaces the action token with the best matching action name.
func (c *Controller) complete() {
	text := c.input.Get()
	if strings.ContainsAny(text, " \t") {
		return
	}
	suggestions := c.scope.Suggest(text)
	if len(suggestions) == 0 {
		return
	}
	c.input.Set(suggestions[0] + " ")
	if len(suggestions) > 1 {
		c.sink.Status(status.Info(strings.Join(suggestions, "  ")))
	}
}

// Submit executes line as if it was typed and committed, without touching
// the buffer or the mode.
func (c *Controller) Submit(line string) error {
	return c.execute(line)
}

func (c *Controller) execute(line string) error {
	res := c.parser.Parse(line)
	if res.Outcome == snippet.OutcomeEmpty {
		return nil
	}
	c.history.Add(strings.TrimSpace(line))

	switch res.Outcome {
	case snippet.OutcomeUnknownAction:
		text := res.Err.Error()
		if len(res.Suggestions) > 0 {
			text += "; did you mean " + strings.Join(res.Suggestions, ", ") + "?"
		}
		c.report(text, res.Err)
		return res.Err

	case snippet.OutcomeInvalidRange:
		c.report(res.Err.Error(), res.Err)
		return res.Err
	}

	return c.dispatch(res.Command.Action, res.Command.Args)
}

// dispatch runs an action. Validation failures are reported as they are;
// callback failures, including panics, become *actions.CallbackError.
func (c *Controller) dispatch(a *actions.Action, list args.List) error {
	if err := a.Check(len(list)); err != nil {
		c.report(err.Error(), err)
		return err
	}

	t := c.logger.Start("invoke action")
	err := invokeSafely(a, list)
	t.End("action", a.Name, "args", len(list))
	if err == nil {
		return nil
	}

	cbErr := &actions.CallbackError{Action: a.Name, Err: err}
	c.report(cbErr.Error(), cbErr)
	return cbErr
}

func (c *Controller) report(text string, err error) {
	var cbErr *actions.CallbackError
	if errors.As(err, &cbErr) {
		c.logger.Error("action failed", "action", cbErr.Action, "error", cbErr.Err)
	} else {
		c.logger.Warn("command rejected", "error", err)
	}
	c.sink.Status(status.Error(text))
}

func invokeSafely(a *actions.Action, list args.List) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Invoke(list)
}
