// Package session owns everything one command shell needs: its binding
// scope, capability registry, mode controller and state. Sessions share
// nothing with each other.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/capability"
	"github.com/renato0307/snip/internal/keyboard"
	"github.com/renato0307/snip/internal/logging"
	"github.com/renato0307/snip/internal/mode"
	"github.com/renato0307/snip/internal/plugin"
	"github.com/renato0307/snip/internal/state"
	"github.com/renato0307/snip/internal/status"
)

// HelpCacheKey is the state key the rendered shortcut table is cached under.
const HelpCacheKey = "snip.help.shortcuts"

// DefaultRegistry is the name of the registry plugins get from Actions().
const DefaultRegistry = "default"

var ErrClosed = errors.New("session is closed")

// Options configures a session. Zero values pick defaults.
type Options struct {
	Keys              *keyboard.Keys
	ShortcutOverrides map[string][]string // action name -> chords
	State             *state.Store
	StatePath         string // Saved on Close when set
	Sink              status.Sink
	Logger            *logging.Logger
}

// Session is safe for concurrent use. Key events, command execution and
// help rendering are serialized; action callbacks run with the session
// lock held and must not call back into the session.
type Session struct {
	mu sync.Mutex

	id        string
	scope     *actions.Scope
	registry  *actions.Registry
	caps      *capability.Registry
	ctrl      *mode.Controller
	state     *state.Store
	statePath string
	sink      status.Sink
	logger    *logging.Logger

	attached []string
	closers  []func() error
	closed   bool
}

// New builds a session and attaches plugins in order. If any plugin fails
// to attach, no session is returned.
func New(plugins []plugin.Plugin, opts Options) (*Session, error) {
	if opts.State == nil {
		opts.State = state.New()
	}
	if opts.Sink == nil {
		opts.Sink = status.Discard{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Get()
	}

	id := uuid.NewString()
	logger := opts.Logger.With("session", id)

	scope := actions.NewScope()
	scope.SetShortcutOverrides(opts.ShortcutOverrides)

	s := &Session{
		id:        id,
		scope:     scope,
		registry:  scope.NewRegistry(DefaultRegistry),
		caps:      capability.NewRegistry(),
		state:     opts.State,
		statePath: opts.StatePath,
		sink:      opts.Sink,
		logger:    logger,
	}
	s.ctrl = mode.NewController(scope, mode.Options{
		Keys:   opts.Keys,
		Sink:   opts.Sink,
		Logger: logger,
	})

	attacher := plugin.NewAttacher(s.caps, logger)
	if err := attacher.AttachAll(plugins, host{s}, s.state); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.attached = attacher.Attached()

	logger.Info("session ready", "plugins", len(s.attached), "capabilities", len(s.caps.Names()))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Plugins returns the attached plugin names in attachment order.
func (s *Session) Plugins() []string {
	return append([]string(nil), s.attached...)
}

// HandleKey feeds a key event to the mode controller. It returns false for
// keys the host should handle itself.
func (s *Session) HandleKey(msg tea.KeyMsg) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.ctrl.HandleKey(msg)
}

// Execute runs a command line as if typed in command entry.
func (s *Session) Execute(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.ctrl.Submit(line)
}

// Mode returns the controller state.
func (s *Session) Mode() mode.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Mode()
}

// Buffer returns the command entry buffer.
func (s *Session) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Buffer()
}

// Keys returns the controller key configuration.
func (s *Session) Keys() *keyboard.Keys {
	return s.ctrl.Keys()
}

// KeyBindings returns help bindings for the bound shortcuts.
func (s *Session) KeyBindings() []key.Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope.KeyBindings()
}

// ShortcutHelp renders the shortcut table of every action in the session.
func (s *Session) ShortcutHelp() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shortcutHelp()
}

// shortcutHelp caches the table in state, keyed by session and scope
// version.
func (s *Session) shortcutHelp() string {
	version := s.scope.Version()
	if s.state.String(HelpCacheKey+".session", "") == s.id &&
		s.state.Int(HelpCacheKey+".version", -1) == version {
		return s.state.String(HelpCacheKey+".text", "")
	}

	text := actions.FormatShortcuts(s.scope.ListShortcuts())
	err := s.state.Set(HelpCacheKey, map[string]any{
		"session": s.id,
		"version": version,
		"text":    text,
	})
	if err != nil {
		s.logger.Warn("failed to cache shortcut help", "error", err)
	}
	return text
}

// Capability looks up a capability registered during attachment.
func (s *Session) Capability(name string) capability.Optional {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps.Lookup(name)
}

// State returns the session state store.
func (s *Session) State() *state.Store {
	return s.state
}

// Close runs the plugins' close hooks in reverse order, then saves state
// when a state path was given. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if s.statePath != "" {
		if err := s.state.Save(s.statePath); err != nil {
			errs = append(errs, err)
		}
	}

	s.logger.Info("session closed", "errors", len(errs))
	return errors.Join(errs...)
}

// host is the plugin-facing view of a session. Its methods run while the
// session is being built or while it holds its lock, so they never lock.
type host struct {
	s *Session
}

func (h host) SessionID() string                        { return h.s.id }
func (h host) Actions() *actions.Registry               { return h.s.registry }
func (h host) NewActions(name string) *actions.Registry { return h.s.scope.NewRegistry(name) }
func (h host) Scope() *actions.Scope                    { return h.s.scope }
func (h host) Status() status.Sink                      { return h.s.sink }
func (h host) Logger() *logging.Logger                  { return h.s.logger }
func (h host) OnClose(fn func() error)                  { h.s.closers = append(h.s.closers, fn) }
func (h host) ShortcutHelp() string                     { return h.s.shortcutHelp() }
