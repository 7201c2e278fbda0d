// Package plugin attaches independently written components to a session,
// one at a time and in declared order.
package plugin

import (
	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/capability"
	"github.com/renato0307/snip/internal/logging"
	"github.com/renato0307/snip/internal/state"
	"github.com/renato0307/snip/internal/status"
)

// Host is the session as seen by a plugin.
type Host interface {
	// SessionID identifies the session being built.
	SessionID() string
	// Actions is the session's default action registry.
	Actions() *actions.Registry
	// NewActions creates an extra registry in the session's binding scope.
	NewActions(name string) *actions.Registry
	// Scope is the session's binding scope.
	Scope() *actions.Scope
	// Status is the session's observation channel.
	Status() status.Sink
	// Logger is the session logger.
	Logger() *logging.Logger
	// ShortcutHelp renders the shortcut table of the whole scope.
	ShortcutHelp() string
	// OnClose registers fn to run when the session closes, in reverse
	// registration order.
	OnClose(fn func() error)
}

// Plugin is a component attached to a session.
type Plugin interface {
	Name() string
	Attach(host Host, caps *capability.View, st *state.Store) error
}

// AttachFunc is the signature of Plugin.Attach.
type AttachFunc func(host Host, caps *capability.View, st *state.Store) error

type funcPlugin struct {
	name string
	fn   AttachFunc
}

// Func adapts a function into a Plugin.
func Func(name string, fn AttachFunc) Plugin {
	return &funcPlugin{name: name, fn: fn}
}

func (p *funcPlugin) Name() string { return p.name }

func (p *funcPlugin) Attach(host Host, caps *capability.View, st *state.Store) error {
	return p.fn(host, caps, st)
}
