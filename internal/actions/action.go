package actions

import (
	"fmt"

	"github.com/renato0307/snip/internal/args"
)

// Arity is the number of arguments an action accepts.
type Arity struct {
	N        int
	Variadic bool // accepts N or more
}

// Fixed accepts exactly n arguments.
func Fixed(n int) Arity { return Arity{N: n} }

// AtLeast accepts n or more arguments.
func AtLeast(n int) Arity { return Arity{N: n, Variadic: true} }

// Accepts reports whether count arguments satisfy the arity.
func (a Arity) Accepts(count int) bool {
	if a.Variadic {
		return count >= a.N
	}
	return count == a.N
}

func (a Arity) String() string {
	if a.Variadic {
		return fmt.Sprintf("at least %d", a.N)
	}
	return fmt.Sprintf("%d", a.N)
}

// Callback is the function bound to an action. The returned error is
// reported to the user; nothing else is read from the call.
type Callback func(args.List) error

// Spec describes an action to register.
type Spec struct {
	Name        string   // Unique within the owning registry
	Alias       string   // Optional short name, unique across the scope
	Shortcuts   []string // Key chords (e.g. "ctrl+s", "alt+ctrl++")
	Menu        string   // Menu label, not interpreted
	Description string   // Human-readable description
	Arity       Arity    // Accepted argument count (zero value: no arguments)

	// Prompt makes a shortcut open command entry pre-filled with the action
	// name instead of invoking it directly.
	Prompt bool

	// SharedShortcut allows other actions that also set it to bind the same
	// chords.
	SharedShortcut bool

	Callback Callback
}

// Action is a registered, invocable Spec. Only its enabled state changes
// after registration.
type Action struct {
	Spec

	registry *Registry
	seq      int
	enabled  bool
}

// Enabled reports whether the action can currently be invoked.
func (a *Action) Enabled() bool {
	return a.enabled
}

// Registry returns the name of the owning registry.
func (a *Action) Registry() string {
	return a.registry.name
}

// Check reports whether the action can be invoked with count arguments.
func (a *Action) Check(count int) error {
	if !a.enabled {
		return fmt.Errorf("%w: %s", ErrDisabled, a.Name)
	}
	if !a.Arity.Accepts(count) {
		return fmt.Errorf("%w: %s expects %s argument(s), got %d",
			ErrArityMismatch, a.Name, a.Arity, count)
	}
	return nil
}

// Invoke checks the argument count and runs the callback. Callback errors
// are returned unmodified.
func (a *Action) Invoke(list args.List) error {
	if err := a.Check(len(list)); err != nil {
		return err
	}
	if a.Callback == nil {
		return nil
	}
	return a.Callback(list)
}

// Handle is returned by Registry.Add and controls one registration. Once
// that registration is removed the handle is inert, even if another action
// later takes the same name.
type Handle struct {
	registry *Registry
	action   *Action
}

// Action returns the registered action, or nil once removed.
func (h *Handle) Action() *Action {
	if a, ok := h.registry.Get(h.action.Name); ok && a == h.action {
		return a
	}
	return nil
}

// Remove unregisters the action, freeing its alias and shortcuts.
func (h *Handle) Remove() error {
	if h.Action() == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, h.action.Name)
	}
	return h.registry.Remove(h.action.Name)
}

// Enable makes the action invocable again.
func (h *Handle) Enable() {
	if a := h.Action(); a != nil {
		a.enabled = true
	}
}

// Disable keeps the action registered but makes invocations fail and
// shortcuts pass through.
func (h *Handle) Disable() {
	if a := h.Action(); a != nil {
		a.enabled = false
	}
}
