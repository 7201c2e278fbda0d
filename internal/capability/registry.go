// Package capability is the ordered namespace plugins use to publish
// objects to, and discover objects from, plugins attached before them.
package capability

import (
	"errors"
	"fmt"
)

// ErrDuplicateCapability is returned when a name is registered twice in the
// same attachment pass.
var ErrDuplicateCapability = errors.New("duplicate capability")

type entry struct {
	name  string
	value any
	owner string
	pass  int
	step  int
}

// Registry is append-only. Each attaching plugin gets a View bound to its
// attachment step; a View only sees entries from earlier steps.
type Registry struct {
	entries []entry
	pass    int
	step    int
}

// NewRegistry returns an empty registry positioned in its first pass.
func NewRegistry() *Registry {
	return &Registry{pass: 1}
}

// NewPass starts a new attachment pass. Entries from earlier passes stay
// visible, and their names may be registered again.
func (r *Registry) NewPass() {
	r.pass++
}

// Pass returns the current pass number.
func (r *Registry) Pass() int {
	return r.pass
}

// View opens the next attachment step for owner.
func (r *Registry) View(owner string) *View {
	r.step++
	return &View{registry: r, owner: owner, pass: r.pass, step: r.step}
}

// Lookup returns the latest entry under name, regardless of step. It is
// meant for the host once attachment is over.
func (r *Registry) Lookup(name string) Optional {
	return r.latest(name, r.step+1)
}

// Names lists registered names in first-registration order.
func (r *Registry) Names() []string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range r.entries {
		if !seen[e.name] {
			seen[e.name] = true
			names = append(names, e.name)
		}
	}
	return names
}

func (r *Registry) latest(name string, before int) Optional {
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.name == name && e.step < before {
			return Optional{value: e.value, owner: e.owner, present: true}
		}
	}
	return Optional{}
}

// View is one plugin's handle on the registry.
type View struct {
	registry *Registry
	owner    string
	pass     int
	step     int
}

// Owner returns the plugin name the view was opened for.
func (v *View) Owner() string {
	return v.owner
}

// Register publishes value under name for plugins attached later.
func (v *View) Register(name string, value any) error {
	for _, e := range v.registry.entries {
		if e.name == name && e.pass == v.pass {
			return fmt.Errorf("%w: %q already registered by %q", ErrDuplicateCapability, name, e.owner)
		}
	}
	v.registry.entries = append(v.registry.entries, entry{
		name:  name,
		value: value,
		owner: v.owner,
		pass:  v.pass,
		step:  v.step,
	})
	return nil
}

// Request returns the most recent object registered under name by a
// plugin attached strictly before this one.
func (v *View) Request(name string) Optional {
	return v.registry.latest(name, v.step)
}

// Optional is a lookup result that may be absent.
type Optional struct {
	value   any
	owner   string
	present bool
}

// Get returns the object and whether it was found.
func (o Optional) Get() (any, bool) {
	return o.value, o.present
}

// Present reports whether the lookup found an object.
func (o Optional) Present() bool {
	return o.present
}

// Owner returns the plugin that registered the object.
func (o Optional) Owner() string {
	return o.owner
}

// As requests name and asserts it to T. It reports false when the
// capability is absent or has another type.
func As[T any](v *View, name string) (T, bool) {
	var zero T
	val, ok := v.Request(name).Get()
	if !ok {
		return zero, false
	}
	t, ok := val.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
