package actions

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/renato0307/snip/internal/args"
	"github.com/renato0307/snip/internal/keyboard"
)

// Registry owns a set of actions. Registries created from the same Scope
// share alias and shortcut uniqueness.
type Registry struct {
	name  string
	scope *Scope

	order   []string // insertion order
	actions map[string]*Action

	// Derived indexes, rebuilt on every Add and Remove
	aliases   map[string]string   // alias -> name
	shortcuts map[string][]string // chord -> names in registration order
}

// NewRegistry creates a registry in its own, fresh binding scope.
func NewRegistry(name string) *Registry {
	return NewScope().NewRegistry(name)
}

func newRegistry(name string, scope *Scope) *Registry {
	return &Registry{
		name:      name,
		scope:     scope,
		actions:   make(map[string]*Action),
		aliases:   make(map[string]string),
		shortcuts: make(map[string][]string),
	}
}

// Name returns the registry name.
func (r *Registry) Name() string {
	return r.name
}

// Scope returns the binding scope the registry belongs to.
func (r *Registry) Scope() *Scope {
	return r.scope
}

// Add registers an action. Validation happens before any state changes, so
// a failed Add leaves the registry untouched.
func (r *Registry) Add(spec Spec) (*Handle, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	spec.Alias = strings.TrimSpace(spec.Alias)
	if spec.Name == "" {
		return nil, ErrEmptyName
	}
	if _, exists := r.actions[spec.Name]; exists {
		return nil, fmt.Errorf("%w: %q in registry %q", ErrDuplicateName, spec.Name, r.name)
	}
	if spec.Alias != "" {
		if owner := r.scope.aliasOwner(spec.Alias); owner != nil {
			return nil, fmt.Errorf("%w: %q is already used by %q", ErrDuplicateAlias, spec.Alias, owner.Name)
		}
	}

	if override, ok := r.scope.overrides[spec.Name]; ok {
		spec.Shortcuts = override
	}
	spec.Shortcuts = keyboard.NormalizeAll(spec.Shortcuts)
	for _, chord := range spec.Shortcuts {
		for _, owner := range r.scope.shortcutOwners(chord) {
			if !spec.SharedShortcut || !owner.SharedShortcut {
				return nil, fmt.Errorf("%w: %q is already bound to %q", ErrShortcutConflict, chord, owner.Name)
			}
		}
	}

	a := &Action{
		Spec:     spec,
		registry: r,
		seq:      r.scope.nextSeq(),
		enabled:  true,
	}
	r.actions[spec.Name] = a
	r.order = append(r.order, spec.Name)
	r.rebuild()

	return &Handle{registry: r, action: a}, nil
}

// Remove unregisters the named action.
func (r *Registry) Remove(name string) error {
	if _, ok := r.actions[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(r.actions, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	r.rebuild()
	return nil
}

func (r *Registry) rebuild() {
	r.scope.version++
	r.aliases = make(map[string]string, len(r.order))
	r.shortcuts = make(map[string][]string)
	for _, name := range r.order {
		a := r.actions[name]
		if a.Alias != "" {
			r.aliases[a.Alias] = name
		}
		for _, chord := range a.Shortcuts {
			r.shortcuts[chord] = append(r.shortcuts[chord], name)
		}
	}
}

// Get returns the action registered under name.
func (r *Registry) Get(name string) (*Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Actions returns the registered actions in insertion order.
func (r *Registry) Actions() []*Action {
	out := make([]*Action, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.actions[name])
	}
	return out
}

// Resolve looks a token up as an exact name first, then as an alias.
func (r *Registry) Resolve(token string) (*Action, error) {
	if a, ok := r.actions[token]; ok {
		return a, nil
	}
	if name, ok := r.aliases[token]; ok {
		return r.actions[name], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, token)
}

// Invoke resolves token and runs the action with list.
func (r *Registry) Invoke(token string, list args.List) error {
	a, err := r.Resolve(token)
	if err != nil {
		return err
	}
	return a.Invoke(list)
}

// ListShortcuts lists every action sorted by name, including those
// without shortcuts.
func (r *Registry) ListShortcuts() []ShortcutEntry {
	entries := make([]ShortcutEntry, 0, len(r.order))
	for _, a := range r.Actions() {
		entries = append(entries, entryFor(a))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}
