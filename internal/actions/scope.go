package actions

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sahilm/fuzzy"

	"github.com/renato0307/snip/internal/args"
	"github.com/renato0307/snip/internal/keyboard"
)

// maxSuggestions caps how many names Suggest returns.
const maxSuggestions = 3

// Scope is a binding scope: the set of registries whose aliases and
// shortcuts must not collide. A session owns exactly one scope.
type Scope struct {
	registries []*Registry
	overrides  map[string][]string
	seq        int
	version    int
}

// NewScope creates an empty binding scope.
func NewScope() *Scope {
	return &Scope{overrides: make(map[string][]string)}
}

// NewRegistry creates a registry sharing this scope.
func (s *Scope) NewRegistry(name string) *Registry {
	r := newRegistry(name, s)
	s.registries = append(s.registries, r)
	return r
}

// Registries returns the scope's registries in creation order.
func (s *Scope) Registries() []*Registry {
	return append([]*Registry(nil), s.registries...)
}

// SetShortcutOverrides replaces the default shortcuts of actions added
// afterwards. An empty chord list unbinds the action.
func (s *Scope) SetShortcutOverrides(overrides map[string][]string) {
	s.overrides = make(map[string][]string, len(overrides))
	for name, chords := range overrides {
		s.overrides[name] = keyboard.NormalizeAll(chords)
	}
}

// Version changes whenever an action is added to or removed from any
// registry in the scope.
func (s *Scope) Version() int {
	return s.version
}

func (s *Scope) nextSeq() int {
	s.seq++
	return s.seq
}

func (s *Scope) aliasOwner(alias string) *Action {
	for _, r := range s.registries {
		if name, ok := r.aliases[alias]; ok {
			return r.actions[name]
		}
	}
	return nil
}

// shortcutOwners returns the actions bound to chord, in registration order.
func (s *Scope) shortcutOwners(chord string) []*Action {
	var owners []*Action
	for _, r := range s.registries {
		for _, name := range r.shortcuts[chord] {
			owners = append(owners, r.actions[name])
		}
	}
	sort.SliceStable(owners, func(i, j int) bool {
		return owners[i].seq < owners[j].seq
	})
	return owners
}

// Resolve looks token up across all registries: exact names first, then
// aliases.
func (s *Scope) Resolve(token string) (*Action, error) {
	for _, r := range s.registries {
		if a, ok := r.actions[token]; ok {
			return a, nil
		}
	}
	if a := s.aliasOwner(token); a != nil {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, token)
}

// ResolveShortcut returns the first enabled action bound to chord, by
// registration order.
func (s *Scope) ResolveShortcut(chord string) (*Action, bool) {
	for _, a := range s.shortcutOwners(keyboard.Normalize(chord)) {
		if a.enabled {
			return a, true
		}
	}
	return nil, false
}

// Invoke resolves token and runs the action with list.
func (s *Scope) Invoke(token string, list args.List) error {
	a, err := s.Resolve(token)
	if err != nil {
		return err
	}
	return a.Invoke(list)
}

// ListShortcuts lists the actions of every registry, sorted by name. Equal
// names keep registry creation order.
func (s *Scope) ListShortcuts() []ShortcutEntry {
	var entries []ShortcutEntry
	for _, r := range s.registries {
		for _, a := range r.Actions() {
			entries = append(entries, entryFor(a))
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Names returns every action name and alias in the scope.
func (s *Scope) Names() []string {
	var names []string
	for _, r := range s.registries {
		for _, a := range r.Actions() {
			names = append(names, a.Name)
			if a.Alias != "" {
				names = append(names, a.Alias)
			}
		}
	}
	return names
}

// Suggest returns action names that fuzzy-match token, best first.
func (s *Scope) Suggest(token string) []string {
	if token == "" {
		return nil
	}
	candidates := s.Names()
	matches := fuzzy.Find(token, candidates)

	var out []string
	seen := make(map[string]bool)
	for _, m := range matches {
		a, err := s.Resolve(m.Str)
		if err != nil || seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		out = append(out, a.Name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// KeyBindings returns help bindings for enabled actions that have
// shortcuts, in name order.
func (s *Scope) KeyBindings() []key.Binding {
	var bindings []key.Binding
	for _, e := range s.ListShortcuts() {
		if len(e.Shortcuts) == 0 || !e.Enabled {
			continue
		}
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(e.Shortcuts...),
			key.WithHelp(e.Shortcut(), e.Name),
		))
	}
	return bindings
}
