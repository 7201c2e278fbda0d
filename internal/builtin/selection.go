// Package builtin holds the plugins every session starts with.
package builtin

import (
	"fmt"
	"slices"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/args"
	"github.com/renato0307/snip/internal/capability"
	"github.com/renato0307/snip/internal/plugin"
	"github.com/renato0307/snip/internal/state"
	"github.com/renato0307/snip/internal/status"
)

const (
	SelectionCapability = "selection"
	selectionStateKey   = "selection.ids"
)

// Selection is the set of selected item ids, in selection order.
type Selection struct {
	ids         []int
	subscribers []func(ids []int)
}

// IDs returns a copy of the selected ids.
func (s *Selection) IDs() []int {
	return slices.Clone(s.ids)
}

// Set replaces the selection, dropping repeated ids, and notifies
// subscribers.
func (s *Selection) Set(ids []int) {
	next := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			next = append(next, id)
		}
	}
	s.ids = next
	for _, fn := range s.subscribers {
		fn(s.IDs())
	}
}

// Subscribe calls fn after every change.
func (s *Selection) Subscribe(fn func(ids []int)) {
	s.subscribers = append(s.subscribers, fn)
}

// SelectionPlugin publishes the selection capability and the select and
// clear actions.
func SelectionPlugin() plugin.Plugin {
	return plugin.Func(SelectionCapability, attachSelection)
}

func attachSelection(host plugin.Host, caps *capability.View, st *state.Store) error {
	sel := &Selection{ids: st.Ints(selectionStateKey)}
	if err := caps.Register(SelectionCapability, sel); err != nil {
		return err
	}

	log := host.Logger().With("plugin", SelectionCapability)
	sel.Subscribe(func(ids []int) {
		if err := st.Set(selectionStateKey, ids); err != nil {
			log.Warn("failed to persist selection", "error", err)
		}
		host.Status().SelectionChanged(status.Selection{Source: SelectionCapability, IDs: ids})
		host.Status().Status(status.Info(fmt.Sprintf("%d items selected", len(ids))))
	})

	reg := host.Actions()
	if _, err := reg.Add(actions.Spec{
		Name:        "select",
		Alias:       "c",
		Shortcuts:   []string{"ctrl+s"},
		Menu:        "&Select",
		Description: "Select items by id, list or range",
		Arity:       actions.AtLeast(1),
		Prompt:      true,
		Callback: func(list args.List) error {
			ids, ok := list.Ints(0)
			if !ok {
				return fmt.Errorf("select takes ids, lists or ranges, got %q", list.Texts())
			}
			sel.Set(ids)
			return nil
		},
	}); err != nil {
		return err
	}

	_, err := reg.Add(actions.Spec{
		Name:        "clear",
		Shortcuts:   []string{"ctrl+l"},
		Menu:        "&Clear selection",
		Description: "Clear the selection",
		Callback: func(args.List) error {
			sel.Set(nil)
			return nil
		},
	})
	return err
}
