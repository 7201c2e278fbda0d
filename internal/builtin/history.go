package builtin

import (
	"slices"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/args"
	"github.com/renato0307/snip/internal/capability"
	"github.com/renato0307/snip/internal/plugin"
	"github.com/renato0307/snip/internal/state"
	"github.com/renato0307/snip/internal/status"
)

// maxUndo bounds the number of remembered selection states.
const maxUndo = 100

// undoStack is a linear history of selection states with a cursor.
type undoStack struct {
	states [][]int
	cursor int
}

func (u *undoStack) push(ids []int) {
	u.states = append(u.states[:u.cursor+1], slices.Clone(ids))
	if len(u.states) > maxUndo {
		u.states = u.states[len(u.states)-maxUndo:]
	}
	u.cursor = len(u.states) - 1
}

func (u *undoStack) undo() ([]int, bool) {
	if u.cursor == 0 {
		return nil, false
	}
	u.cursor--
	return slices.Clone(u.states[u.cursor]), true
}

func (u *undoStack) redo() ([]int, bool) {
	if u.cursor >= len(u.states)-1 {
		return nil, false
	}
	u.cursor++
	return slices.Clone(u.states[u.cursor]), true
}

type historyPlugin struct{}

// HistoryPlugin adds undo and redo of selection changes. It needs the
// selection capability and attaches nothing without it.
func HistoryPlugin() plugin.Plugin {
	return historyPlugin{}
}

func (historyPlugin) Name() string { return "history" }

func (historyPlugin) Attach(host plugin.Host, caps *capability.View, _ *state.Store) error {
	sel, ok := capability.As[*Selection](caps, SelectionCapability)
	if !ok {
		host.Logger().Warn("selection capability missing, history disabled", "plugin", "history")
		return nil
	}

	stack := &undoStack{states: [][]int{sel.IDs()}}
	applying := false
	sel.Subscribe(func(ids []int) {
		if !applying {
			stack.push(ids)
		}
	})

	apply := func(step func() ([]int, bool), empty string) actions.Callback {
		return func(args.List) error {
			ids, ok := step()
			if !ok {
				host.Status().Status(status.Info(empty))
				return nil
			}
			applying = true
			defer func() { applying = false }()
			sel.Set(ids)
			return nil
		}
	}

	reg := host.Actions()
	if _, err := reg.Add(actions.Spec{
		Name:        "undo",
		Shortcuts:   []string{"ctrl+z"},
		Menu:        "&Undo",
		Description: "Restore the previous selection",
		Callback:    apply(stack.undo, "nothing to undo"),
	}); err != nil {
		return err
	}
	_, err := reg.Add(actions.Spec{
		Name:        "redo",
		Shortcuts:   []string{"ctrl+y"},
		Menu:        "&Redo",
		Description: "Reapply an undone selection",
		Callback:    apply(stack.redo, "nothing to redo"),
	})
	return err
}
