package builtin

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/args"
	"github.com/renato0307/snip/internal/capability"
	"github.com/renato0307/snip/internal/plugin"
	"github.com/renato0307/snip/internal/state"
	"github.com/renato0307/snip/internal/status"
)

const (
	GroupsCapability = "groups"
	groupsStateKey   = "groups.assignments"
)

var ErrNothingToMove = errors.New("no ids given and nothing selected")

// Groups assigns item ids to named groups. An id belongs to at most one
// group.
type Groups struct {
	assignments map[string][]int
}

func newGroups() *Groups {
	return &Groups{assignments: make(map[string][]int)}
}

// Assign moves ids into group, removing them from any other group.
func (g *Groups) Assign(group string, ids []int) {
	for name, members := range g.assignments {
		members = slices.DeleteFunc(members, func(id int) bool { return slices.Contains(ids, id) })
		if len(members) == 0 {
			delete(g.assignments, name)
			continue
		}
		g.assignments[name] = members
	}
	merged := append(g.assignments[group], ids...)
	slices.Sort(merged)
	g.assignments[group] = slices.Compact(merged)
}

// Members returns the ids in group, sorted.
func (g *Groups) Members(group string) []int {
	return slices.Clone(g.assignments[group])
}

// GroupOf returns the group id belongs to.
func (g *Groups) GroupOf(id int) (string, bool) {
	for name, members := range g.assignments {
		if slices.Contains(members, id) {
			return name, true
		}
	}
	return "", false
}

// Summary renders "group: count" pairs sorted by group name.
func (g *Groups) Summary() string {
	names := make([]string, 0, len(g.assignments))
	for name := range g.assignments {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %d", name, len(g.assignments[name]))
	}
	return strings.Join(parts, ", ")
}

func (g *Groups) save(st *state.Store) error {
	return st.Set(groupsStateKey, g.assignments)
}

func loadGroups(st *state.Store) *Groups {
	g := newGroups()
	raw, ok := st.Raw(groupsStateKey)
	if !ok {
		return g
	}
	gjson.Parse(raw).ForEach(func(name, members gjson.Result) bool {
		for _, id := range members.Array() {
			g.assignments[name.String()] = append(g.assignments[name.String()], int(id.Int()))
		}
		return true
	})
	return g
}

type moveArgs struct {
	Group string `arg:"group"`
	IDs   []int  `arg:"ids" optional:"true"`
}

type groupsPlugin struct{}

// GroupsPlugin adds the move and groups actions. Without the selection
// capability, move needs explicit ids.
func GroupsPlugin() plugin.Plugin {
	return groupsPlugin{}
}

func (groupsPlugin) Name() string { return GroupsCapability }

func (groupsPlugin) Attach(host plugin.Host, caps *capability.View, st *state.Store) error {
	sel, hasSelection := capability.As[*Selection](caps, SelectionCapability)
	groups := loadGroups(st)
	if err := caps.Register(GroupsCapability, groups); err != nil {
		return err
	}

	reg := host.Actions()
	if _, err := reg.Add(actions.Spec{
		Name:        "move",
		Alias:       "mv",
		Menu:        "&Move to group",
		Description: "Move ids, or the selection, to a group",
		Arity:       actions.AtLeast(1),
		Prompt:      true,
		Callback: func(list args.List) error {
			var a moveArgs
			if err := args.Bind(&a, list); err != nil {
				return err
			}
			ids := a.IDs
			if len(ids) == 0 && hasSelection {
				ids = sel.IDs()
			}
			if len(ids) == 0 {
				return ErrNothingToMove
			}

			groups.Assign(a.Group, ids)
			if err := groups.save(st); err != nil {
				return fmt.Errorf("failed to save groups: %w", err)
			}
			host.Status().Status(status.Success(fmt.Sprintf("moved %d items to %s", len(ids), a.Group)))
			return nil
		},
	}); err != nil {
		return err
	}

	_, err := reg.Add(actions.Spec{
		Name:        "groups",
		Menu:        "&Groups",
		Description: "Show group sizes",
		Callback: func(args.List) error {
			summary := groups.Summary()
			if summary == "" {
				summary = "no groups"
			}
			host.Status().Status(status.Info(summary))
			return nil
		},
	})
	return err
}
