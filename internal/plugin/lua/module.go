package lua

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/args"
	"github.com/renato0307/snip/internal/capability"
	"github.com/renato0307/snip/internal/logging"
	"github.com/renato0307/snip/internal/plugin"
	"github.com/renato0307/snip/internal/state"
	"github.com/renato0307/snip/internal/status"
)

// module backs the snip table of one script.
type module struct {
	L          *lua.LState
	name       string
	host       plugin.Host
	caps       *capability.View
	st         *state.Store
	timeout    time.Duration
	log        *logging.Logger
	registries map[string]*actions.Registry

	// raised holds the Go error behind the last snip.* failure.
	raised error
}

func (m *module) table() *lua.LTable {
	t := m.L.SetFuncs(m.L.NewTable(), map[string]lua.LGFunction{
		"action":   m.action,
		"register": m.register,
		"request":  m.request,
		"status":   m.status,
		"log":      m.logText,
	})
	t.RawSetString("state", m.L.SetFuncs(m.L.NewTable(), map[string]lua.LGFunction{
		"get": m.stateGet,
		"set": m.stateSet,
	}))
	t.RawSetString("session", lua.LString(m.host.SessionID()))
	return t
}

// raise aborts the running Lua code with err.
func (m *module) raise(err error) int {
	m.raised = err
	m.L.RaiseError("%s", err.Error())
	return 0
}

// snip.action{...}
func (m *module) action(L *lua.LState) int {
	def := L.CheckTable(1)

	fn, ok := def.RawGetString("fn").(*lua.LFunction)
	if !ok {
		return m.raise(fmt.Errorf("%w: fn must be a function", ErrInvalidAction))
	}
	arity := actions.Fixed(fieldInt(def, "arity"))
	if fieldBool(def, "variadic") {
		arity = actions.AtLeast(arity.N)
	}
	name := fieldString(def, "name")

	spec := actions.Spec{
		Name:           name,
		Alias:          fieldString(def, "alias"),
		Shortcuts:      fieldStrings(def, "shortcuts"),
		Menu:           fieldString(def, "menu"),
		Description:    fieldString(def, "description"),
		Arity:          arity,
		Prompt:         fieldBool(def, "prompt"),
		SharedShortcut: fieldBool(def, "shared"),
		Callback:       m.callback(fn),
	}

	reg := m.registry(fieldString(def, "registry"))
	if _, err := reg.Add(spec); err != nil {
		return m.raise(err)
	}
	m.log.Debug("lua action added", "action", name, "registry", reg.Name())
	return 0
}

func (m *module) registry(name string) *actions.Registry {
	if name == "" {
		return m.host.Actions()
	}
	if m.registries == nil {
		m.registries = make(map[string]*actions.Registry)
	}
	reg, ok := m.registries[name]
	if !ok {
		reg = m.host.NewActions(name)
		m.registries[name] = reg
	}
	return reg
}

func (m *module) callback(fn *lua.LFunction) actions.Callback {
	return func(list args.List) error {
		return m.run(func() error {
			return m.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, argsToLua(m.L, list)...)
		})
	}
}

// snip.register(name, value)
func (m *module) register(L *lua.LState) int {
	name := L.CheckString(1)
	if err := m.caps.Register(name, toGo(L.Get(2))); err != nil {
		return m.raise(err)
	}
	return 0
}

// snip.request(name)
func (m *module) request(L *lua.LState) int {
	v, ok := m.caps.Request(L.CheckString(1)).Get()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(toLua(L, v))
	return 1
}

// snip.status(text [, kind])
func (m *module) status(L *lua.LState) int {
	text := L.CheckString(1)
	var msg status.Msg
	switch kind := L.OptString(2, "info"); kind {
	case "info":
		msg = status.Info(text)
	case "success":
		msg = status.Success(text)
	case "error":
		msg = status.Error(text)
	default:
		L.ArgError(2, "unknown status kind "+kind)
		return 0
	}
	m.host.Status().Status(msg)
	return 0
}

// snip.log(text)
func (m *module) logText(L *lua.LState) int {
	m.log.Info(L.CheckString(1))
	return 0
}

// snip.state.get(key, default)
func (m *module) stateGet(L *lua.LState) int {
	v := m.st.Get(L.CheckString(1), toGo(L.Get(2)))
	L.Push(toLua(L, v))
	return 1
}

// snip.state.set(key, value)
func (m *module) stateSet(L *lua.LState) int {
	if err := m.st.Set(L.CheckString(1), toGo(L.Get(2))); err != nil {
		return m.raise(err)
	}
	return 0
}

func fieldString(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func fieldInt(t *lua.LTable, key string) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

func fieldBool(t *lua.LTable, key string) bool {
	return lua.LVAsBool(t.RawGetString(key))
}

// fieldStrings accepts a single string or an array of strings.
func fieldStrings(t *lua.LTable, key string) []string {
	switch v := t.RawGetString(key).(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		var out []string
		v.ForEach(func(_, item lua.LValue) {
			if s, ok := item.(lua.LString); ok {
				out = append(out, string(s))
			}
		})
		return out
	default:
		return nil
	}
}
