// Package lua runs plugins written in Lua. Each script is one plugin with
// its own interpreter; it reaches the session through the global snip
// table:
//
//	snip.action{name = "tag", alias = "t", arity = 1, variadic = true,
//	            shortcuts = {"ctrl+t"}, prompt = true, fn = function(...) end}
//	snip.register(name, value)
//	snip.request(name)            -- nil when absent
//	snip.state.get(key, default)
//	snip.state.set(key, value)
//	snip.status(text [, "info" | "success" | "error"])
//	snip.log(text)
//	snip.session                  -- session id
//
// Callback arguments arrive as numbers, arrays of numbers and strings.
// The io, os, debug and package libraries are not available.
package lua

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/renato0307/snip/internal/capability"
	"github.com/renato0307/snip/internal/plugin"
	"github.com/renato0307/snip/internal/state"
)

// DefaultTimeout bounds a single script run or callback.
const DefaultTimeout = 5 * time.Second

// Extension is the file extension LoadDir picks up.
const Extension = ".lua"

var ErrInvalidAction = errors.New("invalid action definition")

// Plugin is a Lua script attached as a plugin.
type Plugin struct {
	name    string
	path    string
	source  string
	timeout time.Duration
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithTimeout sets the limit for one script run or callback. Zero keeps
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Plugin) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New creates a plugin from Lua source.
func New(name, source string, opts ...Option) *Plugin {
	p := &Plugin{name: name, source: source, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromFile creates a plugin running the script at path. The plugin is named
// after the file, without extension.
func FromFile(path string, opts ...Option) *Plugin {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p := New(name, "", opts...)
	p.path = path
	return p
}

// LoadDir returns a plugin per Lua file in dir, ordered by file name. A
// missing directory yields no plugins.
func LoadDir(dir string, opts ...Option) ([]plugin.Plugin, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin directory: %w", err)
	}

	var plugins []plugin.Plugin
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		plugins = append(plugins, FromFile(filepath.Join(dir, e.Name()), opts...))
	}
	return plugins, nil
}

func (p *Plugin) Name() string {
	return p.name
}

// Attach runs the script. The interpreter lives until the session closes.
func (p *Plugin) Attach(host plugin.Host, caps *capability.View, st *state.Store) error {
	L := newState()
	host.OnClose(func() error {
		L.Close()
		return nil
	})

	m := &module{
		L:       L,
		name:    p.name,
		host:    host,
		caps:    caps,
		st:      st,
		timeout: p.timeout,
		log:     host.Logger().With("plugin", p.name),
	}
	L.SetGlobal("snip", m.table())

	err := m.run(func() error {
		if p.path != "" {
			return L.DoFile(p.path)
		}
		return L.DoString(p.source)
	})
	if err != nil {
		return fmt.Errorf("failed to run lua plugin %s: %w", p.name, err)
	}
	return nil
}

// newState opens the base, table, string and math libraries and nothing
// that reaches the file system or the process.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// run executes fn under the plugin timeout. Errors raised by snip.* calls
// come back as the Go error behind them.
func (m *module) run(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	m.L.SetContext(ctx)
	defer m.L.RemoveContext()

	m.raised = nil
	err := fn()
	if err != nil && m.raised != nil {
		err = m.raised
	}
	m.raised = nil
	return err
}
