package main

import (
	"errors"
	"fmt"

	"github.com/renato0307/snip/internal/builtin"
	"github.com/renato0307/snip/internal/config"
	"github.com/renato0307/snip/internal/logging"
	"github.com/renato0307/snip/internal/plugin"
	"github.com/renato0307/snip/internal/plugin/lua"
	"github.com/renato0307/snip/internal/session"
	"github.com/renato0307/snip/internal/state"
	"github.com/renato0307/snip/internal/status"
)

// env is a ready session plus what it was built from.
type env struct {
	config  config.Config
	session *session.Session
}

// close closes the session, which saves state, then the log file.
func (e *env) close() error {
	return errors.Join(e.session.Close(), logging.Shutdown())
}

// open loads configuration, applies flag overrides and builds a session
// reporting to sink.
func open(f *flags, sink status.Sink) (*env, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	if f.state != "" {
		cfg.State.Path = f.state
	}
	if f.plugins != "" {
		cfg.Plugins.Dir = f.plugins
	}
	if f.keymap != "" {
		cfg.Keys.Keymap = f.keymap
	}
	if f.theme != "" {
		cfg.UI.Theme = f.theme
	}

	if err := logging.Init(cfg.Log.Logging()); err != nil {
		return nil, fmt.Errorf("failed to init logging: %w", err)
	}
	logger := logging.Get()

	// Any failure from here on must release the log file.
	fail := func(err error) (*env, error) {
		_ = logging.Shutdown()
		return nil, err
	}

	st, err := state.Load(cfg.State.Path)
	if err != nil {
		return fail(err)
	}
	keys, overrides, err := cfg.Keys.LoadKeys()
	if err != nil {
		return fail(err)
	}

	var plugins []plugin.Plugin
	if cfg.Plugins.Builtin {
		plugins = append(plugins, builtin.Defaults()...)
	}
	scripts, err := lua.LoadDir(cfg.Plugins.Dir, lua.WithTimeout(cfg.Plugins.Timeout))
	if err != nil {
		return fail(err)
	}
	plugins = append(plugins, scripts...)

	s, err := session.New(plugins, session.Options{
		Keys:              keys,
		ShortcutOverrides: overrides,
		State:             st,
		StatePath:         cfg.State.Path,
		Sink:              status.Multi{sink, status.LogSink{Logger: logger.Slog()}},
		Logger:            logger,
	})
	if err != nil {
		return fail(err)
	}

	logger.Info("snip started",
		"session", s.ID(),
		"plugins", len(s.Plugins()),
		"lua_plugins", len(scripts),
		"state", cfg.State.Path)
	return &env{config: cfg, session: s}, nil
}
