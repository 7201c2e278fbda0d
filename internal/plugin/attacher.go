package plugin

import (
	"errors"
	"fmt"

	"github.com/renato0307/snip/internal/capability"
	"github.com/renato0307/snip/internal/logging"
	"github.com/renato0307/snip/internal/state"
)

var (
	ErrNilPlugin   = errors.New("plugin is nil")
	ErrPluginPanic = errors.New("plugin panicked")
)

// AttachError reports the plugin that stopped attachment. Plugins before
// Position stay attached; plugins after it were never attached.
type AttachError struct {
	Plugin   string
	Position int // zero-based index in the plugin list
	Err      error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("failed to attach plugin %q (position %d): %v", e.Plugin, e.Position, e.Err)
}

func (e *AttachError) Unwrap() error {
	return e.Err
}

// Attacher drives attachment against one capability registry.
type Attacher struct {
	caps     *capability.Registry
	logger   *logging.Logger
	attached []string
	runs     int
}

// NewAttacher creates an attacher publishing into caps.
func NewAttacher(caps *capability.Registry, logger *logging.Logger) *Attacher {
	if logger == nil {
		logger = logging.Get()
	}
	return &Attacher{caps: caps, logger: logger.With("component", "attacher")}
}

// AttachAll attaches plugins sequentially in list order, as one capability
// pass. The first failure stops the sequence and is returned as an
// *AttachError. Registrations made before the failure are not rolled back.
func (a *Attacher) AttachAll(plugins []Plugin, host Host, st *state.Store) error {
	if a.runs > 0 {
		a.caps.NewPass()
	}
	a.runs++
	total := a.logger.Start("attach plugins")

	for i, p := range plugins {
		if p == nil {
			return &AttachError{Plugin: "<nil>", Position: i, Err: ErrNilPlugin}
		}

		name := p.Name()
		view := a.caps.View(name)

		t := a.logger.Start("attach plugin")
		err := attachOne(p, host, view, st)
		t.End("plugin", name, "position", i)

		if err != nil {
			a.logger.Error("plugin attachment failed", "plugin", name, "position", i, "error", err)
			return &AttachError{Plugin: name, Position: i, Err: err}
		}
		a.attached = append(a.attached, name)
	}

	total.EndWithCount(len(plugins))
	return nil
}

// Attached returns the names of successfully attached plugins, in order.
func (a *Attacher) Attached() []string {
	return append([]string(nil), a.attached...)
}

func attachOne(p Plugin, host Host, view *capability.View, st *state.Store) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPluginPanic, r)
		}
	}()
	return p.Attach(host, view, st)
}
