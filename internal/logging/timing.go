package logging

import (
	"time"
)

// Timer holds the start of a measurement begun with Start.
type Timer struct {
	name      string
	startTime time.Time
	logger    *Logger
}

// Start begins a timing measurement on the logger. Pair it with End.
//
//	t := log.Start("attach plugin")
//	err := p.Attach(...)
//	t.End("plugin", p.Name())
func (l *Logger) Start(name string) Timer {
	return Timer{name: name, startTime: time.Now(), logger: l}
}

// End logs the elapsed time at debug level, with extra key-value pairs.
func (t Timer) End(args ...any) time.Duration {
	d := time.Since(t.startTime)
	if t.logger == nil || !t.logger.IsEnabled() {
		return d
	}
	kv := append([]any{"duration", d.String(), "ms", d.Milliseconds()}, args...)
	t.logger.Debug(t.name, kv...)
	return d
}

// EndWithCount is End with a count attribute.
func (t Timer) EndWithCount(count int) time.Duration {
	return t.End("count", count)
}
