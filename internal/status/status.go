package status

import (
	"log/slog"
	"slices"
	"sync"
)

// MessageType defines the type of status message
type MessageType int

const (
	MessageTypeInfo MessageType = iota
	MessageTypeSuccess
	MessageTypeError
	MessageTypeBuffer // Mirror of the command entry buffer
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeInfo:
		return "info"
	case MessageTypeSuccess:
		return "success"
	case MessageTypeError:
		return "error"
	case MessageTypeBuffer:
		return "buffer"
	default:
		return "unknown"
	}
}

// Msg is one line on the status channel.
type Msg struct {
	Text string
	Type MessageType
}

// Info creates an info status message
func Info(text string) Msg {
	return Msg{Text: text, Type: MessageTypeInfo}
}

// Success creates a success status message
func Success(text string) Msg {
	return Msg{Text: text, Type: MessageTypeSuccess}
}

// Error creates an error status message
func Error(text string) Msg {
	return Msg{Text: text, Type: MessageTypeError}
}

// Buffer mirrors the command entry buffer after a keystroke.
func Buffer(text string) Msg {
	return Msg{Text: text, Type: MessageTypeBuffer}
}

// Selection is a selection-changed observation.
type Selection struct {
	Source string // Plugin that changed the selection
	IDs    []int
}

// Sink receives observations from the core. Implementations must not call
// back into the session that emits them.
type Sink interface {
	Status(Msg)
	SelectionChanged(Selection)
}

// Recorder keeps every observation in memory.
type Recorder struct {
	mu         sync.Mutex
	messages   []Msg
	selections []Selection
}

func (r *Recorder) Status(m Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

func (r *Recorder) SelectionChanged(s Selection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.IDs = slices.Clone(s.IDs)
	r.selections = append(r.selections, s)
}

// Messages returns a copy of the recorded status messages.
func (r *Recorder) Messages() []Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Msg(nil), r.messages...)
}

// Selections returns a copy of the recorded selection changes.
func (r *Recorder) Selections() []Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Selection(nil), r.selections...)
}

// Last returns the most recent message of type t.
func (r *Recorder) Last(t MessageType) (Msg, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].Type == t {
			return r.messages[i], true
		}
	}
	return Msg{}, false
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
	r.selections = nil
}

// LogSink writes observations to a structured logger. Buffer mirrors are
// logged at debug level.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) Status(m Msg) {
	if l.Logger == nil {
		return
	}
	switch m.Type {
	case MessageTypeError:
		l.Logger.Error("status", "text", m.Text)
	case MessageTypeBuffer:
		l.Logger.Debug("buffer changed", "text", m.Text)
	default:
		l.Logger.Info("status", "type", m.Type.String(), "text", m.Text)
	}
}

func (l LogSink) SelectionChanged(s Selection) {
	if l.Logger == nil {
		return
	}
	l.Logger.Info("selection changed", "source", s.Source, "count", len(s.IDs))
}

// Multi fans observations out to several sinks in order.
type Multi []Sink

func (m Multi) Status(msg Msg) {
	for _, s := range m {
		s.Status(msg)
	}
}

func (m Multi) SelectionChanged(sel Selection) {
	for _, s := range m {
		s.SelectionChanged(sel)
	}
}

// Discard drops every observation.
type Discard struct{}

func (Discard) Status(Msg)                 {}
func (Discard) SelectionChanged(Selection) {}
