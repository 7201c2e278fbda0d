package mode

// maxHistory bounds the number of remembered command lines.
const maxHistory = 100

// History keeps committed command lines for recall with up/down.
type History struct {
	entries []string
	index   int // Current position in history (-1 means not navigating)
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{index: -1}
}

// Add records a line, skipping empties and repeats of the most recent one.
func (h *History) Add(line string) {
	defer h.Reset()

	if line == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}

	h.entries = append(h.entries, line)
	if len(h.entries) > maxHistory {
		h.entries = h.entries[len(h.entries)-maxHistory:]
	}
}

// Prev moves to an older line. At the oldest line it stays there.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}

	if h.index == -1 {
		h.index = len(h.entries) - 1
	} else if h.index > 0 {
		h.index--
	}
	return h.entries[h.index], true
}

// Next moves to a newer line. Moving past the newest line leaves
// navigation and returns false.
func (h *History) Next() (string, bool) {
	if len(h.entries) == 0 || h.index == -1 {
		return "", false
	}

	if h.index < len(h.entries)-1 {
		h.index++
		return h.entries[h.index], true
	}

	h.index = -1
	return "", false
}

// Navigating reports whether Prev has moved into history since the last
// Reset.
func (h *History) Navigating() bool {
	return h.index != -1
}

// Reset leaves history navigation.
func (h *History) Reset() {
	h.index = -1
}

// Entries returns the remembered lines, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Size returns the number of entries in history.
func (h *History) Size() int {
	return len(h.entries)
}
