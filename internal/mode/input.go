package mode

// Input is the command entry buffer.
type Input struct {
	buffer []rune
}

// NewInput creates an empty buffer.
func NewInput() *Input {
	return &Input{}
}

// Get returns the current input buffer.
func (i *Input) Get() string {
	return string(i.buffer)
}

// Set replaces the buffer.
func (i *Input) Set(text string) {
	i.buffer = []rune(text)
}

// Clear empties the buffer.
func (i *Input) Clear() {
	i.buffer = i.buffer[:0]
}

// IsEmpty returns true if input buffer is empty.
func (i *Input) IsEmpty() bool {
	return len(i.buffer) == 0
}

// AddText appends typed or pasted text.
func (i *Input) AddText(text string) {
	i.buffer = append(i.buffer, []rune(text)...)
}

// Backspace removes the last character. It returns true if the buffer is
// now empty.
func (i *Input) Backspace() bool {
	if len(i.buffer) > 0 {
		i.buffer = i.buffer[:len(i.buffer)-1]
	}
	return len(i.buffer) == 0
}
