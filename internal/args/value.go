package args

import (
	"strconv"
	"strings"
)

// Kind identifies the grammar class of an argument value.
type Kind int

const (
	KindInteger    Kind = iota // 42
	KindIntegerSet             // 2,3,5 or 3-6
	KindString                 // anything else
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindIntegerSet:
		return "integer set"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is one parsed command argument: Integer, IntegerSet or String.
type Value interface {
	Kind() Kind
	// Text renders the value back in command-language syntax.
	Text() string
}

// Integer is a literal non-negative integer token.
type Integer int

func (Integer) Kind() Kind     { return KindInteger }
func (i Integer) Text() string { return strconv.Itoa(int(i)) }

// IntegerSet is an expanded range or comma list, in source order with
// duplicates preserved.
type IntegerSet []int

func (IntegerSet) Kind() Kind { return KindIntegerSet }

func (s IntegerSet) Text() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// String is an opaque token kept verbatim.
type String string

func (String) Kind() Kind     { return KindString }
func (s String) Text() string { return string(s) }

// List is the ordered argument sequence handed to action callbacks.
type List []Value

// Len returns the number of arguments.
func (l List) Len() int {
	return len(l)
}

// Int returns argument i when it is an Integer.
func (l List) Int(i int) (int, bool) {
	if i < 0 || i >= len(l) {
		return 0, false
	}
	v, ok := l[i].(Integer)
	return int(v), ok
}

// String returns the text of argument i, whatever its kind.
func (l List) String(i int) (string, bool) {
	if i < 0 || i >= len(l) {
		return "", false
	}
	return l[i].Text(), true
}

// Ints flattens Integer and IntegerSet arguments from index i onwards, in
// order. It reports false if any of those arguments is a String.
func (l List) Ints(from int) ([]int, bool) {
	var out []int
	for i := from; i < len(l); i++ {
		switch v := l[i].(type) {
		case Integer:
			out = append(out, int(v))
		case IntegerSet:
			out = append(out, v...)
		default:
			return nil, false
		}
	}
	return out, true
}

// Texts returns every argument rendered as text.
func (l List) Texts() []string {
	out := make([]string, len(l))
	for i, v := range l {
		out[i] = v.Text()
	}
	return out
}
