package snippet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/args"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	scope := actions.NewScope()
	r := scope.NewRegistry("default")
	for _, s := range []actions.Spec{
		{Name: "select", Alias: "c", Arity: actions.AtLeast(1)},
		{Name: "a"},
		{Name: "undo"},
	} {
		_, err := r.Add(s)
		require.NoError(t, err)
	}
	return NewParser(scope)
}

func TestParse(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name     string
		line     string
		action   string
		token    string
		expected args.List
	}{
		{
			name:     "alias with range and string",
			line:     "c 3-6 hello",
			action:   "select",
			token:    "c",
			expected: args.List{args.IntegerSet{3, 4, 5, 6}, args.String("hello")},
		},
		{
			name:     "comma list keeps order",
			line:     "c 2,3,5,7",
			action:   "select",
			token:    "c",
			expected: args.List{args.IntegerSet{2, 3, 5, 7}},
		},
		{
			name:     "integer",
			line:     "select 42",
			action:   "select",
			token:    "select",
			expected: args.List{args.Integer(42)},
		},
		{
			name:     "no arguments",
			line:     "a",
			action:   "a",
			token:    "a",
			expected: args.List{},
		},
		{
			name:     "extra whitespace",
			line:     "  undo \t ",
			action:   "undo",
			token:    "undo",
			expected: args.List{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Parse(tt.line)

			require.True(t, res.OK(), "outcome %s: %v", res.Outcome, res.Err)
			require.NotNil(t, res.Command)
			assert.Equal(t, tt.action, res.Command.Action.Name)
			assert.Equal(t, tt.token, res.Command.Token)
			assert.Equal(t, tt.expected, res.Command.Args)
		})
	}
}

func TestParse_Failures(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name     string
		line     string
		expected Outcome
	}{
		{"empty", "", OutcomeEmpty},
		{"blank", "   ", OutcomeEmpty},
		{"reversed range", "c 5-2", OutcomeInvalidRange},
		{"unknown action", "frobnicate 1", OutcomeUnknownAction},
		{"unknown action wins over bad range", "frobnicate 5-2", OutcomeUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Parse(tt.line)

			assert.Equal(t, tt.expected, res.Outcome)
			assert.Nil(t, res.Command)
			assert.False(t, res.OK())
		})
	}
}

func TestParse_ErrorsAndSuggestions(t *testing.T) {
	p := newTestParser(t)

	res := p.Parse("sel 1")
	assert.ErrorIs(t, res.Err, actions.ErrUnknownAction)
	assert.Equal(t, []string{"select"}, res.Suggestions)

	res = p.Parse("c 5-2")
	assert.ErrorIs(t, res.Err, args.ErrInvalidRange)

	res = p.Parse("")
	assert.NoError(t, res.Err)
}

func TestParse_DoesNotInvoke(t *testing.T) {
	called := false
	r := actions.NewRegistry("default")
	_, err := r.Add(actions.Spec{
		Name:     "a",
		Callback: func(args.List) error { called = true; return nil },
	})
	require.NoError(t, err)

	res := NewParser(r.Scope()).Parse("a")
	require.True(t, res.OK())
	assert.False(t, called)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "invalid range", OutcomeInvalidRange.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
