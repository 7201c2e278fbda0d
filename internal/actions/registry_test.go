package actions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/snip/internal/args"
)

func TestRegistry_AddResolve(t *testing.T) {
	r := NewRegistry("default")

	_, err := r.Add(Spec{Name: "select", Alias: "c", Arity: AtLeast(1)})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"by name", "select"},
		{"by alias", "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := r.Resolve(tt.token)
			require.NoError(t, err)
			assert.Equal(t, "select", a.Name)
			assert.Equal(t, "default", a.Registry())
		})
	}

	_, err = r.Resolve("nope")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestRegistry_Add_Errors(t *testing.T) {
	tests := []struct {
		name    string
		first   Spec
		second  Spec
		wantErr error
	}{
		{
			name:    "empty name",
			first:   Spec{Name: "a"},
			second:  Spec{Name: "  "},
			wantErr: ErrEmptyName,
		},
		{
			name:    "duplicate name",
			first:   Spec{Name: "a"},
			second:  Spec{Name: "a"},
			wantErr: ErrDuplicateName,
		},
		{
			name:    "duplicate alias",
			first:   Spec{Name: "a", Alias: "x"},
			second:  Spec{Name: "b", Alias: "x"},
			wantErr: ErrDuplicateAlias,
		},
		{
			name:    "shortcut conflict",
			first:   Spec{Name: "a", Shortcuts: []string{"ctrl+s"}},
			second:  Spec{Name: "b", Shortcuts: []string{"Ctrl+S"}},
			wantErr: ErrShortcutConflict,
		},
		{
			name:    "shared shortcut needs both sides",
			first:   Spec{Name: "a", Shortcuts: []string{"ctrl+s"}},
			second:  Spec{Name: "b", Shortcuts: []string{"ctrl+s"}, SharedShortcut: true},
			wantErr: ErrShortcutConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry("default")
			_, err := r.Add(tt.first)
			require.NoError(t, err)

			h, err := r.Add(tt.second)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, h)
			assert.Len(t, r.Actions(), 1, "failed add must not register anything")
		})
	}
}

func TestRegistry_RemoveFreesAlias(t *testing.T) {
	r := NewRegistry("default")

	h, err := r.Add(Spec{Name: "a", Alias: "x", Shortcuts: []string{"ctrl+x"}})
	require.NoError(t, err)

	_, err = r.Add(Spec{Name: "b", Alias: "x"})
	require.ErrorIs(t, err, ErrDuplicateAlias)

	require.NoError(t, h.Remove())
	assert.Nil(t, h.Action())

	_, err = r.Add(Spec{Name: "b", Alias: "x", Shortcuts: []string{"ctrl+x"}})
	require.NoError(t, err)

	a, err := r.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, "b", a.Name)

	assert.ErrorIs(t, r.Remove("a"), ErrNotFound)
}

func TestHandle_StaleAfterReRegistration(t *testing.T) {
	r := NewRegistry("default")

	old, err := r.Add(Spec{Name: "tag", Alias: "t"})
	require.NoError(t, err)
	require.NoError(t, old.Remove())

	current, err := r.Add(Spec{Name: "tag", Alias: "t"})
	require.NoError(t, err)

	assert.Nil(t, old.Action())
	old.Disable()
	assert.True(t, current.Action().Enabled())
	assert.ErrorIs(t, old.Remove(), ErrNotFound)

	a, err := r.Resolve("t")
	require.NoError(t, err)
	assert.Same(t, current.Action(), a)

	current.Disable()
	old.Enable()
	assert.False(t, current.Action().Enabled())
}

func TestRegistry_SharedShortcut(t *testing.T) {
	r := NewRegistry("default")

	_, err := r.Add(Spec{Name: "a", Shortcuts: []string{"ctrl+s"}, SharedShortcut: true})
	require.NoError(t, err)
	_, err = r.Add(Spec{Name: "b", Shortcuts: []string{"ctrl+s"}, SharedShortcut: true})
	require.NoError(t, err)

	a, ok := r.Scope().ResolveShortcut("ctrl+s")
	require.True(t, ok)
	assert.Equal(t, "a", a.Name, "first registered wins")
}

func TestRegistry_Invoke(t *testing.T) {
	r := NewRegistry("default")

	var got args.List
	h, err := r.Add(Spec{
		Name:  "select",
		Arity: AtLeast(1),
		Callback: func(list args.List) error {
			got = list
			return nil
		},
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = r.Add(Spec{
		Name:     "fail",
		Callback: func(args.List) error { return boom },
	})
	require.NoError(t, err)

	t.Run("passes arguments", func(t *testing.T) {
		list := args.List{args.Integer(1), args.String("x")}
		require.NoError(t, r.Invoke("select", list))
		assert.Equal(t, list, got)
	})

	t.Run("arity mismatch", func(t *testing.T) {
		err := r.Invoke("select", nil)
		assert.ErrorIs(t, err, ErrArityMismatch)
		assert.Contains(t, err.Error(), "at least 1")
	})

	t.Run("fixed arity rejects extras", func(t *testing.T) {
		assert.ErrorIs(t, r.Invoke("fail", args.List{args.Integer(1)}), ErrArityMismatch)
	})

	t.Run("callback error is returned unmodified", func(t *testing.T) {
		assert.Same(t, boom, r.Invoke("fail", nil))
	})

	t.Run("disabled", func(t *testing.T) {
		h.Disable()
		defer h.Enable()
		assert.ErrorIs(t, r.Invoke("select", args.List{args.Integer(1)}), ErrDisabled)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.ErrorIs(t, r.Invoke("nope", nil), ErrUnknownAction)
	})
}

func TestRegistry_ListShortcuts(t *testing.T) {
	r := NewRegistry("default")
	for _, s := range []Spec{
		{Name: "undo", Shortcuts: []string{"ctrl+z"}},
		{Name: "select", Alias: "c", Shortcuts: []string{"ctrl+s"}},
		{Name: "groups"},
	} {
		_, err := r.Add(s)
		require.NoError(t, err)
	}

	first := r.ListShortcuts()
	second := r.ListShortcuts()
	assert.Equal(t, first, second)

	require.Len(t, first, 3)
	assert.Equal(t, "groups", first[0].Name)
	assert.Equal(t, "", first[0].Shortcut())
	assert.Equal(t, "select", first[1].Name)
	assert.Equal(t, "c", first[1].Alias)
	assert.Equal(t, "ctrl+s", first[1].Shortcut())
	assert.Equal(t, "undo", first[2].Name)
}

func TestArity(t *testing.T) {
	tests := []struct {
		arity    Arity
		count    int
		expected bool
	}{
		{Fixed(0), 0, true},
		{Fixed(0), 1, false},
		{Fixed(2), 2, true},
		{Fixed(2), 3, false},
		{AtLeast(1), 0, false},
		{AtLeast(1), 1, true},
		{AtLeast(1), 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.arity.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.arity.Accepts(tt.count))
		})
	}
}

func TestCallbackError(t *testing.T) {
	inner := errors.New("disk full")
	err := error(&CallbackError{Action: "save", Err: inner})

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, `action "save" failed: disk full`, err.Error())

	var ce *CallbackError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "save", ce.Action)
}
