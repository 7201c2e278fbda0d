package actions

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName        = errors.New("action name is empty")
	ErrDuplicateName    = errors.New("duplicate action name")
	ErrDuplicateAlias   = errors.New("duplicate alias")
	ErrShortcutConflict = errors.New("shortcut already bound")
	ErrNotFound         = errors.New("action not found")
	ErrUnknownAction    = errors.New("unknown action")
	ErrArityMismatch    = errors.New("wrong number of arguments")
	ErrDisabled         = errors.New("action is disabled")
)

// CallbackError wraps a failure raised by an action callback, including
// recovered panics.
type CallbackError struct {
	Action string
	Err    error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("action %q failed: %v", e.Action, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}
