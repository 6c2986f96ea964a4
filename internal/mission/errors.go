package mission

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a missing or blank required field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers both missing missions and missions owned by someone
	// else; callers cannot tell the two apart.
	ErrNotFound = errors.New("mission not found")
	// ErrInvalidState marks a timer start/stop against the wrong timer state.
	ErrInvalidState = errors.New("invalid timer state")
	// ErrStore matches any *StoreError via errors.Is.
	ErrStore = errors.New("store failure")

	errRepoNil = errors.New("mission repository is nil")
	errLogsNil = errors.New("error log repository is nil")
)

// StoreError wraps a failure reported by the record store, unchanged.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
