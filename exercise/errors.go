/*
errors.go - Sentinel errors for the exercise domain

Boundary layers (tracker, api) reject invalid user input with these
before anything reaches the engine; the engine itself only clamps.
Use errors.Is for sentinels and errors.As for ImportError.
*/
package exercise

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an exercise id resolves to nothing.
	ErrNotFound = errors.New("exercise not found")

	// ErrEmptyName is returned when creating or renaming with a blank name.
	ErrEmptyName = errors.New("exercise name must not be empty")

	// ErrInvalidTarget is returned for a daily target below 1.
	ErrInvalidTarget = errors.New("daily target must be a positive integer")

	// ErrInvalidStep is returned for a decrement step below 1.
	ErrInvalidStep = errors.New("decrement step must be a positive integer")

	// ErrInvalidAmount is returned when logging a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrInvalidImport is the sentinel under every fatal import failure.
	ErrInvalidImport = errors.New("invalid import payload")
)

// ImportError carries the human-readable cause of a fatal import
// failure. The import never partially applies: existing state is
// untouched when this is returned.
type ImportError struct {
	Reason string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("invalid import payload: %s", e.Reason)
}

func (e *ImportError) Unwrap() error { return ErrInvalidImport }
