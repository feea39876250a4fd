package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned for out of range settings.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrIllegalTransition is returned for commands the current state forbids.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrResourceExhausted is returned when the requested rank is used up.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrNothingToUndo is returned by Undo when no card can be taken back.
	ErrNothingToUndo = errors.New("nothing to undo")
)

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalTransition, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func exhausted(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrResourceExhausted, fmt.Sprintf(format, args...))
}
