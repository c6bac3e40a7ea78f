package argkey

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is the cause when a value has no canonical encoding.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrCycle is the cause when a value refers to itself.
	ErrCycle = errors.New("cyclic structure")

	// ErrTooDeep is the cause when a value is nested deeper than MaxDepth.
	ErrTooDeep = errors.New("nesting too deep")
)

// Error describes an argument that cannot be encoded.
type Error struct {
	// Position is the zero-based index of the offending argument.
	Position int

	// Path locates the offending value inside the argument, e.g. `.Items[2]["name"]`.
	// It is empty when the argument itself is the offending value.
	Path string

	// Err is the cause.
	Err error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("argkey: argument %d: %v", e.Position, e.Err)
	}
	return fmt.Sprintf("argkey: argument %d at %s: %v", e.Position, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
