package memoize

import (
	"errors"
	"fmt"
)

// ErrGoexit is reported when the wrapped function calls runtime.Goexit
// while it runs on behalf of other callers in single-flight mode.
var ErrGoexit = errors.New("memoize: runtime.Goexit was called by the wrapped function")

// CallError is returned when the wrapped function fails.
// Nothing is memoized for the key of a failed call.
type CallError struct {
	// Key is the cache key of the failed call.
	Key string

	// Err is the error returned by the wrapped function.
	// If the function panicked, it is a *panics.ErrRecovered from github.com/sourcegraph/conc/panics.
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("memoize: call %s failed: %v", e.Key, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
