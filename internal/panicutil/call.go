// Package panicutil runs user functions so that a panic becomes an error.
package panicutil

import (
	"github.com/sourcegraph/conc/panics"
)

// Call runs f with a double defer sandwich and returns its results.
// If f panics, the panic is recovered and returned as a *panics.ErrRecovered.
// If f calls runtime.Goexit, onGoexit (if not nil) is called before the goroutine terminates.
func Call[V any](f func() (V, error), onGoexit func()) (value V, err error) {
	var (
		normalReturn bool
		recovered    bool
		panicValue   panics.Recovered
	)
	defer func() {
		switch {
		case normalReturn:
			return
		case recovered:
			var zero V
			value, err = zero, panicValue.AsError()
		default:
			if onGoexit != nil {
				onGoexit()
			}
		}
	}()
	func() {
		defer func() {
			panicValue = panics.NewRecovered(2, recover())
		}()
		value, err = f()
		normalReturn = true
	}()
	if !normalReturn {
		recovered = true
	}
	return
}
