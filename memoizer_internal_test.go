package memoize

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/karupanerura/memoize/argkey"
)

type neverForget struct{}

func (neverForget) Forget(string, Entry[int], *Entries[int]) bool { return false }

func TestMemoizer_loadShared(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	m := New(func(_ context.Context, args ...any) (int, error) {
		calls.Add(1)
		return args[0].(int) * 2, nil
	}, neverForget{}, WithSingleFlight[int]())

	t.Run("computes a missing value", func(t *testing.T) {
		key := argkey.MustEncode(1)
		value, recalled, err := m.loadShared(t.Context(), key, []any{1})
		if err != nil {
			t.Fatal(err)
		}
		if value != 2 || recalled {
			t.Errorf("unexpected result: %d, %v (expected: 2, false)", value, recalled)
		}
		if n := calls.Load(); n != 1 {
			t.Errorf("expected 1 call, got %d", n)
		}
	})

	t.Run("recalls a value memoized by an earlier flight", func(t *testing.T) {
		key := argkey.MustEncode(2)
		m.remember(t.Context(), key, 40)

		value, recalled, err := m.loadShared(t.Context(), key, []any{2})
		if err != nil {
			t.Fatal(err)
		}
		if value != 40 || !recalled {
			t.Errorf("unexpected result: %d, %v (expected: 40, true)", value, recalled)
		}
		if n := calls.Load(); n != 1 {
			t.Errorf("expected no further call, got %d calls", n)
		}
	})
}
