package forget

import (
	"math/rand/v2"
	"time"

	"github.com/karupanerura/memoize"
)

// Never is a policy that never forgets an entry.
type Never[V any] struct{}

var _ memoize.ForgetPolicy[struct{}] = Never[struct{}]{}

// Forget always returns false.
func (Never[V]) Forget(string, memoize.Entry[V], *memoize.Entries[V]) bool {
	return false
}

// LiveMoreThan is a policy that forgets entries older than TTL.
type LiveMoreThan[V any] struct {
	// TTL is the maximum age of an entry.
	// An entry is forgotten once its age exceeds TTL.
	TTL time.Duration

	// Clock provides the current time. It is read on every evaluation.
	// If nil, memoize.SystemClock is used.
	Clock memoize.Clock
}

var _ memoize.ForgetPolicy[struct{}] = LiveMoreThan[struct{}]{}

// Forget returns true if the entry was created more than TTL ago.
func (p LiveMoreThan[V]) Forget(_ string, entry memoize.Entry[V], _ *memoize.Entries[V]) bool {
	return now(p.Clock).Sub(entry.Created) > p.TTL
}

// EarlyLiveMoreThan is a LiveMoreThan policy that can forget an entry before its TTL.
// Entries created together are then recomputed at different times instead of all at once.
type EarlyLiveMoreThan[V any] struct {
	// TTL is the maximum age of an entry.
	TTL time.Duration

	// Duration is how much earlier the entry can be forgotten.
	Duration time.Duration

	// Percentage is the chance (between 0 and 1) that the entry is forgotten early.
	Percentage float64

	// Clock provides the current time. If nil, memoize.SystemClock is used.
	Clock memoize.Clock

	// Random is the random number generator to decide early forgetting.
	// If nil, the default system random generator is used.
	Random *rand.Rand
}

var _ memoize.ForgetPolicy[struct{}] = (*EarlyLiveMoreThan[struct{}])(nil)

// Forget returns true if the entry is older than TTL.
// With probability Percentage, the entry is treated as Duration older than it is.
func (p *EarlyLiveMoreThan[V]) Forget(_ string, entry memoize.Entry[V], _ *memoize.Entries[V]) bool {
	age := now(p.Clock).Sub(entry.Created)
	if p.randFloat64() > p.Percentage {
		return age > p.TTL
	}
	return age+p.Duration > p.TTL
}

func (p *EarlyLiveMoreThan[V]) randFloat64() float64 {
	if p.Random == nil {
		return rand.Float64()
	}
	return p.Random.Float64()
}

// KeyIs is a policy that forgets the entry with the given key.
// Keys are produced by argkey.Encode.
type KeyIs[V any] struct {
	Key string
}

var _ memoize.ForgetPolicy[struct{}] = KeyIs[struct{}]{}

// Forget returns true if key equals p.Key.
func (p KeyIs[V]) Forget(key string, _ memoize.Entry[V], _ *memoize.Entries[V]) bool {
	return key == p.Key
}

// NumberExceeded is a policy that bounds the number of entries.
// When there are more than Max entries, the oldest ones are forgotten so that, after the
// sweep, Max-1 entries remain and the entry about to be stored brings the count back to Max.
type NumberExceeded[V any] struct {
	// Max is the number of entries to keep.
	// If Max is zero or negative, every entry is forgotten.
	Max int
}

var _ memoize.ForgetPolicy[struct{}] = NumberExceeded[struct{}]{}

// Forget returns true if there are more than Max entries and the entry is among the
// oldest Len()-Max+1 of them. Entries created at the same time are ranked by key.
func (p NumberExceeded[V]) Forget(key string, _ memoize.Entry[V], entries *memoize.Entries[V]) bool {
	n := entries.Len()
	if n <= p.Max {
		return false
	}
	rank := entries.AgeRank(key)
	return rank >= 0 && rank < n-p.Max+1
}

func now(clock memoize.Clock) time.Time {
	if clock == nil {
		return memoize.SystemClock.Now()
	}
	return clock.Now()
}
