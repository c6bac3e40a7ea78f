// Package forget provides ForgetPolicy implementations for memoize.Memoizer.
//
// A policy is evaluated for every memoized entry before each lookup and decides
// whether the entry is evicted. Policies only inspect the entry and the read-only
// view of all entries; the Memoizer performs the removal.
//
// Policies can be combined with Any, All and Not:
//
//	policy := forget.Any[User](
//		forget.LiveMoreThan[User]{TTL: time.Minute},
//		forget.NumberExceeded[User]{Max: 1000},
//	)
package forget
