package forget

import "github.com/karupanerura/memoize"

// Any returns a policy that forgets an entry if any of the policies does.
// Any without policies never forgets.
func Any[V any](policies ...memoize.ForgetPolicy[V]) memoize.ForgetPolicy[V] {
	return memoize.ForgetFunc[V](func(key string, entry memoize.Entry[V], entries *memoize.Entries[V]) bool {
		for _, p := range policies {
			if p.Forget(key, entry, entries) {
				return true
			}
		}
		return false
	})
}

// All returns a policy that forgets an entry only if all of the policies do.
// All without policies never forgets.
func All[V any](policies ...memoize.ForgetPolicy[V]) memoize.ForgetPolicy[V] {
	return memoize.ForgetFunc[V](func(key string, entry memoize.Entry[V], entries *memoize.Entries[V]) bool {
		if len(policies) == 0 {
			return false
		}
		for _, p := range policies {
			if !p.Forget(key, entry, entries) {
				return false
			}
		}
		return true
	})
}

// Not returns a policy that forgets exactly the entries that policy keeps.
func Not[V any](policy memoize.ForgetPolicy[V]) memoize.ForgetPolicy[V] {
	return memoize.ForgetFunc[V](func(key string, entry memoize.Entry[V], entries *memoize.Entries[V]) bool {
		return !policy.Forget(key, entry, entries)
	})
}
