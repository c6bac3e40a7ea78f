package memoize

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// Entries is a read-only view of the memoized entries handed to a ForgetPolicy.
// It is only valid during the ForgetPolicy.Forget call it was passed to.
type Entries[V any] struct {
	m map[string]*Entry[V]

	rankOnce sync.Once
	byAge    []string
	ranks    map[string]int
}

// NewEntries creates a view over a copy of m.
// It is mainly useful for testing ForgetPolicy implementations.
func NewEntries[V any](m map[string]Entry[V]) *Entries[V] {
	copied := make(map[string]*Entry[V], len(m))
	for k, e := range m {
		copied[k] = &e
	}
	return newEntries(copied)
}

func newEntries[V any](m map[string]*Entry[V]) *Entries[V] {
	return &Entries[V]{m: m}
}

// Len returns the number of entries.
func (e *Entries[V]) Len() int {
	return len(e.m)
}

// Get returns the entry stored under key.
func (e *Entries[V]) Get(key string) (Entry[V], bool) {
	if v, ok := e.m[key]; ok {
		return *v, true
	}
	return Entry[V]{}, false
}

// Keys returns all keys in ascending order.
func (e *Entries[V]) Keys() []string {
	return slices.Sorted(maps.Keys(e.m))
}

// All returns an iterator over all keys and entries in unspecified order.
func (e *Entries[V]) All() iter.Seq2[string, Entry[V]] {
	return func(yield func(string, Entry[V]) bool) {
		for k, v := range e.m {
			if !yield(k, *v) {
				return
			}
		}
	}
}

// OldestFirst returns all keys ordered by ascending creation time.
// Keys created at the same instant are ordered by ascending key.
func (e *Entries[V]) OldestFirst() []string {
	e.rank()
	return slices.Clone(e.byAge)
}

// AgeRank returns the position of key in the OldestFirst order, or -1 if key is absent.
func (e *Entries[V]) AgeRank(key string) int {
	e.rank()
	if r, ok := e.ranks[key]; ok {
		return r
	}
	return -1
}

func (e *Entries[V]) rank() {
	e.rankOnce.Do(func() {
		keys := slices.Sorted(maps.Keys(e.m))
		slices.SortStableFunc(keys, func(a, b string) int {
			return e.m[a].Created.Compare(e.m[b].Created)
		})

		e.byAge = keys
		e.ranks = make(map[string]int, len(keys))
		for i, k := range keys {
			e.ranks[k] = i
		}
	})
}
