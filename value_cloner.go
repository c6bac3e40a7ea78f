package memoize

// ValueCloner is an interface for cloning values.
// Memoizer clones values when they are stored and when they are handed out from the cache,
// so that callers cannot mutate a memoized result through a shared reference.
// The CloneValue method should return a deep copy of the input value.
type ValueCloner[V any] interface {
	CloneValue(V) V
}

// ValueClonerFunc is a function type that implements the ValueCloner interface.
type ValueClonerFunc[V any] func(v V) V

// CloneValue calls the function.
func (f ValueClonerFunc[V]) CloneValue(v V) V {
	return f(v)
}

// NopValueCloner is a value cloner that does not clone values.
// It is fine for primitive types and for values that are used immutably.
type NopValueCloner[V any] struct{}

// CloneValue returns the input value.
func (NopValueCloner[V]) CloneValue(v V) V {
	return v
}

// DefaultValueCloner returns a cloner that uses the Clone or DeepCopy method of V if it has one.
// Otherwise it returns a NopValueCloner.
func DefaultValueCloner[V any]() ValueCloner[V] {
	type cloner interface {
		Clone() V
	}
	type deepCopier interface {
		DeepCopy() V
	}

	var zero V
	switch any(zero).(type) {
	case cloner:
		return ValueClonerFunc[V](func(v V) V {
			return any(v).(cloner).Clone()
		})
	case deepCopier:
		return ValueClonerFunc[V](func(v V) V {
			return any(v).(deepCopier).DeepCopy()
		})
	default:
		return NopValueCloner[V]{}
	}
}
