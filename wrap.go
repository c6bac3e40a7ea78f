package memoize

import "context"

// Wrap0 memoizes a function without arguments.
func Wrap0[V any](fn func(context.Context) (V, error), policy ForgetPolicy[V], opts ...Option[V]) func(context.Context) (V, error) {
	m := New(func(ctx context.Context, _ ...any) (V, error) {
		return fn(ctx)
	}, policy, opts...)
	return func(ctx context.Context) (V, error) {
		return m.Call(ctx)
	}
}

// Wrap1 memoizes a function of one argument.
// The returned function has the same signature as fn.
func Wrap1[A, V any](fn func(context.Context, A) (V, error), policy ForgetPolicy[V], opts ...Option[V]) func(context.Context, A) (V, error) {
	m := New(func(ctx context.Context, args ...any) (V, error) {
		a, _ := args[0].(A)
		return fn(ctx, a)
	}, policy, opts...)
	return func(ctx context.Context, a A) (V, error) {
		return m.Call(ctx, a)
	}
}

// Wrap2 memoizes a function of two arguments.
// The returned function has the same signature as fn.
func Wrap2[A, B, V any](fn func(context.Context, A, B) (V, error), policy ForgetPolicy[V], opts ...Option[V]) func(context.Context, A, B) (V, error) {
	m := New(func(ctx context.Context, args ...any) (V, error) {
		a, _ := args[0].(A)
		b, _ := args[1].(B)
		return fn(ctx, a, b)
	}, policy, opts...)
	return func(ctx context.Context, a A, b B) (V, error) {
		return m.Call(ctx, a, b)
	}
}

// Wrap3 memoizes a function of three arguments.
// The returned function has the same signature as fn.
func Wrap3[A, B, C, V any](fn func(context.Context, A, B, C) (V, error), policy ForgetPolicy[V], opts ...Option[V]) func(context.Context, A, B, C) (V, error) {
	m := New(func(ctx context.Context, args ...any) (V, error) {
		a, _ := args[0].(A)
		b, _ := args[1].(B)
		c, _ := args[2].(C)
		return fn(ctx, a, b, c)
	}, policy, opts...)
	return func(ctx context.Context, a A, b B, c C) (V, error) {
		return m.Call(ctx, a, b, c)
	}
}
