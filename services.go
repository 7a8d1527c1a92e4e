package skema

import (
	"context"
	"reflect"
)

// serviceKey scopes a context value to its type parameter.
type serviceKey[T any] struct{}

// WithService returns a child context carrying svc. Refinements and
// transforms that receive the parse context can look it up with Service,
// e.g. a repository used to check that an e-mail address is not yet taken.
func WithService[T any](ctx context.Context, svc T) context.Context {
	return context.WithValue(ctx, serviceKey[T]{}, svc)
}

// Service returns the value of type T installed with WithService.
func Service[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(serviceKey[T]{}).(T)
	return v, ok
}

// RequireService is Service reporting a missing value as a custom issue, so
// that a refinement can return it directly.
func RequireService[T any](ctx context.Context) (T, Issues) {
	if v, ok := Service[T](ctx); ok {
		return v, nil
	}
	var zero T
	name := reflect.TypeFor[T]().String()
	return zero, Issues{{
		Code:    CodeCustom,
		Message: "Service " + name + " not provided",
		Params:  map[string]any{"service": name},
	}}
}
