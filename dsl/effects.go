package dsl

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/engine"
	js "github.com/reoring/skema/jsonschema"
)

// TransformSchema is a schema whose output went through transforms or
// refinements. Transforms run only after the wrapped schema and its whole
// subtree validated.
type TransformSchema[U any] struct{ base[U] }

func effected[U any](n *engine.Node, e engine.Effect) *TransformSchema[U] {
	return &TransformSchema[U]{base[U]{n.WithEffect(e)}}
}

// Transform maps the validated output of s through fn.
func Transform[T, U any](s skema.Schema[T], fn func(T) U) *TransformSchema[U] {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil transform"))
	}
	return effected[U](nodeOf(s), func(_ context.Context, v any) (any, skema.Issues) {
		return fn(cast[T](v)), nil
	})
}

// TransformWith maps the validated output of s through fn, which may fail with
// issues instead of producing a value. Issue paths are relative to s.
func TransformWith[T, U any](s skema.Schema[T], fn func(ctx context.Context, v T) skema.Outcome[U]) *TransformSchema[U] {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil transform"))
	}
	return effected[U](nodeOf(s), func(ctx context.Context, v any) (any, skema.Issues) {
		out, iss := fn(ctx, cast[T](v)).Value()
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	})
}

// Refine adds a predicate over the validated output of s, reported as a
// custom issue.
func Refine[T any](s skema.Schema[T], fn func(T) bool, msg ...string) *TransformSchema[T] {
	return effected[T](nodeOf(s), refineEffect(fn, msg))
}

// Pipe feeds the validated output of a into b.
func Pipe[T, U any](a skema.Schema[T], b skema.Schema[U]) *TransformSchema[U] {
	if b == nil {
		panic(errors.AssertionFailedf("dsl: nil pipe target"))
	}
	return effected[U](nodeOf(a), func(ctx context.Context, v any) (any, skema.Issues) {
		out, err := b.Parse(ctx, v)
		if err != nil {
			return nil, skema.IssuesFromErr(err)
		}
		return out, nil
	})
}

// Preprocess rewrites the raw input with fn before s sees it.
func Preprocess[T any](fn func(any) any, s skema.Schema[T]) *TransformSchema[T] {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil preprocess"))
	}
	return &TransformSchema[T]{base[T]{nodeOf(s).WithPreprocess(fn)}}
}

// Refine adds a predicate over the transformed output.
func (t *TransformSchema[U]) Refine(fn func(U) bool, msg ...string) *TransformSchema[U] {
	return effected[U](t.n, refineEffect(fn, msg))
}

// Optional accepts absent and nil input; transforms are skipped for it.
func (t *TransformSchema[U]) Optional() *TransformSchema[U] {
	return &TransformSchema[U]{base[U]{optional(t.n)}}
}

// LazySchema defers building its schema until first use, which allows
// recursive definitions.
type LazySchema[T any] struct{ base[T] }

// Lazy returns a schema resolved by calling fn once, on first use. fn may
// refer to the schema being defined.
func Lazy[T any](fn func() skema.Schema[T]) *LazySchema[T] {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil lazy resolver"))
	}
	var (
		once sync.Once
		res  *engine.Node
	)
	n := &engine.Node{
		Kind: engine.KindLazy,
		Resolve: func() *engine.Node {
			once.Do(func() { res = nodeOf(fn()) })
			return res
		},
	}
	return &LazySchema[T]{base[T]{n}}
}

// Optional accepts absent and nil input.
func (l *LazySchema[T]) Optional() *LazySchema[T] { return &LazySchema[T]{base[T]{optional(l.n)}} }

// JSONSchema resolves one level: the resolved schema is exported, nested
// lazy references export as an unconstrained schema.
func (l *LazySchema[T]) JSONSchema() (*js.Schema, error) {
	return engine.JSONSchema(l.n.Resolve())
}
