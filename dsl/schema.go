package dsl

import (
	"context"

	"github.com/cockroachdb/errors"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/engine"
	js "github.com/reoring/skema/jsonschema"
)

// Shape is implemented by every schema built by this package. It is what
// Object().Field accepts; foreign skema.Schema implementations are embedded
// with Adapt.
type Shape interface {
	shape() *engine.Node
}

// base carries the engine node and implements skema.Schema[T] on top of it.
type base[T any] struct {
	n *engine.Node
}

func (b base[T]) shape() *engine.Node { return b.n }

// Parse validates v and returns the typed output, or the Issues as an error.
func (b base[T]) Parse(ctx context.Context, v any) (T, error) {
	out, iss := engine.Run(ctx, b.n, v)
	if len(iss) > 0 {
		var zero T
		return zero, iss
	}
	return cast[T](out), nil
}

// SafeParse validates v and reports the outcome without an error.
func (b base[T]) SafeParse(ctx context.Context, v any) skema.ParseResult[T] {
	return skema.ResultOf(b.Parse(ctx, v))
}

// JSONSchema projects the schema into JSON Schema.
func (b base[T]) JSONSchema() (*js.Schema, error) { return engine.JSONSchema(b.n) }

// cast converts an engine output to T. nil (absent optional) yields the zero
// value.
func cast[T any](v any) T {
	t, _ := v.(T)
	return t
}

// nodeOf returns the engine node behind s, wrapping foreign schemas.
func nodeOf[T any](s skema.Schema[T]) *engine.Node {
	if s == nil {
		panic(errors.AssertionFailedf("dsl: nil schema"))
	}
	if sh, ok := s.(Shape); ok {
		return sh.shape()
	}
	return Adapt(s).n
}

// AdaptedSchema embeds a foreign skema.Schema in a dsl tree.
type AdaptedSchema[T any] struct{ base[T] }

// Adapt wraps any skema.Schema so it can be used as an Object field, array
// element or map value. Issues returned by s keep their paths and are nested
// under the position the adapted schema occupies.
func Adapt[T any](s skema.Schema[T]) *AdaptedSchema[T] {
	if s == nil {
		panic(errors.AssertionFailedf("dsl: Adapt of nil schema"))
	}
	n := &engine.Node{
		Kind: engine.KindForeign,
		Foreign: func(ctx context.Context, v any) (any, error) {
			out, err := s.Parse(ctx, v)
			if err != nil {
				return nil, err
			}
			return out, nil
		},
		ForeignSchema: s.JSONSchema,
	}
	return &AdaptedSchema[T]{base[T]{n}}
}

// Optional accepts absent and nil input.
func (a *AdaptedSchema[T]) Optional() *AdaptedSchema[T] {
	return &AdaptedSchema[T]{base[T]{optional(a.n)}}
}

func optional(n *engine.Node) *engine.Node {
	return n.With(func(c *engine.Node) { c.Optional = true })
}

func withDefault(n *engine.Node, v any) *engine.Node {
	return n.With(func(c *engine.Node) { c.HasDefault, c.Default = true, v })
}

func coercive(n *engine.Node) *engine.Node {
	return n.With(func(c *engine.Node) { c.Coerce = true })
}

// pick returns the caller's message override or def.
func pick(msg []string, def string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return def
}

// refineEffect turns a typed predicate into an effect reporting one custom
// issue.
func refineEffect[T any](fn func(T) bool, msg []string) engine.Effect {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil refinement"))
	}
	m := pick(msg, "Invalid input")
	return func(_ context.Context, v any) (any, skema.Issues) {
		if fn(cast[T](v)) {
			return v, nil
		}
		return nil, skema.Issues{{Code: skema.CodeCustom, Message: m}}
	}
}
