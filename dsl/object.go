package dsl

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/engine"
)

// ObjectSchema validates string-keyed objects field by field, in declaration
// order. Output is map[string]any holding the validated field values; absent
// optional fields are left out.
type ObjectSchema struct {
	base[map[string]any]
}

// Object returns an empty object schema that strips unknown keys.
func Object() *ObjectSchema {
	return &ObjectSchema{base[map[string]any]{&engine.Node{Kind: engine.KindObject}}}
}

func (o *ObjectSchema) with(n *engine.Node) *ObjectSchema {
	return &ObjectSchema{base[map[string]any]{n}}
}

// Field declares a property. A field is optional when its schema was marked
// Optional() or has a Default. Field panics on an empty name, a nil schema or a
// name that was already declared; use Extend to replace a field.
func (o *ObjectSchema) Field(name string, s Shape) *ObjectSchema {
	if name == "" {
		panic(errors.AssertionFailedf("dsl: empty field name"))
	}
	if s == nil {
		panic(errors.AssertionFailedf("dsl: nil schema for field %q", name))
	}
	if o.n.FieldIndex(name) >= 0 {
		panic(errors.AssertionFailedf("dsl: duplicate field %q", name))
	}
	return o.with(o.n.WithField(name, s.shape()))
}

// Extend declares a property, replacing an existing one of the same name in
// its original position.
func (o *ObjectSchema) Extend(name string, s Shape) *ObjectSchema {
	if name == "" || s == nil {
		panic(errors.AssertionFailedf("dsl: Extend requires a name and a schema"))
	}
	return o.with(o.n.WithField(name, s.shape()))
}

// Pick keeps only the named fields.
func (o *ObjectSchema) Pick(names ...string) *ObjectSchema {
	return o.filter(func(f engine.Field) bool { return slices.Contains(names, f.Name) })
}

// Omit drops the named fields.
func (o *ObjectSchema) Omit(names ...string) *ObjectSchema {
	return o.filter(func(f engine.Field) bool { return !slices.Contains(names, f.Name) })
}

func (o *ObjectSchema) filter(keep func(engine.Field) bool) *ObjectSchema {
	return o.with(o.n.With(func(c *engine.Node) {
		c.Fields = nil
		for _, f := range o.n.Fields {
			if keep(f) {
				c.Fields = append(c.Fields, f)
			}
		}
	}))
}

// Keys lists the declared field names in order.
func (o *ObjectSchema) Keys() []string {
	out := make([]string, len(o.n.Fields))
	for i, f := range o.n.Fields {
		out[i] = f.Name
	}
	return out
}

// Partial marks every declared field optional. Fields declared afterwards are
// not affected.
func (o *ObjectSchema) Partial() *ObjectSchema {
	return o.mapFields(nil, func(n *engine.Node) *engine.Node { return optional(n) })
}

// Require makes the named fields (every field when none are named) required
// again, dropping their Optional marker. Defaults are kept.
func (o *ObjectSchema) Require(names ...string) *ObjectSchema {
	for _, nm := range names {
		if o.n.FieldIndex(nm) < 0 {
			panic(errors.AssertionFailedf("dsl: Require of undeclared field %q", nm))
		}
	}
	return o.mapFields(names, func(n *engine.Node) *engine.Node {
		return n.With(func(c *engine.Node) { c.Optional = false })
	})
}

func (o *ObjectSchema) mapFields(names []string, fn func(*engine.Node) *engine.Node) *ObjectSchema {
	return o.with(o.n.With(func(c *engine.Node) {
		c.Fields = slices.Clone(o.n.Fields)
		for i, f := range c.Fields {
			if len(names) == 0 || slices.Contains(names, f.Name) {
				c.Fields[i].Node = fn(f.Node)
			}
		}
	}))
}

func (o *ObjectSchema) unknown(p skema.UnknownPolicy) *ObjectSchema {
	return o.with(o.n.With(func(c *engine.Node) { c.Unknown = p }))
}

// Strict rejects undeclared keys with one unrecognized_keys issue.
func (o *ObjectSchema) Strict() *ObjectSchema { return o.unknown(skema.UnknownStrict) }

// Strip drops undeclared keys from the output. This is the default.
func (o *ObjectSchema) Strip() *ObjectSchema { return o.unknown(skema.UnknownStrip) }

// Passthrough copies undeclared keys to the output unvalidated.
func (o *ObjectSchema) Passthrough() *ObjectSchema { return o.unknown(skema.UnknownPassthrough) }

// Refine adds a predicate over the validated object, reported as a custom
// issue at the object's path. It runs only when every field is valid.
func (o *ObjectSchema) Refine(fn func(map[string]any) bool, msg ...string) *ObjectSchema {
	return o.with(o.n.WithEffect(refineEffect(fn, msg)))
}

// Validate adds a cross-field rule. A non-nil error fails the object: Issues
// are kept as returned (their paths are relative to the object), any other
// error becomes one custom issue.
func (o *ObjectSchema) Validate(fn func(ctx context.Context, obj map[string]any) error) *ObjectSchema {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil rule"))
	}
	return o.with(o.n.WithEffect(func(ctx context.Context, v any) (any, skema.Issues) {
		obj := cast[map[string]any](v)
		if err := fn(ctx, obj); err != nil {
			return nil, skema.IssuesFromErr(err)
		}
		return obj, nil
	}))
}

// Optional accepts absent and nil input.
func (o *ObjectSchema) Optional() *ObjectSchema { return o.with(optional(o.n)) }

// Default substitutes v for absent or nil input. v is validated like any
// other input.
func (o *ObjectSchema) Default(v map[string]any) *ObjectSchema {
	return o.with(withDefault(o.n, v))
}
