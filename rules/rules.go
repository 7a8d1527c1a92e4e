// Package rules composes cross-field rules for validated objects. A rule set
// is installed on an object schema with dsl.Object().Validate(rules.All(...)).
//
// Paths are JSON Pointers relative to the object ("/status", "/items/0/sku").
package rules

import (
	"context"
	"reflect"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/messages"
	"github.com/reoring/skema/value"
)

// Rule inspects a validated object and reports issues with paths relative to
// it.
type Rule func(ctx context.Context, obj map[string]any) skema.Issues

// Op is a comparison operator for If.
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional gates rules on the value found at a path.
type Conditional struct {
	path skema.Path
	op   Op
	want any
	all  []Conditional
	any  []Conditional
}

// If holds when the value at path compares to want with op. A missing value
// never satisfies the condition.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: skema.ParsePointer(path), op: op, want: want}
}

// IfAll holds when every condition holds.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny holds when at least one condition holds.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines c with others using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines c with others using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then runs rules only when c holds.
func (c Conditional) Then(rules ...Rule) Rule {
	inner := And(rules...)
	return func(ctx context.Context, obj map[string]any) skema.Issues {
		if !c.eval(obj) {
			return nil
		}
		return inner(ctx, obj)
	}
}

func (c Conditional) eval(obj map[string]any) bool {
	switch {
	case len(c.all) > 0:
		for _, it := range c.all {
			if !it.eval(obj) {
				return false
			}
		}
		return true
	case len(c.any) > 0:
		for _, it := range c.any {
			if it.eval(obj) {
				return true
			}
		}
		return false
	}
	cur, ok := lookup(obj, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Required reports a required issue when nothing is present at path.
func Required(path string) Rule {
	p := skema.ParsePointer(path)
	return func(_ context.Context, obj map[string]any) skema.Issues {
		if v, ok := lookup(obj, p); ok && v != nil {
			return nil
		}
		return skema.Issues{{Path: p, Code: skema.CodeRequired, Message: messages.For(skema.CodeRequired, nil)}}
	}
}

// AtLeastOne requires the collection at path to have an element. Values that
// are not collections are left to the schema.
func AtLeastOne(path string) Rule {
	p := skema.ParsePointer(path)
	return func(_ context.Context, obj map[string]any) skema.Issues {
		v, ok := lookup(obj, p)
		if !ok {
			return nil
		}
		if items, ok := collection(v); !ok || len(items) > 0 {
			return nil
		}
		params := map[string]any{"origin": "array", "minimum": 1, "inclusive": true}
		return skema.Issues{{Path: p, Code: skema.CodeTooSmall, Message: messages.For(skema.CodeTooSmall, params), Params: params}}
	}
}

// UniqueBy requires the elements of the collection at path to differ in the
// value found at key (a pointer relative to each element). Every repeat is
// reported at the repeated element's key.
func UniqueBy(path, key string) Rule {
	p, kp := skema.ParsePointer(path), skema.ParsePointer(key)
	return func(_ context.Context, obj map[string]any) skema.Issues {
		v, ok := lookup(obj, p)
		if !ok {
			return nil
		}
		items, ok := value.Items(v)
		if !ok {
			return nil
		}
		seen := map[string]int{}
		var out skema.Issues
		for i, it := range items {
			kv, ok := lookup(it, kp)
			if !ok {
				continue
			}
			id := value.Ident(kv)
			first, dup := seen[id]
			if !dup {
				seen[id] = i
				continue
			}
			params := map[string]any{"first": first, "duplicate": i, "key": id}
			path := append(p.Append(skema.Index(i)), kp...)
			out = append(out, skema.Issue{Path: path, Code: skema.CodeNotUnique, Message: messages.For(skema.CodeNotUnique, params), Params: params})
		}
		return out
	}
}

// And runs every rule and concatenates their issues. Under fail-fast it stops
// at the first failing rule.
func And(rules ...Rule) Rule {
	return func(ctx context.Context, obj map[string]any) skema.Issues {
		var out skema.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			if iss := r(ctx, obj); len(iss) > 0 {
				out = append(out, iss...)
				if skema.IsFailFast(ctx) {
					return out
				}
			}
		}
		return out
	}
}

// Or succeeds when any rule passes. When all fail, the branch with the fewest
// issues is reported.
func Or(rules ...Rule) Rule {
	return func(ctx context.Context, obj map[string]any) skema.Issues {
		var best skema.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r(ctx, obj)
			if len(iss) == 0 {
				return nil
			}
			if best == nil || len(iss) < len(best) {
				best = iss
			}
		}
		return best
	}
}

// All adapts rules to the signature accepted by ObjectSchema.Validate.
func All(rules ...Rule) func(ctx context.Context, obj map[string]any) error {
	r := And(rules...)
	return func(ctx context.Context, obj map[string]any) error {
		if iss := r(ctx, obj); len(iss) > 0 {
			return iss
		}
		return nil
	}
}

// lookup walks v along p through objects, maps and sequences.
func lookup(v any, p skema.Path) (any, bool) {
	cur := v
	for _, seg := range p {
		if items, ok := value.Items(cur); ok {
			i := seg.Pos()
			if !seg.IsIndex() || i >= len(items) {
				return nil, false
			}
			cur = items[i]
			continue
		}
		fields, ok := value.Fields(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = fields[seg.String()]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// collection returns the elements of a sequence or set.
func collection(v any) ([]any, bool) {
	if items, ok := value.Items(v); ok {
		return items, true
	}
	return value.SetItems(v)
}

func compare(cur any, op Op, want any) bool {
	a, aNum := value.AsFloat(cur)
	b, bNum := value.AsFloat(want)
	switch op {
	case Eq:
		if aNum && bNum {
			return a == b
		}
		return reflect.DeepEqual(cur, want)
	case Ne:
		if aNum && bNum {
			return a != b
		}
		return !reflect.DeepEqual(cur, want)
	}
	if !aNum || !bNum {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}
