package dsl

import (
	"time"

	"github.com/cockroachdb/errors"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/coerce"
	"github.com/reoring/skema/internal/engine"
	js "github.com/reoring/skema/jsonschema"
)

// BoolSchema validates booleans.
type BoolSchema struct{ base[bool] }

// Bool returns a boolean schema.
func Bool() *BoolSchema {
	return &BoolSchema{base[bool]{&engine.Node{Kind: engine.KindBool}}}
}

func (s *BoolSchema) with(n *engine.Node) *BoolSchema { return &BoolSchema{base[bool]{n}} }

// Refine adds a predicate reported as a custom issue.
func (s *BoolSchema) Refine(fn func(bool) bool, msg ...string) *BoolSchema {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil check"))
	}
	return s.with(s.n.WithCheck(newCheck(skema.CodeCustom, map[string]any{}, msg, func(v any) bool { return fn(v.(bool)) }, nil)))
}

// Coerce accepts the strings "true" and "false" (any case, trimmed).
func (s *BoolSchema) Coerce() *BoolSchema { return s.with(coercive(s.n)) }

// Optional accepts absent and nil input.
func (s *BoolSchema) Optional() *BoolSchema { return s.with(optional(s.n)) }

// Default substitutes v for absent or nil input.
func (s *BoolSchema) Default(v bool) *BoolSchema { return s.with(withDefault(s.n, v)) }

// DateSchema validates time.Time values.
type DateSchema struct {
	base[time.Time]
	lo, hi time.Time
}

// Date returns a date schema.
func Date() *DateSchema {
	return &DateSchema{base: base[time.Time]{&engine.Node{Kind: engine.KindDate}}}
}

func (s *DateSchema) with(n *engine.Node) *DateSchema {
	return &DateSchema{base: base[time.Time]{n}, lo: s.lo, hi: s.hi}
}

func dateBound(lower bool, t time.Time, msg []string) engine.Check {
	code, key := skema.CodeTooBig, "maximum"
	if lower {
		code, key = skema.CodeTooSmall, "minimum"
	}
	params := map[string]any{"origin": "date", key: t, "inclusive": true}
	return newCheck(code, params, msg, func(v any) bool {
		d := v.(time.Time)
		if lower {
			return !d.Before(t)
		}
		return !d.After(t)
	}, func(sc *js.Schema) {
		if lower {
			sc.Description = appendDesc(sc.Description, "not before "+coerce.FormatDate(t))
		} else {
			sc.Description = appendDesc(sc.Description, "not after "+coerce.FormatDate(t))
		}
	})
}

func appendDesc(cur, s string) string {
	if cur == "" {
		return s
	}
	return cur + "; " + s
}

// Min requires a date not before t.
func (s *DateSchema) Min(t time.Time, msg ...string) *DateSchema {
	if !s.hi.IsZero() && t.After(s.hi) {
		panic(errors.AssertionFailedf("dsl: minimum date %s is after maximum %s", t, s.hi))
	}
	out := s.with(s.n.WithCheck(dateBound(true, t, msg)))
	out.lo = t
	return out
}

// Max requires a date not after t.
func (s *DateSchema) Max(t time.Time, msg ...string) *DateSchema {
	if !s.lo.IsZero() && t.Before(s.lo) {
		panic(errors.AssertionFailedf("dsl: maximum date %s is before minimum %s", t, s.lo))
	}
	out := s.with(s.n.WithCheck(dateBound(false, t, msg)))
	out.hi = t
	return out
}

// Refine adds a predicate reported as a custom issue.
func (s *DateSchema) Refine(fn func(time.Time) bool, msg ...string) *DateSchema {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil check"))
	}
	return s.with(s.n.WithCheck(newCheck(skema.CodeCustom, map[string]any{}, msg, func(v any) bool { return fn(v.(time.Time)) }, nil)))
}

// Coerce parses ISO-8601 strings before validation.
func (s *DateSchema) Coerce() *DateSchema { return s.with(coercive(s.n)) }

// Optional accepts absent and nil input.
func (s *DateSchema) Optional() *DateSchema { return s.with(optional(s.n)) }

// Default substitutes t for absent or nil input.
func (s *DateSchema) Default(t time.Time) *DateSchema { return s.with(withDefault(s.n, t)) }
