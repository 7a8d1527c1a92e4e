package dsl

import (
	"math"

	"github.com/cockroachdb/errors"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/engine"
	js "github.com/reoring/skema/jsonschema"
	"github.com/reoring/skema/messages"
)

// sizer measures a checked value (runes, elements or entries).
type sizer func(v any) int

// count is the sizer of Set and Map size checks, which receive the element
// count directly.
func count(v any) int { return v.(int) }

func newCheck(code string, params map[string]any, msg []string, test func(any) bool, export func(*js.Schema)) engine.Check {
	return engine.Check{
		Code:    code,
		Message: pick(msg, messages.For(code, params)),
		Params:  params,
		Test:    test,
		Export:  export,
	}
}

func minSize(origin string, n int, size sizer, msg []string, export func(*js.Schema)) engine.Check {
	if n < 0 {
		panic(errors.AssertionFailedf("dsl: negative minimum %d", n))
	}
	params := map[string]any{"origin": origin, "minimum": n, "inclusive": true}
	return newCheck(skema.CodeTooSmall, params, msg, func(v any) bool { return size(v) >= n }, export)
}

func maxSize(origin string, n int, size sizer, msg []string, export func(*js.Schema)) engine.Check {
	if n < 0 {
		panic(errors.AssertionFailedf("dsl: negative maximum %d", n))
	}
	params := map[string]any{"origin": origin, "maximum": n, "inclusive": true}
	return newCheck(skema.CodeTooBig, params, msg, func(v any) bool { return size(v) <= n }, export)
}

// exactSize yields the pair of checks behind Length/Size: only one of them can
// fail for a given value.
func exactSize(origin string, n int, size sizer, msg []string, export func(*js.Schema)) []engine.Check {
	lo := map[string]any{"origin": origin, "minimum": n, "inclusive": true, "exact": true}
	hi := map[string]any{"origin": origin, "maximum": n, "inclusive": true, "exact": true}
	return []engine.Check{
		newCheck(skema.CodeTooSmall, lo, msg, func(v any) bool { return size(v) >= n }, export),
		newCheck(skema.CodeTooBig, hi, msg, func(v any) bool { return size(v) <= n }, nil),
	}
}

// bounds records the size or numeric bounds declared so far so that
// contradictory declarations fail at build time.
type bounds struct {
	lo, hi       float64
	hasLo, hasHi bool
}

func (b bounds) withLo(v float64) bounds {
	if b.hasHi && v > b.hi {
		panic(errors.AssertionFailedf("dsl: minimum %v exceeds maximum %v", v, b.hi))
	}
	b.lo, b.hasLo = v, true
	return b
}

func (b bounds) withHi(v float64) bounds {
	if b.hasLo && v < b.lo {
		panic(errors.AssertionFailedf("dsl: maximum %v is below minimum %v", v, b.lo))
	}
	b.hi, b.hasHi = v, true
	return b
}

func numberBound(origin string, lower, inclusive bool, limit float64, msg []string) engine.Check {
	code, key := skema.CodeTooBig, "maximum"
	if lower {
		code, key = skema.CodeTooSmall, "minimum"
	}
	params := map[string]any{"origin": origin, key: limit, "inclusive": inclusive}
	test := func(v any) bool {
		f := v.(float64)
		switch {
		case lower && inclusive:
			return f >= limit
		case lower:
			return f > limit
		case inclusive:
			return f <= limit
		default:
			return f < limit
		}
	}
	export := func(s *js.Schema) {
		switch {
		case lower && inclusive:
			s.Minimum = js.Float(limit)
		case lower:
			s.ExclusiveMinimum = js.Float(limit)
		case inclusive:
			s.Maximum = js.Float(limit)
		default:
			s.ExclusiveMaximum = js.Float(limit)
		}
	}
	return newCheck(code, params, msg, test, export)
}

func integerCheck(msg []string) engine.Check {
	return newCheck(skema.CodeNotInteger, map[string]any{}, msg, func(v any) bool {
		f := v.(float64)
		return !math.IsInf(f, 0) && math.Trunc(f) == f
	}, func(s *js.Schema) { s.Type = "integer" })
}

func finiteCheck(msg []string) engine.Check {
	return newCheck(skema.CodeNotFinite, map[string]any{}, msg, func(v any) bool {
		return !math.IsInf(v.(float64), 0)
	}, nil)
}

func multipleOfCheck(step float64, msg []string) engine.Check {
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		panic(errors.AssertionFailedf("dsl: MultipleOf step must be positive and finite, got %v", step))
	}
	params := map[string]any{"step": step}
	return newCheck(skema.CodeNotMultipleOf, params, msg, func(v any) bool {
		q := v.(float64) / step
		return math.Abs(q-math.Round(q)) < 1e-9
	}, func(s *js.Schema) { s.MultipleOf = js.Float(step) })
}

func runes(v any) int { return len([]rune(v.(string))) }
