package dsl

import (
	"context"

	"fortio.org/safecast"
	"github.com/cockroachdb/errors"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/engine"
	js "github.com/reoring/skema/jsonschema"
	"github.com/reoring/skema/messages"
)

// NumberSchema validates numbers as float64. NaN is rejected as invalid_type;
// infinities pass unless Finite is set.
type NumberSchema struct {
	base[float64]
	rng bounds
}

// Number returns a number schema.
func Number() *NumberSchema {
	return &NumberSchema{base: base[float64]{&engine.Node{Kind: engine.KindNumber}}}
}

func (s *NumberSchema) with(n *engine.Node) *NumberSchema {
	return &NumberSchema{base: base[float64]{n}, rng: s.rng}
}

func (s *NumberSchema) check(c engine.Check) *NumberSchema { return s.with(s.n.WithCheck(c)) }

// Min requires v >= x.
func (s *NumberSchema) Min(x float64, msg ...string) *NumberSchema {
	out := s.check(numberBound("number", true, true, x, msg))
	out.rng = s.rng.withLo(x)
	return out
}

// Max requires v <= x.
func (s *NumberSchema) Max(x float64, msg ...string) *NumberSchema {
	out := s.check(numberBound("number", false, true, x, msg))
	out.rng = s.rng.withHi(x)
	return out
}

// Gt requires v > x.
func (s *NumberSchema) Gt(x float64, msg ...string) *NumberSchema {
	out := s.check(numberBound("number", true, false, x, msg))
	out.rng = s.rng.withLo(x)
	return out
}

// Lt requires v < x.
func (s *NumberSchema) Lt(x float64, msg ...string) *NumberSchema {
	out := s.check(numberBound("number", false, false, x, msg))
	out.rng = s.rng.withHi(x)
	return out
}

// Positive is Gt(0).
func (s *NumberSchema) Positive(msg ...string) *NumberSchema { return s.Gt(0, msg...) }

// Negative is Lt(0).
func (s *NumberSchema) Negative(msg ...string) *NumberSchema { return s.Lt(0, msg...) }

// NonNegative is Min(0).
func (s *NumberSchema) NonNegative(msg ...string) *NumberSchema { return s.Min(0, msg...) }

// NonPositive is Max(0).
func (s *NumberSchema) NonPositive(msg ...string) *NumberSchema { return s.Max(0, msg...) }

// Int requires an integral value. The output type stays float64; use Int()
// for a schema producing Go ints.
func (s *NumberSchema) Int(msg ...string) *NumberSchema { return s.check(integerCheck(msg)) }

// Finite rejects ±Inf.
func (s *NumberSchema) Finite(msg ...string) *NumberSchema { return s.check(finiteCheck(msg)) }

// MultipleOf requires v to be an integral multiple of step.
func (s *NumberSchema) MultipleOf(step float64, msg ...string) *NumberSchema {
	return s.check(multipleOfCheck(step, msg))
}

// Refine adds a predicate reported as a custom issue.
func (s *NumberSchema) Refine(fn func(float64) bool, msg ...string) *NumberSchema {
	return s.Check(skema.CodeCustom, fn, msg...)
}

// Check adds a predicate reported with the given issue code.
func (s *NumberSchema) Check(code string, fn func(float64) bool, msg ...string) *NumberSchema {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil check"))
	}
	return s.check(newCheck(code, map[string]any{}, msg, func(v any) bool { return fn(v.(float64)) }, nil))
}

// Coerce parses numeric strings before validation.
func (s *NumberSchema) Coerce() *NumberSchema { return s.with(coercive(s.n)) }

// Optional accepts absent and nil input.
func (s *NumberSchema) Optional() *NumberSchema { return s.with(optional(s.n)) }

// Default substitutes v for absent or nil input.
func (s *NumberSchema) Default(v float64) *NumberSchema { return s.with(withDefault(s.n, v)) }

// IntSchema validates integral numbers and produces Go ints. Values that do
// not fit in int are reported as overflow.
type IntSchema struct {
	base[int]
	rng bounds
	// num is the underlying number node; the int conversion is appended on
	// every rebuild so it always runs before user refinements.
	num  *engine.Node
	post []engine.Effect
}

// Int returns an integer schema.
func Int() *IntSchema {
	num := (&engine.Node{Kind: engine.KindNumber}).
		WithCheck(integerCheck(nil))
	s := &IntSchema{num: num}
	s.n = s.build()
	return s
}

func (s *IntSchema) build() *engine.Node {
	n := s.num.WithEffect(toInt)
	for _, e := range s.post {
		n = n.WithEffect(e)
	}
	return n
}

func (s *IntSchema) with(fn func(c *IntSchema)) *IntSchema {
	c := *s
	fn(&c)
	c.n = c.build()
	return &c
}

func toInt(_ context.Context, v any) (any, skema.Issues) {
	f := v.(float64)
	i, err := safecast.Convert[int](f)
	if err != nil {
		params := map[string]any{"target": "int", "value": f}
		return nil, skema.Issues{{Code: skema.CodeOverflow, Message: messages.For(skema.CodeOverflow, params), Params: params, Cause: err}}
	}
	return i, nil
}

func (s *IntSchema) check(c engine.Check) *IntSchema {
	return s.with(func(cp *IntSchema) { cp.num = s.num.WithCheck(c) })
}

// Min requires v >= x.
func (s *IntSchema) Min(x int, msg ...string) *IntSchema {
	out := s.check(numberBound("number", true, true, float64(x), msg))
	out.rng = s.rng.withLo(float64(x))
	return out
}

// Max requires v <= x.
func (s *IntSchema) Max(x int, msg ...string) *IntSchema {
	out := s.check(numberBound("number", false, true, float64(x), msg))
	out.rng = s.rng.withHi(float64(x))
	return out
}

// Positive requires v > 0.
func (s *IntSchema) Positive(msg ...string) *IntSchema {
	out := s.check(numberBound("number", true, false, 0, msg))
	out.rng = s.rng.withLo(0)
	return out
}

// Negative requires v < 0.
func (s *IntSchema) Negative(msg ...string) *IntSchema {
	out := s.check(numberBound("number", false, false, 0, msg))
	out.rng = s.rng.withHi(0)
	return out
}

// MultipleOf requires v to be a multiple of step.
func (s *IntSchema) MultipleOf(step int, msg ...string) *IntSchema {
	return s.check(multipleOfCheck(float64(step), msg))
}

// Refine adds a predicate over the converted int, reported as a custom issue.
func (s *IntSchema) Refine(fn func(int) bool, msg ...string) *IntSchema {
	e := refineEffect(fn, msg)
	return s.with(func(cp *IntSchema) { cp.post = append(s.post[:len(s.post):len(s.post)], e) })
}

// Coerce parses numeric strings before validation.
func (s *IntSchema) Coerce() *IntSchema {
	return s.with(func(cp *IntSchema) { cp.num = coercive(s.num) })
}

// Optional accepts absent and nil input.
func (s *IntSchema) Optional() *IntSchema {
	return s.with(func(cp *IntSchema) { cp.num = optional(s.num) })
}

// Default substitutes v for absent or nil input.
func (s *IntSchema) Default(v int) *IntSchema {
	return s.with(func(cp *IntSchema) { cp.num = withDefault(s.num, float64(v)) })
}

// JSONSchema reports the integer type.
func (s *IntSchema) JSONSchema() (*js.Schema, error) {
	sc, err := engine.JSONSchema(s.n)
	if err != nil {
		return nil, err
	}
	if f, ok := sc.Default.(float64); ok {
		sc.Default = int(f)
	}
	return sc, nil
}
