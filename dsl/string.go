package dsl

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/engine"
	js "github.com/reoring/skema/jsonschema"
)

// StringSchema validates strings. Lengths are counted in runes.
type StringSchema struct {
	base[string]
	size bounds
}

// String returns a string schema.
func String() *StringSchema {
	return &StringSchema{base: base[string]{&engine.Node{Kind: engine.KindString}}}
}

func (s *StringSchema) with(n *engine.Node) *StringSchema {
	return &StringSchema{base: base[string]{n}, size: s.size}
}

func (s *StringSchema) check(c engine.Check) *StringSchema { return s.with(s.n.WithCheck(c)) }

// Min requires at least n characters.
func (s *StringSchema) Min(n int, msg ...string) *StringSchema {
	out := s.check(minSize("string", n, runes, msg, func(sc *js.Schema) { sc.MinLength = js.Int(n) }))
	out.size = s.size.withLo(float64(n))
	return out
}

// Max allows at most n characters.
func (s *StringSchema) Max(n int, msg ...string) *StringSchema {
	out := s.check(maxSize("string", n, runes, msg, func(sc *js.Schema) { sc.MaxLength = js.Int(n) }))
	out.size = s.size.withHi(float64(n))
	return out
}

// Length requires exactly n characters.
func (s *StringSchema) Length(n int, msg ...string) *StringSchema {
	out := s
	for _, c := range exactSize("string", n, runes, msg, func(sc *js.Schema) { sc.MinLength, sc.MaxLength = js.Int(n), js.Int(n) }) {
		out = out.check(c)
	}
	out.size = s.size.withLo(float64(n)).withHi(float64(n))
	return out
}

// NonEmpty is Min(1).
func (s *StringSchema) NonEmpty(msg ...string) *StringSchema { return s.Min(1, msg...) }

func (s *StringSchema) format(name string, test func(string) bool, msg []string, export func(*js.Schema)) *StringSchema {
	params := map[string]any{"format": name}
	return s.check(newCheck(skema.CodeInvalidFormat, params, msg, func(v any) bool { return test(v.(string)) }, export))
}

// Email requires a plain e-mail address (no display name) whose domain has at
// least one dot.
func (s *StringSchema) Email(msg ...string) *StringSchema {
	return s.format("email", isEmail, msg, func(sc *js.Schema) { sc.Format = "email" })
}

func isEmail(v string) bool {
	if strings.TrimSpace(v) == "" {
		return false
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || addr.Name != "" {
		return false
	}
	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" || !strings.Contains(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// UUID requires the canonical 8-4-4-4-12 hex form.
func (s *StringSchema) UUID(msg ...string) *StringSchema {
	return s.format("uuid", func(v string) bool {
		if len(v) != 36 {
			return false
		}
		_, err := uuid.Parse(v)
		return err == nil
	}, msg, func(sc *js.Schema) { sc.Format = "uuid" })
}

// URL requires an absolute URL with a scheme and a host.
func (s *StringSchema) URL(msg ...string) *StringSchema {
	return s.format("url", func(v string) bool {
		u, err := url.Parse(v)
		return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
	}, msg, func(sc *js.Schema) { sc.Format = "uri" })
}

// Regex requires a match of re. It panics when re does not compile.
func (s *StringSchema) Regex(re string, msg ...string) *StringSchema {
	rx, err := regexp.Compile(re)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "dsl: invalid regex %q", re))
	}
	return s.format("regex", rx.MatchString, msg, func(sc *js.Schema) { sc.Pattern = re })
}

func (s *StringSchema) affix(name, v string, test func(string, string) bool, pattern string, msg []string) *StringSchema {
	params := map[string]any{"format": name, "value": v}
	return s.check(newCheck(skema.CodeInvalidFormat, params, msg, func(x any) bool { return test(x.(string), v) }, func(sc *js.Schema) {
		if sc.Pattern == "" {
			sc.Pattern = pattern
		}
	}))
}

// StartsWith requires the prefix p.
func (s *StringSchema) StartsWith(p string, msg ...string) *StringSchema {
	return s.affix("starts_with", p, strings.HasPrefix, "^"+regexp.QuoteMeta(p), msg)
}

// EndsWith requires the suffix p.
func (s *StringSchema) EndsWith(p string, msg ...string) *StringSchema {
	return s.affix("ends_with", p, strings.HasSuffix, regexp.QuoteMeta(p)+"$", msg)
}

// Includes requires the substring p.
func (s *StringSchema) Includes(p string, msg ...string) *StringSchema {
	return s.affix("includes", p, strings.Contains, regexp.QuoteMeta(p), msg)
}

// Trim strips surrounding whitespace before the constraints run.
func (s *StringSchema) Trim() *StringSchema {
	return s.with(s.n.WithPrepare(func(v any) any { return strings.TrimSpace(v.(string)) }))
}

// ToUpper upper-cases the value before the constraints run.
func (s *StringSchema) ToUpper() *StringSchema {
	return s.with(s.n.WithPrepare(func(v any) any { return cases.Upper(language.Und).String(v.(string)) }))
}

// ToLower lower-cases the value before the constraints run.
func (s *StringSchema) ToLower() *StringSchema {
	return s.with(s.n.WithPrepare(func(v any) any { return cases.Lower(language.Und).String(v.(string)) }))
}

// Refine adds a predicate reported as a custom issue.
func (s *StringSchema) Refine(fn func(string) bool, msg ...string) *StringSchema {
	return s.Check(skema.CodeCustom, fn, msg...)
}

// Check adds a predicate reported with the given issue code.
func (s *StringSchema) Check(code string, fn func(string) bool, msg ...string) *StringSchema {
	if fn == nil {
		panic(errors.AssertionFailedf("dsl: nil check"))
	}
	return s.check(newCheck(code, map[string]any{}, msg, func(v any) bool { return fn(v.(string)) }, nil))
}

// Coerce converts primitives to their string form before validation.
func (s *StringSchema) Coerce() *StringSchema { return s.with(coercive(s.n)) }

// Optional accepts absent and nil input.
func (s *StringSchema) Optional() *StringSchema { return s.with(optional(s.n)) }

// Default substitutes v for absent or nil input. v is validated like any
// other input.
func (s *StringSchema) Default(v string) *StringSchema { return s.with(withDefault(s.n, v)) }
