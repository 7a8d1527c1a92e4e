package skema

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/skema/value"
)

// Source decodes serialized input into host values (map[string]any, []any,
// json.Number, string, bool, nil) that schemas validate.
type Source interface {
	// Decode returns the decoded document. Errors are transport errors, not
	// validation issues.
	Decode() (any, error)
	// Format names the wire format (e.g. "json", "yaml").
	Format() string
}

type funcSource struct {
	format string
	decode func() (any, error)
}

func (s funcSource) Decode() (any, error) { return s.decode() }
func (s funcSource) Format() string       { return s.format }

// NewSource adapts a decode function into a Source.
func NewSource(format string, decode func() (any, error)) Source {
	return funcSource{format: format, decode: decode}
}

// JSONDriver decodes JSON documents. The default implementation is backed by
// goccy/go-json and keeps numbers as json.Number; it may be swapped with
// SetJSONDriver.
type JSONDriver interface {
	Decode(r io.Reader) (any, error)
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = goJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json driver.
func UseDefaultJSONDriver() { SetJSONDriver(goJSONDriver{}) }

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	defer jsonDriverMu.RUnlock()
	return currentJSONDriver
}

type goJSONDriver struct{}

func (goJSONDriver) Name() string { return "go-json" }

func (goJSONDriver) Decode(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	// a second value (or garbage) after the document is an error
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, errors.Wrap(err, "decode json")
	}
	return v, nil
}

// JSONReader returns a Source that decodes one JSON document from r.
func JSONReader(r io.Reader) Source {
	return NewSource("json", func() (any, error) { return getJSONDriver().Decode(r) })
}

// JSONBytes returns a Source that decodes one JSON document from b.
func JSONBytes(b []byte) Source { return JSONReader(bytes.NewReader(b)) }

// YAMLBytes returns a Source that decodes one YAML document from b. Mapping
// keys that are not strings are rendered as strings.
func YAMLBytes(b []byte) Source {
	return NewSource("yaml", func() (any, error) {
		var v any
		if err := yaml.Unmarshal(b, &v); err != nil {
			return nil, errors.Wrap(err, "decode yaml")
		}
		return value.Normalize(v), nil
	})
}

// ParseFrom decodes src and validates the result with s. Decode failures are
// returned as plain errors; validation failures as Issues. When opts are
// given the last one is installed on ctx.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, errors.AssertionFailedf("skema: nil schema")
	}
	if src == nil {
		return zero, errors.AssertionFailedf("skema: nil source")
	}
	if len(opts) > 0 {
		ctx = WithParseOpt(ctx, opts[len(opts)-1])
	}
	v, err := src.Decode()
	if err != nil {
		return zero, errors.Wrapf(err, "skema: read %s input", src.Format())
	}
	return s.Parse(ctx, v)
}

// SafeParseFrom is ParseFrom reported as a ParseResult. A decode failure
// becomes a single custom issue carrying the error as Cause.
func SafeParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) ParseResult[T] {
	return ResultOf(ParseFrom(ctx, s, src, opts...))
}
