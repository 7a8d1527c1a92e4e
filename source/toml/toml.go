// Package toml provides a skema.Source for TOML documents backed by
// pelletier/go-toml/v2.
package toml

import (
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml/v2"

	skema "github.com/reoring/skema"
)

// Bytes returns a Source that decodes the TOML document b. Local dates and
// local date-times are read as UTC time.Time values; local times become their
// text form.
func Bytes(b []byte) skema.Source {
	return skema.NewSource("toml", func() (any, error) {
		var v map[string]any
		if err := toml.Unmarshal(b, &v); err != nil {
			return nil, errors.Wrap(err, describe(err))
		}
		return normalize(v), nil
	})
}

// Reader returns a Source that decodes one TOML document read from r.
func Reader(r io.Reader) skema.Source {
	return skema.NewSource("toml", func() (any, error) {
		var v map[string]any
		if err := toml.NewDecoder(r).Decode(&v); err != nil {
			return nil, errors.Wrap(err, describe(err))
		}
		return normalize(v), nil
	})
}

// describe adds the position reported by go-toml decode errors.
func describe(err error) string {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return fmt.Sprintf("decode toml at line %d, column %d", row, col)
	}
	return "decode toml"
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalize(t[i])
		}
		return out
	case toml.LocalDate:
		return t.AsTime(time.UTC)
	case toml.LocalDateTime:
		return t.AsTime(time.UTC)
	case toml.LocalTime:
		return t.String()
	default:
		return v
	}
}
