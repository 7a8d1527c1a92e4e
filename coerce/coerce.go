// Package coerce converts raw host values into the representation a schema
// node validates. Each function either returns the converted value or an error
// marked with ErrNotCoercible.
//
// Rules:
//   - String: strings pass through; booleans, numbers and json.Number are
//     formatted; time.Time is formatted as RFC3339Nano in UTC. nil and
//     containers fail.
//   - Bool: booleans pass through; the strings "true" and "false" are
//     accepted case-insensitively after trimming surrounding whitespace.
//     Nothing else is accepted ("1", "yes" and numbers fail).
//   - Number: every Go integer/float kind and json.Number pass through as
//     float64; strings are trimmed and parsed as decimal floats. Empty,
//     non-numeric and non-finite strings fail.
//   - Date: time.Time passes through; strings in the ISO-8601 forms
//     "2006-01-02" and "2006-01-02T15:04:05" (both read as UTC), RFC3339 and
//     RFC3339Nano are parsed. Everything else fails.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/reoring/skema/value"
)

// ErrNotCoercible marks every coercion failure.
var ErrNotCoercible = errors.New("value not coercible")

func fail(raw any, target string) error {
	return errors.Mark(errors.Newf("cannot coerce %s to %s", value.KindOf(raw), target), ErrNotCoercible)
}

// String stringifies a primitive.
func String(raw any) (string, error) {
	switch t := raw.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case time.Time:
		return FormatDate(t), nil
	}
	switch value.KindOf(raw) {
	case value.KindString:
		s, _ := value.AsString(raw)
		return s, nil
	case value.KindBool:
		b, _ := value.AsBool(raw)
		return strconv.FormatBool(b), nil
	case value.KindNumber:
		f, ok := value.AsFloat(raw)
		if !ok {
			return "", fail(raw, "string")
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case value.KindDate:
		t, _ := value.AsTime(raw)
		return FormatDate(t), nil
	}
	return "", fail(raw, "string")
}

// Bool accepts booleans and the literals "true"/"false".
func Bool(raw any) (bool, error) {
	if b, ok := value.AsBool(raw); ok {
		return b, nil
	}
	if s, ok := value.AsString(raw); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fail(raw, "boolean")
}

// Number accepts numbers and numeric-looking strings.
func Number(raw any) (float64, error) {
	if f, ok := value.AsFloat(raw); ok {
		if math.IsNaN(f) {
			return 0, fail(raw, "number")
		}
		return f, nil
	}
	if s, ok := value.AsString(raw); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, fail(raw, "number")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, errors.Mark(errors.Wrapf(errNumberSyntax(err), "cannot coerce %q to number", s), ErrNotCoercible)
		}
		return f, nil
	}
	return 0, fail(raw, "number")
}

func errNumberSyntax(err error) error {
	if err != nil {
		return err
	}
	return errors.New("non-finite number")
}

// dateLayouts are tried in order after RFC3339Nano/RFC3339.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// Date accepts time.Time values and ISO-8601 date strings.
func Date(raw any) (time.Time, error) {
	if t, ok := value.AsTime(raw); ok {
		return t, nil
	}
	s, ok := value.AsString(raw)
	if !ok {
		return time.Time{}, fail(raw, "date")
	}
	t, err := ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.Mark(errors.Wrapf(err, "cannot coerce %q to date", s), ErrNotCoercible)
	}
	return t, nil
}

// ParseDate parses the ISO-8601 forms accepted by Date.
func ParseDate(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
		return t2, nil
	}
	for _, layout := range dateLayouts {
		if t2, err2 := time.ParseInLocation(layout, s, time.UTC); err2 == nil {
			return t2, nil
		}
	}
	return time.Time{}, err
}

// FormatDate renders t in canonical RFC3339Nano form (UTC, trailing zeros
// trimmed).
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
