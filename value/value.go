// Package value classifies host runtime values into a closed set of kinds and
// provides uniform accessors over them. Every dispatch decision made by the
// validation engine goes through KindOf or one of the As*/Items/Entries
// accessors; nothing relies on implicit host conversions.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// Kind is the runtime kind of a host value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindDate
	KindArray
	KindSet
	KindMap
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

var timeType = reflect.TypeOf(time.Time{})

// KindOf returns the kind of v. Go maps with string keys report Object, other
// Go maps report Map, and maps with struct{} values report Set.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindNull
	case json.Number: // must precede string: json.Number is a string type
		return KindNumber
	case string:
		return KindString
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return KindNumber
	case time.Time:
		return KindDate
	case []any:
		if t == nil {
			return KindNull
		}
		return KindArray
	case *Set:
		if t == nil {
			return KindNull
		}
		return KindSet
	case *Map:
		if t == nil {
			return KindNull
		}
		return KindMap
	case map[string]any:
		if t == nil {
			return KindNull
		}
		return KindObject
	}
	return kindOfReflect(reflect.ValueOf(v))
}

func kindOfReflect(rv reflect.Value) Kind {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return KindNull
		}
		return KindArray
	case reflect.Map:
		if rv.IsNil() {
			return KindNull
		}
		if isSetMap(rv.Type()) {
			return KindSet
		}
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
		return KindMap
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return KindDate
		}
	}
	return KindInvalid
}

func isSetMap(t reflect.Type) bool {
	e := t.Elem()
	return e.Kind() == reflect.Struct && e.NumField() == 0
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// AsString returns v as a string when its kind is String.
func AsString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return "", false
	}
	rv := reflect.ValueOf(deref(v))
	if rv.Kind() == reflect.String && rv.Type() != reflect.TypeOf(json.Number("")) {
		return rv.String(), true
	}
	return "", false
}

// AsFloat returns v as a float64 when its kind is Number. json.Number text that
// does not parse is rejected.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(deref(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		if n, ok := rv.Interface().(json.Number); ok {
			f, err := n.Float64()
			return f, err == nil
		}
	}
	return 0, false
}

// IsNaN reports whether v is a floating-point NaN.
func IsNaN(v any) bool {
	f, ok := AsFloat(v)
	return ok && math.IsNaN(f)
}

// AsBool returns v as a bool when its kind is Bool.
func AsBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := reflect.ValueOf(deref(v))
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

// AsTime returns v as a time.Time when its kind is Date.
func AsTime(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	rv := reflect.ValueOf(deref(v))
	if rv.IsValid() && rv.Kind() == reflect.Struct && rv.Type().ConvertibleTo(timeType) {
		return rv.Convert(timeType).Interface().(time.Time), true
	}
	return time.Time{}, false
}

// Items returns the elements of an Array value.
func Items(v any) ([]any, bool) {
	if a, ok := v.([]any); ok {
		return a, a != nil
	}
	rv := reflect.ValueOf(deref(v))
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// SetItems returns the elements of a Set value. Go set maps (map[T]struct{})
// are ordered by Ident of their keys.
func SetItems(v any) ([]any, bool) {
	if s, ok := v.(*Set); ok {
		if s == nil {
			return nil, false
		}
		return s.Items(), true
	}
	rv := reflect.ValueOf(deref(v))
	if rv.Kind() != reflect.Map || rv.IsNil() || !isSetMap(rv.Type()) {
		return nil, false
	}
	keys := sortedKeys(rv)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k.Interface()
	}
	return out, true
}

// Entries returns the entries of a Map value. Any Go map qualifies, except set
// maps; Go maps are ordered by Ident of their keys.
func Entries(v any) ([]Entry, bool) {
	if m, ok := v.(*Map); ok {
		if m == nil {
			return nil, false
		}
		return m.Entries(), true
	}
	rv := reflect.ValueOf(deref(v))
	if rv.Kind() != reflect.Map || rv.IsNil() || isSetMap(rv.Type()) {
		return nil, false
	}
	keys := sortedKeys(rv)
	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
	}
	return out, true
}

// Fields returns an Object value as map[string]any.
func Fields(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, m != nil
	}
	rv := reflect.ValueOf(deref(v))
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String || isSetMap(rv.Type()) {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// Len returns the element count of a normalized container ([]any, []Entry or
// map[string]any) and -1 for anything else.
func Len(v any) int {
	switch t := v.(type) {
	case []any:
		return len(t)
	case []Entry:
		return len(t)
	case map[string]any:
		return len(t)
	}
	return -1
}

// Ident renders a map key or set element as a path segment.
func Ident(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func sortedKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return Ident(keys[i].Interface()) < Ident(keys[j].Interface())
	})
	return keys
}

// Normalize rewrites decoder output so that every nested object is a
// map[string]any. Decoders such as YAML produce map[any]any for objects; those
// keys are rendered with Ident.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[Ident(k)] = Normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = Normalize(t[i])
		}
		return arr
	default:
		return v
	}
}
