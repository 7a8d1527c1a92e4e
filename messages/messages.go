// Package messages renders the default English message for an issue code and
// its params. Schema builders call it once at build time; a caller-supplied
// message always takes precedence.
package messages

import (
	"fmt"
	"strings"
	"time"
)

// For returns the default message for code. params may carry:
//
//	origin    string|number|array|set|map|date (too_small/too_big)
//	minimum   / maximum  bound value
//	inclusive bool, exact bool
//	expected  / received kind names (invalid_type)
//	format    email|uuid|url|regex|starts_with|ends_with|includes|date
//	keys      []string (unrecognized_keys)
//	key       duplicated value (not_unique)
func For(code string, params map[string]any) string {
	switch code {
	case "invalid_type":
		exp, rec := params["expected"], params["received"]
		if exp == nil {
			return "Invalid input"
		}
		if rec == "null" || rec == nil {
			return "Required"
		}
		return fmt.Sprintf("Expected %v, received %v", exp, rec)
	case "required":
		return "Required"
	case "too_small":
		return bound(params, "minimum", true)
	case "too_big":
		return bound(params, "maximum", false)
	case "invalid_format":
		return format(params)
	case "unrecognized_keys":
		keys, _ := params["keys"].([]string)
		quoted := make([]string, len(keys))
		for i, k := range keys {
			quoted[i] = "'" + k + "'"
		}
		return "Unrecognized key(s) in object: " + strings.Join(quoted, ", ")
	case "not_finite":
		return "Number must be finite"
	case "not_integer":
		return "Expected integer, received float"
	case "not_multiple_of":
		return fmt.Sprintf("Number must be a multiple of %v", params["step"])
	case "overflow":
		return fmt.Sprintf("Number overflows %v", params["target"])
	case "too_deep":
		return fmt.Sprintf("Maximum nesting depth of %v exceeded", params["limit"])
	case "not_unique":
		return fmt.Sprintf("Duplicate value %q", params["key"])
	case "custom":
		return "Invalid input"
	}
	return code
}

func bound(params map[string]any, key string, lower bool) string {
	n := params[key]
	inclusive, _ := params["inclusive"].(bool)
	exact, _ := params["exact"].(bool)
	switch params["origin"] {
	case "string":
		return fmt.Sprintf("String must contain %s %v character(s)", sizeWord(lower, exact), n)
	case "array":
		return fmt.Sprintf("Array must contain %s %v element(s)", sizeWord(lower, exact), n)
	case "set":
		return fmt.Sprintf("Set must contain %s %v element(s)", sizeWord(lower, exact), n)
	case "map":
		return fmt.Sprintf("Map must contain %s %v entry(ies)", sizeWord(lower, exact), n)
	case "date":
		if t, ok := n.(time.Time); ok {
			n = t.UTC().Format(time.RFC3339)
		}
		return fmt.Sprintf("Date must be %s %v", cmpWord(lower, inclusive), n)
	default:
		return fmt.Sprintf("Number must be %s %v", cmpWord(lower, inclusive), n)
	}
}

func sizeWord(lower, exact bool) string {
	switch {
	case exact:
		return "exactly"
	case lower:
		return "at least"
	default:
		return "at most"
	}
}

func cmpWord(lower, inclusive bool) string {
	switch {
	case lower && inclusive:
		return "greater than or equal to"
	case lower:
		return "greater than"
	case inclusive:
		return "less than or equal to"
	default:
		return "less than"
	}
}

func format(params map[string]any) string {
	switch f := params["format"]; f {
	case "starts_with":
		return fmt.Sprintf("Invalid input: must start with %q", params["value"])
	case "ends_with":
		return fmt.Sprintf("Invalid input: must end with %q", params["value"])
	case "includes":
		return fmt.Sprintf("Invalid input: must include %q", params["value"])
	case "regex", nil:
		return "Invalid"
	default:
		return fmt.Sprintf("Invalid %v", f)
	}
}
