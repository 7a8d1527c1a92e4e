package skema

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType      = "invalid_type"
	CodeRequired         = "required"
	CodeTooSmall         = "too_small"
	CodeTooBig           = "too_big"
	CodeInvalidFormat    = "invalid_format"
	CodeCustom           = "custom"
	CodeUnrecognizedKeys = "unrecognized_keys"
	CodeNotFinite        = "not_finite"
	CodeNotInteger       = "not_integer"
	CodeNotMultipleOf    = "not_multiple_of"
	CodeOverflow         = "overflow"
	CodeTooDeep          = "too_deep"
	CodeNotUnique        = "not_unique"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    Path   // Empty at the root; one segment per container level.
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured parameters (e.g., {"minimum":1, "origin":"string"})
	// so callers can render their own messages.
	Params map[string]any
	Cause  error // Optional: underlying error (coercion, foreign schema).
}

// Issues is an ordered collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. too_small at /password: String must contain at least 6 character(s)
		fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path.Pointer(), it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Messages returns the issue messages in order.
func (iss Issues) Messages() []string {
	out := make([]string, len(iss))
	for i := range iss {
		out[i] = iss[i].Message
	}
	return out
}

// Codes returns the issue codes in order.
func (iss Issues) Codes() []string {
	out := make([]string, len(iss))
	for i := range iss {
		out[i] = iss[i].Code
	}
	return out
}

// FieldErrors groups messages for form-style rendering. Issues at the root go
// to Form; the rest are keyed by their dotted path (e.g. "address.city").
type FieldErrors struct {
	Form   []string            `json:"formErrors"`
	Fields map[string][]string `json:"fieldErrors"`
}

// Flatten groups the issue messages by path.
func (iss Issues) Flatten() FieldErrors {
	fe := FieldErrors{Fields: map[string][]string{}}
	for _, it := range iss {
		if len(it.Path) == 0 {
			fe.Form = append(fe.Form, it.Message)
			continue
		}
		k := it.Path.String()
		fe.Fields[k] = append(fe.Fields[k], it.Message)
	}
	return fe
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// Merge prepends seg to the path of every child issue and appends the result
// to dst, preserving the relative order of child.
func Merge(dst, child Issues, seg PathSegment) Issues {
	if len(child) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(Issues, 0, len(child))
	}
	for _, it := range child {
		it.Path = it.Path.Prepend(seg)
		dst = append(dst, it)
	}
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesFromErr converts an error into Issues, wrapping anything that is not
// already Issues into a single custom issue at the root.
func IssuesFromErr(err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Code: CodeCustom, Message: err.Error(), Cause: err}}
}
