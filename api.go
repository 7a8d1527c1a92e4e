package skema

import (
	"context"

	js "github.com/reoring/skema/jsonschema"
)

// Schema is the contract every schema satisfies. Parse is the throwing
// contract: it returns the full Issues list as its error. SafeParse never fails
// for validation problems and reports them in the result instead.
type Schema[T any] interface {
	// Parse validates (and optionally coerces/transforms) v into T.
	Parse(ctx context.Context, v any) (T, error)
	// SafeParse is Parse with the outcome reported as a ParseResult.
	SafeParse(ctx context.Context, v any) ParseResult[T]
	// JSONSchema projects the schema into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// ParseResult is either a success carrying Data or a failure carrying Issues,
// never both.
type ParseResult[T any] struct {
	Success bool
	Data    T
	Issues  Issues
}

// Err returns the issues as an error, or nil on success.
func (r ParseResult[T]) Err() error {
	if r.Success {
		return nil
	}
	return r.Issues
}

// ResultOf folds a (value, error) pair from a throwing parse into a
// ParseResult. Errors that are not Issues become a single custom issue.
func ResultOf[T any](v T, err error) ParseResult[T] {
	if err != nil {
		var zero T
		return ParseResult[T]{Success: false, Data: zero, Issues: IssuesFromErr(err)}
	}
	return ParseResult[T]{Success: true, Data: v}
}

// ---- Convenience wrappers (Zod-like entry points) ----

// Parse is a thin wrapper around Schema.Parse.
func Parse[T any](ctx context.Context, s Schema[T], v any) (T, error) {
	return s.Parse(ctx, v)
}

// SafeParse is a thin wrapper around Schema.SafeParse.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) ParseResult[T] {
	return s.SafeParse(ctx, v)
}

// MustParse is like Parse but panics with the Issues on failure.
func MustParse[T any](ctx context.Context, s Schema[T], v any) T {
	out, err := s.Parse(ctx, v)
	if err != nil {
		panic(err)
	}
	return out
}

// Is returns true if v conforms to the schema s.
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	return s.SafeParse(ctx, v).Success
}

// Outcome is the result of a refining transform: either a value or a list of
// issues.
type Outcome[T any] struct {
	value  T
	issues Issues
}

// Ok wraps a successful refinement value.
func Ok[T any](v T) Outcome[T] { return Outcome[T]{value: v} }

// Fail reports refinement issues. Issues with an empty Code are reported as
// custom issues.
func Fail[T any](issues ...Issue) Outcome[T] {
	if len(issues) == 0 {
		issues = Issues{{Code: CodeCustom}}
	}
	return Outcome[T]{issues: issues}
}

// Failf is Fail with a single custom issue carrying msg.
func Failf[T any](msg string) Outcome[T] {
	return Fail[T](Issue{Code: CodeCustom, Message: msg})
}

// OK reports whether the outcome carries a value.
func (o Outcome[T]) OK() bool { return len(o.issues) == 0 }

// Value returns the refined value and any issues.
func (o Outcome[T]) Value() (T, Issues) { return o.value, o.issues }
