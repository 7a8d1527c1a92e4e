// Package middleware validates JSON request bodies at HTTP boundaries. The
// net/http adapter lives here; framework adapters are separate modules under
// middleware/echo and middleware/gin.
package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	skema "github.com/reoring/skema"
)

// ctxKeyValue is a typed context key; the type parameter keeps keys for
// different T apart.
type ctxKeyValue[T any] struct{}

// ContextWithValue attaches a validated value to ctx.
func ContextWithValue[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyValue[T]{}, v)
}

// ValueFromContext retrieves the value stored by ContextWithValue.
func ValueFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyValue[T]{}).(T)
	return v, ok
}

// DefaultParseOpt is used when a caller passes the zero ParseOpt: request
// bodies are untrusted, so nesting is bounded tighter than the library
// default.
func DefaultParseOpt() skema.ParseOpt {
	return skema.ParseOpt{MaxDepth: 64}
}

// IssueView is the wire form of one issue.
type IssueView struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(iss skema.Issues) map[string]any {
	views := make([]IssueView, len(iss))
	for i, it := range iss {
		views[i] = IssueView{Path: it.Path.Pointer(), Code: it.Code, Message: it.Message, Params: it.Params}
	}
	return map[string]any{"issues": views, "errors": iss.Flatten()}
}

// Decode parses the request body with s. Issues come back as-is; any other
// failure (malformed JSON, read error) is returned as a plain error.
func Decode[T any](r *http.Request, s skema.Schema[T], opt skema.ParseOpt) (T, error) {
	if opt == (skema.ParseOpt{}) {
		opt = DefaultParseOpt()
	}
	return skema.ParseFrom(r.Context(), s, skema.JSONReader(r.Body), opt)
}

// ErrorBody renders err as the response body for a rejected request.
func ErrorBody(err error) map[string]any {
	if iss, ok := skema.AsIssues(err); ok {
		return ErrorPayload(iss)
	}
	return map[string]any{"error": err.Error()}
}

// ValidateJSON parses request JSON via s, stores the result in the request
// context on success, or responds 400 with the issues.
func ValidateJSON[T any](s skema.Schema[T], opt skema.ParseOpt) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := Decode(r, s, opt)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorBody(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
