package skema

import (
	"context"
	"log/slog"
)

// UnknownPolicy controls how keys that an object schema does not declare are
// handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys from the output (default).
	UnknownStrict                           // Reject unknown keys with an unrecognized_keys issue.
	UnknownPassthrough                      // Copy unknown keys to the output without validation.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "strip"
	}
}

// DefaultMaxDepth bounds schema recursion when ParseOpt.MaxDepth is unset.
const DefaultMaxDepth = 512

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// FailFast stops at the first issue instead of collecting all of them.
	FailFast bool
	// MaxDepth bounds nested schema evaluation; 0 means DefaultMaxDepth.
	MaxDepth int
	// Logger receives a debug record for every failed parse. Nil discards.
	Logger *slog.Logger
}

type contextKey int

const (
	_ctxKeyParseOpt contextKey = iota
)

// WithParseOpt returns a child context carrying opt for every parse made with it.
func WithParseOpt(ctx context.Context, opt ParseOpt) context.Context {
	return context.WithValue(ctx, _ctxKeyParseOpt, opt)
}

// ParseOptFrom returns the options installed on ctx, or the zero ParseOpt.
func ParseOptFrom(ctx context.Context) ParseOpt {
	if ctx == nil {
		return ParseOpt{}
	}
	opt, _ := ctx.Value(_ctxKeyParseOpt).(ParseOpt)
	return opt
}

// WithFailFast returns a child context that marks fail-fast parsing behavior.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	opt := ParseOptFrom(ctx)
	opt.FailFast = enabled
	return WithParseOpt(ctx, opt)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool { return ParseOptFrom(ctx).FailFast }

// WithMaxDepth returns a child context with a nesting bound for parsing.
func WithMaxDepth(ctx context.Context, depth int) context.Context {
	opt := ParseOptFrom(ctx)
	opt.MaxDepth = depth
	return WithParseOpt(ctx, opt)
}

// MaxDepth returns the effective nesting bound for ctx.
func MaxDepth(ctx context.Context) int {
	if d := ParseOptFrom(ctx).MaxDepth; d > 0 {
		return d
	}
	return DefaultMaxDepth
}

// WithLogger returns a child context whose parses report failures to l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	opt := ParseOptFrom(ctx)
	opt.Logger = l
	return WithParseOpt(ctx, opt)
}

var discardLogger = slog.New(slog.DiscardHandler)

// LoggerFrom returns the logger installed on ctx, or one that discards.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if l := ParseOptFrom(ctx).Logger; l != nil {
		return l
	}
	return discardLogger
}

// LogFailure emits one debug record describing a failed parse.
func LogFailure(ctx context.Context, iss Issues) {
	if len(iss) == 0 {
		return
	}
	l := LoggerFrom(ctx)
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.DebugContext(ctx, "skema: validation failed",
		slog.Int("issues", len(iss)),
		slog.String("code", iss[0].Code),
		slog.String("path", iss[0].Path.Pointer()),
	)
}
