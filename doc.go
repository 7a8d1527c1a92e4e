// Package skema validates untyped data against declarative schemas, in the
// style of zod.
//
//   - Schemas are immutable trees built with package dsl.
//   - Parse returns the typed value or Issues (an error); SafeParse reports
//     the same outcome as a ParseResult and never fails.
//   - Every Issue carries a Path, a stable Code, a human Message and
//     structured Params; all issues of a parse are collected unless
//     fail-fast is requested.
//   - Sources decode JSON, YAML (and, in subpackages, TOML and MessagePack)
//     into host values before validation.
//
// Design policy:
//   - The root package holds the public contracts (Schema, Issues, Path,
//     ParseOpt, Source); the engine lives under internal/.
//   - Builders live under dsl/, value classification under value/, input
//     conversion rules under coerce/, default messages under messages/.
//   - Cross-field object rules live under rules/; HTTP request validation
//     under middleware/ (net/http here, echo and gin as separate modules).
//   - Tests are black-box against public APIs.
//
// Typical usage:
//
//	user := dsl.Object().
//	    Field("name", dsl.String().Min(3)).
//	    Field("email", dsl.String().Email())
//
//	v, err := skema.ParseFrom(ctx, user, skema.JSONBytes(data))
//	if iss, ok := skema.AsIssues(err); ok {
//	    fmt.Println(iss.Flatten().Fields)
//	}
//
// Options travel on the context:
//
//	ctx = skema.WithParseOpt(ctx, skema.ParseOpt{FailFast: true, MaxDepth: 64, Logger: slog.Default()})
package skema
