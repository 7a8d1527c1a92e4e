// Package dsl provides the schema builders of skema.
//
// Overview
//   - Primitives: String(), Number(), Int(), Bool(), Date().
//   - Containers: Array(elem), Set(elem), Map(key, val), Record(val), Object().
//   - Effects: Transform, TransformWith, Refine, Pipe, Preprocess.
//   - Recursion: Lazy(fn).
//   - Foreign schemas: Adapt(s) embeds any skema.Schema[T] into a tree.
//   - Coercion: Coerce.String(), Coerce.Number(), ... or .Coerce() on a primitive.
//
// Every builder is immutable: each method returns a new schema and leaves the
// receiver untouched, so a schema can be shared between goroutines and reused
// as the base of several variants.
//
// Every constraint takes an optional trailing message that replaces the
// default one.
//
// Programmer errors (nil schemas, duplicate fields, minimum above maximum,
// regexes that do not compile) panic at build time with an assertion error
// from github.com/cockroachdb/errors.
//
// Example (quickstart)
//
//	package main
//
//	import (
//	    "context"
//
//	    "github.com/reoring/skema"
//	    g "github.com/reoring/skema/dsl"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    user := g.Object().
//	        Field("name",  g.String().Min(3)).
//	        Field("email", g.String().Email()).
//	        Field("age",   g.Coerce.Number().Min(18).Optional()).
//	        Strict()
//
//	    data := []byte(`{"name":"iqbal","email":"iqbal@example.com","age":"30"}`)
//	    v, err := skema.ParseFrom(ctx, user, skema.JSONBytes(data))
//	    _ = v   // map[string]any{"name":"iqbal","email":"iqbal@example.com","age":30.0}
//	    _ = err // skema.Issues when validation fails
//	}
//
// Example (cross-field validation)
//
//	signup := g.Object().
//	    Field("password", g.String().Min(8)).
//	    Field("confirm",  g.String()).
//	    Validate(func(ctx context.Context, m map[string]any) error {
//	        if m["password"] != m["confirm"] {
//	            return skema.Issues{{Path: skema.Path{skema.Key("confirm")}, Message: "Passwords do not match"}}
//	        }
//	        return nil
//	    })
//
// Example (transform with failure)
//
//	upper := g.TransformWith(g.String(), func(ctx context.Context, s string) skema.Outcome[string] {
//	    if s != strings.ToUpper(s) {
//	        return skema.Failf[string]("Must be uppercase")
//	    }
//	    return skema.Ok(s)
//	})
//
// JSON Schema
//
//	sch, _ := user.JSONSchema()
//	b, _ := jsonschema.Marshal(sch)
//	// Strict() objects export additionalProperties=false.
package dsl
