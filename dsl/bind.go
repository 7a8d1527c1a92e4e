package dsl

import (
	"context"

	"github.com/cockroachdb/errors"
	j "github.com/goccy/go-json"

	skema "github.com/reoring/skema"
)

// Bind projects the validated output of o onto T, matching fields through
// their json tags the way encoding/json does. A value that cannot be
// represented in T (e.g. a string field bound to an int) fails with one custom
// issue carrying the decode error as Cause.
func Bind[T any](o *ObjectSchema) *TransformSchema[T] {
	if o == nil {
		panic(errors.AssertionFailedf("dsl: Bind of nil object"))
	}
	return TransformWith(o, func(_ context.Context, m map[string]any) skema.Outcome[T] {
		var out T
		b, err := j.Marshal(m)
		if err == nil {
			err = j.Unmarshal(b, &out)
		}
		if err != nil {
			return skema.Fail[T](skema.Issue{
				Code:    skema.CodeCustom,
				Message: "Cannot bind object: " + err.Error(),
				Cause:   errors.Wrap(err, "bind"),
			})
		}
		return skema.Ok(out)
	})
}
