package dsl_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
	"github.com/reoring/skema/value"
)

func account() *g.ObjectSchema {
	return g.Object().
		Field("id", g.String().UUID()).
		Field("email", g.String().Email()).
		Field("age", g.Int().Min(18)).
		Field("nickname", g.String().Optional())
}

func TestObject_UnknownKeys(t *testing.T) {
	ctx := context.Background()
	in := map[string]any{
		"id":    "123e4567-e89b-12d3-a456-426614174000",
		"email": "a@b.co",
		"age":   20,
		"zeta":  1,
		"beta":  "x",
	}

	v, err := account().Parse(ctx, in)
	require.NoError(t, err)
	assert.NotContains(t, v, "zeta")
	assert.Equal(t, 20, v["age"])

	v, err = account().Passthrough().Parse(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, v["zeta"])
	assert.Equal(t, "x", v["beta"])

	_, err = account().Strict().Parse(ctx, in)
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, skema.CodeUnrecognizedKeys, iss[0].Code)
	assert.Equal(t, []string{"beta", "zeta"}, iss[0].Params["keys"])
	assert.Equal(t, "Unrecognized key(s) in object: 'beta', 'zeta'", iss[0].Message)
	assert.Equal(t, "/", iss[0].Path.Pointer())

	v, err = account().Strict().Strip().Parse(ctx, in)
	require.NoError(t, err)
	assert.Len(t, v, 3)
}

func TestObject_StrictReportsFieldIssuesToo(t *testing.T) {
	_, err := account().Strict().Parse(context.Background(), map[string]any{"email": "nope", "x": 1})
	iss := issuesOf(t, err)
	assert.Equal(t,
		[]string{skema.CodeRequired, skema.CodeInvalidFormat, skema.CodeRequired, skema.CodeUnrecognizedKeys},
		iss.Codes())
}

func TestObject_Composition(t *testing.T) {
	base := account()

	assert.Equal(t, []string{"id", "email"}, base.Pick("email", "id").Keys())
	assert.Equal(t, []string{"id", "age", "nickname"}, base.Omit("email").Keys())
	assert.Equal(t, []string{"id", "email", "age", "nickname"}, base.Keys())

	replaced := base.Extend("age", g.String())
	assert.Equal(t, base.Keys(), replaced.Keys())
	v, err := replaced.Pick("age").Parse(context.Background(), map[string]any{"age": "old"})
	require.NoError(t, err)
	assert.Equal(t, "old", v["age"])

	added := base.Extend("role", g.String().Default("member"))
	assert.Equal(t, "role", added.Keys()[4])
}

func TestObject_PartialAndRequire(t *testing.T) {
	ctx := context.Background()
	patch := account().Partial()

	v, err := patch.Parse(ctx, map[string]any{"email": "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "a@b.co"}, v)

	_, err = patch.Parse(ctx, map[string]any{"email": "nope"})
	assert.Equal(t, []string{skema.CodeInvalidFormat}, issuesOf(t, err).Codes())

	_, err = patch.Require("email").Parse(ctx, map[string]any{})
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "/email", iss[0].Path.Pointer())

	_, err = patch.Require().Parse(ctx, map[string]any{})
	assert.Len(t, issuesOf(t, err), 4)

	assert.Panics(t, func() { patch.Require("missing") })
}

func TestObject_DefaultField(t *testing.T) {
	s := g.Object().
		Field("role", g.String().Default("member")).
		Field("limit", g.Int().Max(100).Default(10))

	v, err := s.Parse(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"role": "member", "limit": 10}, v)

	v, err = s.Parse(context.Background(), map[string]any{"role": nil, "limit": 50})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"role": "member", "limit": 50}, v)
}

func TestObject_OptionalExplicitNullKept(t *testing.T) {
	v, err := g.Object().Field("note", g.String().Optional()).Parse(context.Background(), map[string]any{"note": nil})
	require.NoError(t, err)
	n, ok := v["note"]
	assert.True(t, ok)
	assert.Nil(t, n)
}

func TestObject_AcceptsTypedMaps(t *testing.T) {
	s := g.Object().Field("a", g.Number())
	v, err := s.Parse(context.Background(), map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v["a"])

	_, err = s.Parse(context.Background(), []any{1})
	iss := issuesOf(t, err)
	assert.Equal(t, "Expected object, received array", iss[0].Message)
}

func signup() *g.ObjectSchema {
	return g.Object().
		Field("password", g.String().Min(8)).
		Field("confirm", g.String()).
		Validate(func(_ context.Context, o map[string]any) error {
			if o["password"] != o["confirm"] {
				return skema.Issues{{
					Path:    skema.Path{skema.Key("confirm")},
					Message: "Passwords do not match",
				}}
			}
			return nil
		})
}

func TestObject_ValidateCrossField(t *testing.T) {
	ctx := context.Background()
	_, err := signup().Parse(ctx, map[string]any{"password": "12345678", "confirm": "1234567x"})
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "/confirm", iss[0].Path.Pointer())
	assert.Equal(t, skema.CodeCustom, iss[0].Code)

	// Field failures short-circuit the rule.
	_, err = signup().Parse(ctx, map[string]any{"password": "short", "confirm": "other"})
	assert.Equal(t, []string{skema.CodeTooSmall}, issuesOf(t, err).Codes())

	nested := g.Object().Field("auth", signup())
	_, err = nested.Parse(ctx, map[string]any{"auth": map[string]any{"password": "12345678", "confirm": "x"}})
	assert.Equal(t, "auth.confirm", issuesOf(t, err)[0].Path.String())
}

func TestObject_ValidatePlainError(t *testing.T) {
	boom := errors.New("quota service unavailable")
	s := g.Object().Field("a", g.String()).Validate(func(context.Context, map[string]any) error { return boom })
	_, err := s.Parse(context.Background(), map[string]any{"a": "x"})
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, skema.CodeCustom, iss[0].Code)
	assert.True(t, errors.Is(iss[0].Cause, boom))
}

func TestObject_Refine(t *testing.T) {
	s := g.Object().
		Field("min", g.Number()).
		Field("max", g.Number()).
		Refine(func(o map[string]any) bool { return o["min"].(float64) <= o["max"].(float64) }, "min must not exceed max")
	_, err := s.Parse(context.Background(), map[string]any{"min": 5, "max": 1})
	iss := issuesOf(t, err)
	assert.Equal(t, "min must not exceed max", iss[0].Message)
	assert.Empty(t, iss[0].Path)
}

func TestObject_OptionalAndDefault(t *testing.T) {
	v, err := account().Optional().Parse(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	d, err := g.Object().Field("a", g.Number()).Default(map[string]any{"a": 1}).Parse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, d)
}

func TestObject_BuildErrors(t *testing.T) {
	assert.Panics(t, func() { g.Object().Field("", g.String()) })
	assert.Panics(t, func() { g.Object().Extend("a", nil) })
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	s := g.Record[int](g.Int().Min(0)).Max(2)
	v, err := s.Parse(ctx, map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, v)

	_, err = s.Parse(ctx, map[string]any{"a": -1, "b": 2, "c": 3})
	assert.Equal(t, []string{skema.CodeTooBig, skema.CodeTooSmall}, issuesOf(t, err).Codes())
}

func TestMap_KeyAndValueIssues(t *testing.T) {
	s := g.Map[float64, string](g.Number().Int(), g.String().Min(2))
	in := value.NewMap(
		value.Entry{Key: 1.5, Value: "x"},
		value.Entry{Key: 2, Value: "ok"},
	)
	_, err := s.Parse(context.Background(), in)
	iss := issuesOf(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, skema.CodeNotInteger, iss[0].Code)
	assert.Equal(t, "key", iss[0].Params["entry"])
	assert.Equal(t, skema.CodeTooSmall, iss[1].Code)
	assert.Equal(t, iss[0].Path, iss[1].Path)
	assert.Nil(t, iss[1].Params["entry"])

	v, err := s.Parse(context.Background(), map[int]string{1: "aa", 2: "bb"})
	require.NoError(t, err)
	assert.Equal(t, map[float64]string{1: "aa", 2: "bb"}, v)

	_, err = s.Size(1).Parse(context.Background(), map[int]string{1: "aa", 2: "bb"})
	assert.Equal(t, "Map must contain exactly 1 entry(ies)", issuesOf(t, err)[0].Message)
}

func TestArray_Constraints(t *testing.T) {
	ctx := context.Background()
	s := g.Array[float64](g.Number().Positive()).Length(2)

	_, err := s.Parse(ctx, []float64{1, -1, 3})
	iss := issuesOf(t, err)
	assert.Equal(t, []string{skema.CodeTooBig, skema.CodeTooSmall}, iss.Codes())
	assert.Equal(t, "[1]", iss[1].Path.String())

	sorted := g.Array[int](g.Int()).Refine(func(xs []int) bool {
		for i := 1; i < len(xs); i++ {
			if xs[i] < xs[i-1] {
				return false
			}
		}
		return true
	}, "Must be sorted")
	_, err = sorted.Parse(ctx, []int{2, 1})
	assert.Equal(t, []string{"Must be sorted"}, issuesOf(t, err).Messages())

	v, err := g.Array[string](g.String()).NonEmpty().Optional().Parse(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = g.Array[string](g.String()).Parse(ctx, "a,b")
	assert.Equal(t, skema.CodeInvalidType, issuesOf(t, err)[0].Code)
}

func TestArray_NestedPaths(t *testing.T) {
	s := g.Object().Field("users", g.Array[map[string]any](account().Pick("email")))
	_, err := s.Parse(context.Background(), map[string]any{
		"users": []any{map[string]any{"email": "a@b.co"}, map[string]any{"email": "x"}},
	})
	iss := issuesOf(t, err)
	assert.Equal(t, "users[1].email", iss[0].Path.String())
	assert.Equal(t, "/users/1/email", iss[0].Path.Pointer())
}

func TestSet_Constraints(t *testing.T) {
	ctx := context.Background()
	s := g.Set[float64](g.Number().Int()).Size(2)
	_, err := s.Parse(ctx, value.NewSet(1, 2, 3))
	assert.Equal(t, "Set must contain exactly 2 element(s)", issuesOf(t, err)[0].Message)

	_, err = s.Parse(ctx, []any{1, 2})
	assert.Equal(t, skema.CodeInvalidType, issuesOf(t, err)[0].Code)

	_, err = g.Set[float64](g.Number().Int()).Parse(ctx, value.NewSet(1, 1.5))
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "[1]", iss[0].Path.String())
}

func TestTypedNilInputsAreNull(t *testing.T) {
	ctx := context.Background()
	v, err := account().Optional().Parse(ctx, map[string]any(nil))
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = account().Parse(ctx, map[string]any(nil))
	assert.Equal(t, skema.CodeInvalidType, issuesOf(t, err)[0].Code)

	list := g.Array[string](g.String())
	_, errAny := list.Parse(ctx, []any(nil))
	_, errTyped := list.Parse(ctx, []string(nil))
	assert.Equal(t, issuesOf(t, errTyped).Messages(), issuesOf(t, errAny).Messages())

	items, err := list.Optional().Parse(ctx, []any(nil))
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestSet_SizeCountsCoercedElements(t *testing.T) {
	ctx := context.Background()
	s := g.Set[string](g.Coerce.String()).Max(1)

	v, err := s.Parse(ctx, value.NewSet(1, "1"))
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"1": {}}, v)

	_, err = s.Parse(ctx, value.NewSet(1, 2))
	assert.Equal(t, "Set must contain at most 1 element(s)", issuesOf(t, err)[0].Message)
}

func TestMap_SizeCountsCoercedKeys(t *testing.T) {
	s := g.Map[string, int](g.Coerce.String(), g.Int()).Size(1)
	v, err := s.Parse(context.Background(), value.NewMap(value.Entry{Key: 7, Value: 1}, value.Entry{Key: "7", Value: 1}))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"7": 1}, v)
}
