package dsl_test

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
	js "github.com/reoring/skema/jsonschema"
)

func TestTransform_RunsAfterValidation(t *testing.T) {
	ctx := context.Background()
	called := 0
	s := g.Transform(g.String().Min(3), func(s string) int {
		called++
		return len(s)
	})

	n, err := s.Parse(ctx, "abcd")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = s.Parse(ctx, "ab")
	assert.Error(t, err)
	assert.Equal(t, 1, called)

	v, err := s.Optional().Parse(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.Equal(t, 1, called)
}

func TestTransform_ChainedRefine(t *testing.T) {
	s := g.Transform(g.String(), strings.TrimSpace).Refine(func(s string) bool { return s != "" }, "Blank")
	_, err := s.Parse(context.Background(), "   ")
	assert.Equal(t, []string{"Blank"}, issuesOf(t, err).Messages())
}

func TestTransformWith_IssuePaths(t *testing.T) {
	split := g.TransformWith(g.String(), func(_ context.Context, s string) skema.Outcome[[]int] {
		var out []int
		var iss skema.Issues
		for i, part := range strings.Split(s, ",") {
			n, err := strconv.Atoi(part)
			if err != nil {
				iss = append(iss, skema.Issue{Path: skema.Path{skema.Index(i)}, Message: "Not a number", Cause: err})
				continue
			}
			out = append(out, n)
		}
		if len(iss) > 0 {
			return skema.Fail[[]int](iss...)
		}
		return skema.Ok(out)
	})
	s := g.Object().Field("ids", split)

	v, err := s.Parse(context.Background(), map[string]any{"ids": "1,2,3"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v["ids"])

	_, err = s.Parse(context.Background(), map[string]any{"ids": "1,x,3,y"})
	iss := issuesOf(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, "ids[1]", iss[0].Path.String())
	assert.Equal(t, "ids[3]", iss[1].Path.String())
	assert.Equal(t, skema.CodeCustom, iss[0].Code)
}

func TestRefine_Generic(t *testing.T) {
	even := g.Refine[int](g.Int(), func(i int) bool { return i%2 == 0 })
	_, err := even.Parse(context.Background(), 3)
	iss := issuesOf(t, err)
	assert.Equal(t, "Invalid input", iss[0].Message)

	v, err := even.Parse(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestPipe(t *testing.T) {
	ctx := context.Background()
	trimmed := g.Transform(g.String(), strings.TrimSpace)
	s := g.Pipe(trimmed, g.Coerce.Int().Min(1))

	v, err := s.Parse(ctx, " 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = s.Parse(ctx, " 0 ")
	assert.Equal(t, []string{skema.CodeTooSmall}, issuesOf(t, err).Codes())

	_, err = s.Parse(ctx, 42)
	assert.Equal(t, []string{skema.CodeInvalidType}, issuesOf(t, err).Codes())
}

func TestPreprocess(t *testing.T) {
	splitCSV := func(v any) any {
		if s, ok := v.(string); ok {
			return strings.Split(s, ",")
		}
		return v
	}
	s := g.Preprocess(splitCSV, g.Array[string](g.String().Min(1)))

	v, err := s.Parse(context.Background(), "a,b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)

	v, err = s.Parse(context.Background(), []any{"c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, v)

	_, err = s.Parse(context.Background(), "a,,b")
	assert.Equal(t, "[1]", issuesOf(t, err)[0].Path.String())
}

type category struct {
	Name     string     `json:"name"`
	Children []category `json:"children"`
}

func categorySchema() *g.LazySchema[map[string]any] {
	var node *g.LazySchema[map[string]any]
	node = g.Lazy(func() skema.Schema[map[string]any] {
		return g.Object().
			Field("name", g.String().NonEmpty()).
			Field("children", g.Array[map[string]any](node).Optional())
	})
	return node
}

func TestLazy_Recursive(t *testing.T) {
	ctx := context.Background()
	tree := map[string]any{
		"name": "root",
		"children": []any{
			map[string]any{"name": "a"},
			map[string]any{"name": "b", "children": []any{map[string]any{"name": ""}}},
		},
	}
	_, err := categorySchema().Parse(ctx, tree)
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "children[1].children[0].name", iss[0].Path.String())

	tree["children"].([]any)[1].(map[string]any)["children"] = []any{}
	v, err := categorySchema().Parse(ctx, tree)
	require.NoError(t, err)
	assert.Equal(t, "root", v["name"])

	typed, err := g.Bind[category](g.Object().Field("name", g.String()).Field("children", g.Array[map[string]any](categorySchema()))).
		Parse(ctx, tree)
	require.NoError(t, err)
	assert.Len(t, typed.Children, 2)
	assert.Equal(t, "b", typed.Children[1].Name)
}

func TestLazy_DepthGuard(t *testing.T) {
	var deep any = map[string]any{"name": "leaf"}
	for range 50 {
		deep = map[string]any{"name": "n", "children": []any{deep}}
	}
	ctx := skema.WithMaxDepth(context.Background(), 16)
	_, err := categorySchema().Parse(ctx, deep)
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, skema.CodeTooDeep, iss[0].Code)

	_, err = categorySchema().Parse(context.Background(), deep)
	assert.NoError(t, err)
}

func TestLazy_JSONSchema(t *testing.T) {
	sc, err := categorySchema().JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "object", sc.Type)
	assert.Equal(t, []string{"name"}, sc.Required)
	assert.Equal(t, "array", sc.Properties["children"].Type)
}

type profile struct {
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Tags  []string `json:"tags,omitempty"`
	Admin bool     `json:"admin"`
}

func TestBind(t *testing.T) {
	s := g.Bind[profile](g.Object().
		Field("name", g.String().Min(1)).
		Field("age", g.Int().Min(0)).
		Field("tags", g.Array[string](g.String()).Optional()).
		Field("admin", g.Bool().Default(false)))

	p, err := s.Parse(context.Background(), map[string]any{"name": "iqbal", "age": 30, "tags": []any{"go"}})
	require.NoError(t, err)
	assert.Equal(t, profile{Name: "iqbal", Age: 30, Tags: []string{"go"}}, p)

	_, err = s.Parse(context.Background(), map[string]any{"name": "", "age": -1})
	assert.Len(t, issuesOf(t, err), 2)
}

func TestBind_MismatchedShape(t *testing.T) {
	s := g.Bind[profile](g.Object().Field("age", g.String()))
	_, err := s.Parse(context.Background(), map[string]any{"age": "thirty"})
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, skema.CodeCustom, iss[0].Code)
	assert.Contains(t, iss[0].Message, "Cannot bind object")
	assert.Error(t, iss[0].Cause)
}

type upper struct{}

func (upper) Parse(_ context.Context, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", skema.Issues{{Code: skema.CodeInvalidType, Message: "want string"}}
	}
	if s != strings.ToUpper(s) {
		return "", skema.Issues{{Path: skema.Path{skema.Index(0)}, Code: skema.CodeCustom, Message: "lower case"}}
	}
	return s, nil
}

func (upper) SafeParse(ctx context.Context, v any) skema.ParseResult[string] {
	return skema.ResultOf(upper{}.Parse(ctx, v))
}

func (upper) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Pattern: "^[A-Z]*$"}, nil
}

func TestAdapt_ForeignSchema(t *testing.T) {
	s := g.Object().
		Field("code", g.Adapt[string](upper{})).
		Field("alt", g.Adapt[string](upper{}).Optional()).
		Field("list", g.Array[string](upper{}))

	v, err := s.Parse(context.Background(), map[string]any{"code": "AB", "list": []any{"X"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"code": "AB", "list": []string{"X"}}, v)

	_, err = s.Parse(context.Background(), map[string]any{"code": "ab", "list": []any{1}})
	iss := issuesOf(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, "code[0]", iss[0].Path.String())
	assert.Equal(t, "list[0]", iss[1].Path.String())

	sc, err := s.JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "^[A-Z]*$", sc.Properties["code"].Pattern)
	assert.Equal(t, []string{"code", "list"}, sc.Required)
}

func TestPipe_LogsFailureOnce(t *testing.T) {
	var buf bytes.Buffer
	ctx := skema.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s := g.Object().Field("name", g.Pipe(g.String(), g.String().Min(3)))

	_, err := s.Parse(ctx, map[string]any{"name": "ab"})
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "name", iss[0].Path.String())
	assert.Equal(t, 1, strings.Count(buf.String(), "validation failed"))
}

type chain struct{}

func (c *chain) Parse(ctx context.Context, v any) (map[string]any, error) {
	return g.Object().Field("next", g.Adapt[map[string]any](c).Optional()).Parse(ctx, v)
}

func (c *chain) SafeParse(ctx context.Context, v any) skema.ParseResult[map[string]any] {
	return skema.ResultOf(c.Parse(ctx, v))
}

func (c *chain) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "object"}, nil }

func TestAdapt_RecursionKeepsDepthBound(t *testing.T) {
	var deep any = map[string]any{}
	for range 40 {
		deep = map[string]any{"next": deep}
	}
	s := g.Adapt[map[string]any](&chain{})

	_, err := s.Parse(skema.WithMaxDepth(context.Background(), 16), deep)
	iss := issuesOf(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, skema.CodeTooDeep, iss[0].Code)

	_, err = s.Parse(context.Background(), deep)
	assert.NoError(t, err)
}

func TestLazy_OptionalInsideResolver(t *testing.T) {
	s := g.Object().
		Field("nick", g.Lazy(func() skema.Schema[string] { return g.String().Optional() })).
		Field("role", g.Lazy(func() skema.Schema[string] { return g.String().Default("member") }))

	v, err := s.Parse(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"role": "member"}, v)

	sc, err := s.JSONSchema()
	require.NoError(t, err)
	assert.Empty(t, sc.Required)
}
