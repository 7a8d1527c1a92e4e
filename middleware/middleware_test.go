package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skema/dsl"
	"github.com/reoring/skema/middleware"
)

func userSchema() *dsl.ObjectSchema {
	return dsl.Object().
		Field("email", dsl.String().Email()).
		Field("password", dsl.String().Min(6))
}

func serve(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := middleware.ValidateJSON[map[string]any](userSchema(), middleware.DefaultParseOpt())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, ok := middleware.ValueFromContext[map[string]any](r.Context())
			require.True(t, ok)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(v["email"].(string)))
		}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
	return rec
}

func TestValidateJSON_PassesValue(t *testing.T) {
	rec := serve(t, `{"email":"iqbal@test.com","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "iqbal@test.com", rec.Body.String())
}

func TestValidateJSON_RejectsWithIssues(t *testing.T) {
	rec := serve(t, `{"email":"nope","password":"1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Issues []middleware.IssueView `json:"issues"`
		Errors struct {
			Fields map[string][]string `json:"fieldErrors"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Issues, 2)
	assert.Equal(t, "/email", body.Issues[0].Path)
	assert.Equal(t, "invalid_format", body.Issues[0].Code)
	assert.Equal(t, []string{"String must contain at least 6 character(s)"}, body.Errors.Fields["password"])
}

func TestValidateJSON_MalformedBody(t *testing.T) {
	rec := serve(t, `{"email":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "read json input")
}

func TestValueFromContext_Missing(t *testing.T) {
	_, ok := middleware.ValueFromContext[string](httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
