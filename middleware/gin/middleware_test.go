package ginmw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
	ginmw "github.com/reoring/skema/middleware/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := dsl.Object().
		Field("name", dsl.String().Trim().NonEmpty()).
		Field("tags", dsl.Array[string](dsl.String()).Max(2).Optional())
	r := gin.New()
	r.POST("/items", ginmw.ValidateJSON[map[string]any](s, skema.ParseOpt{}), func(c *gin.Context) {
		v, ok := ginmw.GetValue[map[string]any](c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, v["name"].(string))
	})
	return r
}

func TestValidateJSON(t *testing.T) {
	r := newRouter()
	send := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body)))
		return rec
	}

	rec := send(`{"name":"  widget  "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "widget", rec.Body.String())

	rec = send(`{"name":"x","tags":["a","b","c"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"path":"/tags"`)
}
