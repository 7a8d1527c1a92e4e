package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/middleware"
)

// ValidateJSON parses the incoming JSON using schema s, stores the validated
// value in the request context, and on failure aborts with 400 and the issues.
func ValidateJSON[T any](s skema.Schema[T], opt skema.ParseOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := middleware.Decode(c.Request, s, opt)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorBody(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithValue(c.Request.Context(), v))
		c.Next()
	}
}

// GetValue fetches the validated value from gin.Context.
func GetValue[T any](c *gin.Context) (T, bool) {
	return middleware.ValueFromContext[T](c.Request.Context())
}
