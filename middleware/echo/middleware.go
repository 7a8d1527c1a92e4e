package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/middleware"
)

// ValidateJSON parses request JSON via schema s, stores the validated value in
// the request context on success, or returns 400 with the issues.
func ValidateJSON[T any](s skema.Schema[T], opt skema.ParseOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.Decode(c.Request(), s, opt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorBody(err))
			}
			ctx := middleware.ContextWithValue(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValue fetches the validated value from echo.Context.
func GetValue[T any](c echo.Context) (T, bool) {
	return middleware.ValueFromContext[T](c.Request().Context())
}
