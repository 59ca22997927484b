package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin restricts a route to admin sessions. Note this gates on the
// session's admin flag, not the minister's stored role: a minister who signed
// in with an access code holds a non-admin session regardless of role.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsAdmin(c.Request().Context()) {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}
