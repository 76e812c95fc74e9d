package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peopleops/hrms-api/internal/api/metrics"
	"github.com/peopleops/hrms-api/internal/core/authz"
)

// SameUserOrPrivileged enforces the ownership rule on /api/users/:id
// routes: ADMIN and HR pass unconditionally, everyone else only when the
// path's id segment equals their token subject. The decision itself lives
// in the authz package; this wrapper only translates it to HTTP.
func SameUserOrPrivileged() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := CallerIdentity(c)

			if !authz.Decide(id, c.Request().URL.Path) {
				metrics.AuthzDecisionsTotal.WithLabelValues("deny").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
			}

			metrics.AuthzDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}
