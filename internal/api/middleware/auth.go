package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/peopleops/hrms-api/internal/core/token"
)

// identityKey is the echo context key the verified identity is stored under.
const identityKey = "identity"

// Auth verifies the bearer token and injects the caller's identity into
// the request context. Expired, malformed and badly signed tokens all map
// to 401 with a category-specific message.
func Auth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			id, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, verifyMessage(err))
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

func verifyMessage(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "token expired"
	case errors.Is(err, token.ErrSignatureInvalid):
		return "token signature invalid"
	default:
		return "token malformed"
	}
}

// CallerIdentity extracts the identity injected by Auth. The zero Identity
// is returned when the middleware did not run.
func CallerIdentity(c echo.Context) token.Identity {
	id, _ := c.Get(identityKey).(token.Identity)
	return id
}
