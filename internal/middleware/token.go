package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/maps-leads/api/internal/auth"
)

func denied(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"status": "error", "message": message})
}

// Token validates bearer tokens and stores the consumer identity in the request context.
// A nil manager turns the middleware into a passthrough.
func Token(manager *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if manager == nil {
			return next
		}
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return denied(c, http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return denied(c, http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := manager.ParseToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return denied(c, http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextKeyTokenSubject, claims.Subject)
			c.Set(ContextKeyTokenScope, claims.Scope)

			return next(c)
		}
	}
}

// RequireScope enforces that the authenticated token grants scope.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			granted, ok := c.Get(ContextKeyTokenScope).(string)
			if !ok || granted == "" {
				return denied(c, http.StatusForbidden, "missing scope")
			}
			claims := auth.Claims{Scope: granted}
			if !claims.HasScope(scope) {
				return denied(c, http.StatusForbidden, "insufficient scope")
			}
			return next(c)
		}
	}
}
