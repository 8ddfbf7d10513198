package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventura/client-gateway/internal/clientcore"
	"github.com/eventura/client-gateway/internal/core/domain"
)

// coreFrom extracts the client core injected by the Device middleware.
func coreFrom(c echo.Context) (*clientcore.Core, bool) {
	core, ok := c.Get("core").(*clientcore.Core)
	return core, ok
}

// RequireSession rejects requests from devices without an authenticated
// session.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			core, ok := coreFrom(c)
			if !ok || core.Session.State() != domain.AuthAuthenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireCurrentRole enforces that the session is acting under one of the
// given functional roles.
func RequireCurrentRole(allowedRoles ...domain.FunctionalRole) echo.MiddlewareFunc {
	allowed := make(map[domain.FunctionalRole]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			core, ok := coreFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			user := core.Session.Current()
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[user.CurrentRole]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
