package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/eventura/client-gateway/internal/api/metrics"
	"github.com/eventura/client-gateway/internal/clientcore"
)

// DeviceCookie is the cookie carrying the stable device identifier.
const DeviceCookie = "eventura_device"

const deviceCookieTTL = 365 * 24 * time.Hour

// CoreResolver hands out the client core for a device id.
type CoreResolver interface {
	Acquire(ctx context.Context, deviceID string) *clientcore.Core
	Size() int
}

// Device resolves the per-device client core and injects it into context.
// A request without a device cookie gets a fresh identifier minted and set
// on the response.
func Device(resolver CoreResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deviceID := ""
			if cookie, err := c.Cookie(DeviceCookie); err == nil && cookie.Value != "" {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					deviceID = cookie.Value
				}
			}
			if deviceID == "" {
				deviceID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     DeviceCookie,
					Value:    deviceID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(deviceCookieTTL),
				})
			}

			core := resolver.Acquire(c.Request().Context(), deviceID)
			c.Set("core", core)
			metrics.ActiveDeviceCores.Set(float64(resolver.Size()))

			return next(c)
		}
	}
}
