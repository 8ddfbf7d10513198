package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventura/client-gateway/internal/clientcore"
)

// ctxCore extracts the per-device client core injected by the Device
// middleware. Its absence means the route was registered outside the
// device group — fail fast rather than panicking on a nil core.
func ctxCore(c echo.Context) (*clientcore.Core, error) {
	core, ok := c.Get("core").(*clientcore.Core)
	if !ok || core == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "device context missing")
	}
	return core, nil
}
