// Package api wires the gateway's HTTP surface: per-device middleware,
// handlers over the client core services, and a central error mapper.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eventura/client-gateway/internal/api/handler"
	"github.com/eventura/client-gateway/internal/api/middleware"
	"github.com/eventura/client-gateway/internal/core/domain"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. rdb may be nil when the gateway runs with in-memory stores.
func NewRouter(cores middleware.CoreResolver, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("eventura_gateway"))

	// --- Probes and metrics (no device context) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(rdb, cores)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Device-scoped routes ---
	device := e.Group("", middleware.Device(cores))

	sessionHandler := handler.NewSessionHandler()
	device.GET("/session", sessionHandler.Me)
	device.POST("/session/login", sessionHandler.Login)
	device.POST("/session/register", sessionHandler.Register)
	device.POST("/session/logout", sessionHandler.Logout)
	device.POST("/session/switch-role", sessionHandler.SwitchRole, middleware.RequireSession())

	eventHandler := handler.NewEventHandler()
	device.GET("/events", eventHandler.List)
	device.GET("/events/:eventId", eventHandler.Get)
	device.GET("/volunteer/events", eventHandler.VolunteerList,
		middleware.RequireSession(), middleware.RequireCurrentRole(domain.RoleVolunteer))

	interestHandler := handler.NewInterestHandler()
	device.GET("/interests", interestHandler.List)
	device.GET("/interests/:eventId", interestHandler.Check)
	device.POST("/interests", interestHandler.Add)
	device.DELETE("/interests/:eventId", interestHandler.Remove)
	device.POST("/interests/refresh", interestHandler.Refresh)

	commentHandler := handler.NewCommentHandler()
	device.GET("/events/:eventId/comments", commentHandler.Page)
	device.POST("/events/:eventId/comments", commentHandler.Create, middleware.RequireSession())
	device.PATCH("/events/:eventId/comments/:id", commentHandler.Update, middleware.RequireSession())
	device.DELETE("/events/:eventId/comments/:id", commentHandler.Delete, middleware.RequireSession())

	attendanceHandler := handler.NewAttendanceHandler()
	device.GET("/events/:eventId/attendance", attendanceHandler.Check)
	device.POST("/events/:eventId/attendance", attendanceHandler.Join, middleware.RequireSession())
	device.DELETE("/events/:eventId/attendance", attendanceHandler.Cancel, middleware.RequireSession())

	return e
}
