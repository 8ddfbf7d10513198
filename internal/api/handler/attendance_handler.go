package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventura/client-gateway/internal/core/domain"
)

// AttendanceHandler covers joining, cancelling and probing attendance.
type AttendanceHandler struct{}

func NewAttendanceHandler() *AttendanceHandler {
	return &AttendanceHandler{}
}

// Check handles GET /events/:eventId/attendance.
//
// @Summary      Check attendance for the current user
// @Tags         attendance
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      200      {object}  domain.Attendance
// @Router       /events/{eventId}/attendance [get]
func (h *AttendanceHandler) Check(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	att, err := core.Attendance.Check(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, att)
}

// Join handles POST /events/:eventId/attendance.
//
// @Summary      Join an event
// @Tags         attendance
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      201      {object}  domain.Attendance
// @Failure      401      {object}  errorResponse
// @Router       /events/{eventId}/attendance [post]
func (h *AttendanceHandler) Join(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}
	user := core.Session.Current()
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	eventID := c.Param("eventId")
	if err := core.Attendance.Join(c.Request().Context(), user.ID, eventID, domain.AttendanceJoined); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, domain.Attendance{HasAttended: true, Status: domain.AttendanceJoined})
}

// Cancel handles DELETE /events/:eventId/attendance.
//
// @Summary      Cancel attendance
// @Tags         attendance
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      204      "cancelled"
// @Failure      401      {object}  errorResponse
// @Router       /events/{eventId}/attendance [delete]
func (h *AttendanceHandler) Cancel(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}
	user := core.Session.Current()
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	if err := core.Attendance.Cancel(c.Request().Context(), user.ID, c.Param("eventId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
