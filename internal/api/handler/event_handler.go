package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eventura/client-gateway/internal/core/domain"
)

// EventHandler is the browse passthrough over the backend catalogue.
type EventHandler struct{}

func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// List handles GET /events with optional status/category/volunteer filters.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        status               query     string  false  "Event status"
// @Param        categoryId           query     string  false  "Category id"
// @Param        acceptingVolunteers  query     bool    false  "Only events accepting volunteers"
// @Success      200                  {array}   domain.Event
// @Failure      503                  {object}  errorResponse
// @Router       /events [get]
func (h *EventHandler) List(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	filter := domain.EventFilter{
		Status:     c.QueryParam("status"),
		CategoryID: c.QueryParam("categoryId"),
	}
	if raw := c.QueryParam("acceptingVolunteers"); raw != "" {
		accepting, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "acceptingVolunteers must be a boolean")
		}
		filter.AcceptingVolunteers = &accepting
	}

	events, err := core.Events.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Get handles GET /events/:eventId.
//
// @Summary      Get one event
// @Tags         events
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      200      {object}  domain.Event
// @Failure      404      {object}  errorResponse
// @Router       /events/{eventId} [get]
func (h *EventHandler) Get(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	event, err := core.Events.Get(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// VolunteerList handles GET /volunteer/events — the volunteer landing
// area's feed of events still accepting volunteers.
//
// @Summary      List events accepting volunteers
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      403  {object}  errorResponse
// @Router       /volunteer/events [get]
func (h *EventHandler) VolunteerList(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	accepting := true
	events, err := core.Events.List(c.Request().Context(), domain.EventFilter{
		Status:              string(domain.EventUpcoming),
		AcceptingVolunteers: &accepting,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
