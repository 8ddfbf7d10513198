package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventura/client-gateway/internal/api/metrics"
)

// InterestHandler exposes the interest synchronization engine.
type InterestHandler struct{}

func NewInterestHandler() *InterestHandler {
	return &InterestHandler{}
}

// List handles GET /interests.
//
// @Summary      List interested events
// @Tags         interests
// @Produce      json
// @Success      200  {object}  interestListResponse
// @Router       /interests [get]
func (h *InterestHandler) List(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}
	items := core.Interests.List()
	return c.JSON(http.StatusOK, interestListResponse{Items: items, Count: len(items)})
}

// Check handles GET /interests/:eventId — O(1) membership.
//
// @Summary      Check interest membership
// @Tags         interests
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      200      {object}  interestStateResponse
// @Router       /interests/{eventId} [get]
func (h *InterestHandler) Check(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}
	eventID := c.Param("eventId")
	return c.JSON(http.StatusOK, interestStateResponse{
		EventID:    eventID,
		Interested: core.Interests.IsInterested(eventID),
	})
}

// Add handles POST /interests — the optimistic bookmark.
//
// @Summary      Mark interest in an event
// @Tags         interests
// @Accept       json
// @Produce      json
// @Param        body  body      addInterestRequest  true  "Event card"
// @Success      200   {object}  interestStateResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /interests [post]
func (h *InterestHandler) Add(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	var req addInterestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	err = core.Interests.Add(c.Request().Context(), req.toDomain())
	metrics.InterestSyncDuration.WithLabelValues("add").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InterestMutationsTotal.WithLabelValues("add", "rolled_back").Inc()
		return err
	}
	metrics.InterestMutationsTotal.WithLabelValues("add", "applied").Inc()

	return c.JSON(http.StatusOK, interestStateResponse{EventID: req.ID, Interested: true})
}

// Remove handles DELETE /interests/:eventId.
//
// @Summary      Remove interest in an event
// @Tags         interests
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      200      {object}  interestStateResponse
// @Failure      409      {object}  errorResponse
// @Router       /interests/{eventId} [delete]
func (h *InterestHandler) Remove(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}
	eventID := c.Param("eventId")

	start := time.Now()
	err = core.Interests.Remove(c.Request().Context(), eventID)
	metrics.InterestSyncDuration.WithLabelValues("remove").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InterestMutationsTotal.WithLabelValues("remove", "rolled_back").Inc()
		return err
	}
	metrics.InterestMutationsTotal.WithLabelValues("remove", "applied").Inc()

	return c.JSON(http.StatusOK, interestStateResponse{EventID: eventID, Interested: false})
}

// Refresh handles POST /interests/refresh — force a full re-derivation.
//
// @Summary      Refresh the interest collection
// @Tags         interests
// @Produce      json
// @Success      200  {object}  interestListResponse
// @Router       /interests/refresh [post]
func (h *InterestHandler) Refresh(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	if err := core.Interests.Refresh(c.Request().Context(), true); err != nil {
		metrics.InterestRefreshTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.InterestRefreshTotal.WithLabelValues("ok").Inc()

	items := core.Interests.List()
	return c.JSON(http.StatusOK, interestListResponse{Items: items, Count: len(items)})
}
