package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eventura/client-gateway/internal/api/metrics"
	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

// CommentHandler exposes the per-event comment feed.
type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// Page handles GET /events/:eventId/comments?page=N.
//
// @Summary      Load a page of reviews
// @Tags         comments
// @Produce      json
// @Param        eventId  path      string  true   "Event id"
// @Param        page     query     int     false  "1-based page"
// @Success      200      {object}  ports.CommentPage
// @Failure      503      {object}  errorResponse
// @Router       /events/{eventId}/comments [get]
func (h *CommentHandler) Page(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		page = parsed
	}

	feed := core.Feed(c.Param("eventId"))
	result, err := feed.Load(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Create handles POST /events/:eventId/comments.
//
// @Summary      Post a review
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        eventId  path      string                true  "Event id"
// @Param        body     body      createCommentRequest  true  "Review"
// @Success      201      {object}  ports.CommentPage
// @Failure      403      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /events/{eventId}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	feed := core.Feed(c.Param("eventId"))
	result, err := feed.Create(c.Request().Context(), ports.CommentInput{
		Comment: req.Comment,
		Rating:  req.Rating,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotEligible) {
			metrics.EligibilityDeniedTotal.Inc()
		}
		metrics.CommentMutationsTotal.WithLabelValues("create", "error").Inc()
		return err
	}
	metrics.CommentMutationsTotal.WithLabelValues("create", "ok").Inc()

	return c.JSON(http.StatusCreated, result)
}

// Update handles PATCH /events/:eventId/comments/:id.
//
// @Summary      Edit a review
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        eventId  path      string                true  "Event id"
// @Param        id       path      string                true  "Comment id"
// @Param        body     body      updateCommentRequest  true  "Patch"
// @Success      200      {object}  ports.CommentPage
// @Failure      403      {object}  errorResponse
// @Router       /events/{eventId}/comments/{id} [patch]
func (h *CommentHandler) Update(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	var req updateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	feed := core.Feed(c.Param("eventId"))
	result, err := feed.Update(c.Request().Context(), c.Param("id"), ports.CommentInput{
		Comment: req.Comment,
		Rating:  req.Rating,
	})
	if err != nil {
		metrics.CommentMutationsTotal.WithLabelValues("update", "error").Inc()
		return err
	}
	metrics.CommentMutationsTotal.WithLabelValues("update", "ok").Inc()

	return c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /events/:eventId/comments/:id.
//
// @Summary      Delete a review
// @Tags         comments
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Param        id       path      string  true  "Comment id"
// @Success      200      {object}  ports.CommentPage
// @Failure      403      {object}  errorResponse
// @Router       /events/{eventId}/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	feed := core.Feed(c.Param("eventId"))
	result, err := feed.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		metrics.CommentMutationsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.CommentMutationsTotal.WithLabelValues("delete", "ok").Inc()

	return c.JSON(http.StatusOK, result)
}
