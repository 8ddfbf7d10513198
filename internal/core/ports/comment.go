package ports

import (
	"context"

	"github.com/eventura/client-gateway/internal/core/domain"
)

// CommentPage is the reconciled view of one page of an event's reviews.
type CommentPage struct {
	Items      []domain.CommentRating `json:"items"`
	Stats      domain.RatingStats     `json:"stats"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Total      int                    `json:"total"`
	TotalPages int                    `json:"totalPages"`
	// Eligible is true when the current user attended the event and the
	// event has ended, i.e. new reviews are accepted.
	Eligible bool `json:"eligible"`
}

// CommentFeed reconciles one event's review list against the backend:
// pagination, the attendance eligibility gate, and local list repair after
// create/update/delete.
type CommentFeed interface {
	// Load fetches the given 1-based page together with aggregate stats
	// and re-evaluates eligibility when the viewer identity changed.
	Load(ctx context.Context, page int) (*CommentPage, error)

	Create(ctx context.Context, in CommentInput) (*CommentPage, error)
	Update(ctx context.Context, commentID string, in CommentInput) (*CommentPage, error)
	Delete(ctx context.Context, commentID string) (*CommentPage, error)
}
