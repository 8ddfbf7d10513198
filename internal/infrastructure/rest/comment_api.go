package rest

import (
	"context"
	"net/url"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

var _ ports.CommentAPI = (*CommentAPI)(nil)

// CommentAPI implements ports.CommentAPI against the comments-ratings
// endpoints. The backend does not paginate; List always returns everything.
type CommentAPI struct {
	client *Client
}

func NewCommentAPI(client *Client) *CommentAPI {
	return &CommentAPI{client: client}
}

func (a *CommentAPI) List(ctx context.Context, eventID string) ([]domain.CommentRating, error) {
	var comments []domain.CommentRating
	if err := a.client.Get(ctx, "/comments-ratings/event/"+url.PathEscape(eventID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (a *CommentAPI) Stats(ctx context.Context, eventID string) (*domain.RatingStats, error) {
	var stats domain.RatingStats
	if err := a.client.Get(ctx, "/comments-ratings/event/"+url.PathEscape(eventID)+"/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (a *CommentAPI) Create(ctx context.Context, in ports.CommentInput) (*domain.CommentRating, error) {
	body := map[string]any{
		"eventId": in.EventID,
		"comment": in.Comment,
		"rating":  in.Rating,
	}
	var created domain.CommentRating
	if err := a.client.Post(ctx, "/comments-ratings", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *CommentAPI) Update(ctx context.Context, id string, in ports.CommentInput) (*domain.CommentRating, error) {
	body := map[string]any{
		"comment": in.Comment,
		"rating":  in.Rating,
	}
	var updated domain.CommentRating
	if err := a.client.Patch(ctx, "/comments-ratings/"+url.PathEscape(id), body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *CommentAPI) Delete(ctx context.Context, id string) error {
	return a.client.Delete(ctx, "/comments-ratings/"+url.PathEscape(id), nil)
}
