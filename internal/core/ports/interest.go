package ports

import (
	"context"

	"github.com/eventura/client-gateway/internal/core/domain"
)

// InterestService keeps the interested-events collection consistent across
// memory, the device store and (when authenticated) the backend.
// Mutations are optimistic: the local collection reflects the intended
// post-mutation state immediately and is rolled back when the remote call
// fails or disagrees with intent.
type InterestService interface {
	IsInterested(eventID string) bool
	List() []domain.InterestedEvent

	Add(ctx context.Context, event domain.InterestedEvent) error
	Remove(ctx context.Context, eventID string) error

	// Refresh re-derives the whole collection from the source of truth:
	// the device store for guests, the backend listing when authenticated.
	// Skipped unless force is set or the auth state changed since the last
	// fetch; overlapping refreshes are coalesced.
	Refresh(ctx context.Context, force bool) error
}
