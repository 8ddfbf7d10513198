package ports

import (
	"context"

	"github.com/eventura/client-gateway/internal/core/domain"
)

// AuthResult is the backend's auth-response shape. Login, register, refresh
// and role switch all return it; user and access token must both be present
// or the client rejects the response as malformed.
type AuthResult struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
}

// Validate enforces the shared response-shape check.
func (r *AuthResult) Validate() error {
	if r == nil || r.User == nil || r.AccessToken == "" {
		return domain.ErrMalformedResponse
	}
	return nil
}

// RegisterInput carries a new-account profile to the backend.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// AuthAPI is the authentication slice of the backend REST contract.
type AuthAPI interface {
	Login(ctx context.Context, identifier, secret string) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Logout(ctx context.Context) error
	SwitchRole(ctx context.Context, role domain.FunctionalRole) (*AuthResult, error)
	// Me returns the current profile, or nil without error when the backend
	// reports no active session.
	Me(ctx context.Context) (*domain.User, error)
}

// EventAPI is the read-only event catalogue.
type EventAPI interface {
	List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	Get(ctx context.Context, eventID string) (*domain.Event, error)
}

// InterestAPI mutates and lists the authenticated user's bookmarks.
type InterestAPI interface {
	// Check reports whether the event is currently marked interested.
	Check(ctx context.Context, eventID string) (bool, error)
	// Add marks interest and returns the resulting membership as the
	// backend reports it (false signals disagreement with intent).
	Add(ctx context.Context, eventID string) (bool, error)
	// Remove clears interest and returns the resulting membership.
	Remove(ctx context.Context, eventID string) (bool, error)
	// Mine lists the user's interested events.
	Mine(ctx context.Context) ([]domain.Event, error)
}

// AttendanceAPI covers joining, cancelling and probing attendance.
type AttendanceAPI interface {
	Check(ctx context.Context, eventID string) (*domain.Attendance, error)
	Join(ctx context.Context, userID, eventID string, status domain.AttendanceStatus) error
	Cancel(ctx context.Context, userID, eventID string) error
}

// CommentInput carries a review creation or patch.
type CommentInput struct {
	EventID string
	Comment string
	Rating  int
}

// CommentAPI covers event reviews. List is unpaginated: the backend has no
// native pagination, so callers slice client-side.
type CommentAPI interface {
	List(ctx context.Context, eventID string) ([]domain.CommentRating, error)
	Stats(ctx context.Context, eventID string) (*domain.RatingStats, error)
	Create(ctx context.Context, in CommentInput) (*domain.CommentRating, error)
	Update(ctx context.Context, id string, in CommentInput) (*domain.CommentRating, error)
	Delete(ctx context.Context, id string) error
}
