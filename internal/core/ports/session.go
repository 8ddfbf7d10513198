package ports

import (
	"context"

	"github.com/eventura/client-gateway/internal/core/domain"
)

// SessionResult is returned by session-changing operations. Identifier
// is set only by Register, for the confirmation view.
type SessionResult struct {
	User       domain.User
	Landing    domain.LandingTarget
	Identifier string
}

// AuthListener is notified after every auth-state transition. newState is
// the state after the transition; user is nil when anonymous.
type AuthListener func(newState domain.AuthState, user *domain.User)

// SessionService is the auth session store: a small state machine moving
// between unknown, anonymous and authenticated.
type SessionService interface {
	// Restore resolves the initial unknown state from durable storage,
	// falling back to an identity probe against the backend.
	Restore(ctx context.Context) domain.AuthState

	Login(ctx context.Context, identifier, secret string) (*SessionResult, error)
	Register(ctx context.Context, in RegisterInput) (*SessionResult, error)
	Logout(ctx context.Context) error
	SwitchRole(ctx context.Context, target domain.FunctionalRole) (*SessionResult, error)

	// State and Current are in-memory queries; Current is nil unless
	// authenticated.
	State() domain.AuthState
	Current() *domain.User

	// HasRole and HasCurrentRole fall back to the durable snapshot while
	// the state is still unknown, so callers never observe a flash of
	// anonymous during startup.
	HasRole(ctx context.Context, role domain.SystemRole) bool
	HasCurrentRole(ctx context.Context, role domain.FunctionalRole) bool

	// Subscribe registers a listener for auth-state transitions.
	Subscribe(l AuthListener)
}
