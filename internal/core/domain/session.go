package domain

import "time"

// SystemRole is the backend-assigned permission level of a user account.
type SystemRole string

const (
	SystemRoleUser       SystemRole = "USER"
	SystemRoleAdmin      SystemRole = "ADMIN"
	SystemRoleSuperAdmin SystemRole = "SUPER_ADMIN"
)

// FunctionalRole is the role a user is currently acting under.
type FunctionalRole string

const (
	RoleAttendee  FunctionalRole = "ATTENDEE"
	RoleVolunteer FunctionalRole = "VOLUNTEER"
)

// NormalizeFunctionalRole maps an unrecognized or absent current role to
// the attendee default. A restored session never carries a role outside
// the known enumeration.
func NormalizeFunctionalRole(r FunctionalRole) FunctionalRole {
	switch r {
	case RoleAttendee, RoleVolunteer:
		return r
	default:
		return RoleAttendee
	}
}

// User is the profile of an authenticated account as the backend reports it.
type User struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"name"`
	Email       string         `json:"email,omitempty"`
	Role        SystemRole     `json:"role"`
	CurrentRole FunctionalRole `json:"currentRole"`
	CreatedAt   time.Time      `json:"createdAt,omitzero"`
}

// TokenPair holds the opaque bearer tokens issued by the backend.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Session is the currently authenticated principal. At most one Session is
// active per client core; role switches replace the token pair in place.
type Session struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// AuthState is the lifecycle state of the session store.
type AuthState string

const (
	// AuthUnknown is the initial state before any restoration attempt.
	AuthUnknown AuthState = "unknown"
	// AuthAnonymous means no valid session exists (guest mode).
	AuthAnonymous AuthState = "anonymous"
	// AuthAuthenticated means a session with a token pair is active.
	AuthAuthenticated AuthState = "authenticated"
)

// LandingTarget is where the UI should navigate after a session change.
type LandingTarget string

const (
	LandingHome      LandingTarget = "/"
	LandingVolunteer LandingTarget = "/volunteer"
	// LandingConfirmation is the post-registration view; it shows the
	// identifier the account was created with.
	LandingConfirmation LandingTarget = "/login-confirmation"
)

// LandingFor returns the navigation target for a functional role.
func LandingFor(role FunctionalRole) LandingTarget {
	if NormalizeFunctionalRole(role) == RoleVolunteer {
		return LandingVolunteer
	}
	return LandingHome
}
