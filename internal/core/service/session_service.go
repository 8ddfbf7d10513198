package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

var _ ports.SessionService = (*SessionService)(nil)

// SessionService holds the single active session for one device and moves
// it through unknown → anonymous → authenticated.
type SessionService struct {
	authAPI ports.AuthAPI
	store   ports.DeviceStore
	log     zerolog.Logger

	mu        sync.RWMutex
	state     domain.AuthState
	session   *domain.Session
	listeners []ports.AuthListener
}

func NewSessionService(authAPI ports.AuthAPI, store ports.DeviceStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		authAPI: authAPI,
		store:   store,
		log:     log,
		state:   domain.AuthUnknown,
	}
}

// Restore resolves the initial unknown state. A structurally valid durable
// user record wins; failing that, a stored access token is probed against
// the backend. Transport or validation failures during restore clear all
// durable auth state rather than risking a partial session.
func (s *SessionService) Restore(ctx context.Context) domain.AuthState {
	if user := s.storedUser(ctx); user != nil {
		tokens := s.storedTokens(ctx)
		s.become(domain.AuthAuthenticated, &domain.Session{User: *user, Tokens: tokens})
		return domain.AuthAuthenticated
	}

	token, ok, err := s.store.Get(ctx, ports.KeyAccessToken)
	if err != nil || !ok || token == "" {
		s.clearAuthStorage(ctx)
		s.become(domain.AuthAnonymous, nil)
		return domain.AuthAnonymous
	}

	// A token past its exp claim with no refresh token cannot succeed;
	// skip the probe and land anonymous directly.
	if tokenExpired(token) {
		if _, hasRefresh, _ := s.store.Get(ctx, ports.KeyRefreshToken); !hasRefresh {
			s.clearAuthStorage(ctx)
			s.become(domain.AuthAnonymous, nil)
			return domain.AuthAnonymous
		}
	}

	user, err := s.authAPI.Me(ctx)
	if err != nil || user == nil {
		if err != nil {
			s.log.Debug().Err(err).Msg("identity probe failed during restore")
		}
		s.clearAuthStorage(ctx)
		s.become(domain.AuthAnonymous, nil)
		return domain.AuthAnonymous
	}

	user.CurrentRole = domain.NormalizeFunctionalRole(user.CurrentRole)
	sess := &domain.Session{User: *user, Tokens: s.storedTokens(ctx)}
	if err := s.persistUser(ctx, user); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist restored user")
	}
	s.become(domain.AuthAuthenticated, sess)
	return domain.AuthAuthenticated
}

// Login authenticates with a normalized identifier and replaces the stored
// session atomically on success.
func (s *SessionService) Login(ctx context.Context, identifier, secret string) (*ports.SessionResult, error) {
	if s.State() == domain.AuthAuthenticated {
		return nil, domain.ErrSessionExists
	}

	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.authAPI.Login(ctx, identifier, secret)
	if err != nil {
		return nil, translateLoginError(err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	return s.installSession(ctx, result)
}

// Register creates an account and logs it in. Backend rejections (e.g. a
// duplicate identifier) surface with the backend's message intact. On
// success the caller is sent to the confirmation view, which displays
// the identifier the account was created with.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) (*ports.SessionResult, error) {
	if s.State() == domain.AuthAuthenticated {
		return nil, domain.ErrSessionExists
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	result, err := s.authAPI.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	res, err := s.installSession(ctx, result)
	if err != nil {
		return nil, err
	}
	res.Landing = domain.LandingConfirmation
	res.Identifier = in.Email
	return res, nil
}

// Logout clears durable storage unconditionally, even when the remote
// logout call fails.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.authAPI.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}

	s.clearAuthStorage(ctx)
	if err := s.store.Delete(ctx, ports.KeyInterests); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear interest cache")
	}
	s.become(domain.AuthAnonymous, nil)
	return nil
}

// SwitchRole swaps the functional role, replacing the token pair and the
// current-role field atomically. Eligibility is the caller's concern; a
// backend rejection surfaces as a role-switch error.
func (s *SessionService) SwitchRole(ctx context.Context, target domain.FunctionalRole) (*ports.SessionResult, error) {
	if s.State() != domain.AuthAuthenticated {
		return nil, domain.ErrUnauthorized
	}

	result, err := s.authAPI.SwitchRole(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoleSwitchRejected, domain.UserMessage(err))
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	return s.installSession(ctx, result)
}

func (s *SessionService) State() domain.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Tokens returns the active token pair, zero-valued when anonymous.
func (s *SessionService) Tokens() domain.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return domain.TokenPair{}
	}
	return s.session.Tokens
}

func (s *SessionService) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	user := s.session.User
	return &user
}

// HasRole answers from memory once restored; before that it falls back to
// the durable snapshot so startup never flashes an anonymous state.
func (s *SessionService) HasRole(ctx context.Context, role domain.SystemRole) bool {
	s.mu.RLock()
	state, sess := s.state, s.session
	s.mu.RUnlock()

	if state != domain.AuthUnknown {
		return sess != nil && sess.User.Role == role
	}
	if user := s.storedUser(ctx); user != nil {
		return user.Role == role
	}
	return false
}

func (s *SessionService) HasCurrentRole(ctx context.Context, role domain.FunctionalRole) bool {
	s.mu.RLock()
	state, sess := s.state, s.session
	s.mu.RUnlock()

	if state != domain.AuthUnknown {
		return sess != nil && sess.User.CurrentRole == domain.NormalizeFunctionalRole(role)
	}
	if user := s.storedUser(ctx); user != nil {
		return user.CurrentRole == domain.NormalizeFunctionalRole(role)
	}
	return false
}

func (s *SessionService) Subscribe(l ports.AuthListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// installSession persists and activates a validated auth result.
func (s *SessionService) installSession(ctx context.Context, result *ports.AuthResult) (*ports.SessionResult, error) {
	user := *result.User
	user.CurrentRole = domain.NormalizeFunctionalRole(user.CurrentRole)

	if err := s.store.Set(ctx, ports.KeyAccessToken, result.AccessToken); err != nil {
		return nil, fmt.Errorf("persist access token: %w", err)
	}
	if result.RefreshToken != "" {
		if err := s.store.Set(ctx, ports.KeyRefreshToken, result.RefreshToken); err != nil {
			return nil, fmt.Errorf("persist refresh token: %w", err)
		}
	}
	if err := s.persistUser(ctx, &user); err != nil {
		return nil, err
	}

	sess := &domain.Session{
		User: user,
		Tokens: domain.TokenPair{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
		},
	}
	s.become(domain.AuthAuthenticated, sess)

	s.log.Info().
		Str("user_id", user.ID).
		Str("current_role", string(user.CurrentRole)).
		Msg("session established")

	return &ports.SessionResult{User: user, Landing: domain.LandingFor(user.CurrentRole)}, nil
}

// become replaces the in-memory state and notifies listeners outside the
// lock. Listener work (e.g. an interest refresh) runs on its own goroutine
// so session operations are never blocked by it.
func (s *SessionService) become(state domain.AuthState, sess *domain.Session) {
	s.mu.Lock()
	s.state = state
	s.session = sess
	listeners := make([]ports.AuthListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	var user *domain.User
	if sess != nil {
		u := sess.User
		user = &u
	}
	for _, l := range listeners {
		go l(state, user)
	}
}

func (s *SessionService) persistUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(ctx, ports.KeyUser, string(data)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// storedUser returns the durable user snapshot, or nil when absent or
// structurally invalid. The current role is always normalized on the way
// out: an unrecognized stored role yields the attendee default.
func (s *SessionService) storedUser(ctx context.Context) *domain.User {
	raw, ok, err := s.store.Get(ctx, ports.KeyUser)
	if err != nil || !ok || raw == "" {
		return nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		return nil
	}
	user.CurrentRole = domain.NormalizeFunctionalRole(user.CurrentRole)
	return &user
}

func (s *SessionService) storedTokens(ctx context.Context) domain.TokenPair {
	access, _, _ := s.store.Get(ctx, ports.KeyAccessToken)
	refresh, _, _ := s.store.Get(ctx, ports.KeyRefreshToken)
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}
}

func (s *SessionService) clearAuthStorage(ctx context.Context) {
	if err := s.store.Delete(ctx, ports.KeyAccessToken, ports.KeyRefreshToken, ports.KeyUser); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear auth storage")
	}
}

// tokenExpired decodes the access token without verifying its signature
// (the gateway is a client; it holds no signing key) and reports whether
// the exp claim is in the past. Unparseable tokens count as expired.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// translateLoginError maps backend rejections of a login attempt onto the
// credentials sentinel; everything else passes through untouched.
func translateLoginError(err error) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
			return domain.ErrInvalidCredentials
		}
	}
	return err
}
