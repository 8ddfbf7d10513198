package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventura/client-gateway/internal/clientcore"
	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
	"github.com/eventura/client-gateway/internal/infrastructure/rest"
	"github.com/eventura/client-gateway/internal/infrastructure/store"
)

// newGuestCore builds a started core with no backend: the base URL points
// at a closed port, so any accidental network call fails fast.
func newGuestCore(t *testing.T) *clientcore.Core {
	t.Helper()
	core := clientcore.NewCore("dev-test", store.NewMemoryStore(), rest.Config{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	core.Start(context.Background())
	return core
}

func newAuthedCore(t *testing.T, user domain.User) *clientcore.Core {
	t.Helper()
	kv := store.NewMemoryStore()
	raw, _ := json.Marshal(user)
	if err := kv.Set(context.Background(), ports.KeyUser, string(raw)); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	core := clientcore.NewCore("dev-test", kv, rest.Config{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	core.Start(context.Background())
	return core
}

func newTestContext(t *testing.T, core *clientcore.Core, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("core", core)
	return c, rec
}

func TestSessionHandler_Me_Anonymous(t *testing.T) {
	core := newGuestCore(t)
	c, rec := newTestContext(t, core, http.MethodGet, "/session", "")

	if err := NewSessionHandler().Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["state"] != string(domain.AuthAnonymous) {
		t.Fatalf("expected anonymous state, got %v", resp["state"])
	}
}

func TestSessionHandler_Me_RestoredUser(t *testing.T) {
	core := newAuthedCore(t, domain.User{ID: "u1", DisplayName: "Restored", Role: domain.SystemRoleUser, CurrentRole: domain.RoleVolunteer})
	c, rec := newTestContext(t, core, http.MethodGet, "/session", "")

	if err := NewSessionHandler().Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["state"] != string(domain.AuthAuthenticated) {
		t.Fatalf("expected authenticated, got %v", resp["state"])
	}
	if resp["landing"] != string(domain.LandingVolunteer) {
		t.Fatalf("expected volunteer landing, got %v", resp["landing"])
	}
}

func TestSessionHandler_Login_RejectsInvalidPayload(t *testing.T) {
	core := newGuestCore(t)
	c, _ := newTestContext(t, core, http.MethodPost, "/session/login", `{"email":"not-an-email","password":""}`)

	err := NewSessionHandler().Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestSessionHandler_SwitchRole_RejectsUnknownRole(t *testing.T) {
	core := newAuthedCore(t, domain.User{ID: "u1", CurrentRole: domain.RoleAttendee})
	c, _ := newTestContext(t, core, http.MethodPost, "/session/switch-role", `{"role":"ORGANIZER"}`)

	err := NewSessionHandler().SwitchRole(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an unknown role, got %v", err)
	}
}

func TestSessionHandler_MissingCoreIs500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewSessionHandler().Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without a device core, got %v", err)
	}
}
