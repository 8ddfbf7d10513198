package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventura/client-gateway/internal/clientcore"
	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
	"github.com/eventura/client-gateway/internal/infrastructure/rest"
	"github.com/eventura/client-gateway/internal/infrastructure/store"
)

func startedCore(t *testing.T, user *domain.User) *clientcore.Core {
	t.Helper()
	kv := store.NewMemoryStore()
	if user != nil {
		raw, _ := json.Marshal(user)
		if err := kv.Set(context.Background(), ports.KeyUser, string(raw)); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	core := clientcore.NewCore("dev-guard", kv, rest.Config{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	core.Start(context.Background())
	return core
}

func guardContext(core *clientcore.Core) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if core != nil {
		c.Set("core", core)
	}
	return c, rec
}

func TestRequireSession_AllowsAuthenticated(t *testing.T) {
	core := startedCore(t, &domain.User{ID: "u1", CurrentRole: domain.RoleAttendee})
	c, rec := guardContext(core)

	called := false
	handler := RequireSession()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireSession_RejectsAnonymous(t *testing.T) {
	core := startedCore(t, nil)
	c, _ := guardContext(core)

	handler := RequireSession()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireSession_RejectsMissingCore(t *testing.T) {
	c, _ := guardContext(nil)

	handler := RequireSession()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireCurrentRole_Allows(t *testing.T) {
	core := startedCore(t, &domain.User{ID: "u1", CurrentRole: domain.RoleVolunteer})
	c, rec := guardContext(core)

	handler := RequireCurrentRole(domain.RoleVolunteer)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireCurrentRole_Forbids(t *testing.T) {
	core := startedCore(t, &domain.User{ID: "u1", CurrentRole: domain.RoleAttendee})
	c, rec := guardContext(core)

	handler := RequireCurrentRole(domain.RoleVolunteer)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
