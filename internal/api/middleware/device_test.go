package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/eventura/client-gateway/internal/clientcore"
)

type stubResolver struct {
	lastDeviceID string
	acquired     int
}

func (r *stubResolver) Acquire(_ context.Context, deviceID string) *clientcore.Core {
	r.lastDeviceID = deviceID
	r.acquired++
	return &clientcore.Core{DeviceID: deviceID}
}

func (r *stubResolver) Size() int { return r.acquired }

func runDevice(t *testing.T, resolver CoreResolver, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Device(resolver)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return c, rec
}

func TestDevice_MintsCookieWhenAbsent(t *testing.T) {
	resolver := &stubResolver{}
	c, rec := runDevice(t, resolver, nil)

	if _, err := uuid.Parse(resolver.lastDeviceID); err != nil {
		t.Fatalf("minted device id is not a uuid: %q", resolver.lastDeviceID)
	}

	var setCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == DeviceCookie {
			setCookie = ck
		}
	}
	if setCookie == nil || setCookie.Value != resolver.lastDeviceID {
		t.Fatalf("device cookie not set on response: %+v", setCookie)
	}
	if !setCookie.HttpOnly {
		t.Fatalf("device cookie must be http-only")
	}

	core, ok := c.Get("core").(*clientcore.Core)
	if !ok || core.DeviceID != resolver.lastDeviceID {
		t.Fatalf("core not injected into context")
	}
}

func TestDevice_ReusesValidCookie(t *testing.T) {
	resolver := &stubResolver{}
	id := uuid.NewString()
	_, rec := runDevice(t, resolver, &http.Cookie{Name: DeviceCookie, Value: id})

	if resolver.lastDeviceID != id {
		t.Fatalf("expected device id %q, got %q", id, resolver.lastDeviceID)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == DeviceCookie {
			t.Fatalf("a valid cookie must not be re-set")
		}
	}
}

func TestDevice_ReplacesMalformedCookie(t *testing.T) {
	resolver := &stubResolver{}
	_, rec := runDevice(t, resolver, &http.Cookie{Name: DeviceCookie, Value: "not-a-uuid"})

	if resolver.lastDeviceID == "not-a-uuid" {
		t.Fatalf("malformed device id must be replaced")
	}
	if _, err := uuid.Parse(resolver.lastDeviceID); err != nil {
		t.Fatalf("replacement id is not a uuid: %q", resolver.lastDeviceID)
	}

	replaced := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == DeviceCookie && ck.Value == resolver.lastDeviceID {
			replaced = true
		}
	}
	if !replaced {
		t.Fatalf("replacement cookie not set on response")
	}
}
