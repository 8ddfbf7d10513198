package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventura/client-gateway/internal/api/metrics"
	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

// roleCookieTTL bounds the short-lived mirrors read by collaborators that
// need a route decision before the session endpoint answers.
const roleCookieTTL = time.Hour

// SessionHandler exposes the auth session store over HTTP.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Login handles POST /session/login.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := core.Session.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.SessionOpsTotal.WithLabelValues("login", "error").Inc()
		return err
	}
	metrics.SessionOpsTotal.WithLabelValues("login", "ok").Inc()

	h.mirrorCookies(c, core.Session)
	return c.JSON(http.StatusOK, sessionResponse{
		State:   string(domain.AuthAuthenticated),
		User:    result.User,
		Landing: string(result.Landing),
	})
}

// Register handles POST /session/register.
//
// @Summary      Register a new account
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Profile"
// @Success      201   {object}  sessionResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := core.Session.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		metrics.SessionOpsTotal.WithLabelValues("register", "error").Inc()
		return err
	}
	metrics.SessionOpsTotal.WithLabelValues("register", "ok").Inc()

	h.mirrorCookies(c, core.Session)
	return c.JSON(http.StatusCreated, sessionResponse{
		State:      string(domain.AuthAuthenticated),
		User:       result.User,
		Landing:    string(result.Landing),
		Identifier: result.Identifier,
	})
}

// Logout handles POST /session/logout. Local state is cleared even when
// the backend call fails, so this endpoint cannot leave a half-session.
//
// @Summary      Log out
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	if err := core.Session.Logout(c.Request().Context()); err != nil {
		metrics.SessionOpsTotal.WithLabelValues("logout", "error").Inc()
		return err
	}
	metrics.SessionOpsTotal.WithLabelValues("logout", "ok").Inc()

	h.clearCookies(c)
	return c.JSON(http.StatusOK, sessionResponse{State: string(domain.AuthAnonymous)})
}

// SwitchRole handles POST /session/switch-role.
//
// @Summary      Switch the functional role
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      switchRoleRequest  true  "Target role"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /session/switch-role [post]
func (h *SessionHandler) SwitchRole(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	var req switchRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := core.Session.SwitchRole(c.Request().Context(), domain.FunctionalRole(req.Role))
	if err != nil {
		metrics.SessionOpsTotal.WithLabelValues("switch_role", "error").Inc()
		return err
	}
	metrics.SessionOpsTotal.WithLabelValues("switch_role", "ok").Inc()

	h.mirrorCookies(c, core.Session)
	return c.JSON(http.StatusOK, sessionResponse{
		State:   string(domain.AuthAuthenticated),
		User:    result.User,
		Landing: string(result.Landing),
	})
}

// Me handles GET /session — the current state and user, if any.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Me(c echo.Context) error {
	core, err := ctxCore(c)
	if err != nil {
		return err
	}

	resp := sessionResponse{State: string(core.Session.State())}
	if user := core.Session.Current(); user != nil {
		resp.User = *user
		resp.Landing = string(domain.LandingFor(user.CurrentRole))
	}
	return c.JSON(http.StatusOK, resp)
}

// mirrorCookies keeps the short-lived access-token and role cookies in
// step with the session, for collaborators making server-side route
// decisions.
func (h *SessionHandler) mirrorCookies(c echo.Context, core interface {
	Current() *domain.User
	Tokens() domain.TokenPair
}) {
	user := core.Current()
	if user == nil {
		return
	}
	expires := time.Now().Add(roleCookieTTL)
	c.SetCookie(&http.Cookie{
		Name:     "userRole",
		Value:    string(user.CurrentRole),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
	if token := core.Tokens().AccessToken; token != "" {
		c.SetCookie(&http.Cookie{
			Name:     "accessToken",
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  expires,
		})
	}
}

func (h *SessionHandler) clearCookies(c echo.Context) {
	for _, name := range []string{"userRole", "accessToken"} {
		c.SetCookie(&http.Cookie{
			Name:    name,
			Value:   "",
			Path:    "/",
			MaxAge:  -1,
			Expires: time.Unix(0, 0),
		})
	}
}
