package rest

import (
	"context"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

var _ ports.AuthAPI = (*AuthAPI)(nil)

// AuthAPI implements ports.AuthAPI against the backend auth endpoints.
type AuthAPI struct {
	client *Client
}

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

func (a *AuthAPI) Login(ctx context.Context, identifier, secret string) (*ports.AuthResult, error) {
	var result ports.AuthResult
	body := map[string]string{"email": identifier, "password": secret}
	if err := a.client.Post(ctx, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *AuthAPI) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	var result ports.AuthResult
	body := map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
		"phone":    in.Phone,
	}
	if err := a.client.Post(ctx, "/auth/register", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.client.Post(ctx, "/auth/logout", nil, nil)
}

func (a *AuthAPI) SwitchRole(ctx context.Context, role domain.FunctionalRole) (*ports.AuthResult, error) {
	var result ports.AuthResult
	body := map[string]string{"role": string(role)}
	if err := a.client.Post(ctx, "/users/switch-role", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the current profile. The backend answers with a falsy body
// when no session is active; that case is reported as (nil, nil).
func (a *AuthAPI) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := a.client.Get(ctx, "/users/me", &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}
