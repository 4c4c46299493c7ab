package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/shared"
)

// AuthService wraps the account endpoints.
type AuthService struct {
	gw *Gateway
}

// NewAuthService creates an [AuthService] backed by gw.
func NewAuthService(gw *Gateway) *AuthService {
	return &AuthService{gw: gw}
}

// Login exchanges credentials for a user and token.
// The identifier is sent as email when it contains "@", otherwise as username.
// Rejected credentials never evict a stored session.
func (s *AuthService) Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error) {
	req := Request{Method: http.MethodPost, Endpoint: "/login", Body: creds.Payload(), SkipEviction: true}

	var resp models.AuthResponse
	if err := s.gw.Send(ctx, req, &resp); err != nil {
		return nil, err
	}

	if !resp.Authenticated() {
		return nil, fmt.Errorf("%w: response missing user or token", shared.ErrAuthFailed)
	}
	return &resp, nil
}

// Register creates an account.
//
// The response either carries a session or only a message (e.g. verification pending).
func (s *AuthService) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	req := Request{Method: http.MethodPost, Endpoint: "/register", Body: reg, SkipEviction: true}

	var resp models.AuthResponse
	if err := s.gw.Send(ctx, req, &resp); err != nil {
		return nil, err
	}

	if !resp.Authenticated() && resp.Message == "" {
		return nil, fmt.Errorf("%w: registration returned neither a session nor a message", shared.ErrAuthFailed)
	}
	return &resp, nil
}

// Logout revokes the current token server-side.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.gw.Do(ctx, http.MethodPost, "/logout", nil, nil)
}

// CurrentUser fetches the user the stored token belongs to.
// Empty or malformed payloads are reported as [shared.ErrInvalidSession].
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	resp, err := s.gw.Request(ctx, Request{Method: http.MethodGet, Endpoint: "/user"})
	if err != nil {
		return nil, err
	}

	if resp.NoContent || !resp.IsJSON {
		return nil, fmt.Errorf("%w: empty user payload", shared.ErrInvalidSession)
	}

	var user models.User
	if err := resp.Decode(&user); err != nil || !user.Valid() {
		return nil, fmt.Errorf("%w: malformed user payload", shared.ErrInvalidSession)
	}
	return &user, nil
}
