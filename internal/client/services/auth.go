// Package services wraps the HTTP endpoints of the tier list API behind small
// typed services, and turns their errors into messages fit for users.
package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/tiernerd/internal/client/client"
	"github.com/dmitrijs2005/tiernerd/internal/client/models"
)

const (
	usersPath = "/api/users/"
	tokenPath = "/api/users/token"
	mePath    = "/api/users/me"
)

// AuthService covers the account endpoints.
//
// Contract:
//   - Register: create an account. It does not sign in.
//   - Login: exchange email and password for a bearer token.
//   - CurrentUser: fetch the account the token belongs to.
//
// Errors are the gateway's: *client.APIError for HTTP failures,
// client.ErrUnavailable for transport failures.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.Token, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	gw client.Gateway
}

func NewAuthService(gw client.Gateway) AuthService {
	return &authService{gw: gw}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var u models.User
	if err := s.gw.Post(ctx, usersPath, req, "", &u); err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return &u, nil
}

// Login posts the OAuth2 password form the backend expects.
func (s *authService) Login(ctx context.Context, email, password string) (*models.Token, error) {
	form := client.Form(url.Values{
		"username": {email},
		"password": {password},
	})

	var tok models.Token
	if err := s.gw.Post(ctx, tokenPath, form, "", &tok); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("login error: %w: no access token", client.ErrMalformedResponse)
	}
	return &tok, nil
}

func (s *authService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := s.gw.Get(ctx, mePath, token, &u); err != nil {
		return nil, fmt.Errorf("current user error: %w", err)
	}
	if u.UserID == "" {
		return nil, fmt.Errorf("current user error: %w: no user id", client.ErrMalformedResponse)
	}
	return &u, nil
}
