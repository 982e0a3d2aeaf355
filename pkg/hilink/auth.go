package hilink

import (
	"context"

	"github.com/eshaffer321/hilink-go/internal/auth"
)

// authService implements the AuthService interface
type authService struct {
	client *Client
	auth   *auth.Service
}

func newAuthService(c *Client) *authService {
	return &authService{
		client: c,
		auth:   auth.NewService(callerFunc(c.executeCall), c.session, c.options.Logger),
	}
}

// State retrieves the login state without authenticating
func (s *authService) State(ctx context.Context) (*LoginState, error) {
	return s.auth.State(ctx)
}

// Login authenticates unless the device already reports a session
func (s *authService) Login(ctx context.Context, username, password string) error {
	return s.auth.Login(ctx, username, password)
}

// Logout ends the session and clears local state
func (s *authService) Logout(ctx context.Context) error {
	return s.auth.Logout(ctx)
}
