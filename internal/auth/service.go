package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gosuda/bilemo/internal/domain"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Service authenticates clients and issues access tokens.
type Service struct {
	clients   domain.ClientRepository
	jwtSecret string
	accessTTL time.Duration
}

// NewService creates a new auth service.
func NewService(clients domain.ClientRepository, jwtSecret string, accessTTL time.Duration) *Service {
	return &Service{
		clients:   clients,
		jwtSecret: jwtSecret,
		accessTTL: accessTTL,
	}
}

// Login validates email/password and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	client, err := s.clients.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("auth.Login: %w", err)
	}

	if !VerifyPassword(password, client.PasswordHash) {
		return "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	token, err := IssueAccessToken(s.jwtSecret, client.ID, client.Email, client.Roles, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.Login: %w", err)
	}

	return token, nil
}
