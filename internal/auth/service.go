package auth

import (
	"context"
	"time"

	"github.com/planwise/planwise/internal/user"
)

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

type Service struct {
	users  *user.Service
	issuer *TokenIssuer
}

func NewService(users *user.Service, issuer *TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.issuer.Issue(u.ID, string(u.SystemRole))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
