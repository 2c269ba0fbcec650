package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/boutique-orders/internal/domains/admin/ports"
)

// DefaultPassword is used when no admin password is configured.
const DefaultPassword = "admin123"

const tokenSuffix = "-adm"

// Service issues and checks admin tokens.
type Service struct {
	password string
	tokens   ports.TokenStore
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

type Option func(*Service)

// WithTokenTTL bounds token lifetime; zero or negative keeps tokens until restart.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithTokenGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newToken = gen
		}
	}
}

func NewService(password string, tokens ports.TokenStore, opts ...Option) *Service {
	if password == "" {
		password = DefaultPassword
	}
	s := &Service{
		password: password,
		tokens:   tokens,
		now:      time.Now,
		newToken: func() string { return uuid.NewString() + tokenSuffix },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Login exchanges the admin password for a fresh token.
func (s *Service) Login(ctx context.Context, password string) (string, error) {
	if password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", ports.ErrInvalidCredentials
	}
	if s.tokens == nil {
		return "", errors.New("admin token store not configured")
	}
	token := s.newToken()
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}
	if err := s.tokens.Save(ctx, token, expiresAt); err != nil {
		return "", fmt.Errorf("save admin token: %w", err)
	}
	return token, nil
}

// Authorize succeeds when token was issued by Login and has not expired.
func (s *Service) Authorize(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || s.tokens == nil {
		return ports.ErrUnauthorized
	}
	ok, err := s.tokens.Exists(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return ports.ErrUnauthorized
	}
	return nil
}

// Logout revokes a token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || s.tokens == nil {
		return nil
	}
	return s.tokens.Delete(ctx, token)
}

var _ ports.Service = (*Service)(nil)
