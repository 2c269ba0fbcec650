package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/boutique-orders/internal/domains/admin/ports"
)

// TokenStore keeps admin tokens in process memory; they are lost on restart.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]time.Time), now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *TokenStore) WithClock(now func() time.Time) *TokenStore {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *TokenStore) Save(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = expiresAt
	return nil
}

func (s *TokenStore) Exists(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expiresAt, ok := s.tokens[token]
	if !ok {
		return false, nil
	}
	return expiresAt.IsZero() || s.now().Before(expiresAt), nil
}

func (s *TokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *TokenStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var purged int64
	for token, expiresAt := range s.tokens {
		if !expiresAt.IsZero() && !now.Before(expiresAt) {
			delete(s.tokens, token)
			purged++
		}
	}
	return purged, nil
}

var _ ports.TokenStore = (*TokenStore)(nil)
