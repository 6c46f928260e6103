package memory

import (
	"context"
	"sync"

	"github.com/shopsphere/commerce-api/internal/domains/notifications/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore keeps device tokens in process memory.
type TokenStore struct {
	mu     sync.RWMutex
	byUser map[string][]string
	byRole map[string][]string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		byUser: map[string][]string{},
		byRole: map[string][]string{},
	}
}

func (s *TokenStore) Save(_ context.Context, userID, role, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[userID] = appendUnique(s.byUser[userID], token)
	if role != "" {
		s.byRole[role] = appendUnique(s.byRole[role], token)
	}
	return nil
}

func (s *TokenStore) ByUser(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.byUser[userID]...), nil
}

func (s *TokenStore) ByRole(_ context.Context, role string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.byRole[role]...), nil
}

func appendUnique(tokens []string, token string) []string {
	for _, existing := range tokens {
		if existing == token {
			return tokens
		}
	}
	return append(tokens, token)
}
