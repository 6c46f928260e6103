package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/shopsphere/commerce-api/internal/domains/notifications/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

const (
	userKeyPrefix = "fcm:user:"
	roleKeyPrefix = "fcm:role:"
)

// TokenStore keeps device tokens in Redis sets so registrations survive
// restarts and are shared across API instances.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Save(ctx context.Context, userID, role, token string) error {
	if err := s.client.SAdd(ctx, userKeyPrefix+userID, token).Err(); err != nil {
		return err
	}
	if role != "" {
		return s.client.SAdd(ctx, roleKeyPrefix+role, token).Err()
	}
	return nil
}

func (s *TokenStore) ByUser(ctx context.Context, userID string) ([]string, error) {
	tokens, err := s.client.SMembers(ctx, userKeyPrefix+userID).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	return tokens, nil
}

func (s *TokenStore) ByRole(ctx context.Context, role string) ([]string, error) {
	tokens, err := s.client.SMembers(ctx, roleKeyPrefix+role).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	return tokens, nil
}
