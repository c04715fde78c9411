package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authflow/pkg/auth"
)

// OAuthStateStore keeps OAuth CSRF states in Redis. A state can be consumed once.
type OAuthStateStore struct {
	client redis.UniversalClient
	prefix string
}

func NewOAuthStateStore(client redis.UniversalClient, prefix string) *OAuthStateStore {
	if prefix == "" {
		prefix = "oauth_state"
	}
	return &OAuthStateStore{client: client, prefix: prefix}
}

func (s *OAuthStateStore) StoreState(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+":"+state, 1, ttl).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

func (s *OAuthStateStore) ConsumeState(ctx context.Context, state string) error {
	err := s.client.GetDel(ctx, s.prefix+":"+state).Err()
	if errors.Is(err, redis.Nil) {
		return auth.ErrStateNotFound
	}
	if err != nil {
		return fmt.Errorf("consume oauth state: %w", err)
	}
	return nil
}
