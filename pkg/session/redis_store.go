package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session as a JSON value that expires with the session.
// Keys hold a SHA-256 of the token, so a keyspace dump reveals no usable
// tokens. A per-user set indexes the session keys for DeleteByUserID.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ StoreWithCleanup = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + ":t:" + hex.EncodeToString(sum[:])
}

func (s *RedisStore) userKey(userID uuid.UUID) string {
	return s.prefix + ":u:" + userID.String()
}

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := s.tokenKey(session.Token)
	userKey := s.userKey(session.UserID)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, data, ttl)
		p.SAdd(ctx, userKey, key)
		// Every write uses the same idle window, so the newest write outlives the rest.
		p.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	session, err := s.load(ctx, s.tokenKey(token))
	if err != nil {
		return nil, err
	}
	session.Token = token
	if session.IsExpired(s.now()) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *RedisStore) load(ctx context.Context, key string) (*Session, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Touch(ctx context.Context, token string, lastActivity, expiresAt time.Time) error {
	key := s.tokenKey(token)
	session, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	session.LastActivityAt = lastActivity
	session.ExpiresAt = expiresAt

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, token)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// XX: a session deleted in the meantime stays deleted.
	if err := s.client.SetArgs(ctx, key, data, redis.SetArgs{Mode: "XX", TTL: ttl}).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	if err := s.client.Expire(ctx, s.userKey(session.UserID), ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	key := s.tokenKey(token)
	session, err := s.load(ctx, key)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		// Unreadable record: drop the key, the index entry expires on its own.
		if delErr := s.client.Del(ctx, key).Err(); delErr != nil {
			return errors.Join(ErrStoreUnavailable, delErr)
		}
		return nil
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.SRem(ctx, s.userKey(session.UserID), key)
		return nil
	})
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	userKey := s.userKey(userID)
	keys, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	if err := s.client.Del(ctx, append(keys, userKey)...).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
