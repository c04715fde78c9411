package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisMaxRetries = 4

// RedisStore keeps codes in Redis with the record expiry as key TTL.
// Consume runs inside WATCH so concurrent guesses cannot share an attempt.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "otp"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}

func (s *RedisStore) Save(ctx context.Context, key string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode otp record: %w", err)
	}
	ttl := rec.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return ErrExpired
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, key string, hash [32]byte, maxAttempts int) error {
	rkey := s.key(key)

	for range redisMaxRetries {
		var result error

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, rkey).Bytes()
			if err != nil {
				return err
			}
			var rec Record
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("decode otp record: %w", err)
			}

			updated, drop, checkErr := check(rec, hash, maxAttempts, s.now())
			result = checkErr

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if drop {
					pipe.Del(ctx, rkey)
					return nil
				}
				encoded, err := json.Marshal(updated)
				if err != nil {
					return err
				}
				pipe.Set(ctx, rkey, encoded, redis.KeepTTL)
				return nil
			})
			return err
		}, rkey)

		switch {
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, redis.Nil):
			return ErrInvalidCode
		case err != nil:
			return errors.Join(ErrStoreUnavailable, err)
		}
		return result
	}

	return errors.Join(ErrStoreUnavailable, errors.New("too much contention on otp record"))
}
