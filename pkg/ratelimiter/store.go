package ratelimiter

import (
	"context"
	"time"
)

// Store keeps bucket state.
type Store interface {
	// ConsumeTokens refills the bucket as of now and takes tokens when enough
	// are available. remaining is negative when they are not.
	ConsumeTokens(ctx context.Context, key string, tokens int, now time.Time, config Config) (remaining int, resetAt time.Time, err error)

	Reset(ctx context.Context, key string) error
}
