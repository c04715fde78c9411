package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists sessions keyed by token.
type Store interface {
	Create(ctx context.Context, session *Session) error

	// Get returns ErrSessionNotFound for unknown tokens and ErrSessionExpired
	// for sessions past ExpiresAt.
	Get(ctx context.Context, token string) (*Session, error)

	// Touch records activity and moves the expiry.
	Touch(ctx context.Context, token string, lastActivity, expiresAt time.Time) error

	Delete(ctx context.Context, token string) error
}

// StoreWithCleanup is implemented by stores that can drop every session of a user.
type StoreWithCleanup interface {
	Store
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
