package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated browser session. Token is the bearer secret
// carried by the cookie and is never serialized.
type Session struct {
	ID             uuid.UUID `json:"id"`
	Token          string    `json:"-"`
	UserID         uuid.UUID `json:"user_id"`
	IPAddress      string    `json:"ip_address,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}
