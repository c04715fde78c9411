package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OAuthAuthenticator runs one provider's sign-in round trip.
type OAuthAuthenticator interface {
	Provider() string
	// GetAuthURL stores a fresh state and returns the provider consent URL.
	GetAuthURL(ctx context.Context) (string, error)
	// Auth consumes state, exchanges code and finds or creates the local user.
	Auth(ctx context.Context, code, state string) (*User, error)
}

type OAuthStorage interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error

	StoreOAuthLink(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error
	GetUserByOAuth(ctx context.Context, provider, providerUserID string) (*User, error)
}

// StateStore keeps CSRF state between the redirect and the callback.
// ConsumeState must be atomic and return ErrStateNotFound for unknown,
// expired or already used states.
type StateStore interface {
	StoreState(ctx context.Context, state string, ttl time.Duration) error
	ConsumeState(ctx context.Context, state string) error
}

// ProviderAdapter hides provider protocol details from the OAuth service.
type ProviderAdapter interface {
	ProviderID() string
	AuthURL(state string) (string, error)
	// ResolveProfile exchanges code and fetches the profile. Exchange
	// failures return ErrInvalidCode, a missing email ErrNoPrimaryEmail.
	ResolveProfile(ctx context.Context, code string) (ProviderProfile, error)
}

// ProviderProfile is the normalized profile returned by an adapter.
type ProviderProfile struct {
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
	AvatarURL      string
}
