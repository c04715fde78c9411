package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Authentication methods recorded on the user at creation time.
const (
	MethodPassword    = "password"
	MethodOAuthGoogle = "oauth_google"
	MethodOAuthGithub = "oauth_github"
)

// OAuth provider identifiers, also used in callback URLs.
const (
	OAuthProviderGoogle = "google"
	OAuthProviderGithub = "github"
)

// SubjectEmailVerify is the JWT subject of email verification links.
const SubjectEmailVerify = "email_verify"

// Password length policy, counted in runes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

type User struct {
	ID         uuid.UUID
	Email      string
	Name       string
	Avatar     string
	AuthMethod string
	IsVerified bool
	CreatedAt  time.Time
}

type userContextKey struct{}

// SetUserToContext stores the authenticated user for downstream handlers.
func SetUserToContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext returns nil when no user was stored.
func GetUserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}
