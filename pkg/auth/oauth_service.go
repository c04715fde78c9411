package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/sanitizer"
)

var _ OAuthAuthenticator = (*oauthService)(nil)

type oauthService struct {
	storage      OAuthStorage
	states       StateStore
	adapter      ProviderAdapter
	logger       *slog.Logger
	stateTTL     time.Duration
	verifiedOnly bool
	now          func() time.Time
}

type OAuthOption func(*oauthService)

func WithOAuthLogger(l *slog.Logger) OAuthOption {
	return func(s *oauthService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithStateTTL(ttl time.Duration) OAuthOption {
	return func(s *oauthService) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

// WithVerifiedOnly rejects profiles whose email the provider has not verified. Default true.
func WithVerifiedOnly(verifiedOnly bool) OAuthOption {
	return func(s *oauthService) {
		s.verifiedOnly = verifiedOnly
	}
}

func NewOAuthService(storage OAuthStorage, states StateStore, adapter ProviderAdapter, opts ...OAuthOption) OAuthAuthenticator {
	s := &oauthService{
		storage:      storage,
		states:       states,
		adapter:      adapter,
		logger:       slog.New(slog.DiscardHandler),
		stateTTL:     10 * time.Minute,
		verifiedOnly: true,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *oauthService) Provider() string {
	return s.adapter.ProviderID()
}

// stateKey scopes a state to this provider so it cannot be redeemed on
// another provider's callback.
func (s *oauthService) stateKey(state string) string {
	return s.adapter.ProviderID() + ":" + state
}

func (s *oauthService) GetAuthURL(ctx context.Context) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	if err := s.states.StoreState(ctx, s.stateKey(state), s.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	u, err := s.adapter.AuthURL(state)
	if err != nil {
		return "", fmt.Errorf("failed to build auth url: %w", err)
	}
	return u, nil
}

func (s *oauthService) Auth(ctx context.Context, code, state string) (*User, error) {
	if state == "" {
		return nil, ErrInvalidState
	}
	if err := s.states.ConsumeState(ctx, s.stateKey(state)); err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("failed to validate state: %w", err)
	}

	profile, err := s.adapter.ResolveProfile(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to resolve provider profile: %w", err)
	}
	if profile.ProviderUserID == "" {
		return nil, errors.New("invalid profile: missing provider user ID")
	}
	if profile.Email == "" {
		return nil, ErrNoPrimaryEmail
	}
	profile.Email = sanitizer.NormalizeEmail(profile.Email)
	profile.Name = sanitizer.DisplayName(profile.Name)

	if s.verifiedOnly && !profile.EmailVerified {
		return nil, ErrUnverifiedEmail
	}

	return s.findOrCreate(ctx, profile)
}

// findOrCreate resolves the local user in this order: existing provider
// link, existing account with the same verified email (linked now), new account.
func (s *oauthService) findOrCreate(ctx context.Context, profile ProviderProfile) (*User, error) {
	provider := s.adapter.ProviderID()
	log := s.logger.With(logger.Component("oauth"), logger.Provider(provider), logger.Email(profile.Email))

	user, err := s.storage.GetUserByOAuth(ctx, provider, profile.ProviderUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check oauth link: %w", err)
	}

	existing, err := s.storage.GetUserByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		// An unverified provider email must not take over a local account.
		if !profile.EmailVerified {
			return nil, ErrProviderEmailInUse
		}
		if err := s.storage.StoreOAuthLink(ctx, existing.ID, provider, profile.ProviderUserID); err != nil {
			return nil, fmt.Errorf("failed to link %s account: %w", provider, err)
		}
		if !existing.IsVerified {
			if err := s.storage.MarkEmailVerified(ctx, existing.ID); err != nil {
				return nil, fmt.Errorf("failed to mark email verified: %w", err)
			}
			existing.IsVerified = true
		}
		log.InfoContext(ctx, "provider linked to existing account", logger.UserID(existing.ID))
		return existing, nil
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	user = &User{
		ID:         uuid.New(),
		Email:      profile.Email,
		Name:       profile.Name,
		Avatar:     profile.AvatarURL,
		AuthMethod: authMethod(provider),
		IsVerified: profile.EmailVerified,
		CreatedAt:  s.now(),
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.storage.StoreOAuthLink(ctx, user.ID, provider, profile.ProviderUserID); err != nil {
		if deleteErr := s.storage.DeleteUser(ctx, user.ID); deleteErr != nil {
			log.ErrorContext(ctx, "failed to cleanup user after oauth link save failure",
				logger.UserID(user.ID),
				logger.Error(deleteErr),
			)
		}
		return nil, fmt.Errorf("failed to store oauth link: %w", err)
	}

	log.InfoContext(ctx, "user created from provider profile", logger.UserID(user.ID))
	return user, nil
}

func authMethod(provider string) string {
	switch provider {
	case OAuthProviderGoogle:
		return MethodOAuthGoogle
	case OAuthProviderGithub:
		return MethodOAuthGithub
	default:
		return "oauth_" + provider
	}
}
