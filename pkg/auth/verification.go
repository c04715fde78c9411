package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authflow/pkg/jwt"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/sanitizer"
)

// EmailVerifier issues and redeems email verification links.
type EmailVerifier interface {
	SendVerification(ctx context.Context, user *User, callbackURL string) error
	Verify(ctx context.Context, token string) (*User, error)
}

type VerificationStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
}

// VerificationMailer delivers the link built by SendVerification.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, user *User, link string) error
}

type verificationClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type emailVerifier struct {
	storage  VerificationStorage
	tokens   *jwt.Service
	mailer   VerificationMailer
	endpoint string
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

type VerificationOption func(*emailVerifier)

func WithVerificationTTL(ttl time.Duration) VerificationOption {
	return func(v *emailVerifier) {
		if ttl > 0 {
			v.ttl = ttl
		}
	}
}

func WithVerificationLogger(l *slog.Logger) VerificationOption {
	return func(v *emailVerifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewEmailVerifier builds links of the form
// {baseURL}/api/auth/verify-email?token=...&callbackURL=...
// Tokens expire after one hour unless WithVerificationTTL says otherwise.
func NewEmailVerifier(storage VerificationStorage, tokens *jwt.Service, mailer VerificationMailer, baseURL string, opts ...VerificationOption) EmailVerifier {
	v := &emailVerifier{
		storage:  storage,
		tokens:   tokens,
		mailer:   mailer,
		endpoint: strings.TrimRight(baseURL, "/") + "/api/auth/verify-email",
		ttl:      time.Hour,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *emailVerifier) SendVerification(ctx context.Context, user *User, callbackURL string) error {
	if user == nil {
		return ErrUserNotFound
	}
	now := v.now()
	token, err := v.tokens.Generate(verificationClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   SubjectEmailVerify,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to sign verification token: %w", err)
	}

	q := url.Values{"token": {token}}
	if callbackURL != "" {
		q.Set("callbackURL", callbackURL)
	}
	link := v.endpoint + "?" + q.Encode()

	if err := v.mailer.SendVerificationEmail(ctx, user, link); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	v.logger.InfoContext(ctx, "verification email sent",
		logger.UserID(user.ID),
		logger.Email(user.Email),
		logger.Component("email_verification"),
	)
	return nil
}

// Verify redeems a link token. For an address that is already verified it
// returns the user together with ErrAlreadyVerified.
func (v *emailVerifier) Verify(ctx context.Context, token string) (*User, error) {
	var claims verificationClaims
	if err := v.tokens.Parse(token, &claims); err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if claims.Subject != SubjectEmailVerify || claims.Email == "" {
		return nil, ErrTokenInvalid
	}

	user, err := v.storage.GetUserByEmail(ctx, sanitizer.NormalizeEmail(claims.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.IsVerified {
		return user, ErrAlreadyVerified
	}

	if err := v.storage.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	user.IsVerified = true

	v.logger.InfoContext(ctx, "email verified",
		logger.UserID(user.ID),
		logger.Email(user.Email),
		logger.Component("email_verification"),
	)
	return user, nil
}
