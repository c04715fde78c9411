package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/sanitizer"
)

// Type scopes a code to one purpose. A sign-in code cannot reset a password.
type Type string

const (
	TypeSignIn            Type = "sign-in"
	TypeEmailVerification Type = "email-verification"
	TypeForgetPassword    Type = "forget-password"
)

func (t Type) valid() bool {
	switch t {
	case TypeSignIn, TypeEmailVerification, TypeForgetPassword:
		return true
	}
	return false
}

// UserLookup tells the service whether an account exists for an email.
type UserLookup interface {
	UserExists(ctx context.Context, email string) (bool, error)
}

// Sender delivers a plain code to the user.
type Sender interface {
	SendOTP(ctx context.Context, email string, otpType Type, code string, ttl time.Duration) error
}

type Service struct {
	cfg    Config
	store  Store
	users  UserLookup
	sender Sender
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(cfg Config, store Store, users UserLookup, sender Sender, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg.withDefaults(),
		store:  store,
		users:  users,
		sender: sender,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL is how long a sent code stays valid.
func (s *Service) TTL() time.Duration {
	return s.cfg.TTL
}

// Send generates a code for email and delivers it. Unknown accounts get
// ErrUserNotFound and nothing is stored. A new code replaces the pending one.
func (s *Service) Send(ctx context.Context, email string, otpType Type) error {
	if !otpType.valid() {
		return ErrInvalidType
	}
	email = sanitizer.NormalizeEmail(email)
	log := s.logger.With(logger.Component("otp"), logger.Email(email), logger.OTPType(string(otpType)))

	exists, err := s.users.UserExists(ctx, email)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, fmt.Errorf("lookup user: %w", err))
	}
	if !exists {
		log.InfoContext(ctx, "otp requested for unknown account")
		return ErrUserNotFound
	}

	code, err := generateCode(s.cfg.Length)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	rec := Record{Hash: hashCode(code), ExpiresAt: s.now().Add(s.cfg.TTL)}
	if err := s.store.Save(ctx, key(otpType, email), rec); err != nil {
		return err
	}

	if err := s.sender.SendOTP(ctx, email, otpType, code, s.cfg.TTL); err != nil {
		log.ErrorContext(ctx, "otp delivery failed", logger.Error(err))
		return errors.Join(ErrDeliveryFailed, err)
	}

	log.InfoContext(ctx, "otp sent")
	return nil
}

// Verify checks code for (email, type). A correct code can be used only once.
func (s *Service) Verify(ctx context.Context, email string, otpType Type, code string) error {
	if !otpType.valid() {
		return ErrInvalidType
	}
	email = sanitizer.NormalizeEmail(email)
	code = strings.TrimSpace(code)

	err := s.store.Consume(ctx, key(otpType, email), hashCode(code), s.cfg.MaxAttempts)
	if err != nil {
		s.logger.WarnContext(ctx, "otp verification failed",
			logger.Component("otp"),
			logger.Email(email),
			logger.OTPType(string(otpType)),
			logger.OTP(code),
			logger.Error(err),
		)
		return err
	}
	return nil
}

func key(t Type, email string) string {
	return string(t) + ":" + email
}

func hashCode(code string) [32]byte {
	return sha256.Sum256([]byte(code))
}

func equalHash(a, b [32]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

func generateCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	ten := big.NewInt(10)
	for range length {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
