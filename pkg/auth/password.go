package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/otp"
	"github.com/dmitrymomot/authflow/pkg/sanitizer"
	"github.com/dmitrymomot/authflow/pkg/validator"
)

// PasswordAuthenticator covers email/password accounts.
type PasswordAuthenticator interface {
	Register(ctx context.Context, name, email, password string) (*User, error)
	// Authenticate returns the user together with ErrEmailNotVerified when
	// the password is right but the address is not confirmed yet.
	Authenticate(ctx context.Context, email, password string) (*User, error)
	ResetPasswordWithOTP(ctx context.Context, email, code, newPassword string) (*User, error)
}

type PasswordStorage interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	StorePasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error
	GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// OTPVerifier checks one-time codes. *otp.Service implements it.
type OTPVerifier interface {
	Verify(ctx context.Context, email string, otpType otp.Type, code string) error
}

type passwordService struct {
	storage    PasswordStorage
	otp        OTPVerifier
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time

	// compared against when the account does not exist, so unknown emails
	// cost the same bcrypt work as wrong passwords
	dummyHash []byte
}

type PasswordOption func(*passwordService)

func WithPasswordLogger(l *slog.Logger) PasswordOption {
	return func(s *passwordService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithBcryptCost(cost int) PasswordOption {
	return func(s *passwordService) {
		s.bcryptCost = cost
	}
}

func NewPasswordService(storage PasswordStorage, otpVerifier OTPVerifier, opts ...PasswordOption) PasswordAuthenticator {
	s := &passwordService{
		storage:    storage,
		otp:        otpVerifier,
		bcryptCost: bcrypt.DefaultCost,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), s.bcryptCost)
	return s
}

func passwordPolicy(password string) error {
	if err := validator.Apply(
		validator.MinLenString("password", password, MinPasswordLength),
		validator.MaxLenString("password", password, MaxPasswordLength),
	); err != nil {
		return errors.Join(ErrWeakPassword, err)
	}
	return nil
}

func (s *passwordService) Register(ctx context.Context, name, email, password string) (*User, error) {
	email = sanitizer.NormalizeEmail(email)
	name = sanitizer.DisplayName(name)

	if err := validator.Apply(validator.ValidEmail("email", email)); err != nil {
		return nil, errors.Join(ErrInvalidEmail, err)
	}
	if err := passwordPolicy(password); err != nil {
		return nil, err
	}

	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:         uuid.New(),
		Email:      email,
		Name:       name,
		AuthMethod: MethodPassword,
		CreatedAt:  s.now(),
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.storage.StorePasswordHash(ctx, user.ID, hash); err != nil {
		if deleteErr := s.storage.DeleteUser(ctx, user.ID); deleteErr != nil {
			s.logger.ErrorContext(ctx, "failed to cleanup user after password save failure",
				logger.UserID(user.ID),
				logger.Email(user.Email),
				logger.Error(deleteErr),
				logger.Component("password"),
			)
		}
		return nil, fmt.Errorf("failed to save password: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		logger.UserID(user.ID),
		logger.Email(user.Email),
		logger.Component("password"),
	)
	return user, nil
}

func (s *passwordService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	hash, err := s.storage.GetPasswordHash(ctx, user.ID)
	if err != nil {
		// social-only accounts have no password
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get password hash: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return user, ErrEmailNotVerified
	}
	return user, nil
}

// ResetPasswordWithOTP checks the forget-password code before looking the
// account up, so a guessed email alone reveals nothing.
func (s *passwordService) ResetPasswordWithOTP(ctx context.Context, email, code, newPassword string) (*User, error) {
	email = sanitizer.NormalizeEmail(email)

	if err := passwordPolicy(newPassword); err != nil {
		return nil, err
	}
	if err := s.otp.Verify(ctx, email, otp.TypeForgetPassword, code); err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.storage.StorePasswordHash(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset",
		logger.UserID(user.ID),
		logger.Email(user.Email),
		logger.Component("password"),
	)
	return user, nil
}
