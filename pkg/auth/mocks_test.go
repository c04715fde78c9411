package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/authflow/pkg/otp"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStorage) StorePasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	return m.Called(ctx, userID, hash).Error(0)
}

func (m *MockStorage) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStorage) StoreOAuthLink(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error {
	return m.Called(ctx, userID, provider, providerUserID).Error(0)
}

func (m *MockStorage) GetUserByOAuth(ctx context.Context, provider, providerUserID string) (*User, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) StoreState(ctx context.Context, state string, ttl time.Duration) error {
	return m.Called(ctx, state, ttl).Error(0)
}

func (m *MockStateStore) ConsumeState(ctx context.Context, state string) error {
	return m.Called(ctx, state).Error(0)
}

type MockOTPVerifier struct {
	mock.Mock
}

func (m *MockOTPVerifier) Verify(ctx context.Context, email string, otpType otp.Type, code string) error {
	return m.Called(ctx, email, otpType, code).Error(0)
}

type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) ProviderID() string {
	return m.Called().String(0)
}

func (m *MockAdapter) AuthURL(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *MockAdapter) ResolveProfile(ctx context.Context, code string) (ProviderProfile, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(ProviderProfile), args.Error(1)
}

type MockVerificationMailer struct {
	mock.Mock
}

func (m *MockVerificationMailer) SendVerificationEmail(ctx context.Context, user *User, link string) error {
	return m.Called(ctx, user, link).Error(0)
}
