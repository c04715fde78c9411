package account_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/email"
	"github.com/dmitrymomot/authflow/pkg/otp"
)

type mockPasswords struct {
	mock.Mock
}

func userResult(args mock.Arguments) (*auth.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *mockPasswords) Register(ctx context.Context, name, email, password string) (*auth.User, error) {
	return userResult(m.Called(ctx, name, email, password))
}

func (m *mockPasswords) Authenticate(ctx context.Context, email, password string) (*auth.User, error) {
	return userResult(m.Called(ctx, email, password))
}

func (m *mockPasswords) ResetPasswordWithOTP(ctx context.Context, email, code, newPassword string) (*auth.User, error) {
	return userResult(m.Called(ctx, email, code, newPassword))
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) SendVerification(ctx context.Context, user *auth.User, callbackURL string) error {
	return m.Called(ctx, user, callbackURL).Error(0)
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (*auth.User, error) {
	return userResult(m.Called(ctx, token))
}

type mockOTP struct {
	mock.Mock
}

func (m *mockOTP) Send(ctx context.Context, email string, otpType otp.Type) error {
	return m.Called(ctx, email, otpType).Error(0)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *mockUsers) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return userResult(m.Called(ctx, email))
}

type mockOAuth struct {
	mock.Mock
	provider string
}

func (m *mockOAuth) Provider() string {
	return m.provider
}

func (m *mockOAuth) GetAuthURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockOAuth) Auth(ctx context.Context, code, state string) (*auth.User, error) {
	return userResult(m.Called(ctx, code, state))
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}
