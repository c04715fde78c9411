package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	assert.Len(t, attr.Value.Group(), 2)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestEmail_IsMasked(t *testing.T) {
	attr := logger.Email("jane@example.com")
	require.Equal(t, "email", attr.Key)
	assert.Equal(t, "j***@example.com", attr.Value.String())
	assert.True(t, logger.Email("").Equal(slog.Attr{}))
}

func TestOTP_IsMasked(t *testing.T) {
	attr := logger.OTP("482913")
	require.Equal(t, "otp", attr.Key)
	assert.Equal(t, "482***", attr.Value.String())
}

func TestDomainAttrs(t *testing.T) {
	assert.Equal(t, "user_id", logger.UserID("123").Key)
	assert.Equal(t, "request_id", logger.RequestID("abc").Key)
	assert.Equal(t, "google", logger.Provider("google").Value.String())
	assert.Equal(t, "forget-password", logger.OTPType("forget-password").Value.String())
	assert.Equal(t, "account", logger.Component("account").Value.String())
	assert.True(t, logger.ClientIP("").Equal(slog.Attr{}))
}
