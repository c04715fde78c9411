package otp_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/otp"
)

type users map[string]bool

func (u users) UserExists(_ context.Context, email string) (bool, error) {
	if email == "broken@example.com" {
		return false, errors.New("connection refused")
	}
	return u[email], nil
}

type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (c *captureSender) SendOTP(_ context.Context, email string, t otp.Type, code string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.codes == nil {
		c.codes = map[string]string{}
	}
	c.codes[string(t)+":"+email] = code
	return nil
}

func (c *captureSender) code(t otp.Type, email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[string(t)+":"+email]
}

func stores(t *testing.T) map[string]func() otp.Store {
	return map[string]func() otp.Store{
		"memory": func() otp.Store { return otp.NewMemoryStore() },
		"redis": func() otp.Store {
			mr := miniredis.RunT(t)
			return otp.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
		},
	}
}

func newService(store otp.Store, sender otp.Sender, opts ...otp.Option) *otp.Service {
	opts = append([]otp.Option{otp.WithLogger(logger.Discard())}, opts...)
	return otp.NewService(otp.DefaultConfig(), store, users{"ann@example.com": true}, sender, opts...)
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestService(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("send and verify once", func(t *testing.T) {
				sender := &captureSender{}
				svc := newService(newStore(), sender)

				require.NoError(t, svc.Send(ctx, " Ann@Example.com ", otp.TypeForgetPassword))
				code := sender.code(otp.TypeForgetPassword, "ann@example.com")
				require.Len(t, code, 6)
				assert.Regexp(t, `^[0-9]{6}$`, code)

				require.NoError(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, code))
				assert.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, code), otp.ErrInvalidCode)
			})

			t.Run("unknown user stores nothing", func(t *testing.T) {
				sender := &captureSender{}
				svc := newService(newStore(), sender)

				assert.ErrorIs(t, svc.Send(ctx, "nobody@example.com", otp.TypeForgetPassword), otp.ErrUserNotFound)
				assert.Empty(t, sender.code(otp.TypeForgetPassword, "nobody@example.com"))
			})

			t.Run("lookup failure", func(t *testing.T) {
				svc := newService(newStore(), &captureSender{})
				assert.ErrorIs(t, svc.Send(ctx, "broken@example.com", otp.TypeForgetPassword), otp.ErrStoreUnavailable)
			})

			t.Run("delivery failure", func(t *testing.T) {
				svc := newService(newStore(), &captureSender{err: errors.New("smtp down")})
				assert.ErrorIs(t, svc.Send(ctx, "ann@example.com", otp.TypeForgetPassword), otp.ErrDeliveryFailed)
			})

			t.Run("codes are scoped by type", func(t *testing.T) {
				sender := &captureSender{}
				svc := newService(newStore(), sender)

				require.NoError(t, svc.Send(ctx, "ann@example.com", otp.TypeSignIn))
				code := sender.code(otp.TypeSignIn, "ann@example.com")
				assert.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, code), otp.ErrInvalidCode)
				assert.NoError(t, svc.Verify(ctx, "ann@example.com", otp.TypeSignIn, code))
			})

			t.Run("resend replaces previous code", func(t *testing.T) {
				sender := &captureSender{}
				svc := newService(newStore(), sender)

				require.NoError(t, svc.Send(ctx, "ann@example.com", otp.TypeForgetPassword))
				first := sender.code(otp.TypeForgetPassword, "ann@example.com")
				require.NoError(t, svc.Send(ctx, "ann@example.com", otp.TypeForgetPassword))
				second := sender.code(otp.TypeForgetPassword, "ann@example.com")

				if first != second {
					assert.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, first), otp.ErrInvalidCode)
				}
				assert.NoError(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, second))
			})

			t.Run("attempts are limited", func(t *testing.T) {
				sender := &captureSender{}
				svc := newService(newStore(), sender)

				require.NoError(t, svc.Send(ctx, "ann@example.com", otp.TypeForgetPassword))
				code := sender.code(otp.TypeForgetPassword, "ann@example.com")
				bad := wrongCode(code)

				assert.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, bad), otp.ErrInvalidCode)
				assert.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, bad), otp.ErrInvalidCode)
				assert.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, bad), otp.ErrTooManyAttempts)
				assert.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, code), otp.ErrInvalidCode)
			})

			t.Run("invalid type", func(t *testing.T) {
				svc := newService(newStore(), &captureSender{})
				assert.ErrorIs(t, svc.Send(ctx, "ann@example.com", otp.Type("magic")), otp.ErrInvalidType)
				assert.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.Type("magic"), "123456"), otp.ErrInvalidType)
			})
		})
	}
}

func TestService_SendDoesNotLogCode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText), logger.WithLevel(slog.LevelDebug))
	sender := &captureSender{}
	svc := newService(otp.NewMemoryStore(), sender, otp.WithLogger(log))

	require.NoError(t, svc.Send(context.Background(), "ann@example.com", otp.TypeForgetPassword))
	code := sender.code(otp.TypeForgetPassword, "ann@example.com")
	require.Len(t, code, 6)

	out := buf.String()
	assert.Contains(t, out, "otp sent")
	assert.Contains(t, out, "otp_type=forget-password")
	assert.NotContains(t, out, " otp=")
	assert.NotContains(t, out, code)
	assert.NotContains(t, out, code[:3]+"***")
}

func TestMemoryStore_Expired(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	past := func() time.Time { return time.Now().Add(-time.Hour) }
	svc := newService(otp.NewMemoryStore(), sender, otp.WithClock(past))

	require.NoError(t, svc.Send(context.Background(), "ann@example.com", otp.TypeForgetPassword))
	code := sender.code(otp.TypeForgetPassword, "ann@example.com")
	assert.ErrorIs(t, svc.Verify(context.Background(), "ann@example.com", otp.TypeForgetPassword, code), otp.ErrExpired)
}

func TestRedisStore_TTL(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	store := otp.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "otp")
	sender := &captureSender{}
	svc := newService(store, sender)
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, "ann@example.com", otp.TypeForgetPassword))
	assert.Equal(t, 5*time.Minute, mr.TTL("otp:forget-password:ann@example.com"))

	code := sender.code(otp.TypeForgetPassword, "ann@example.com")
	require.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, wrongCode(code)), otp.ErrInvalidCode)
	assert.Equal(t, 5*time.Minute, mr.TTL("otp:forget-password:ann@example.com"), "wrong guess keeps the TTL")

	mr.FastForward(6 * time.Minute)
	assert.ErrorIs(t, svc.Verify(ctx, "ann@example.com", otp.TypeForgetPassword, code), otp.ErrInvalidCode)
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	store := otp.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}), "otp")
	mr.Close()

	svc := newService(store, &captureSender{})
	assert.ErrorIs(t, svc.Send(context.Background(), "ann@example.com", otp.TypeForgetPassword), otp.ErrStoreUnavailable)
}
