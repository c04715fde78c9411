package ratelimiter_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/pkg/ratelimiter"
)

var testConfig = ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Minute}

func storeContract(t *testing.T, store ratelimiter.Store) {
	ctx := context.Background()
	start := time.Now().Truncate(time.Millisecond)

	for i := 2; i >= 0; i-- {
		remaining, _, err := store.ConsumeTokens(ctx, "ip-1", 1, start, testConfig)
		require.NoError(t, err)
		assert.Equal(t, i, remaining)
	}

	remaining, resetAt, err := store.ConsumeTokens(ctx, "ip-1", 1, start.Add(time.Second), testConfig)
	require.NoError(t, err)
	assert.Equal(t, -1, remaining)
	assert.WithinDuration(t, start.Add(time.Minute), resetAt, time.Millisecond)

	// Denied requests take nothing, so one refill is enough for one request.
	remaining, _, err = store.ConsumeTokens(ctx, "ip-1", 1, start.Add(61*time.Second), testConfig)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// Long idle refills to capacity, never beyond.
	remaining, _, err = store.ConsumeTokens(ctx, "ip-1", 1, start.Add(24*time.Hour), testConfig)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	// Keys are independent.
	remaining, _, err = store.ConsumeTokens(ctx, "ip-2", 1, start, testConfig)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	require.NoError(t, store.Reset(ctx, "ip-1"))
	remaining, _, err = store.ConsumeTokens(ctx, "ip-1", 3, start, testConfig)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	defer store.Close()
	storeContract(t, store)
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storeContract(t, ratelimiter.NewRedisStore(client, "test-rl"))

	assert.True(t, mr.Exists("test-rl:ip-2"))
	assert.Positive(t, mr.TTL("test-rl:ip-2"))
}

func TestNewBucket_InvalidConfig(t *testing.T) {
	t.Parallel()
	for _, cfg := range []ratelimiter.Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	}

	b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), testConfig)
	require.NoError(t, err)
	_, err = b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

type failingStore struct{}

func (failingStore) ConsumeTokens(context.Context, string, int, time.Time, ratelimiter.Config) (int, time.Time, error) {
	return 0, time.Time{}, ratelimiter.ErrStoreUnavailable
}

func (failingStore) Reset(context.Context, string) error { return nil }

func TestMiddleware(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	post := func(h http.Handler, ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/sign-in", strings.NewReader(""))
		r.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	t.Run("limits per ip", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), testConfig)
		require.NoError(t, err)
		denied := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
		h := ratelimiter.Middleware(b, ratelimiter.Composite(ratelimiter.ByIP(), ratelimiter.ByRoute()),
			ratelimiter.WithDeniedHandler(denied))(ok)

		for range 3 {
			assert.Equal(t, http.StatusOK, post(h, "10.0.0.1").Code)
		}
		rec := post(h, "10.0.0.1")
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		assert.Equal(t, http.StatusOK, post(h, "10.0.0.2").Code)
	})

	t.Run("fails open", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(failingStore{}, testConfig)
		require.NoError(t, err)
		h := ratelimiter.Middleware(b, ratelimiter.ByIP())(ok)
		assert.Equal(t, http.StatusOK, post(h, "10.0.0.1").Code)
	})

	t.Run("empty key skips", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(failingStore{}, testConfig)
		require.NoError(t, err)
		h := ratelimiter.Middleware(b, func(*http.Request) string { return "" })(ok)
		assert.Equal(t, http.StatusOK, post(h, "10.0.0.1").Code)
	})
}

func TestByFormValue(t *testing.T) {
	t.Parallel()

	form := func(body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/forgot-account", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return r
	}
	key := ratelimiter.ByFormValue("email")

	assert.Equal(t, "email=jane@example.com", key(form("email=+Jane%40Example.com+")))
	assert.Empty(t, key(form("name=jane")))

	r := form("email=jane%40example.com")
	_ = key(r)
	require.NoError(t, r.ParseForm())
	assert.Equal(t, "jane@example.com", r.PostForm.Get("email"))
}

func TestMiddleware_ByEmailAcrossIPs(t *testing.T) {
	t.Parallel()

	b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), testConfig)
	require.NoError(t, err)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := ratelimiter.Middleware(b, ratelimiter.Required(ratelimiter.ByRoute(), ratelimiter.ByFormValue("email")))(ok)

	post := func(ip, email string) int {
		r := httptest.NewRequest(http.MethodPost, "/forgot-account", strings.NewReader("email="+email))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	for i := range 3 {
		assert.Equal(t, http.StatusOK, post(fmt.Sprintf("10.0.0.%d", i+1), "jane%40example.com"))
	}
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.9", "JANE%40example.com"))
	assert.Equal(t, http.StatusOK, post("10.0.0.9", "ann%40example.com"))
	// no email, nothing to key on
	assert.Equal(t, http.StatusOK, post("10.0.0.9", ""))
}

func TestComposite_HashesLongKeys(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 80)
	key := ratelimiter.Composite(
		func(*http.Request) string { return long },
		func(*http.Request) string { return "" },
	)(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.LessOrEqual(t, len(key), 64)
	assert.NotEqual(t, long, key)
}
