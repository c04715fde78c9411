package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/pkg/cookie"
	"github.com/dmitrymomot/authflow/pkg/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newManager(t *testing.T, store session.Store, clk *clock) *session.Manager {
	t.Helper()
	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	m := session.New(
		session.WithCookieManager(cookies),
		session.WithStore(store),
		session.WithClock(clk.Now),
	)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestManager_AuthenticateAndGet(t *testing.T) {
	t.Parallel()
	clk := &clock{now: time.Now()}
	store := session.NewMemoryStore(0)
	m := newManager(t, store, clk)
	ctx := context.Background()
	userID := uuid.New()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/sign-in", nil)
	r.Header.Set("User-Agent", "test-agent")
	sess, err := m.Authenticate(ctx, w, r, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, sess.UserID)
	assert.Equal(t, "test-agent", sess.UserAgent)
	assert.WithinDuration(t, clk.Now().Add(720*time.Hour), sess.ExpiresAt, time.Second)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, cookies[0].Value, sess.Token)

	got, err := m.Get(ctx, requestWith(cookies))
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	t.Run("rotates token on re-authentication", func(t *testing.T) {
		w2 := httptest.NewRecorder()
		again, err := m.Authenticate(ctx, w2, requestWith(cookies), userID)
		require.NoError(t, err)
		assert.NotEqual(t, sess.Token, again.Token)

		_, err = store.Get(ctx, sess.Token)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestManager_Get_NoCookie(t *testing.T) {
	t.Parallel()
	m := newManager(t, session.NewMemoryStore(0), &clock{now: time.Now()})
	_, err := m.Get(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()
	clk := &clock{now: time.Now()}
	store := session.NewMemoryStore(0)
	m := newManager(t, store, clk)
	ctx := context.Background()

	w := httptest.NewRecorder()
	sess, err := m.Authenticate(ctx, w, httptest.NewRequest(http.MethodPost, "/", nil), uuid.New())
	require.NoError(t, err)

	w2 := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, w2, requestWith(w.Result().Cookies())))
	assert.Equal(t, -1, w2.Result().Cookies()[0].MaxAge)

	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_RevokeUser(t *testing.T) {
	t.Parallel()
	clk := &clock{now: time.Now()}
	store := session.NewMemoryStore(0)
	m := newManager(t, store, clk)
	ctx := context.Background()
	userID := uuid.New()

	for range 3 {
		_, err := m.Authenticate(ctx, httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), userID)
		require.NoError(t, err)
	}
	_, err := m.Authenticate(ctx, httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), uuid.New())
	require.NoError(t, err)
	require.Equal(t, 4, store.Len())

	require.NoError(t, m.RevokeUser(ctx, userID))
	assert.Equal(t, 1, store.Len())
}

type plainStore struct{ session.Store }

func TestManager_RevokeUser_Unsupported(t *testing.T) {
	t.Parallel()
	m := newManager(t, plainStore{session.NewMemoryStore(0)}, &clock{now: time.Now()})
	assert.ErrorIs(t, m.RevokeUser(context.Background(), uuid.New()), session.ErrCleanupUnsupported)
}

func TestManager_Middleware(t *testing.T) {
	t.Parallel()
	clk := &clock{now: time.Now()}
	store := session.NewMemoryStore(0)
	m := newManager(t, store, clk)
	ctx := context.Background()
	userID := uuid.New()

	w := httptest.NewRecorder()
	sess, err := m.Authenticate(ctx, w, httptest.NewRequest(http.MethodPost, "/", nil), userID)
	require.NoError(t, err)
	cookies := w.Result().Cookies()

	var seen uuid.UUID
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = session.UserIDFromContext(r.Context())
	}))

	t.Run("stores session in context", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWith(cookies))
		assert.Equal(t, userID, seen)
		assert.Empty(t, rec.Result().Cookies(), "no refresh before update age")
	})

	t.Run("slides expiry after update age", func(t *testing.T) {
		clk.Advance(25 * time.Hour)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWith(cookies))
		require.Len(t, rec.Result().Cookies(), 1)

		require.NoError(t, m.Close())
		stored, err := store.Get(ctx, sess.Token)
		require.NoError(t, err)
		assert.WithinDuration(t, clk.Now().Add(720*time.Hour), stored.ExpiresAt, time.Second)
	})

	t.Run("expired session passes through anonymous", func(t *testing.T) {
		clk.Advance(800 * time.Hour)
		seen = uuid.Nil
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWith(cookies))
		assert.Equal(t, uuid.Nil, seen)
	})
}

func TestManager_PanicsWithoutCookieManager(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { session.New() })
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg := session.DefaultConfig()
	assert.Equal(t, "sid", cfg.CookieName)
	assert.Equal(t, 720*time.Hour, cfg.IdleTimeout)
	assert.Equal(t, 24*time.Hour, cfg.UpdateAge)
	assert.Zero(t, cfg.MaxLifetime)
}
