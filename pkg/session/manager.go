package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authflow/pkg/clientip"
	"github.com/dmitrymomot/authflow/pkg/cookie"
	"github.com/dmitrymomot/authflow/pkg/logger"
)

// Manager issues, resolves and revokes sessions.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
	logger        *slog.Logger
	now           func() time.Time

	touches   chan touch
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type touch struct {
	token     string
	at        time.Time
	expiresAt time.Time
}

// New creates a session manager. It panics when neither a transport nor a
// cookie manager is configured.
func New(opts ...Option) *Manager {
	m := &Manager{
		config:  DefaultConfig(),
		logger:  logger.Discard(),
		now:     time.Now,
		touches: make(chan touch, 1000),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}
	if m.transport == nil {
		if m.cookieManager == nil {
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	m.wg.Add(1)
	go m.touchWorker()

	return m
}

// Get resolves the session carried by the request.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(m.now()) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Authenticate starts a session for userID. Any session already carried by
// the request is deleted so the token always rotates on sign-in.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*Session, error) {
	if old, err := m.transport.GetToken(r); err == nil {
		if err := m.store.Delete(ctx, old); err != nil {
			m.logger.WarnContext(ctx, "failed to delete previous session", logger.Error(err))
		}
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	session := &Session{
		ID:             uuid.New(),
		Token:          token,
		UserID:         userID,
		IPAddress:      clientip.GetIP(r),
		UserAgent:      r.UserAgent(),
		ExpiresAt:      m.config.expiry(now, now),
		LastActivityAt: now,
		CreatedAt:      now,
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := m.transport.SetToken(w, token, session.ExpiresAt.Sub(now)); err != nil {
		_ = m.store.Delete(ctx, token)
		return nil, err
	}

	return session, nil
}

// Destroy deletes the request's session and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil {
		if err := m.store.Delete(ctx, token); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}
	return m.transport.ClearToken(w)
}

// RevokeUser deletes every session of the user.
func (m *Manager) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	cleaner, ok := m.store.(StoreWithCleanup)
	if !ok {
		return ErrCleanupUnsupported
	}
	return cleaner.DeleteByUserID(ctx, userID)
}

// Middleware stores a valid session in the request context and slides its
// expiry once per UpdateAge. Requests without a session pass through.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.Get(r.Context(), r)
		if err != nil {
			if errors.Is(err, ErrSessionExpired) {
				_ = m.transport.ClearToken(w)
			}
			next.ServeHTTP(w, r)
			return
		}

		if now := m.now(); now.Sub(session.LastActivityAt) >= m.config.UpdateAge {
			session.LastActivityAt = now
			session.ExpiresAt = m.config.expiry(session.CreatedAt, now)
			m.queueTouch(touch{token: session.Token, at: now, expiresAt: session.ExpiresAt})
			if err := m.transport.SetToken(w, session.Token, session.ExpiresAt.Sub(now)); err != nil {
				m.logger.WarnContext(r.Context(), "failed to refresh session cookie", logger.Error(err))
			}
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func (m *Manager) queueTouch(t touch) {
	select {
	case m.touches <- t:
	default:
		// Full: the next request after UpdateAge retries.
	}
}

func (m *Manager) touchWorker() {
	defer m.wg.Done()
	apply := func(t touch) {
		if err := m.store.Touch(context.Background(), t.token, t.at, t.expiresAt); err != nil && !errors.Is(err, ErrSessionNotFound) {
			m.logger.Warn("failed to record session activity", logger.Component("session"), logger.Error(err))
		}
	}
	for {
		select {
		case t := <-m.touches:
			apply(t)
		case <-m.done:
			for {
				select {
				case t := <-m.touches:
					apply(t)
				default:
					return
				}
			}
		}
	}
}

// Close drains pending activity updates and stops the worker.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	m.wg.Wait()
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
