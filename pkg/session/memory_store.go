package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. Use it for development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]Session
	done      chan struct{}
	stopped   sync.WaitGroup
	closeOnce sync.Once
	now       func() time.Time
}

var _ StoreWithCleanup = (*MemoryStore)(nil)

// NewMemoryStore creates the store and, for a positive interval, a goroutine
// purging expired sessions.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]Session),
		done:     make(chan struct{}),
		now:      time.Now,
	}
	if cleanupInterval > 0 {
		s.stopped.Add(1)
		go s.cleanupLoop(time.NewTicker(cleanupInterval))
	}
	return s
}

func (s *MemoryStore) Create(_ context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = *session
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrSessionExpired
	}
	return &session, nil
}

func (s *MemoryStore) Touch(_ context.Context, token string, lastActivity, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}
	session.LastActivityAt = lastActivity
	session.ExpiresAt = expiresAt
	s.sessions[token] = session
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

// DeleteExpired purges sessions past their expiry.
func (s *MemoryStore) DeleteExpired() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, token)
		}
	}
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the cleanup goroutine and waits for it to exit. It is safe to
// call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	s.stopped.Wait()
	return nil
}

func (s *MemoryStore) cleanupLoop(ticker *time.Ticker) {
	defer s.stopped.Done()
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.DeleteExpired()
		case <-s.done:
			return
		}
	}
}
