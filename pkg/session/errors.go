package session

import "errors"

var (
	ErrSessionNotFound    = errors.New("session.not_found")
	ErrSessionExpired     = errors.New("session.expired")
	ErrInvalidSession     = errors.New("session.invalid")
	ErrTokenGeneration    = errors.New("session.token_generation_failed")
	ErrCleanupUnsupported = errors.New("session.cleanup_unsupported")
	ErrStoreUnavailable   = errors.New("session.store_unavailable")
)
