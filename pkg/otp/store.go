package otp

import (
	"context"
	"time"
)

// Record is what a Store keeps for one (type, email) pair. Only the SHA-256
// of the code is stored.
type Record struct {
	Hash      [32]byte  `json:"hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

// Store persists pending codes.
//
// Save replaces any existing record under key. Consume compares hash with the
// stored one: on a match the record is deleted; on a mismatch Attempts is
// incremented and the record is deleted once it reaches maxAttempts.
// Consume returns ErrInvalidCode, ErrExpired or ErrTooManyAttempts.
type Store interface {
	Save(ctx context.Context, key string, rec Record) error
	Consume(ctx context.Context, key string, hash [32]byte, maxAttempts int) error
}

// check applies the consume rules to rec at now and reports whether the
// record must be deleted. The returned record carries the updated counter.
func check(rec Record, hash [32]byte, maxAttempts int, now time.Time) (Record, bool, error) {
	if !now.Before(rec.ExpiresAt) {
		return rec, true, ErrExpired
	}
	if !equalHash(rec.Hash, hash) {
		rec.Attempts++
		if rec.Attempts >= maxAttempts {
			return rec, true, ErrTooManyAttempts
		}
		return rec, false, ErrInvalidCode
	}
	return rec, true, nil
}
