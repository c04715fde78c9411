package otp

import "errors"

var (
	ErrUserNotFound     = errors.New("otp: user not found")
	ErrInvalidCode      = errors.New("otp: invalid code")
	ErrExpired          = errors.New("otp: code expired")
	ErrTooManyAttempts  = errors.New("otp: too many attempts")
	ErrInvalidType      = errors.New("otp: unknown type")
	ErrDeliveryFailed   = errors.New("otp: delivery failed")
	ErrStoreUnavailable = errors.New("otp: store unavailable")
)
