package auth

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password does not meet security requirements")
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	// ErrAlreadyVerified is returned with the user when a link is redeemed
	// for an address that is already confirmed.
	ErrAlreadyVerified = errors.New("email already verified")
)

var (
	ErrUnknownProvider    = errors.New("unknown OAuth provider")
	ErrInvalidState       = errors.New("invalid OAuth state")
	ErrStateNotFound      = errors.New("OAuth state not found or expired")
	ErrInvalidCode        = errors.New("invalid OAuth code")
	ErrUnverifiedEmail    = errors.New("email not verified by provider")
	ErrNoPrimaryEmail     = errors.New("no primary email from provider")
	ErrProviderEmailInUse = errors.New("email from provider already registered")
)
