package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// RegisteredClaims re-exports the RFC 7519 claim set so callers can embed it
// without importing golang-jwt directly.
type RegisteredClaims = gojwt.RegisteredClaims

// Claims is implemented by any claim set embedding RegisteredClaims.
type Claims = gojwt.Claims

// NewNumericDate wraps t for use in RegisteredClaims.
func NewNumericDate(t time.Time) *gojwt.NumericDate {
	return gojwt.NewNumericDate(t)
}

// Service signs and verifies HS256 tokens with a single shared secret.
type Service struct {
	signingKey []byte
	leeway     time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLeeway tolerates clock skew when checking exp/nbf/iat.
func WithLeeway(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.leeway = d
		}
	}
}

func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	s := &Service{signingKey: signingKey}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// Generate signs claims with HS256.
func (s *Service) Generate(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrInvalidClaims
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// Parse verifies tokenString and decodes it into claims, which must be a pointer.
// Any algorithm other than HS256 is rejected.
func (s *Service) Parse(tokenString string, claims Claims) error {
	if claims == nil {
		return ErrInvalidClaims
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
	}
	if s.leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(s.leeway))
	}

	token, err := gojwt.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (any, error) {
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		return mapError(err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	case errors.Is(err, gojwt.ErrTokenUnverifiable):
		return errors.Join(ErrInvalidSigningMethod, err)
	case errors.Is(err, gojwt.ErrTokenInvalidClaims), errors.Is(err, gojwt.ErrTokenRequiredClaimMissing):
		return errors.Join(ErrInvalidClaims, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
