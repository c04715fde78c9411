package session

import "time"

// Config holds session configuration.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// IdleTimeout is how long a session survives without activity.
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"720h"`

	// MaxLifetime caps a session regardless of activity. Zero disables the cap.
	MaxLifetime time.Duration `env:"SESSION_MAX_LIFETIME" envDefault:"0"`

	// UpdateAge is the minimum time between expiry extensions.
	UpdateAge time.Duration `env:"SESSION_UPDATE_AGE" envDefault:"24h"`

	// CleanupInterval for the memory store (0 to disable).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	RedisPrefix string `env:"SESSION_REDIS_PREFIX" envDefault:"session"`
}

func DefaultConfig() Config {
	return Config{
		CookieName:      "sid",
		IdleTimeout:     30 * 24 * time.Hour,
		UpdateAge:       24 * time.Hour,
		CleanupInterval: 5 * time.Minute,
		RedisPrefix:     "session",
	}
}

// expiry returns the next expiry: now plus idle, capped by the max lifetime.
func (c Config) expiry(createdAt, now time.Time) time.Time {
	exp := now.Add(c.IdleTimeout)
	if c.MaxLifetime > 0 {
		if limit := createdAt.Add(c.MaxLifetime); limit.Before(exp) {
			return limit
		}
	}
	return exp
}

// NewFromConfig creates a Manager from cfg. Store and cookie manager come via options.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}
