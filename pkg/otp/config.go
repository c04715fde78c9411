package otp

import "time"

// Config is loaded from the environment via pkg/config.
type Config struct {
	Length      int           `env:"OTP_LENGTH" envDefault:"6"`
	TTL         time.Duration `env:"OTP_TTL" envDefault:"5m"`
	MaxAttempts int           `env:"OTP_MAX_ATTEMPTS" envDefault:"3"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{Length: 6, TTL: 5 * time.Minute, MaxAttempts: 3}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Length <= 0 {
		c.Length = d.Length
	}
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	return c
}
