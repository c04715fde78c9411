package ratelimiter

import (
	"hash/fnv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/authflow/pkg/clientip"
	"github.com/dmitrymomot/authflow/pkg/logger"
)

const maxKeyLength = 64

// KeyFunc extracts a rate limit key from the request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByIP keys on the client IP resolved by pkg/clientip.
func ByIP() KeyFunc {
	return func(r *http.Request) string {
		if ip := clientip.GetIPFromContext(r.Context()); ip != "" {
			return ip
		}
		return clientip.GetIP(r)
	}
}

// ByRoute keys on method and path, so each action gets its own bucket.
func ByRoute() KeyFunc {
	return func(r *http.Request) string {
		return r.Method + " " + r.URL.Path
	}
}

// ByFormValue keys on a submitted form field, trimmed and lowercased. It
// parses the form, so binders that run later see the same values. Requests
// without the field get an empty key.
func ByFormValue(field string) KeyFunc {
	return func(r *http.Request) string {
		v := strings.ToLower(strings.TrimSpace(r.PostFormValue(field)))
		if v == "" {
			return ""
		}
		return field + "=" + v
	}
}

// Required is Composite that yields an empty key, and so skips limiting,
// when any part is empty.
func Required(keyFuncs ...KeyFunc) KeyFunc {
	composite := Composite(keyFuncs...)
	return func(r *http.Request) string {
		for _, fn := range keyFuncs {
			if fn(r) == "" {
				return ""
			}
		}
		return composite(r)
	}
}

// Composite joins keys with ":" and hashes results longer than 64 bytes.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			h := fnv.New64a()
			_, _ = h.Write([]byte(combined))
			return strconv.FormatUint(h.Sum64(), 36)
		}
		return combined
	}
}

type middlewareConfig struct {
	denied http.Handler
	logger *slog.Logger
	now    func() time.Time
}

type MiddlewareOption func(*middlewareConfig)

// WithDeniedHandler renders the response for limited requests. Rate limit
// headers are already set when it runs.
func WithDeniedHandler(h http.Handler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.denied = h
		}
	}
}

func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Middleware limits requests per key. Store failures let the request through
// and are logged.
func Middleware(limiter RateLimiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		denied: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				cfg.logger.WarnContext(r.Context(), "rate limiter unavailable",
					logger.Component("ratelimiter"),
					logger.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retry := int(result.RetryAfter(cfg.now()).Seconds()); retry > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retry))
				}
				cfg.logger.WarnContext(r.Context(), "rate limit exceeded",
					logger.Component("ratelimiter"),
					slog.String("path", r.URL.Path),
				)
				cfg.denied.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
