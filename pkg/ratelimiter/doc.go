// Package ratelimiter implements token bucket rate limiting with memory and
// Redis stores and an HTTP middleware.
//
// A bucket holds up to Capacity tokens and gains RefillRate tokens every
// RefillInterval. Each request takes one token; a request that finds too few
// tokens is denied without taking any.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(rdb, cfg.RedisPrefix), cfg)
//	if err != nil {
//	    return err
//	}
//	r.With(ratelimiter.Middleware(limiter,
//	    ratelimiter.Composite(ratelimiter.ByIP(), ratelimiter.ByRoute()),
//	)).Post("/sign-in", signIn)
package ratelimiter
