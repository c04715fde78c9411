// Package session manages authenticated browser sessions.
//
// A Manager pairs a Store with a Transport. The default transport keeps a
// random 256-bit token in an encrypted cookie (see pkg/cookie). Sessions have
// a sliding expiry: IdleTimeout after the last recorded activity, optionally
// capped by MaxLifetime. Activity is recorded at most once per UpdateAge by a
// background worker, so most requests only read the store.
//
//	cookies, _ := cookie.New(secrets)
//	sessions := session.NewFromConfig(cfg,
//	    session.WithCookieManager(cookies),
//	    session.WithStore(session.NewRedisStore(rdb, cfg.RedisPrefix)),
//	)
//	defer sessions.Close()
//
//	r.Use(sessions.Middleware)
//
//	// after credentials are checked
//	if _, err := sessions.Authenticate(ctx, w, r, user.ID); err != nil { ... }
//
// MemoryStore and RedisStore both implement StoreWithCleanup, which backs
// Manager.RevokeUser.
package session
