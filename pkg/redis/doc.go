// Package redis connects to Redis through go-redis/v9 with retries and
// exposes a readiness check. The client backs sessions, OTP codes and OAuth
// state.
//
//	rdb, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer rdb.Close()
package redis
