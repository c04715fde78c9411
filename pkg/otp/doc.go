// Package otp issues and verifies short numeric one-time codes.
//
// A Service sends a code for an (email, Type) pair through a Sender and
// stores only its SHA-256 hash in a Store. Verification is single-use and
// limited to Config.MaxAttempts wrong guesses, after which the code is
// dropped and ErrTooManyAttempts is returned.
//
//	svc := otp.NewService(cfg, otp.NewRedisStore(rdb, "otp"), users, mailer)
//	if err := svc.Send(ctx, email, otp.TypeForgetPassword); errors.Is(err, otp.ErrUserNotFound) { ... }
//	err := svc.Verify(ctx, email, otp.TypeForgetPassword, code)
package otp
