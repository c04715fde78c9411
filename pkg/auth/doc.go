// Package auth implements the account side of the sign-in flows: email and
// password accounts, email verification links, OTP password reset and
// Google/GitHub sign-in.
//
// Services depend on small storage interfaces (PasswordStorage,
// VerificationStorage, OAuthStorage, StateStore) so the HTTP layer and the
// database layer can be swapped independently. Errors are package sentinels;
// callers map them to user-facing messages:
//
//	user, err := passwords.Authenticate(ctx, email, password)
//	switch {
//	case errors.Is(err, auth.ErrInvalidCredentials):
//	case errors.Is(err, auth.ErrEmailNotVerified):
//		_ = verifier.SendVerification(ctx, user, callbackURL)
//	}
//
// Passwords are hashed with bcrypt and must be 8 to 128 characters long.
// Verification links carry an HS256 JWT with subject "email_verify" that is
// valid for one hour.
package auth
