// Package repository persists accounts in PostgreSQL and OAuth state in Redis.
//
// Users implements auth.PasswordStorage, auth.VerificationStorage,
// auth.OAuthStorage and otp.UserLookup on top of any pgx connection
// (a *pgxpool.Pool in production). Driver errors are translated to auth
// sentinels: missing rows become auth.ErrUserNotFound and unique email
// violations become auth.ErrEmailAlreadyExists.
package repository
