package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/otp"
	"github.com/dmitrymomot/authflow/pkg/pg"
)

var (
	_ auth.PasswordStorage     = (*Users)(nil)
	_ auth.VerificationStorage = (*Users)(nil)
	_ auth.OAuthStorage        = (*Users)(nil)
	_ otp.UserLookup           = (*Users)(nil)
	_ auth.StateStore          = (*OAuthStateStore)(nil)
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Users struct {
	db DBTX
}

func NewUsers(db DBTX) *Users {
	return &Users{db: db}
}

const userColumns = `u.id, u.email, u.name, u.avatar, u.auth_method, u.email_verified, u.created_at`

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.AuthMethod, &u.IsVerified, &u.CreatedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Users) CreateUser(ctx context.Context, user *auth.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, name, avatar, auth_method, email_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		user.ID, user.Email, user.Name, user.Avatar, user.AuthMethod, user.IsVerified, user.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Users) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, err
}

func (r *Users) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email))
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, err
}

// UserExists reports whether an account is registered for email.
func (r *Users) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// DeleteUser removes the user; passwords and OAuth links cascade.
func (r *Users) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (r *Users) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// StorePasswordHash sets or replaces the user's password hash.
func (r *Users) StorePasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_passwords (user_id, password_hash, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = NOW()`,
		userID, hash,
	)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return auth.ErrUserNotFound
		}
		return fmt.Errorf("store password hash: %w", err)
	}
	return nil
}

// GetPasswordHash returns auth.ErrUserNotFound for accounts without a password.
func (r *Users) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var hash []byte
	err := r.db.QueryRow(ctx,
		`SELECT password_hash FROM user_passwords WHERE user_id = $1`, userID,
	).Scan(&hash)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

// StoreOAuthLink is idempotent for the same user. A provider account that is
// already linked elsewhere yields auth.ErrProviderEmailInUse.
func (r *Users) StoreOAuthLink(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error {
	var linked uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO oauth_links (provider, provider_user_id, user_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (provider, provider_user_id) DO UPDATE SET provider = EXCLUDED.provider
		 RETURNING user_id`,
		provider, providerUserID, userID,
	).Scan(&linked)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return auth.ErrUserNotFound
		}
		return fmt.Errorf("store oauth link: %w", err)
	}
	if linked != userID {
		return auth.ErrProviderEmailInUse
	}
	return nil
}

func (r *Users) GetUserByOAuth(ctx context.Context, provider, providerUserID string) (*auth.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM oauth_links l JOIN users u ON u.id = l.user_id
		 WHERE l.provider = $1 AND l.provider_user_id = $2`,
		provider, providerUserID))
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		return nil, fmt.Errorf("get user by oauth: %w", err)
	}
	return user, err
}
