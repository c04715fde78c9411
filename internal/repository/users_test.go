package repository_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/internal/repository"
	"github.com/dmitrymomot/authflow/pkg/auth"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type call struct {
	sql  string
	args []any
}

type fakeDB struct {
	calls []call
	tag   pgconn.CommandTag
	err   error
	row   fakeRow
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{sql: sql, args: args})
	return f.tag, f.err
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.calls = append(f.calls, call{sql: sql, args: args})
	return f.row
}

func userRow(u auth.User) fakeRow {
	return fakeRow{values: []any{u.ID, u.Email, u.Name, u.Avatar, u.AuthMethod, u.IsVerified, u.CreatedAt}}
}

var (
	duplicateErr = &pgconn.PgError{Code: "23505"}
	fkErr        = &pgconn.PgError{Code: "23503"}
)

func TestUsers_CreateUser(t *testing.T) {
	t.Parallel()

	user := &auth.User{
		ID:         uuid.New(),
		Email:      "jane@example.com",
		Name:       "Jane",
		AuthMethod: auth.MethodPassword,
		CreatedAt:  time.Now(),
	}

	t.Run("inserts", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{tag: pgconn.NewCommandTag("INSERT 0 1")}
		require.NoError(t, repository.NewUsers(db).CreateUser(context.Background(), user))
		require.Len(t, db.calls, 1)
		assert.Contains(t, db.calls[0].sql, "INSERT INTO users")
		assert.Equal(t, user.ID, db.calls[0].args[0])
		assert.Equal(t, "jane@example.com", db.calls[0].args[1])
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{err: duplicateErr}
		err := repository.NewUsers(db).CreateUser(context.Background(), user)
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})

	t.Run("driver error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		db := &fakeDB{err: boom}
		err := repository.NewUsers(db).CreateUser(context.Background(), user)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})
}

func TestUsers_GetUser(t *testing.T) {
	t.Parallel()

	want := auth.User{
		ID:         uuid.New(),
		Email:      "jane@example.com",
		Name:       "Jane",
		Avatar:     "https://example.com/a.png",
		AuthMethod: auth.MethodOAuthGoogle,
		IsVerified: true,
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("by email", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: userRow(want)}
		got, err := repository.NewUsers(db).GetUserByEmail(context.Background(), want.Email)
		require.NoError(t, err)
		assert.Equal(t, want, *got)
		assert.Equal(t, []any{want.Email}, db.calls[0].args)
	})

	t.Run("by id", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: userRow(want)}
		got, err := repository.NewUsers(db).GetUserByID(context.Background(), want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
	})

	t.Run("by oauth", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: userRow(want)}
		got, err := repository.NewUsers(db).GetUserByOAuth(context.Background(), auth.OAuthProviderGoogle, "g-1")
		require.NoError(t, err)
		assert.Equal(t, want.Email, got.Email)
		assert.Contains(t, db.calls[0].sql, "JOIN users")
		assert.Equal(t, []any{auth.OAuthProviderGoogle, "g-1"}, db.calls[0].args)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
		users := repository.NewUsers(db)

		_, err := users.GetUserByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		_, err = users.GetUserByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		_, err = users.GetUserByOAuth(context.Background(), "github", "1")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		db := &fakeDB{row: fakeRow{err: boom}}
		_, err := repository.NewUsers(db).GetUserByEmail(context.Background(), "x@example.com")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestUsers_UserExists(t *testing.T) {
	t.Parallel()

	db := &fakeDB{row: fakeRow{values: []any{true}}}
	exists, err := repository.NewUsers(db).UserExists(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	db = &fakeDB{row: fakeRow{values: []any{false}}}
	exists, err = repository.NewUsers(db).UserExists(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUsers_UpdatesReportMissingUser(t *testing.T) {
	t.Parallel()

	db := &fakeDB{tag: pgconn.NewCommandTag("UPDATE 0")}
	users := repository.NewUsers(db)
	assert.ErrorIs(t, users.MarkEmailVerified(context.Background(), uuid.New()), auth.ErrUserNotFound)

	db.tag = pgconn.NewCommandTag("DELETE 0")
	assert.ErrorIs(t, users.DeleteUser(context.Background(), uuid.New()), auth.ErrUserNotFound)

	db.tag = pgconn.NewCommandTag("UPDATE 1")
	assert.NoError(t, users.MarkEmailVerified(context.Background(), uuid.New()))

	db.tag = pgconn.NewCommandTag("DELETE 1")
	assert.NoError(t, users.DeleteUser(context.Background(), uuid.New()))
}

func TestUsers_PasswordHash(t *testing.T) {
	t.Parallel()

	t.Run("upsert", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{tag: pgconn.NewCommandTag("INSERT 0 1")}
		id := uuid.New()
		require.NoError(t, repository.NewUsers(db).StorePasswordHash(context.Background(), id, []byte("hash")))
		assert.True(t, strings.Contains(db.calls[0].sql, "ON CONFLICT (user_id) DO UPDATE"))
		assert.Equal(t, []any{id, []byte("hash")}, db.calls[0].args)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{err: fkErr}
		err := repository.NewUsers(db).StorePasswordHash(context.Background(), uuid.New(), []byte("hash"))
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("read", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: fakeRow{values: []any{[]byte("hash")}}}
		hash, err := repository.NewUsers(db).GetPasswordHash(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, []byte("hash"), hash)
	})

	t.Run("social account has no password", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
		_, err := repository.NewUsers(db).GetPasswordHash(context.Background(), uuid.New())
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestUsers_StoreOAuthLink(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("new or same user", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: fakeRow{values: []any{userID}}}
		err := repository.NewUsers(db).StoreOAuthLink(context.Background(), userID, auth.OAuthProviderGithub, "42")
		require.NoError(t, err)
		assert.Equal(t, []any{auth.OAuthProviderGithub, "42", userID}, db.calls[0].args)
	})

	t.Run("linked to another user", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: fakeRow{values: []any{uuid.New()}}}
		err := repository.NewUsers(db).StoreOAuthLink(context.Background(), userID, auth.OAuthProviderGithub, "42")
		assert.ErrorIs(t, err, auth.ErrProviderEmailInUse)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: fakeRow{err: fkErr}}
		err := repository.NewUsers(db).StoreOAuthLink(context.Background(), userID, auth.OAuthProviderGithub, "42")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}
