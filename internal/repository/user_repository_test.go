package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawfinder/web/internal/models"
)

var userColumns = []string{"id", "email", "password_hash", "first_name", "last_name", "location", "created_at", "updated_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func strPtr(s string) *string { return &s }

func sampleUser() models.User {
	return models.User{
		ID:           "9d5f1c2e-3f59-4a4e-9c43-0c4a3c5f6d11",
		Email:        "a@b.com",
		PasswordHash: "$argon2id$hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Location:     strPtr("Boulder, CO"),
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	user := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Location).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), user))
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	user := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Location).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	assert.ErrorIs(t, repo.Create(context.Background(), user), ErrUserExists)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	want := sampleUser()
	now := time.Now().UTC().Truncate(time.Second)
	want.CreatedAt, want.UpdatedAt = now, now

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("a@b.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(want.ID, want.Email, want.PasswordHash, want.FirstName, want.LastName, want.Location, now, now))

	got, err := repo.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUserRepository_FindByEmailNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("missing@b.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "missing@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_GetByIDPropagatesErrors(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	boom := errors.New("connection reset")

	mock.ExpectQuery("FROM users WHERE id = ").
		WithArgs("id-1").
		WillReturnError(boom)

	_, err := repo.GetByID(context.Background(), "id-1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_UpdateWritesAllColumns(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	user := sampleUser()

	mock.ExpectExec("UPDATE users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Location).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), user))
}

func TestUserRepository_UpdateMissingUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	user := sampleUser()

	mock.ExpectExec("UPDATE users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Location).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.Update(context.Background(), user), ErrUserNotFound)
}

func TestUserRepository_UpdateEmailTaken(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	user := sampleUser()

	mock.ExpectExec("UPDATE users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Location).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	assert.ErrorIs(t, repo.Update(context.Background(), user), ErrUserExists)
}
