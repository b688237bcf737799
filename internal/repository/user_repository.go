package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pawfinder/web/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name, location, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Location,
	)
	if isPgError(err, pgUniqueViolation) {
		return ErrUserExists
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, email, password_hash, first_name, last_name, location, created_at, updated_at
		FROM users WHERE email = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `
		SELECT id, email, password_hash, first_name, last_name, location, created_at, updated_at
		FROM users WHERE id = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// Update writes every mutable column of user back in a single statement.
func (r *UserRepository) Update(ctx context.Context, user models.User) error {
	const query = `
		UPDATE users
		SET email = $2,
		    password_hash = $3,
		    first_name = $4,
		    last_name = $5,
		    location = $6,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Location,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrUserExists
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Location,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
