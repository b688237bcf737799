package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"pawfinder/web/internal/models"
	"pawfinder/web/internal/repository"
	"pawfinder/web/internal/security"
)

type ProfileService struct {
	users    UserStore
	sessions SessionStore
	hasher   *security.Hasher
	validate *validator.Validate
	log      zerolog.Logger
}

func NewProfileService(users UserStore, sessions SessionStore, hasher *security.Hasher, validate *validator.Validate, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, sessions: sessions, hasher: hasher, validate: validate, log: log}
}

// ProfileInput holds the submitted edit. Empty fields are left unchanged.
type ProfileInput struct {
	Email     string `validate:"omitempty,email,max=254"`
	Password  string `validate:"omitempty,max=256,pwstrength"`
	FirstName string `validate:"max=100"`
	LastName  string `validate:"max=100"`
	Location  string `validate:"max=200"`
}

func (s *ProfileService) Get(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: load user: %w", ErrUpstream, err)
	}
	return user, nil
}

// Update overlays the non-empty fields of input onto the stored record and
// writes the result back. Concurrent edits for the same user are last-writer-wins.
func (s *ProfileService) Update(ctx context.Context, userID string, input ProfileInput) (models.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Location = strings.TrimSpace(input.Location)

	if err := s.validate.Struct(input); err != nil {
		return models.User{}, invalid(err)
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Location != "" {
		location := input.Location
		user.Location = &location
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserExists):
			return models.User{}, fmt.Errorf("%w: email already registered", ErrInvalidInput)
		case errors.Is(err, repository.ErrUserNotFound):
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: update user: %w", ErrUpstream, err)
	}

	user.PasswordHash = ""
	if err := s.sessions.ReplaceUser(ctx, user); err != nil {
		// The stored record is already updated; stale session copies only affect display.
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("refresh session user copy")
	}

	s.log.Info().Str("user_id", user.ID).Msg("profile updated")
	return user, nil
}
