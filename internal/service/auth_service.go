package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pawfinder/web/internal/ids"
	"pawfinder/web/internal/metrics"
	"pawfinder/web/internal/models"
	"pawfinder/web/internal/repository"
	"pawfinder/web/internal/security"
)

type AuthService struct {
	users         UserStore
	sessions      SessionStore
	hasher        *security.Hasher
	validate      *validator.Validate
	sessionSecret string
	sessionTTL    time.Duration
	log           zerolog.Logger
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	hasher *security.Hasher,
	validate *validator.Validate,
	sessionSecret string,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		sessions:      sessions,
		hasher:        hasher,
		validate:      validate,
		sessionSecret: sessionSecret,
		sessionTTL:    sessionTTL,
		log:           log,
	}
}

type RegisterInput struct {
	Email     string `validate:"required,email,max=254"`
	Password  string `validate:"required,max=256,pwstrength"`
	FirstName string `validate:"max=100"`
	LastName  string `validate:"max=100"`
	Location  string `validate:"max=200"`
}

// Register validates the input, hashes the password and stores a new user.
// Nothing is written when validation fails.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Location = strings.TrimSpace(input.Location)

	if err := s.validate.Struct(input); err != nil {
		metrics.AuthAttempts.WithLabelValues("register", metrics.OutcomeInvalid).Inc()
		return models.User{}, invalid(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if input.Location != "" {
		user.Location = &input.Location
	}

	if err := s.users.Create(ctx, user); err != nil {
		metrics.AuthAttempts.WithLabelValues("register", metrics.OutcomeFailure).Inc()
		if errors.Is(err, repository.ErrUserExists) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("%w: create user: %w", ErrUpstream, err)
	}

	metrics.AuthAttempts.WithLabelValues("register", metrics.OutcomeSuccess).Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type LoginResult struct {
	Session models.Session
	// Token is the signed cookie value naming Session.
	Token string
}

// Login verifies the credential pair and opens a session. Unknown email and
// wrong password both return ErrAuthenticationFailed.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", metrics.OutcomeFailure).Inc()
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.VerifyDummy(input.Password)
			return LoginResult{}, ErrAuthenticationFailed
		}
		return LoginResult{}, fmt.Errorf("%w: find user: %w", ErrUpstream, err)
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("stored password hash unreadable")
	}
	if err != nil || !ok {
		metrics.AuthAttempts.WithLabelValues("login", metrics.OutcomeFailure).Inc()
		return LoginResult{}, ErrAuthenticationFailed
	}

	now := time.Now().UTC()
	user.PasswordHash = ""
	session := models.Session{
		ID:        ids.New(),
		User:      user,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token, err := security.GenerateSessionToken(s.sessionSecret, session.ID, user.ID, s.sessionTTL)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, fmt.Errorf("%w: create session: %w", ErrUpstream, err)
	}

	metrics.AuthAttempts.WithLabelValues("login", metrics.OutcomeSuccess).Inc()
	s.log.Info().Str("user_id", user.ID).Str("session_id", session.ID).Msg("login")
	return LoginResult{Session: session, Token: token}, nil
}

// Authenticate resolves a cookie value to its live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrNotAuthenticated
	}

	claims, err := security.ParseSessionToken(token, s.sessionSecret)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.Session{}, ErrNotAuthenticated
		}
		return models.Session{}, fmt.Errorf("%w: load session: %w", ErrUpstream, err)
	}

	if session.User.ID != claims.Subject {
		return models.Session{}, ErrNotAuthenticated
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	err := s.sessions.DeleteByID(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return fmt.Errorf("%w: delete session: %w", ErrUpstream, err)
	}
	return nil
}
