package services

import (
	"context"
	"errors"
	"strings"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/auth"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

const minPasswordLength = 6

type Credentials struct {
	store  *repository.Store
	tokens *auth.TokenIssuer
	log    zerolog.Logger
}

func NewCredentials(store *repository.Store, tokens *auth.TokenIssuer, log zerolog.Logger) *Credentials {
	return &Credentials{store: store, tokens: tokens, log: log}
}

// Register creates the user and returns a session token for it.
func (s *Credentials) Register(ctx context.Context, name, email, password string) (token string, err error) {
	ctx, span := tracer.Start(ctx, "Credentials.Register")
	defer func() {
		recordAuthAttempt("register", err == nil)
		endSpan(span, err)
	}()

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	switch {
	case name == "":
		return "", apperr.Validation("Name is required")
	case email == "":
		return "", apperr.Validation("Email is required")
	case len(password) < minPasswordLength:
		return "", apperr.Validation("Password must be at least 6 characters")
	}

	_, err = s.store.Users.ByEmail(ctx, email)
	if err == nil {
		return "", apperr.Conflict("Email already exists")
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return "", err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err = s.store.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return "", apperr.Conflict("Email already exists")
		}
		return "", err
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.log.Info().Str("user_id", user.ID).Msg("user registered")

	return s.tokens.GenerateJWT(user.ID)
}

// Login answers unknown email and wrong password with the same error.
func (s *Credentials) Login(ctx context.Context, email, password string) (token string, err error) {
	ctx, span := tracer.Start(ctx, "Credentials.Login")
	defer func() {
		recordAuthAttempt("login", err == nil)
		endSpan(span, err)
	}()

	user, err := s.store.Users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			auth.CheckDummyPassword(password)
			return "", apperr.ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", apperr.ErrInvalidCredentials
	}

	return s.tokens.GenerateJWT(user.ID)
}

// Authenticate verifies a bearer token and yields the caller's user id. It
// never touches storage.
func (s *Credentials) Authenticate(token string) (string, error) {
	return s.tokens.VerifyJWT(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
