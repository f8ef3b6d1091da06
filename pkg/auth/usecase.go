package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const minPasswordLength = 6

// AuthUseCase describes registration, authentication and profile lookup.
type AuthUseCase interface {
	Register(ctx context.Context, name, email, password string) (User, error)
	Login(ctx context.Context, email, password string) (User, error)
	Profile(ctx context.Context, userID uuid.UUID) (User, error)
}

type authService struct {
	repo   UserRepository
	hasher PasswordHasher
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, hasher PasswordHasher) AuthUseCase {
	return &authService{repo: repo, hasher: hasher}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (User, error) {
	if err := validateRegistration(name, email, password); err != nil {
		return User{}, err
	}

	// Hash here, before the store is involved; the write path stays dumb.
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(ctx, strings.TrimSpace(name), strings.TrimSpace(email), passwordHash)
}

func (s *authService) Login(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// Uniform failure: do not reveal whether the email exists. Store
		// outages keep their own error and surface as 500, not 401.
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, userID)
}

func validateRegistration(name, email, password string) error {
	fields := map[string]string{}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "name is required"
	}
	email = strings.TrimSpace(email)
	if email == "" {
		fields["email"] = "email is required"
	} else if !looksLikeEmail(email) {
		fields["email"] = "email is not a valid address"
	}
	if password == "" {
		fields["password"] = "password is required"
	} else if len(password) < minPasswordLength {
		fields["password"] = "password must be at least 6 characters"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return !strings.ContainsAny(s, " \t")
}
