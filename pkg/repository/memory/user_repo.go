package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artemv/authcore/pkg/auth"
)

// UserRepository is an in-memory auth.UserRepository. It backs the test
// suite and the DB-less dev mode (no DATABASE_URL configured).
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]auth.User
	byID    map[uuid.UUID]auth.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byEmail: make(map[string]auth.User),
		byID:    make(map[uuid.UUID]auth.User),
	}
}

func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (auth.User, error) {
	email = strings.ToLower(email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; ok {
		return auth.User{}, auth.ErrUserAlreadyExists
	}

	now := time.Now().UTC()
	user := auth.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byEmail[email] = user
	r.byID[user.ID] = user
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return user, nil
}

// Delete removes a user; used to exercise the stale-session edge case.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, id)
	}
}
