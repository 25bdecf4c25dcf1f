package repository

import (
	"context"
	"sync"
	"time"

	"parkwatch/internal/domain"

	"github.com/google/uuid"
)

// MemoryUsersRepo supports unit tests and DB-less local runs.
type MemoryUsersRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User // userID -> user
}

func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{users: map[string]domain.User{}}
}

var _ UsersRepository = (*MemoryUsersRepo)(nil)

func (r *MemoryUsersRepo) CreateUser(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Phone == user.Phone {
			return "", domain.ErrValidation
		}
	}

	id := uuid.NewString()
	stored := *user
	stored.UserID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.users[id] = stored
	return id, nil
}

func (r *MemoryUsersRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUsersRepo) GetUserByPhone(_ context.Context, phone string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Phone == phone {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryUsersRepo) UpdateProfile(_ context.Context, userID string, name, phone *string, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if phone != nil {
		u.Phone = *phone
	}
	if len(passwordHash) > 0 {
		u.PasswordHash = passwordHash
	}
	r.users[userID] = u
	return nil
}
