package memory

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
)

// UserRepo is the in-memory UserRepository.
type UserRepo struct {
	s *Store
}

// Create persists a new user, rejecting duplicate emails.
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return models.ErrDuplicateEmail
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

// FindByEmail returns the user with the given email, or nil if absent.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

// FindByID returns the user with the given id, or nil if absent.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if user, ok := r.s.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

// Update applies a partial profile update.
func (r *UserRepo) Update(ctx context.Context, id string, params repository.UpdateUserParams) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	if params.Email != nil {
		for otherID, other := range r.s.users {
			if otherID != id && other.Email == *params.Email {
				return nil, models.ErrDuplicateEmail
			}
		}
		user.Email = *params.Email
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	user.UpdatedAt = time.Now().UTC()
	r.s.users[id] = user
	return &user, nil
}
