package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
)

// AuthServiceProvider defines the interface for authentication services.
type AuthServiceProvider interface {
	Register(ctx context.Context, name, email, password string) (models.User, error)
	ValidateCredentials(ctx context.Context, email, password string) (*models.SafeUser, error)
	Authenticate(ctx context.Context, email, password string) (string, models.SafeUser, error)
	GetCurrentUser(ctx context.Context, principal models.Principal) (models.EnrichedUser, error)
	UpdateCurrentUser(ctx context.Context, principal models.Principal, params repository.UpdateUserParams) (models.EnrichedUser, error)
}

// AuthService orchestrates registration, login and current-user enrichment.
type AuthService struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	tokens *auth.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tasks repository.TaskRepository, tokens *auth.Manager) *AuthService {
	return &AuthService{users: users, tasks: tasks, tokens: tokens}
}

// Register hashes the password and persists a new user. A duplicate email
// surfaces as models.ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ValidateCredentials looks up the user by email and compares passwords.
// A missing user or a mismatch both return nil, nil: "no match" is not an error.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*models.SafeUser, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	safe := user.Safe()
	return &safe, nil
}

// Authenticate validates credentials and issues a signed token embedding the
// user id and email.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, models.SafeUser, error) {
	user, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return "", models.SafeUser{}, err
	}
	if user == nil {
		return "", models.SafeUser{}, models.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(*user)
	if err != nil {
		return "", models.SafeUser{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, *user, nil
}

// GetCurrentUser looks up the principal's user and enriches it with aggregate
// task counts.
func (s *AuthService) GetCurrentUser(ctx context.Context, principal models.Principal) (models.EnrichedUser, error) {
	user, err := s.users.FindByEmail(ctx, principal.Email)
	if err != nil {
		return models.EnrichedUser{}, err
	}
	if user == nil {
		return models.EnrichedUser{}, models.ErrNotFound
	}
	return s.enrich(ctx, user.Safe())
}

// UpdateCurrentUser applies a partial profile update and returns the re-fetched,
// re-enriched user. Email conflicts surface as models.ErrDuplicateEmail.
func (s *AuthService) UpdateCurrentUser(ctx context.Context, principal models.Principal, params repository.UpdateUserParams) (models.EnrichedUser, error) {
	user, err := s.users.FindByEmail(ctx, principal.Email)
	if err != nil {
		return models.EnrichedUser{}, err
	}
	if user == nil {
		return models.EnrichedUser{}, models.ErrNotFound
	}

	updated, err := s.users.Update(ctx, user.ID, params)
	if err != nil {
		return models.EnrichedUser{}, err
	}
	if updated == nil {
		return models.EnrichedUser{}, models.ErrNotFound
	}
	return s.enrich(ctx, updated.Safe())
}

func (s *AuthService) enrich(ctx context.Context, user models.SafeUser) (models.EnrichedUser, error) {
	total, completed, err := s.tasks.CountByOwner(ctx, user.ID)
	if err != nil {
		return models.EnrichedUser{}, err
	}
	return models.EnrichedUser{SafeUser: user, TotalTasks: total, CompletedTasks: completed}, nil
}
