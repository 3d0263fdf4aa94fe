package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck-be/internal/models"
)

// SQLiteUserRepository is the sqlite-backed UserRepository.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create persists a new user.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return models.ErrDuplicateEmail
	}
	return err
}

// FindByEmail returns the user with the given email, or nil if absent.
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByID returns the user with the given id, or nil if absent.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *SQLiteUserRepository) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE "+where, arg)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial profile update and returns the updated user.
func (r *SQLiteUserRepository) Update(ctx context.Context, id string, params UpdateUserParams) (*models.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if params.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *params.Name)
	}
	if params.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *params.Email)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if isUniqueViolation(err) {
		return nil, models.ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}
