// Package repository defines the persistence interfaces, one per entity.
// Every task/tag/event query is owner-scoped: rows belonging to another user
// are indistinguishable from rows that do not exist.
package repository

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck-be/internal/models"
)

// CreateTaskParams carries the fields of a new task.
type CreateTaskParams struct {
	Title       string
	Description string
	Priority    models.Priority
	Deadline    *time.Time
	TagIDs      []string
}

// UpdateTaskParams carries a partial task update. Nil fields are untouched.
// A non-nil TagIDs replaces the full association set.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	Completed   *bool
	Deadline    *time.Time
	TagIDs      []string
}

// ListTasksParams carries pagination, ordering and the optional tag filter.
type ListTasksParams struct {
	Limit  int
	Offset int
	Order  models.TaskOrder
	TagID  string
}

// CreateTagParams carries the fields of a new tag.
type CreateTagParams struct {
	Name  string
	Color *string
}

// UpdateTagParams carries a partial tag update. Nil fields are untouched.
type UpdateTagParams struct {
	Name  *string
	Color *string
}

// UpdateUserParams carries a partial profile update. Nil fields are untouched.
type UpdateUserParams struct {
	Name  *string
	Email *string
}

// UserRepository persists user accounts.
type UserRepository interface {
	// Create persists a new user. A unique-constraint violation on email is
	// surfaced as models.ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) error

	// FindByEmail returns the user with the given email, or nil if absent.
	// The returned user includes the password hash.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID returns the user with the given id, or nil if absent.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// Update applies a partial profile update and returns the updated user,
	// or nil if the user does not exist. Email conflicts surface as
	// models.ErrDuplicateEmail.
	Update(ctx context.Context, id string, params UpdateUserParams) (*models.User, error)
}

// TaskRepository persists tasks and their tag associations.
type TaskRepository interface {
	// ListByOwner returns the owner's tasks with pagination, ordering and the
	// optional tag filter applied in the query.
	ListByOwner(ctx context.Context, ownerID string, params ListTasksParams) ([]models.Task, error)

	// FindByID returns the task matching both id and owner, or nil.
	FindByID(ctx context.Context, id, ownerID string) (*models.Task, error)

	// Create persists a new task. Tag associations connect to existing tags of
	// the same owner only; unknown or foreign ids are skipped.
	Create(ctx context.Context, params CreateTaskParams, ownerID string) (*models.Task, error)

	// Update applies a partial update to the task matching both id and owner
	// and returns the updated task, or nil if no row matches.
	Update(ctx context.Context, id string, params UpdateTaskParams, ownerID string) (*models.Task, error)

	// Delete removes the task matching both id and owner and returns it,
	// or nil if no row matches.
	Delete(ctx context.Context, id, ownerID string) (*models.Task, error)

	// CountByOwner returns the owner's total and completed task counts.
	CountByOwner(ctx context.Context, ownerID string) (total, completed int, err error)

	// ListDueSoon returns incomplete, not-yet-reminded tasks across all owners
	// whose deadline falls within the given window from now.
	ListDueSoon(ctx context.Context, within time.Duration) ([]models.Task, error)

	// MarkReminded records that a deadline reminder was emitted for the task.
	MarkReminded(ctx context.Context, id string) error
}

// TagRepository persists tags.
type TagRepository interface {
	// ListByOwner returns the owner's tags, alphabetical by name.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error)

	// FindByID returns the tag matching both id and owner, or nil.
	FindByID(ctx context.Context, id, ownerID string) (*models.Tag, error)

	// Create persists a new tag.
	Create(ctx context.Context, params CreateTagParams, ownerID string) (*models.Tag, error)

	// Update applies a partial update to the tag matching both id and owner
	// and returns the updated tag, or nil if no row matches.
	Update(ctx context.Context, id string, params UpdateTagParams, ownerID string) (*models.Tag, error)

	// Delete removes the tag matching both id and owner and returns it,
	// or nil if no row matches.
	Delete(ctx context.Context, id, ownerID string) (*models.Tag, error)
}

// EventRepository persists activity events.
type EventRepository interface {
	// Create persists a new event.
	Create(ctx context.Context, event *models.Event) error

	// ListRecent returns the owner's most recent events, newest first.
	ListRecent(ctx context.Context, ownerID string, limit int) ([]models.Event, error)
}
