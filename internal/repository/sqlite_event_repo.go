package repository

import (
	"context"
	"database/sql"

	"github.com/taskdeck/taskdeck-be/internal/models"
)

// SQLiteEventRepository is the sqlite-backed EventRepository.
type SQLiteEventRepository struct {
	db *sql.DB
}

// NewSQLiteEventRepository creates a new SQLiteEventRepository.
func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

// Create persists a new event.
func (r *SQLiteEventRepository) Create(ctx context.Context, event *models.Event) error {
	var taskID sql.NullString
	if event.TaskID != nil {
		taskID = sql.NullString{String: *event.TaskID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, message, task_id, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, taskID, event.OwnerID, event.CreatedAt)
	return err
}

// ListRecent returns the owner's most recent events, newest first.
func (r *SQLiteEventRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, type, level, message, task_id, user_id, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var taskID sql.NullString
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &taskID, &event.OwnerID, &event.CreatedAt); err != nil {
			return nil, err
		}
		if taskID.Valid {
			t := taskID.String
			event.TaskID = &t
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
