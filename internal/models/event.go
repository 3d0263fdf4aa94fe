package models

import "time"

// Event represents a recorded action in a user's activity feed.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "task.created", "task.deadline.soon"
	Level     string    `json:"level"` // "info", "warn"
	Message   string    `json:"message"`
	TaskID    *string   `json:"taskId,omitempty"` // Nullable for non-task events
	OwnerID   string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
