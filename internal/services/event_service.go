package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
)

// EventServiceProvider defines the interface for activity event services.
type EventServiceProvider interface {
	Record(ctx context.Context, eventType, level, message, ownerID string, taskID *string) error
	ListRecent(ctx context.Context, ownerID string, limit int) ([]models.Event, error)
}

// Publisher pushes a payload to the live connections of a single user.
type Publisher interface {
	Publish(ownerID string, payload []byte)
}

// EventService records activity events and pushes them to connected clients.
type EventService struct {
	events    repository.EventRepository
	publisher Publisher
}

// NewEventService creates a new EventService. publisher may be nil when no
// live stream is wired (tests, background tools).
func NewEventService(events repository.EventRepository, publisher Publisher) *EventService {
	return &EventService{events: events, publisher: publisher}
}

// Record persists a new event and pushes it to the owner's connected clients.
func (s *EventService) Record(ctx context.Context, eventType, level, message, ownerID string, taskID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		TaskID:    taskID,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.events.Create(ctx, &event); err != nil {
		return err
	}

	if s.publisher != nil {
		payload, err := json.Marshal(map[string]any{"action": event.Type, "payload": event})
		if err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to marshal event for live stream")
			return nil
		}
		s.publisher.Publish(ownerID, payload)
	}
	return nil
}

// ListRecent retrieves the owner's most recent events.
func (s *EventService) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.Event, error) {
	return s.events.ListRecent(ctx, ownerID, limit)
}
