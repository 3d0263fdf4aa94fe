package memory

import (
	"context"
	"sort"

	"github.com/taskdeck/taskdeck-be/internal/models"
)

// EventRepo is the in-memory EventRepository.
type EventRepo struct {
	s *Store
}

// Create persists a new event.
func (r *EventRepo) Create(ctx context.Context, event *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events = append(r.s.events, *event)
	return nil
}

// ListRecent returns the owner's most recent events, newest first.
func (r *EventRepo) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := []models.Event{}
	for _, event := range r.s.events {
		if event.OwnerID == ownerID {
			events = append(events, event)
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	if limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}
