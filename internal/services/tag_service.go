package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
)

// TagServiceProvider defines the interface for tag services.
// Get, Update and Delete return a nil tag as the "not found" sentinel; the
// HTTP layer promotes it to a 404.
type TagServiceProvider interface {
	List(ctx context.Context, ownerID string) ([]models.Tag, error)
	Get(ctx context.Context, id, ownerID string) (*models.Tag, error)
	Create(ctx context.Context, params repository.CreateTagParams, ownerID string) (models.Tag, error)
	CreateMany(ctx context.Context, params []repository.CreateTagParams, ownerID string) ([]models.Tag, error)
	Update(ctx context.Context, id string, params repository.UpdateTagParams, ownerID string) (*models.Tag, error)
	Delete(ctx context.Context, id, ownerID string) (*models.Tag, error)
}

// TagService provides business logic for tag management.
type TagService struct {
	tags     repository.TagRepository
	eventSvc EventServiceProvider
}

// NewTagService creates a new TagService.
func NewTagService(tags repository.TagRepository, eventSvc EventServiceProvider) *TagService {
	return &TagService{tags: tags, eventSvc: eventSvc}
}

// List returns all of the owner's tags, alphabetical by name.
func (s *TagService) List(ctx context.Context, ownerID string) ([]models.Tag, error) {
	return s.tags.ListByOwner(ctx, ownerID)
}

// Get returns the tag matching both id and owner, or nil.
func (s *TagService) Get(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	return s.tags.FindByID(ctx, id, ownerID)
}

// Create persists a new tag.
func (s *TagService) Create(ctx context.Context, params repository.CreateTagParams, ownerID string) (models.Tag, error) {
	tag, err := s.tags.Create(ctx, params, ownerID)
	if err != nil {
		return models.Tag{}, err
	}
	s.record(ctx, "tag.created", fmt.Sprintf("Tag %q created", tag.Name), tag)
	return *tag, nil
}

// CreateMany creates one tag per element sequentially. The batch is not
// atomic: a failure partway through leaves the earlier tags persisted.
func (s *TagService) CreateMany(ctx context.Context, params []repository.CreateTagParams, ownerID string) ([]models.Tag, error) {
	tags := []models.Tag{}
	for _, p := range params {
		tag, err := s.Create(ctx, p, ownerID)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Update applies a partial update to the tag matching both id and owner.
func (s *TagService) Update(ctx context.Context, id string, params repository.UpdateTagParams, ownerID string) (*models.Tag, error) {
	tag, err := s.tags.Update(ctx, id, params, ownerID)
	if err != nil || tag == nil {
		return nil, err
	}
	s.record(ctx, "tag.updated", fmt.Sprintf("Tag %q updated", tag.Name), tag)
	return tag, nil
}

// Delete removes the tag matching both id and owner and returns it.
func (s *TagService) Delete(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	tag, err := s.tags.Delete(ctx, id, ownerID)
	if err != nil || tag == nil {
		return nil, err
	}
	s.record(ctx, "tag.deleted", fmt.Sprintf("Tag %q deleted", tag.Name), tag)
	return tag, nil
}

// record logs the activity event; a failed event never fails the mutation.
func (s *TagService) record(ctx context.Context, eventType, message string, tag *models.Tag) {
	if err := s.eventSvc.Record(ctx, eventType, "info", message, tag.OwnerID, nil); err != nil {
		log.Warn().Err(err).Str("tag_id", tag.ID).Msg("Failed to record tag event")
	}
}
