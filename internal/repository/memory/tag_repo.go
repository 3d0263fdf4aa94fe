package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
)

// TagRepo is the in-memory TagRepository.
type TagRepo struct {
	s *Store
}

// ListByOwner returns the owner's tags, alphabetical by name.
func (r *TagRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tags := []models.Tag{}
	for _, tag := range r.s.tags {
		if tag.OwnerID == ownerID {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// FindByID returns the tag matching both id and owner, or nil.
func (r *TagRepo) FindByID(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tag, ok := r.s.tags[id]
	if !ok || tag.OwnerID != ownerID {
		return nil, nil
	}
	return &tag, nil
}

// Create persists a new tag.
func (r *TagRepo) Create(ctx context.Context, params repository.CreateTagParams, ownerID string) (*models.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tag := models.Tag{
		ID:        uuid.New().String(),
		Name:      params.Name,
		Color:     params.Color,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	r.s.tags[tag.ID] = tag
	return &tag, nil
}

// Update applies a partial update to the tag matching both id and owner.
func (r *TagRepo) Update(ctx context.Context, id string, params repository.UpdateTagParams, ownerID string) (*models.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tag, ok := r.s.tags[id]
	if !ok || tag.OwnerID != ownerID {
		return nil, nil
	}
	if params.Name != nil {
		tag.Name = *params.Name
	}
	if params.Color != nil {
		tag.Color = params.Color
	}
	r.s.tags[id] = tag
	return &tag, nil
}

// Delete removes the tag matching both id and owner, cascading the removal of
// its task associations like the database's ON DELETE CASCADE.
func (r *TagRepo) Delete(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tag, ok := r.s.tags[id]
	if !ok || tag.OwnerID != ownerID {
		return nil, nil
	}
	delete(r.s.tags, id)
	for taskID := range r.s.taskTags {
		delete(r.s.taskTags[taskID], id)
	}
	return &tag, nil
}
