// Package memory provides in-memory implementations of the repository
// interfaces. They back the service and handler tests and mirror the sqlite
// implementations' semantics, including ordering and owner scoping.
package memory

import (
	"sort"
	"sync"

	"github.com/taskdeck/taskdeck-be/internal/models"
)

// Store holds all in-memory state shared by the entity repositories, so that
// cross-entity behavior (tag association cascades) matches the database.
type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	tasks    map[string]models.Task
	tags     map[string]models.Tag
	taskTags map[string]map[string]bool // task id -> set of tag ids
	reminded map[string]bool            // task ids already reminded
	events   []models.Event
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]models.User),
		tasks:    make(map[string]models.Task),
		tags:     make(map[string]models.Tag),
		taskTags: make(map[string]map[string]bool),
		reminded: make(map[string]bool),
	}
}

// Users returns the store's UserRepository view.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Tasks returns the store's TaskRepository view.
func (s *Store) Tasks() *TaskRepo { return &TaskRepo{s: s} }

// Tags returns the store's TagRepository view.
func (s *Store) Tags() *TagRepo { return &TagRepo{s: s} }

// Events returns the store's EventRepository view.
func (s *Store) Events() *EventRepo { return &EventRepo{s: s} }

// tagsForTask resolves a task's association set, alphabetical by name.
// Callers must hold s.mu.
func (s *Store) tagsForTask(taskID string) []models.Tag {
	tags := []models.Tag{}
	for tagID := range s.taskTags[taskID] {
		if tag, ok := s.tags[tagID]; ok {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}
