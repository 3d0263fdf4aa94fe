package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
	"github.com/taskdeck/taskdeck-be/internal/repository/memory"
)

func newTagService(store *memory.Store) *TagService {
	return NewTagService(store.Tags(), NewEventService(store.Events(), nil))
}

func TestTagListAlphabetical(t *testing.T) {
	ctx := context.Background()
	svc := newTagService(memory.NewStore())

	for _, name := range []string{"work", "errands", "home"} {
		_, err := svc.Create(ctx, repository.CreateTagParams{Name: name}, "u1")
		require.NoError(t, err)
	}

	tags, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "errands", tags[0].Name)
	assert.Equal(t, "home", tags[1].Name)
	assert.Equal(t, "work", tags[2].Name)
}

func TestTagNotFoundSentinel(t *testing.T) {
	ctx := context.Background()
	svc := newTagService(memory.NewStore())

	mine, err := svc.Create(ctx, repository.CreateTagParams{Name: "mine"}, "owner")
	require.NoError(t, err)

	t.Run("get", func(t *testing.T) {
		tag, err := svc.Get(ctx, mine.ID, "intruder")
		require.NoError(t, err)
		assert.Nil(t, tag)
	})

	t.Run("update", func(t *testing.T) {
		name := "stolen"
		tag, err := svc.Update(ctx, mine.ID, repository.UpdateTagParams{Name: &name}, "intruder")
		require.NoError(t, err)
		assert.Nil(t, tag)
	})

	t.Run("delete", func(t *testing.T) {
		tag, err := svc.Delete(ctx, mine.ID, "intruder")
		require.NoError(t, err)
		assert.Nil(t, tag)
	})

	// The owner's tag is untouched by the failed cross-tenant attempts.
	tag, err := svc.Get(ctx, mine.ID, "owner")
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "mine", tag.Name)
}

// failingTagRepo fails every Create after the first n succeed.
type failingTagRepo struct {
	repository.TagRepository
	allowed int
	created int
}

func (r *failingTagRepo) Create(ctx context.Context, params repository.CreateTagParams, ownerID string) (*models.Tag, error) {
	if r.created >= r.allowed {
		return nil, errors.New("storage failure")
	}
	r.created++
	return r.TagRepository.Create(ctx, params, ownerID)
}

func TestCreateManyIsNotAtomic(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := &failingTagRepo{TagRepository: store.Tags(), allowed: 1}
	svc := NewTagService(repo, NewEventService(store.Events(), nil))

	_, err := svc.CreateMany(ctx, []repository.CreateTagParams{
		{Name: "t1"},
		{Name: "t2"},
	}, "u1")
	require.Error(t, err)

	// The first tag survives the failure of the second: no rollback.
	tags, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "t1", tags[0].Name)
}

func TestCreateManySuccess(t *testing.T) {
	ctx := context.Background()
	svc := newTagService(memory.NewStore())

	color := "#FF8800"
	tags, err := svc.CreateMany(ctx, []repository.CreateTagParams{
		{Name: "t1", Color: &color},
		{Name: "t2"},
	}, "u1")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "t1", tags[0].Name)
	require.NotNil(t, tags[0].Color)
	assert.Equal(t, "#FF8800", *tags[0].Color)
}
