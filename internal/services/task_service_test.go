package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
	"github.com/taskdeck/taskdeck-be/internal/repository/memory"
)

func newTaskService(store *memory.Store) *TaskService {
	return NewTaskService(store.Tasks(), NewEventService(store.Events(), nil))
}

func createTask(t *testing.T, svc *TaskService, ownerID, title string, priority models.Priority, deadline *time.Time) models.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), repository.CreateTaskParams{
		Title:       title,
		Description: "d",
		Priority:    priority,
		Deadline:    deadline,
	}, ownerID)
	require.NoError(t, err)
	// Creation timestamps must differ for deterministic tie-breaks.
	time.Sleep(2 * time.Millisecond)
	return task
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func TestListDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(memory.NewStore())

	for i := 0; i < 12; i++ {
		createTask(t, svc, "u1", "task", models.PriorityMedium, nil)
	}

	tasks, err := svc.List(ctx, "u1", repository.ListTasksParams{})
	require.NoError(t, err)
	assert.Len(t, tasks, DefaultTaskLimit)
}

func TestListOrderCreated(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(memory.NewStore())

	createTask(t, svc, "u1", "first", models.PriorityMedium, nil)
	createTask(t, svc, "u1", "second", models.PriorityMedium, nil)
	createTask(t, svc, "u1", "third", models.PriorityMedium, nil)

	tasks, err := svc.List(ctx, "u1", repository.ListTasksParams{Order: models.OrderCreatedAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, titles(tasks))

	tasks, err = svc.List(ctx, "u1", repository.ListTasksParams{Order: models.OrderCreatedDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, titles(tasks))
}

func TestListOrderDeadlineNullsLast(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(memory.NewStore())

	far := time.Now().Add(72 * time.Hour).UTC()
	near := time.Now().Add(24 * time.Hour).UTC()
	createTask(t, svc, "u1", "no deadline", models.PriorityMedium, nil)
	createTask(t, svc, "u1", "far", models.PriorityMedium, &far)
	createTask(t, svc, "u1", "near", models.PriorityMedium, &near)

	tasks, err := svc.List(ctx, "u1", repository.ListTasksParams{Order: models.OrderDeadlineAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "far", "no deadline"}, titles(tasks))

	tasks, err = svc.List(ctx, "u1", repository.ListTasksParams{Order: models.OrderDeadlineDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"far", "near", "no deadline"}, titles(tasks))
}

func TestListOrderDeadlineTieBreak(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(memory.NewStore())

	deadline := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	createTask(t, svc, "u1", "older", models.PriorityMedium, &deadline)
	createTask(t, svc, "u1", "newer", models.PriorityMedium, &deadline)

	// Equal deadlines fall back to creation time descending.
	tasks, err := svc.List(ctx, "u1", repository.ListTasksParams{Order: models.OrderDeadlineAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"newer", "older"}, titles(tasks))
}

func TestListOrderPriority(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(memory.NewStore())

	createTask(t, svc, "u1", "high", models.PriorityHigh, nil)
	createTask(t, svc, "u1", "medium", models.PriorityMedium, nil)
	createTask(t, svc, "u1", "low", models.PriorityLow, nil)

	tasks, err := svc.List(ctx, "u1", repository.ListTasksParams{Order: models.OrderPriorityDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "medium", "low"}, titles(tasks))

	tasks, err = svc.List(ctx, "u1", repository.ListTasksParams{Order: models.OrderPriorityAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "medium", "high"}, titles(tasks))
}

func TestListFilterByTag(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newTaskService(store)
	tagSvc := NewTagService(store.Tags(), NewEventService(store.Events(), nil))

	tag, err := tagSvc.Create(ctx, repository.CreateTagParams{Name: "work"}, "u1")
	require.NoError(t, err)

	tagged, err := svc.Create(ctx, repository.CreateTaskParams{
		Title: "tagged", Description: "d", Priority: models.PriorityMedium, TagIDs: []string{tag.ID},
	}, "u1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, repository.CreateTaskParams{
		Title: "untagged", Description: "d", Priority: models.PriorityMedium,
	}, "u1")
	require.NoError(t, err)

	tasks, err := svc.List(ctx, "u1", repository.ListTasksParams{TagID: tag.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, tagged.ID, tasks[0].ID)
	require.Len(t, tasks[0].Tags, 1)
	assert.Equal(t, "work", tasks[0].Tags[0].Name)
}

func TestCreateConnectsExistingTagsOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newTaskService(store)
	tagSvc := NewTagService(store.Tags(), NewEventService(store.Events(), nil))

	mine, err := tagSvc.Create(ctx, repository.CreateTagParams{Name: "mine"}, "u1")
	require.NoError(t, err)
	theirs, err := tagSvc.Create(ctx, repository.CreateTagParams{Name: "theirs"}, "u2")
	require.NoError(t, err)

	task, err := svc.Create(ctx, repository.CreateTaskParams{
		Title:       "t",
		Description: "d",
		Priority:    models.PriorityLow,
		TagIDs:      []string{mine.ID, theirs.ID, "nonexistent"},
	}, "u1")
	require.NoError(t, err)

	// Only the caller's own, existing tag connects.
	require.Len(t, task.Tags, 1)
	assert.Equal(t, mine.ID, task.Tags[0].ID)
}

func TestUpdateReplacesTagSet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newTaskService(store)
	tagSvc := NewTagService(store.Tags(), NewEventService(store.Events(), nil))

	a, err := tagSvc.Create(ctx, repository.CreateTagParams{Name: "a"}, "u1")
	require.NoError(t, err)
	b, err := tagSvc.Create(ctx, repository.CreateTagParams{Name: "b"}, "u1")
	require.NoError(t, err)

	task, err := svc.Create(ctx, repository.CreateTaskParams{
		Title: "t", Description: "d", Priority: models.PriorityLow, TagIDs: []string{a.ID},
	}, "u1")
	require.NoError(t, err)

	t.Run("nil leaves associations untouched", func(t *testing.T) {
		title := "renamed"
		updated, err := svc.Update(ctx, task.ID, repository.UpdateTaskParams{Title: &title}, "u1")
		require.NoError(t, err)
		require.Len(t, updated.Tags, 1)
		assert.Equal(t, a.ID, updated.Tags[0].ID)
	})

	t.Run("non-nil replaces the full set", func(t *testing.T) {
		updated, err := svc.Update(ctx, task.ID, repository.UpdateTaskParams{TagIDs: []string{b.ID}}, "u1")
		require.NoError(t, err)
		require.Len(t, updated.Tags, 1)
		assert.Equal(t, b.ID, updated.Tags[0].ID)
	})

	t.Run("empty set disconnects all", func(t *testing.T) {
		updated, err := svc.Update(ctx, task.ID, repository.UpdateTaskParams{TagIDs: []string{}}, "u1")
		require.NoError(t, err)
		assert.Empty(t, updated.Tags)
	})
}

func TestCrossTenantIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(memory.NewStore())

	task := createTask(t, svc, "owner", "private", models.PriorityHigh, nil)

	_, err := svc.Get(ctx, task.ID, "intruder")
	assert.ErrorIs(t, err, models.ErrNotFound)

	title := "stolen"
	_, err = svc.Update(ctx, task.ID, repository.UpdateTaskParams{Title: &title}, "intruder")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Delete(ctx, task.ID, "intruder")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// The owner still sees the task untouched.
	got, err := svc.Get(ctx, task.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)
}

func TestMutationsRecordEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	eventSvc := NewEventService(store.Events(), nil)
	svc := NewTaskService(store.Tasks(), eventSvc)

	task, err := svc.Create(ctx, repository.CreateTaskParams{
		Title: "t", Description: "d", Priority: models.PriorityLow,
	}, "u1")
	require.NoError(t, err)

	completed := true
	_, err = svc.Update(ctx, task.ID, repository.UpdateTaskParams{Completed: &completed}, "u1")
	require.NoError(t, err)

	events, err := eventSvc.ListRecent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "task.completed", events[0].Type)
	assert.Equal(t, "task.created", events[1].Type)
}
