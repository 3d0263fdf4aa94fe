package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// SQLiteTaskRepository is the sqlite-backed TaskRepository.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLiteTaskRepository.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

const taskColumns = "t.id, t.title, t.description, t.priority, t.completed, t.deadline, t.user_id, t.created_at, t.updated_at"

// priorityRank orders priorities by their declared enum order: low < medium < high.
const priorityRank = "CASE t.priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 WHEN 'high' THEN 2 END"

// orderClause maps a TaskOrder to its ORDER BY expression. Deadline sorts put
// null deadlines last; deadline and priority sorts tie-break on creation time
// descending.
func orderClause(order models.TaskOrder) string {
	switch order {
	case models.OrderCreatedAsc:
		return "t.created_at ASC"
	case models.OrderDeadlineAsc:
		return "t.deadline IS NULL, t.deadline ASC, t.created_at DESC"
	case models.OrderDeadlineDesc:
		return "t.deadline IS NULL, t.deadline DESC, t.created_at DESC"
	case models.OrderPriorityAsc:
		return priorityRank + " ASC, t.created_at DESC"
	case models.OrderPriorityDesc:
		return priorityRank + " DESC, t.created_at DESC"
	default:
		return "t.created_at DESC"
	}
}

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var task models.Task
	var deadline sql.NullTime
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Priority,
		&task.Completed, &deadline, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		t := deadline.Time
		task.Deadline = &t
	}
	task.Tags = []models.Tag{}
	return &task, nil
}

// ListByOwner returns the owner's tasks with pagination, ordering and the
// optional tag filter applied in the query.
func (r *SQLiteTaskRepository) ListByOwner(ctx context.Context, ownerID string, params ListTasksParams) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks t"
	args := []any{}
	if params.TagID != "" {
		query += " JOIN task_tags tt ON tt.task_id = t.id AND tt.tag_id = ?"
		args = append(args, params.TagID)
	}
	query += " WHERE t.user_id = ? ORDER BY " + orderClause(params.Order) + " LIMIT ? OFFSET ?"
	args = append(args, ownerID, params.Limit, params.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID returns the task matching both id and owner, or nil.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id, ownerID string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks t WHERE t.id = ? AND t.user_id = ?", id, ownerID)
	task, err := scanTask(row)
	if err != nil || task == nil {
		return nil, err
	}
	tasks := []models.Task{*task}
	if err := r.attachTags(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// Create persists a new task with its tag associations.
func (r *SQLiteTaskRepository) Create(ctx context.Context, params CreateTaskParams, ownerID string) (*models.Task, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	var deadline sql.NullTime
	if params.Deadline != nil {
		deadline = sql.NullTime{Time: params.Deadline.UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (id, title, description, priority, completed, deadline, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?)",
		id, params.Title, params.Description, params.Priority, deadline, ownerID, now, now)
	if err != nil {
		return nil, err
	}

	if err := r.connectTags(ctx, id, params.TagIDs, ownerID); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id, ownerID)
}

// Update applies a partial update to the task matching both id and owner.
func (r *SQLiteTaskRepository) Update(ctx context.Context, id string, params UpdateTaskParams, ownerID string) (*models.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if params.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *params.Title)
	}
	if params.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *params.Description)
	}
	if params.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *params.Priority)
	}
	if params.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *params.Completed)
	}
	if params.Deadline != nil {
		sets = append(sets, "deadline = ?")
		args = append(args, params.Deadline.UTC())
	}
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, nil
	}

	if params.TagIDs != nil {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", id); err != nil {
			return nil, err
		}
		if err := r.connectTags(ctx, id, params.TagIDs, ownerID); err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id, ownerID)
}

// Delete removes the task matching both id and owner and returns it.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id, ownerID string) (*models.Task, error) {
	task, err := r.FindByID(ctx, id, ownerID)
	if err != nil || task == nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, ownerID); err != nil {
		return nil, err
	}
	return task, nil
}

// CountByOwner returns the owner's total and completed task counts.
func (r *SQLiteTaskRepository) CountByOwner(ctx context.Context, ownerID string) (total, completed int, err error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM tasks WHERE user_id = ?", ownerID)
	if err := row.Scan(&total, &completed); err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

// ListDueSoon returns incomplete, not-yet-reminded tasks whose deadline falls
// within the given window from now.
func (r *SQLiteTaskRepository) ListDueSoon(ctx context.Context, within time.Duration) ([]models.Task, error) {
	now := time.Now().UTC()
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks t WHERE t.completed = 0 AND t.reminder_sent = 0 AND t.deadline IS NOT NULL AND t.deadline >= ? AND t.deadline <= ?",
		now, now.Add(within))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// MarkReminded records that a deadline reminder was emitted for the task.
func (r *SQLiteTaskRepository) MarkReminded(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE tasks SET reminder_sent = 1 WHERE id = ?", id)
	return err
}

// connectTags associates existing tags of the same owner with the task.
// Unknown or foreign tag ids are skipped; tags are never created implicitly.
func (r *SQLiteTaskRepository) connectTags(ctx context.Context, taskID string, tagIDs []string, ownerID string) error {
	for _, tagID := range tagIDs {
		_, err := r.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO task_tags (task_id, tag_id) SELECT ?, id FROM tags WHERE id = ? AND user_id = ?",
			taskID, tagID, ownerID)
		if err != nil {
			return err
		}
	}
	return nil
}

// attachTags loads the tag sets for the given tasks in one query.
func (r *SQLiteTaskRepository) attachTags(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	placeholders := make([]string, len(tasks))
	args := make([]any, len(tasks))
	index := make(map[string]int, len(tasks))
	for i := range tasks {
		placeholders[i] = "?"
		args[i] = tasks[i].ID
		index[tasks[i].ID] = i
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT tt.task_id, g.id, g.name, g.color, g.user_id, g.created_at FROM task_tags tt "+
			"JOIN tags g ON g.id = tt.tag_id WHERE tt.task_id IN ("+strings.Join(placeholders, ", ")+") "+
			"ORDER BY g.name ASC", args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID string
		var tag models.Tag
		var color sql.NullString
		if err := rows.Scan(&taskID, &tag.ID, &tag.Name, &color, &tag.OwnerID, &tag.CreatedAt); err != nil {
			return err
		}
		if color.Valid {
			c := color.String
			tag.Color = &c
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Tags = append(tasks[i].Tags, tag)
		}
	}
	return rows.Err()
}
