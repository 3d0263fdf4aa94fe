package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// SQLiteTagRepository is the sqlite-backed TagRepository.
type SQLiteTagRepository struct {
	db *sql.DB
}

// NewSQLiteTagRepository creates a new SQLiteTagRepository.
func NewSQLiteTagRepository(db *sql.DB) *SQLiteTagRepository {
	return &SQLiteTagRepository{db: db}
}

func scanTag(row interface{ Scan(...any) error }) (*models.Tag, error) {
	var tag models.Tag
	var color sql.NullString
	err := row.Scan(&tag.ID, &tag.Name, &color, &tag.OwnerID, &tag.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if color.Valid {
		c := color.String
		tag.Color = &c
	}
	return &tag, nil
}

// ListByOwner returns the owner's tags, alphabetical by name.
func (r *SQLiteTagRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, color, user_id, created_at FROM tags WHERE user_id = ? ORDER BY name ASC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, rows.Err()
}

// FindByID returns the tag matching both id and owner, or nil.
func (r *SQLiteTagRepository) FindByID(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, color, user_id, created_at FROM tags WHERE id = ? AND user_id = ?", id, ownerID)
	return scanTag(row)
}

// Create persists a new tag.
func (r *SQLiteTagRepository) Create(ctx context.Context, params CreateTagParams, ownerID string) (*models.Tag, error) {
	tag := &models.Tag{
		ID:        uuid.New().String(),
		Name:      params.Name,
		Color:     params.Color,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	var color sql.NullString
	if tag.Color != nil {
		color = sql.NullString{String: *tag.Color, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tags (id, name, color, user_id, created_at) VALUES (?, ?, ?, ?, ?)",
		tag.ID, tag.Name, color, tag.OwnerID, tag.CreatedAt)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Update applies a partial update to the tag matching both id and owner.
func (r *SQLiteTagRepository) Update(ctx context.Context, id string, params UpdateTagParams, ownerID string) (*models.Tag, error) {
	sets := []string{}
	args := []any{}

	if params.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *params.Name)
	}
	if params.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *params.Color)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id, ownerID)
	}
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx,
		"UPDATE tags SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id, ownerID)
}

// Delete removes the tag matching both id and owner and returns it.
func (r *SQLiteTagRepository) Delete(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	tag, err := r.FindByID(ctx, id, ownerID)
	if err != nil || tag == nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tags WHERE id = ? AND user_id = ?", id, ownerID); err != nil {
		return nil, err
	}
	return tag, nil
}
