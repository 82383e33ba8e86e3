package repository

import (
	"context"
	"fmt"
	"time"

	"todo_api/internal/model"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
)

// TodoRepository defines operations for todo item data
type TodoRepository interface {
	Create(ctx context.Context, item *model.TodoItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TodoItem, error)
	FindSince(ctx context.Context, since time.Time) ([]model.TodoItem, error)
	Update(ctx context.Context, item *model.TodoItem) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type todoRepository struct {
	db DBTX
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db DBTX) TodoRepository {
	return &todoRepository{db: db}
}

// Create inserts a new todo item; id and created_at are set by the caller
func (r *todoRepository) Create(ctx context.Context, item *model.TodoItem) error {
	sql := `INSERT INTO todo_items (id, title, description, is_done, created_at)
            VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, sql, item.ID, item.Title, item.Description, item.IsDone, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo item: %w", err)
	}
	return nil
}

// FindByID retrieves a todo item by its ID
func (r *todoRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TodoItem, error) {
	item := &model.TodoItem{}
	sql := `SELECT id, title, description, is_done, created_at FROM todo_items WHERE id = $1`
	if err := pgxscan.Get(ctx, r.db, item, sql, id); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find todo item by ID: %w", err)
	}
	return item, nil
}

// FindSince retrieves items created at or after since, newest first
func (r *todoRepository) FindSince(ctx context.Context, since time.Time) ([]model.TodoItem, error) {
	sql := `SELECT id, title, description, is_done, created_at
            FROM todo_items WHERE created_at >= $1
            ORDER BY created_at DESC`
	items := []model.TodoItem{}
	if err := pgxscan.Select(ctx, r.db, &items, sql, since); err != nil {
		return nil, fmt.Errorf("failed to query todo items: %w", err)
	}
	if items == nil {
		items = []model.TodoItem{}
	}
	return items, nil
}

// Update overwrites title, description and is_done; reports false when the id is unknown
func (r *todoRepository) Update(ctx context.Context, item *model.TodoItem) (bool, error) {
	sql := `UPDATE todo_items SET title = $2, description = $3, is_done = $4 WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, item.ID, item.Title, item.Description, item.IsDone)
	if err != nil {
		return false, fmt.Errorf("failed to update todo item: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// Delete removes a todo item; reports false when the id is unknown
func (r *todoRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	sql := `DELETE FROM todo_items WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo item: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
