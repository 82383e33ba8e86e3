package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 2000
)

// TodoItem represents a single to-do entry
type TodoItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"` // Nullable
	IsDone      bool      `json:"isDone" db:"is_done"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"` // Set once, UTC
}

// CreateTodoRequest is used for creating a new todo item
type CreateTodoRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateTodoRequest replaces the mutable fields of a todo item
type UpdateTodoRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsDone      bool    `json:"isDone"`
}
