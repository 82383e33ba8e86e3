package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo_api/internal/metrics"
	"todo_api/internal/model"
	"todo_api/internal/repository"

	"github.com/google/uuid"
)

var ErrTodoNotFound = errors.New("todo item not found")

// TodoService defines operations for todo items
type TodoService interface {
	Create(ctx context.Context, req model.CreateTodoRequest) (*model.TodoItem, error)
	GetAll(ctx context.Context, since *time.Time) ([]model.TodoItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.TodoItem, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateTodoRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type todoService struct {
	repo repository.TodoRepository
	now  func() time.Time
}

// NewTodoService creates a new TodoService
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo, now: time.Now}
}

func (s *todoService) Create(ctx context.Context, req model.CreateTodoRequest) (*model.TodoItem, error) {
	// timestamptz keeps microseconds
	createdAt := s.now().UTC().Truncate(time.Microsecond)
	item := &model.TodoItem{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		IsDone:      false,
		CreatedAt:   createdAt,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create todo item in repo: %w", err)
	}
	metrics.TodoOperations.WithLabelValues("create").Inc()
	return item, nil
}

// GetAll returns items created at or after since, newest first.
// A nil since means the start of the current UTC day.
func (s *todoService) GetAll(ctx context.Context, since *time.Time) ([]model.TodoItem, error) {
	var from time.Time
	if since != nil {
		from = since.UTC()
	} else {
		from = startOfDay(s.now().UTC())
	}

	items, err := s.repo.FindSince(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get todo items from repo: %w", err)
	}
	return items, nil
}

func (s *todoService) GetByID(ctx context.Context, id uuid.UUID) (*model.TodoItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find todo item by ID: %w", err)
	}
	if item == nil {
		return nil, ErrTodoNotFound
	}
	return item, nil
}

// Update overwrites title, description and isDone. id and createdAt never change.
func (s *todoService) Update(ctx context.Context, id uuid.UUID, req model.UpdateTodoRequest) error {
	item := &model.TodoItem{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		IsDone:      req.IsDone,
	}
	found, err := s.repo.Update(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to update todo item in repo: %w", err)
	}
	if !found {
		return ErrTodoNotFound
	}
	metrics.TodoOperations.WithLabelValues("update").Inc()
	return nil
}

func (s *todoService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo item in repo: %w", err)
	}
	if !found {
		return ErrTodoNotFound
	}
	metrics.TodoOperations.WithLabelValues("delete").Inc()
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
