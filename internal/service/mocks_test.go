package service

import (
	"context"
	"time"

	"todo_api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockTodoRepo struct {
	mock.Mock
}

func (m *mockTodoRepo) Create(ctx context.Context, item *model.TodoItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockTodoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TodoItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*model.TodoItem)
	return item, args.Error(1)
}

func (m *mockTodoRepo) FindSince(ctx context.Context, since time.Time) ([]model.TodoItem, error) {
	args := m.Called(ctx, since)
	items, _ := args.Get(0).([]model.TodoItem)
	return items, args.Error(1)
}

func (m *mockTodoRepo) Update(ctx context.Context, item *model.TodoItem) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}

func (m *mockTodoRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User, roles ...string) error {
	return m.Called(ctx, user, roles).Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	roles, _ := args.Get(0).([]string)
	return roles, args.Error(1)
}

func (m *mockUserRepo) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	return m.Called(ctx, userID, roleName).Error(0)
}

func (m *mockUserRepo) EnsureRoles(ctx context.Context, names ...string) error {
	return m.Called(ctx, names).Error(0)
}

func (m *mockUserRepo) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// assignRoles mimics the repository filling User.Roles on a successful Create
func assignRoles(args mock.Arguments) {
	args.Get(1).(*model.User).Roles = args.Get(2).([]string)
}
