package service

import (
	"context"
	"errors"
	"testing"

	"todo_api/internal/model"
	"todo_api/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSeeder_RolesOnlyWhenAccountsDisabled(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("EnsureRoles", mock.Anything, model.Roles).Return(nil)

	err := NewSeeder(repo, SeedOptions{Accounts: false}).Seed(context.Background())
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "CountUsers", mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeeder_CreatesDefaultAccounts(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("EnsureRoles", mock.Anything, model.Roles).Return(nil)
	repo.On("CountUsers", mock.Anything).Return(int64(0), nil)

	var created []*model.User
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User"), mock.Anything).
		Run(func(args mock.Arguments) {
			assignRoles(args)
			created = append(created, args.Get(1).(*model.User))
		}).
		Return(nil)

	err := NewSeeder(repo, SeedOptions{Accounts: true, Password: DevelopmentSeedPassword}).Seed(context.Background())
	assert.NoError(t, err)

	if assert.Len(t, created, 2) {
		assert.Equal(t, "User", created[0].Username)
		assert.Equal(t, "user@todo.local", created[0].Email)
		assert.Equal(t, []string{model.RoleUser}, created[0].Roles)
		assert.Equal(t, "Admin", created[1].Username)
		assert.Equal(t, []string{model.RoleAdmin, model.RoleUser}, created[1].Roles)
		assert.True(t, utils.CheckPasswordHash(DevelopmentSeedPassword, created[1].PasswordHash))
	}
	// Roles go in with the user, in one transaction.
	repo.AssertNotCalled(t, "AssignRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeeder_CreateErrorStopsSeeding(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("EnsureRoles", mock.Anything, model.Roles).Return(nil)
	repo.On("CountUsers", mock.Anything).Return(int64(0), nil)
	repo.On("Create", mock.Anything, mock.Anything, []string{model.RoleUser}).Return(errors.New("role missing"))

	err := NewSeeder(repo, SeedOptions{Accounts: true, Password: DevelopmentSeedPassword}).Seed(context.Background())
	assert.ErrorContains(t, err, "failed to seed user User")
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestSeeder_RepairsRolesOfExistingAccounts(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("EnsureRoles", mock.Anything, model.Roles).Return(nil)
	repo.On("CountUsers", mock.Anything).Return(int64(2), nil)

	admin := &model.User{ID: uuid.New(), Username: "Admin", Email: "admin@todo.local"}
	repo.On("FindByEmail", mock.Anything, "user@todo.local").Return(nil, nil)
	repo.On("FindByEmail", mock.Anything, "admin@todo.local").Return(admin, nil)
	repo.On("AssignRole", mock.Anything, admin.ID, model.RoleAdmin).Return(nil)
	repo.On("AssignRole", mock.Anything, admin.ID, model.RoleUser).Return(nil)

	err := NewSeeder(repo, SeedOptions{Accounts: true, Password: DevelopmentSeedPassword}).Seed(context.Background())
	assert.NoError(t, err)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeeder_RepairError(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("EnsureRoles", mock.Anything, model.Roles).Return(nil)
	repo.On("CountUsers", mock.Anything).Return(int64(1), nil)

	user := &model.User{ID: uuid.New(), Email: "user@todo.local"}
	repo.On("FindByEmail", mock.Anything, "user@todo.local").Return(user, nil)
	repo.On("AssignRole", mock.Anything, user.ID, model.RoleUser).Return(errors.New("db down"))

	err := NewSeeder(repo, SeedOptions{Accounts: true, Password: DevelopmentSeedPassword}).Seed(context.Background())
	assert.ErrorContains(t, err, "failed to grant User to User")
}

func TestSeeder_RejectsWeakPassword(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("EnsureRoles", mock.Anything, model.Roles).Return(nil)
	repo.On("CountUsers", mock.Anything).Return(int64(0), nil)

	err := NewSeeder(repo, SeedOptions{Accounts: true, Password: "password"}).Seed(context.Background())
	assert.ErrorContains(t, err, "seed password rejected")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeeder_RoleError(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("EnsureRoles", mock.Anything, model.Roles).Return(errors.New("db down"))

	err := NewSeeder(repo, SeedOptions{Accounts: true}).Seed(context.Background())
	assert.ErrorContains(t, err, "failed to seed roles")
}
