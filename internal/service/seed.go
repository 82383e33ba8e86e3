package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todo_api/internal/model"
	"todo_api/internal/repository"
	"todo_api/internal/utils"
	"todo_api/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DevelopmentSeedPassword is used for the default accounts when no SEED_PASSWORD is configured.
const DevelopmentSeedPassword = "qwertyX123!"

// SeedOptions controls startup seeding
type SeedOptions struct {
	// Accounts enables creation of the default User and Admin accounts.
	Accounts bool
	Password string
}

type defaultAccount struct {
	username string
	email    string
	roles    []string
}

var defaultAccounts = []defaultAccount{
	{username: "User", email: "user@todo.local", roles: []string{model.RoleUser}},
	{username: "Admin", email: "admin@todo.local", roles: []string{model.RoleAdmin, model.RoleUser}},
}

// Seeder creates the fixed roles and, when enabled, the default accounts
type Seeder struct {
	users repository.UserRepository
	opts  SeedOptions
}

// NewSeeder creates a new Seeder
func NewSeeder(users repository.UserRepository, opts SeedOptions) *Seeder {
	return &Seeder{users: users, opts: opts}
}

// Seed is idempotent: roles are created if missing, accounts only when no user exists yet.
// Default accounts that already exist get any missing role re-granted.
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.users.EnsureRoles(ctx, model.Roles...); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	if !s.opts.Accounts {
		log.Info().Msg("default account seeding disabled")
		return nil
	}

	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return s.ensureAccountRoles(ctx)
	}

	if msgs := validation.Password(s.opts.Password); len(msgs) > 0 {
		return fmt.Errorf("seed password rejected: %s", strings.Join(msgs, " "))
	}
	hash, err := utils.HashPassword(s.opts.Password)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	for _, acc := range defaultAccounts {
		user := &model.User{
			ID:           uuid.New(),
			Username:     acc.username,
			Email:        acc.email,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user, acc.roles...); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", acc.username, err)
		}
		log.Warn().Str("email", acc.email).Strs("roles", acc.roles).Msg("seeded default account")
	}
	return nil
}

func (s *Seeder) ensureAccountRoles(ctx context.Context) error {
	for _, acc := range defaultAccounts {
		user, err := s.users.FindByEmail(ctx, acc.email)
		if err != nil {
			return fmt.Errorf("failed to look up seeded user %s: %w", acc.username, err)
		}
		if user == nil {
			continue
		}
		for _, role := range acc.roles {
			if err := s.users.AssignRole(ctx, user.ID, role); err != nil {
				return fmt.Errorf("failed to grant %s to %s: %w", role, acc.username, err)
			}
		}
	}
	return nil
}
