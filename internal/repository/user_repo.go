package repository

import (
	"context"
	"errors"
	"fmt"

	"todo_api/internal/model"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	usersEmailKey    = "users_email_key"
	usersUsernameKey = "users_username_key"
)

var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrRoleNotFound      = errors.New("role not found")
)

// UserRepository defines operations for identity data
type UserRepository interface {
	Create(ctx context.Context, user *model.User, roles ...string) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error
	EnsureRoles(ctx context.Context, names ...string) error
	CountUsers(ctx context.Context) (int64, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a user and its initial role assignments in one transaction
func (r *userRepository) Create(ctx context.Context, user *model.User, roles ...string) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		sql := `INSERT INTO users (id, username, email, password_hash, created_at)
                VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, sql, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt); err != nil {
			switch {
			case isUniqueViolation(err, usersEmailKey):
				return ErrDuplicateEmail
			case isUniqueViolation(err, usersUsernameKey):
				return ErrDuplicateUsername
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		for _, role := range roles {
			if err := assignRole(ctx, tx, user.ID, role); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	user.Roles = append([]string(nil), roles...)
	return nil
}

// FindByEmail retrieves a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`
	if err := pgxscan.Get(ctx, r.db, user, sql, email); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil // Not found is not an error here, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// GetRoles lists the role names assigned to a user
func (r *userRepository) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	sql := `SELECT r.name FROM roles r
            JOIN user_roles ur ON ur.role_id = r.id
            WHERE ur.user_id = $1 ORDER BY r.name`
	var roles []string
	if err := pgxscan.Select(ctx, r.db, &roles, sql, userID); err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return roles, nil
}

// AssignRole grants a role to a user; assigning an existing role is a no-op
func (r *userRepository) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	role := &model.Role{}
	if err := pgxscan.Get(ctx, r.db, role, `SELECT id, name FROM roles WHERE name = $1`, roleName); err != nil {
		if pgxscan.NotFound(err) {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, roleName)
		}
		return fmt.Errorf("failed to find role: %w", err)
	}

	sql := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.Exec(ctx, sql, userID, role.ID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// EnsureRoles creates any of the named roles that do not exist yet
func (r *userRepository) EnsureRoles(ctx context.Context, names ...string) error {
	sql := `INSERT INTO roles (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	for _, name := range names {
		if _, err := r.db.Exec(ctx, sql, uuid.New(), name); err != nil {
			return fmt.Errorf("failed to ensure role %s: %w", name, err)
		}
	}
	return nil
}

// CountUsers returns the number of registered users
func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func assignRole(ctx context.Context, tx pgx.Tx, userID uuid.UUID, roleName string) error {
	sql := `INSERT INTO user_roles (user_id, role_id)
            SELECT $1, id FROM roles WHERE name = $2
            ON CONFLICT DO NOTHING`
	cmdTag, err := tx.Exec(ctx, sql, userID, roleName)
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, roleName)
	}
	return nil
}
