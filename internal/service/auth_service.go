package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"todo_api/internal/metrics"
	"todo_api/internal/model"
	"todo_api/internal/repository"
	"todo_api/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService provides registration and login
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with the User role and returns a token for it
func (s *authService) Register(ctx context.Context, email, username, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		metrics.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user, model.RoleUser); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			// Lost a race with a concurrent registration
			metrics.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
			return nil, "", ErrUserAlreadyExists
		case errors.Is(err, repository.ErrDuplicateUsername):
			metrics.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
			return nil, "", ErrUsernameTaken
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Username, user.Roles)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("user created, but failed to generate token")
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	return user, token, nil
}

// Login authenticates a user and returns a token carrying their roles
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		// Unknown emails still pay for one bcrypt comparison
		utils.CheckPasswordHash(password, s.dummyPasswordHash())
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, "", ErrInvalidCredentials
	}

	roles, err := s.userRepo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load roles: %w", err)
	}
	user.Roles = roles

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Username, roles)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return user, token, nil
}

func (s *authService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := utils.HashPassword(uuid.NewString())
		if err != nil {
			log.Error().Err(err).Msg("failed to prepare dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
