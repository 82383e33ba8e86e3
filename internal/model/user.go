package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// Roles lists every role seeded at startup
var Roles = []string{RoleUser, RoleAdmin}

// User represents an identity in the system
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Do not expose password hash in JSON responses
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	Roles        []string  `json:"roles,omitempty" db:"-"`
}

// Role is one of the fixed permission groups
type Role struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=256"`
	Username string `json:"username" validate:"required,notblank,max=256"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register and login
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
