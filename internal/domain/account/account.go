package account

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether the role is one of the recognized global roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

type Account struct {
	ID           uuid.UUID
	Email        string
	Handle       *string
	PasswordHash string
	Name         string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateAccountInput struct {
	Email        string
	Handle       *string
	PasswordHash string
	Name         string
	Role         Role
}

type UpdateAccountInput struct {
	Name         *string
	Role         *Role
	IsActive     *bool
	PasswordHash *string
}
