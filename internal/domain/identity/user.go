package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// Role controls what a user may do in the system
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleInvoicing Role = "INVOICING_USER"
	RoleContact   Role = "CONTACT_USER"
	RoleSystem    Role = "SYSTEM"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleInvoicing, RoleContact, RoleSystem:
		return true
	}
	return false
}

// SystemUserEmail identifies the seeded fallback actor used when a
// background operation (gateway callbacks, cleanup) has no real user.
const SystemUserEmail = "system@shiv.local"

// User is a minimal account record. Authentication lives outside this
// service; users exist here so every posting carries a creator.
type User struct {
	shared.BaseEntity
	Email string
	Name  string
	Role  Role
}

// NewUser creates a new user
func NewUser(email, name string, role Role) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "email is required")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "name is required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid role: %s", role)
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Name:       name,
		Role:       role,
	}, nil
}

// UserRepository provides access to users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}
