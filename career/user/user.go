package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDeleted   Status = "DELETED"
)

type User struct {
	ID           kernel.UserID `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Email        kernel.Email  `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Role         string        `db:"role" json:"role"`
	TargetRole   kernel.RoleID `db:"target_role" json:"target_role,omitempty"`
	Status       Status        `db:"status" json:"status"`
	LastLoginAt  *time.Time    `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(hash string) {
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
}

// Deactivate soft-deletes the account. The email is rewritten so the
// address can be registered again.
func (u *User) Deactivate() {
	u.Status = StatusDeleted
	u.Email = kernel.NewEmail(fmt.Sprintf("deleted_%s_%s", u.ID, u.Email))
	u.UpdatedAt = time.Now()
}

// ToProfile converts a user to its public form
func (u *User) ToProfile() Profile {
	return Profile{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		TargetRole:  u.TargetRole,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) kernel.Email {
	return kernel.NewEmail(strings.ToLower(strings.TrimSpace(email)))
}
