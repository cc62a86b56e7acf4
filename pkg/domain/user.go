package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account. Every user belongs to exactly one tenant.
type User struct {
	ID                  uuid.UUID
	TenantID            uuid.UUID
	Email               string
	Name                string
	Role                Role
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// IsLocked returns true if the account is currently locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// UserPassword stores password credentials separately from user profile.
// Temporary credentials are single use: ConsumedAt is set on the first
// successful login.
type UserPassword struct {
	UserID            uuid.UUID
	PasswordHash      string
	Temporary         bool
	ConsumedAt        *time.Time
	PasswordUpdatedAt time.Time
}

// IsConsumed reports whether a temporary credential has already been used.
func (p *UserPassword) IsConsumed() bool {
	return p.Temporary && p.ConsumedAt != nil
}
