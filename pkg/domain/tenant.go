package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents a company on the platform.
// Key is the subdomain-safe tenant identifier; it is immutable once created.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Key       string
	Industry  *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// PlatformTenantKey is the reserved tenant that owns platform administrators.
const PlatformTenantKey = "platform"
