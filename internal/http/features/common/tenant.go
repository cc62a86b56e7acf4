// Package common holds the JSON views shared by feature handlers.
package common

import (
	"time"

	"github.com/tendant/simple-ats/pkg/domain"
)

// CompanyResponse is the public view of a tenant.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TenantID  string    `json:"tenantId"`
	Industry  *string   `json:"industry"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserResponse is the public view of a user. It never carries credentials.
type UserResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

// Company converts a tenant.
func Company(t *domain.Tenant) CompanyResponse {
	return CompanyResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		TenantID:  t.Key,
		Industry:  t.Industry,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
	}
}

// User converts a user. A nil user yields nil.
func User(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
