package repository

import (
	"context"
	"database/sql"

	"github.com/tendant/simple-ats/pkg/domain"
)

// ProvisioningRepository writes a tenant and its bootstrap administrator as
// one unit.
type ProvisioningRepository struct {
	db      *sql.DB
	tenants *TenantsRepository
	users   *UsersRepository
	creds   *CredentialsRepository
}

// NewProvisioningRepository creates a new provisioning repository.
func NewProvisioningRepository(db *sql.DB, tenants *TenantsRepository, users *UsersRepository, creds *CredentialsRepository) *ProvisioningRepository {
	return &ProvisioningRepository{
		db:      db,
		tenants: tenants,
		users:   users,
		creds:   creds,
	}
}

// TenantKeyExists checks whether a tenant identifier is taken.
func (r *ProvisioningRepository) TenantKeyExists(ctx context.Context, key string) (bool, error) {
	return r.tenants.ExistsByKey(ctx, key)
}

// CreateTenantWithAdmin inserts the tenant and, when admin is non-nil, the
// admin user and credential in a single transaction. Nothing is committed
// unless every insert succeeds.
func (r *ProvisioningRepository) CreateTenantWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User, cred *domain.UserPassword) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := r.tenants.CreateTx(ctx, tx, tenant); err != nil {
			return err
		}
		if admin == nil {
			return nil
		}
		if err := r.users.CreateTx(ctx, tx, admin); err != nil {
			return err
		}
		return r.creds.CreateTx(ctx, tx, cred)
	})
}
