package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-ats/pkg/domain"
)

const tenantColumns = `id, name, tenant_key, industry, active, created_at, updated_at, deleted_at`

// TenantsRepository handles tenant data persistence.
type TenantsRepository struct {
	db *sql.DB
}

// NewTenantsRepository creates a new tenants repository.
func NewTenantsRepository(db *sql.DB) *TenantsRepository {
	return &TenantsRepository{db: db}
}

// TenantFilter narrows a tenant listing.
type TenantFilter struct {
	Query  string
	Limit  int
	Offset int
}

// Create creates a new tenant.
func (r *TenantsRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	return r.CreateTx(ctx, r.db, tenant)
}

// CreateTx creates a new tenant within a transaction.
func (r *TenantsRepository) CreateTx(ctx context.Context, q Querier, tenant *domain.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, tenant_key, industry, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.ExecContext(ctx, query,
		tenant.ID,
		tenant.Name,
		tenant.Key,
		tenant.Industry,
		tenant.Active,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		return conflictFromUnique(err, map[string]string{"tenantId": tenant.Key})
	}
	return nil
}

// GetByID retrieves a tenant by ID.
func (r *TenantsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + `
		FROM tenants
		WHERE id = $1 AND deleted_at IS NULL
	`
	return scanTenant(r.db.QueryRowContext(ctx, query, id))
}

// GetByKey retrieves a tenant by its tenant identifier.
func (r *TenantsRepository) GetByKey(ctx context.Context, key string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + `
		FROM tenants
		WHERE tenant_key = $1 AND deleted_at IS NULL
	`
	return scanTenant(r.db.QueryRowContext(ctx, query, key))
}

// ExistsByKey checks whether a tenant identifier is taken. Soft-deleted
// tenants still hold their key.
func (r *TenantsRepository) ExistsByKey(ctx context.Context, key string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tenants WHERE tenant_key = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, key).Scan(&exists)
	return exists, err
}

// List returns a page of tenants, newest first, and the total match count.
func (r *TenantsRepository) List(ctx context.Context, filter TenantFilter) ([]*domain.Tenant, int, error) {
	where := `
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR tenant_key ILIKE '%' || $1 || '%')
	`

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`+where, filter.Query).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + tenantColumns + ` FROM tenants` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, filter.Query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, total, rows.Err()
}

// SetActive activates or deactivates a tenant. The tenant identifier is never
// updated. Deactivation revokes every open session in the tenant in the same
// transaction, so no signed-in user outlives the switch.
func (r *TenantsRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE tenants
			SET active = $1, updated_at = NOW()
			WHERE id = $2 AND deleted_at IS NULL
		`, active, id)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrTenantNotFound
		}

		if active {
			return nil
		}
		_, err = revokeTenantSessions(ctx, tx, id)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := row.Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Key,
		&tenant.Industry,
		&tenant.Active,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
		&tenant.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}
