package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/tendant/simple-ats/pkg/domain"
)

const uniqueViolation = "23505"

// Unique constraints from migrations/00001_init.sql, keyed to request fields.
var constraintFields = map[string]string{
	"tenants_tenant_key_key":    "tenantId",
	"users_tenant_id_email_key": "adminEmail",
}

// isUniqueViolation reports whether err is a Postgres unique violation and
// returns the violated constraint name.
func isUniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// conflictFromUnique converts a unique violation into a domain.ConflictError.
// values maps request field names to the submitted value.
func conflictFromUnique(err error, values map[string]string) error {
	constraint, ok := isUniqueViolation(err)
	if !ok {
		return err
	}
	field, known := constraintFields[constraint]
	if !known {
		field = "resource"
	}
	return &domain.ConflictError{Field: field, Value: values[field]}
}
