package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-ats/pkg/domain"
)

var (
	updateTenant   = regexp.QuoteMeta("UPDATE tenants")
	revokeSessions = regexp.QuoteMeta("UPDATE sessions")
)

func TestTenantsRepository_GetByKeyNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTenantsRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM tenants")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByKey(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantsRepository_DeactivateRevokesSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(updateTenant).WithArgs(false, id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(revokeSessions).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	err = NewTenantsRepository(db).SetActive(context.Background(), id, false)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantsRepository_ActivateKeepsSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(updateTenant).WithArgs(true, id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewTenantsRepository(db).SetActive(context.Background(), id, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantsRepository_SetActiveUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(updateTenant).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = NewTenantsRepository(db).SetActive(context.Background(), uuid.New(), false)
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantsRepository_RevokeFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(updateTenant).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(revokeSessions).WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	err = NewTenantsRepository(db).SetActive(context.Background(), uuid.New(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}
