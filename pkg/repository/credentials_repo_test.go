package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-ats/pkg/domain"
)

func TestCredentialsRepository_ConsumeTemporary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCredentialsRepository(db)
	userID := uuid.New()
	query := regexp.QuoteMeta("UPDATE user_passwords")

	mock.ExpectExec(query).WithArgs(userID.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(userID.String()).WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.ConsumeTemporary(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, first, "first consume should win")

	second, err := repo.ConsumeTemporary(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, second, "second consume should lose")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialsRepository_ReplaceUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCredentialsRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE user_passwords")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Replace(context.Background(), uuid.New(), "hash")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
