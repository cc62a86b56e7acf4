package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-ats/pkg/domain"
)

// CredentialsRepository handles password credential persistence.
type CredentialsRepository struct {
	db *sql.DB
}

// NewCredentialsRepository creates a new credentials repository.
func NewCredentialsRepository(db *sql.DB) *CredentialsRepository {
	return &CredentialsRepository{db: db}
}

// CreateTx stores a password hash within a transaction.
func (r *CredentialsRepository) CreateTx(ctx context.Context, q Querier, cred *domain.UserPassword) error {
	query := `
		INSERT INTO user_passwords (user_id, password_hash, temporary, password_updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.ExecContext(ctx, query, cred.UserID, cred.PasswordHash, cred.Temporary, cred.PasswordUpdatedAt)
	return err
}

// GetByUserID retrieves the password credential for a user.
func (r *CredentialsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserPassword, error) {
	query := `
		SELECT user_id, password_hash, temporary, consumed_at, password_updated_at
		FROM user_passwords
		WHERE user_id = $1
	`
	cred := &domain.UserPassword{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cred.UserID, &cred.PasswordHash, &cred.Temporary, &cred.ConsumedAt, &cred.PasswordUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// ConsumeTemporary marks an unused temporary credential as used. It returns
// false when the credential was already consumed, so only one caller can win.
func (r *CredentialsRepository) ConsumeTemporary(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE user_passwords
		SET consumed_at = NOW()
		WHERE user_id = $1 AND temporary AND consumed_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// Replace stores a new permanent password hash for a user.
func (r *CredentialsRepository) Replace(ctx context.Context, userID uuid.UUID, hash string) error {
	query := `
		UPDATE user_passwords
		SET password_hash = $2, temporary = FALSE, consumed_at = NULL, password_updated_at = NOW()
		WHERE user_id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, hash)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
