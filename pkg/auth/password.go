package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-ats/pkg/domain"
	"golang.org/x/crypto/argon2"
)

// Argon2 parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Lockout policy.
const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

// TenantLookup resolves a tenant by its tenant identifier.
type TenantLookup interface {
	GetByKey(ctx context.Context, key string) (*domain.Tenant, error)
}

// UserStore is the user persistence PasswordService needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByTenantAndEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error)
	IncrementFailedLoginAttempts(ctx context.Context, userID uuid.UUID, lockout time.Duration, maxAttempts int) error
	ResetFailedLoginAttempts(ctx context.Context, userID uuid.UUID) error
}

// CredentialStore is the password credential persistence PasswordService needs.
type CredentialStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserPassword, error)
	ConsumeTemporary(ctx context.Context, userID uuid.UUID) (bool, error)
	Replace(ctx context.Context, userID uuid.UUID, hash string) error
}

// AuthResult is the outcome of a successful password authentication.
type AuthResult struct {
	User                   *domain.User
	PasswordChangeRequired bool
}

// PasswordService handles password authentication.
type PasswordService struct {
	tenants TenantLookup
	users   UserStore
	creds   CredentialStore
	policy  *PasswordPolicy
}

// NewPasswordService creates a new password service.
func NewPasswordService(tenants TenantLookup, users UserStore, creds CredentialStore, policy *PasswordPolicy) *PasswordService {
	return &PasswordService{
		tenants: tenants,
		users:   users,
		creds:   creds,
		policy:  policy,
	}
}

// Authenticate verifies a tenant-scoped email and password.
// Implements account lockout after 5 failed attempts with 15-minute lockout duration.
// A temporary password authenticates exactly once; the result then asks for a
// password change.
func (s *PasswordService) Authenticate(ctx context.Context, tenantKey, email, password string) (*AuthResult, error) {
	tenant, err := s.tenants.GetByKey(ctx, NormalizeTenantKey(tenantKey))
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !tenant.Active {
		return nil, domain.ErrTenantInactive
	}

	user, err := s.users.GetByTenantAndEmail(ctx, tenant.ID, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked() {
		return nil, domain.ErrAccountLocked
	}

	cred, err := s.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, cred.PasswordHash) {
		_ = s.users.IncrementFailedLoginAttempts(ctx, user.ID, lockoutDuration, maxFailedAttempts)
		return nil, domain.ErrInvalidCredentials
	}

	result := &AuthResult{User: user}
	if cred.Temporary {
		if cred.IsConsumed() {
			return nil, domain.ErrTemporaryCredentialConsumed
		}
		won, err := s.creds.ConsumeTemporary(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if !won {
			return nil, domain.ErrTemporaryCredentialConsumed
		}
		result.PasswordChangeRequired = true
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		_ = s.users.ResetFailedLoginAttempts(ctx, user.ID)
	}

	return result, nil
}

// GetUserByID retrieves a user by ID.
func (s *PasswordService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Requirements describes the password policy for the change-password form.
// It is empty when no policy is configured.
func (s *PasswordService) Requirements() string {
	if s.policy == nil || !s.policy.HasRequirements() {
		return ""
	}
	return s.policy.GetRequirements()
}

// ChangePassword replaces a user's password after checking the current one.
// A consumed temporary password is still accepted as the current password so
// the forced change can complete; the replacement is never temporary.
func (s *PasswordService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	cred, err := s.creds.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if !VerifyPassword(currentPassword, cred.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	if newPassword == currentPassword {
		return domain.NewValidationError("newPassword", "must differ from the current password")
	}

	if s.policy != nil {
		if err := s.policy.ValidatePassword(newPassword); err != nil {
			return domain.NewValidationError("newPassword", err.Error())
		}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.creds.Replace(ctx, userID, hash)
}

// HashPassword hashes a password using Argon2id.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := randomBytes(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encode as: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	return encodeArgon2Hash(hash, salt, argon2Time, argon2Memory, argon2Threads), nil
}

// VerifyPassword verifies a password against an Argon2id hash.
func VerifyPassword(password, encodedHash string) bool {
	hash, salt, iterations, memory, threads, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(hash)))
	return constantTimeCompare(hash, computed)
}
