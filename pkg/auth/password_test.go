package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-ats/internal/storetest"
	"github.com/tendant/simple-ats/pkg/domain"
)

type seeded struct {
	store  *storetest.Store
	tenant *domain.Tenant
	user   *domain.User
}

// seedUser stores an active tenant "acme-kk" with one admin whose password is
// password; temporary marks it as a provisioning-issued credential.
func seedUser(t *testing.T, password string, temporary bool) seeded {
	t.Helper()

	store := storetest.New()
	now := time.Now()
	tenant := &domain.Tenant{ID: uuid.New(), Name: "Acme K.K.", Key: "acme-kk", Active: true, CreatedAt: now, UpdatedAt: now}
	user := &domain.User{ID: uuid.New(), TenantID: tenant.ID, Email: "admin@acme.test", Name: "admin", Role: domain.RoleTenantAdmin}

	hash, err := HashPassword(password)
	require.NoError(t, err)
	cred := &domain.UserPassword{UserID: user.ID, PasswordHash: hash, Temporary: temporary, PasswordUpdatedAt: now}

	require.NoError(t, store.Provisioning().CreateTenantWithAdmin(context.Background(), tenant, user, cred))
	return seeded{store: store, tenant: tenant, user: user}
}

func newPasswordService(s *storetest.Store) *PasswordService {
	return NewPasswordService(s.Tenants(), s.Users(), s.Credentials(), TemporaryPasswordPolicy)
}

func TestPasswordService_Authenticate(t *testing.T) {
	const password = "Correct-Horse-9"

	tests := []struct {
		name      string
		tenantKey string
		email     string
		password  string
		wantErr   error
	}{
		{name: "valid", tenantKey: "acme-kk", email: "admin@acme.test", password: password},
		{name: "tenant key and email normalized", tenantKey: " ACME-KK ", email: "Admin@Acme.Test", password: password},
		{name: "wrong password", tenantKey: "acme-kk", email: "admin@acme.test", password: "nope", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown tenant", tenantKey: "globex", email: "admin@acme.test", password: password, wantErr: domain.ErrInvalidCredentials},
		{name: "unknown user", tenantKey: "acme-kk", email: "who@acme.test", password: password, wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := seedUser(t, password, false)
			svc := newPasswordService(seed.store)

			result, err := svc.Authenticate(context.Background(), tt.tenantKey, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, seed.user.ID, result.User.ID)
			assert.False(t, result.PasswordChangeRequired)
		})
	}
}

func TestPasswordService_AuthenticateInactiveTenant(t *testing.T) {
	seed := seedUser(t, "Correct-Horse-9", false)
	require.NoError(t, seed.store.Tenants().SetActive(context.Background(), seed.tenant.ID, false))

	_, err := newPasswordService(seed.store).Authenticate(context.Background(), "acme-kk", "admin@acme.test", "Correct-Horse-9")
	assert.ErrorIs(t, err, domain.ErrTenantInactive)
}

func TestPasswordService_TemporaryPasswordIsSingleUse(t *testing.T) {
	temp, err := GenerateTemporaryPassword(DefaultTemporaryPasswordLength)
	require.NoError(t, err)

	seed := seedUser(t, temp, true)
	svc := newPasswordService(seed.store)
	ctx := context.Background()

	first, err := svc.Authenticate(ctx, "acme-kk", "admin@acme.test", temp)
	require.NoError(t, err)
	assert.True(t, first.PasswordChangeRequired)

	cred, ok := seed.store.Credential(seed.user.ID)
	require.True(t, ok)
	assert.True(t, cred.IsConsumed())

	_, err = svc.Authenticate(ctx, "acme-kk", "admin@acme.test", temp)
	assert.ErrorIs(t, err, domain.ErrTemporaryCredentialConsumed)

	// A wrong guess after consumption is still just invalid credentials.
	_, err = svc.Authenticate(ctx, "acme-kk", "admin@acme.test", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestPasswordService_Lockout(t *testing.T) {
	seed := seedUser(t, "Correct-Horse-9", false)
	svc := newPasswordService(seed.store)
	ctx := context.Background()

	for i := 0; i < maxFailedAttempts; i++ {
		_, err := svc.Authenticate(ctx, "acme-kk", "admin@acme.test", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	_, err := svc.Authenticate(ctx, "acme-kk", "admin@acme.test", "Correct-Horse-9")
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
}

func TestPasswordService_ChangePassword(t *testing.T) {
	temp, err := GenerateTemporaryPassword(DefaultTemporaryPasswordLength)
	require.NoError(t, err)

	seed := seedUser(t, temp, true)
	svc := newPasswordService(seed.store)
	ctx := context.Background()

	_, err = svc.Authenticate(ctx, "acme-kk", "admin@acme.test", temp)
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, seed.user.ID, "wrong", "Brand-New-Pass-1")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("weak new password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, seed.user.ID, temp, "short")
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "newPassword")
	})

	t.Run("same password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, seed.user.ID, temp, temp)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
	})

	t.Run("consumed temporary password accepted for the forced change", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, seed.user.ID, temp, "Brand-New-Pass-1"))

		cred, _ := seed.store.Credential(seed.user.ID)
		assert.False(t, cred.Temporary)
		assert.Nil(t, cred.ConsumedAt)

		result, err := svc.Authenticate(ctx, "acme-kk", "admin@acme.test", "Brand-New-Pass-1")
		require.NoError(t, err)
		assert.False(t, result.PasswordChangeRequired)

		// The old temporary password no longer works anywhere.
		assert.ErrorIs(t, svc.ChangePassword(ctx, seed.user.ID, temp, "Another-Pass-2"), domain.ErrInvalidCredentials)
	})
}

func TestPasswordService_Requirements(t *testing.T) {
	svc := newPasswordService(storetest.New())
	assert.Equal(t, "Password must contain at least 12 characters, one uppercase letter, one lowercase letter, one number, one special character", svc.Requirements())

	assert.Empty(t, NewPasswordService(nil, nil, nil, nil).Requirements())
	assert.Empty(t, NewPasswordService(nil, nil, nil, &PasswordPolicy{}).Requirements())
}

func TestPasswordService_Argon2Parameters(t *testing.T) {
	// Verify that Argon2 parameters are set correctly (OWASP recommended)
	if argon2Time != 1 {
		t.Errorf("argon2Time = %d, want 1", argon2Time)
	}
	if argon2Memory != 64*1024 {
		t.Errorf("argon2Memory = %d, want %d", argon2Memory, 64*1024)
	}
	if argon2Threads != 4 {
		t.Errorf("argon2Threads = %d, want 4", argon2Threads)
	}
	if argon2KeyLen != 32 {
		t.Errorf("argon2KeyLen = %d, want 32", argon2KeyLen)
	}
	if saltLen != 16 {
		t.Errorf("saltLen = %d, want 16", saltLen)
	}
}

func TestPasswordHashing_CaseSensitive(t *testing.T) {
	hash, err := HashPassword("TestPassword123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "exact match", password: "TestPassword123", want: true},
		{name: "lowercase", password: "testpassword123", want: false},
		{name: "uppercase", password: "TESTPASSWORD123", want: false},
		{name: "empty", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.password, hash); got != tt.want {
				t.Errorf("VerifyPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}
