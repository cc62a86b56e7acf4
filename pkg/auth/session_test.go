package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-ats/internal/storetest"
	"github.com/tendant/simple-ats/pkg/domain"
)

var testSecret = []byte("test-secret-at-least-32-bytes-long!!")

func newSessionFixture(t *testing.T, ttl time.Duration) (*SessionService, *storetest.Store, *domain.User) {
	t.Helper()
	store := storetest.New()
	svc := NewSessionService(SessionConfig{TTL: ttl, JWTSecret: testSecret, Issuer: "simple-ats"}, store.Sessions())
	user := &domain.User{ID: uuid.New(), TenantID: uuid.New(), Email: "admin@acme.test", Role: domain.RoleTenantAdmin}
	return svc, store, user
}

func TestSessionService_IssueAndValidate(t *testing.T) {
	svc, store, user := newSessionFixture(t, time.Hour)
	ctx := context.Background()

	issued, err := svc.IssueSession(ctx, user, IssueSessionOpts{IP: "203.0.113.7", UserAgent: "test", PasswordChangeRequired: true})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, 3600, issued.ExpiresIn)
	assert.True(t, issued.PasswordChangeRequired)

	claims, err := svc.ValidateToken(ctx, issued.Token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, user.TenantID.String(), claims.TenantID)
	assert.Equal(t, domain.RoleTenantAdmin, claims.Role)
	assert.True(t, claims.PasswordChangeRequired)

	sessionID, err := claims.SessionID()
	require.NoError(t, err)
	session, ok := store.Session(sessionID)
	require.True(t, ok)
	assert.Equal(t, HashToken(issued.Token), session.TokenHash)
	assert.NotEqual(t, issued.Token, session.TokenHash)
	assert.NotNil(t, session.LastSeenAt)
}

func TestSessionService_RevokedTokenRejected(t *testing.T) {
	svc, _, user := newSessionFixture(t, time.Hour)
	ctx := context.Background()

	issued, err := svc.IssueSession(ctx, user, IssueSessionOpts{})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSession(ctx, issued.Token))
	// Revoking twice is a no-op.
	require.NoError(t, svc.RevokeSession(ctx, issued.Token))

	_, err = svc.ValidateToken(ctx, issued.Token)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestSessionService_RevokeAll(t *testing.T) {
	svc, _, user := newSessionFixture(t, time.Hour)
	ctx := context.Background()

	a, err := svc.IssueSession(ctx, user, IssueSessionOpts{})
	require.NoError(t, err)
	b, err := svc.IssueSession(ctx, user, IssueSessionOpts{})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllSessions(ctx, user.ID))

	for _, token := range []string{a.Token, b.Token} {
		_, err := svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, domain.ErrSessionRevoked)
	}
}

func TestSessionService_InvalidTokens(t *testing.T) {
	svc, _, user := newSessionFixture(t, time.Hour)
	ctx := context.Background()

	issued, err := svc.IssueSession(ctx, user, IssueSessionOpts{})
	require.NoError(t, err)

	other := NewSessionService(SessionConfig{JWTSecret: []byte("a-completely-different-secret-value")}, storetest.New().Sessions())
	foreign, err := other.IssueSession(ctx, user, IssueSessionOpts{})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: user.ID.String()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-jwt", wantErr: domain.ErrInvalidToken},
		{name: "tampered", token: issued.Token + "x", wantErr: domain.ErrInvalidToken},
		{name: "wrong secret", token: foreign.Token, wantErr: domain.ErrInvalidToken},
		{name: "alg none", token: unsigned, wantErr: domain.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(ctx, tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSessionService_UnknownSession(t *testing.T) {
	svc, _, user := newSessionFixture(t, time.Hour)

	// Same secret, but the session row lives in a different store.
	stranger := NewSessionService(SessionConfig{TTL: time.Hour, JWTSecret: testSecret, Issuer: "simple-ats"}, storetest.New().Sessions())
	issued, err := stranger.IssueSession(context.Background(), user, IssueSessionOpts{})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), issued.Token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_Expired(t *testing.T) {
	svc, _, user := newSessionFixture(t, -time.Minute)

	issued, err := svc.IssueSession(context.Background(), user, IssueSessionOpts{})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), issued.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestNewSessionService_DefaultTTL(t *testing.T) {
	svc := NewSessionService(SessionConfig{JWTSecret: testSecret}, nil)
	assert.Equal(t, DefaultSessionTTL, svc.TTL())
}
