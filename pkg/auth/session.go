package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-ats/pkg/domain"
)

// DefaultSessionTTL is the session lifetime when none is configured.
const DefaultSessionTTL = 8 * time.Hour

// SessionConfig holds session configuration.
type SessionConfig struct {
	TTL       time.Duration
	JWTSecret []byte
	Issuer    string
}

// SessionStore is the session persistence SessionService needs.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error
	UpdateLastSeen(ctx context.Context, id uuid.UUID) error
}

// SessionService issues and validates server-side sessions. The client holds
// a signed token whose jti names the session row; the row stores the token
// hash and decides whether the token is still good.
type SessionService struct {
	config   SessionConfig
	sessions SessionStore
}

// NewSessionService creates a new session service.
func NewSessionService(config SessionConfig, sessions SessionStore) *SessionService {
	if config.TTL == 0 {
		config.TTL = DefaultSessionTTL
	}
	return &SessionService{
		config:   config,
		sessions: sessions,
	}
}

// TTL returns the session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.config.TTL
}

// IssueSessionOpts holds options for session issuance.
type IssueSessionOpts struct {
	IP                     string
	UserAgent              string
	PasswordChangeRequired bool
}

// SessionClaims represents the claims in a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	TenantID               string      `json:"tid"`
	Email                  string      `json:"email,omitempty"`
	Role                   domain.Role `json:"role"`
	PasswordChangeRequired bool        `json:"pcr,omitempty"`
}

// UserID returns the subject as a UUID.
func (c *SessionClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// SessionID returns the jti as a UUID.
func (c *SessionClaims) SessionID() (uuid.UUID, error) {
	return uuid.Parse(c.ID)
}

// IssueSession creates a session row and returns the signed token for it.
// This is the single entry point for session creation.
func (s *SessionService) IssueSession(ctx context.Context, user *domain.User, opts IssueSessionOpts) (*domain.IssuedSession, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.TTL)
	sessionID := uuid.New()

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.Issuer,
			ID:        sessionID.String(),
		},
		TenantID:               user.TenantID.String(),
		Email:                  user.Email,
		Role:                   user.Role,
		PasswordChangeRequired: opts.PasswordChangeRequired,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		TenantID:  user.TenantID,
		TokenHash: HashToken(token),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if opts.IP != "" || opts.UserAgent != "" {
		metadata, _ := json.Marshal(domain.SessionMetadata{IP: opts.IP, UserAgent: opts.UserAgent})
		session.Metadata = metadata
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.IssuedSession{
		Token:                  token,
		ExpiresAt:              expiresAt,
		ExpiresIn:              int(s.config.TTL.Seconds()),
		PasswordChangeRequired: opts.PasswordChangeRequired,
	}, nil
}

// ValidateToken checks the token signature and the session row behind it.
func (s *SessionService) ValidateToken(ctx context.Context, tokenString string) (*SessionClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	sessionID, err := claims.SessionID()
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !constantTimeCompare([]byte(session.TokenHash), []byte(HashToken(tokenString))) {
		return nil, domain.ErrInvalidToken
	}
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if !session.IsValid() {
		return nil, domain.ErrSessionExpired
	}

	_ = s.sessions.UpdateLastSeen(ctx, session.ID)

	return claims, nil
}

// RevokeSession revokes the session behind a token. Unknown, expired and
// already revoked tokens are a no-op.
func (s *SessionService) RevokeSession(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	return s.sessions.RevokeByTokenHash(ctx, HashToken(tokenString))
}

// RevokeAllSessions revokes all sessions for a user.
func (s *SessionService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.RevokeAllByUserID(ctx, userID)
}

func (s *SessionService) parse(tokenString string) (*SessionClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.config.JWTSecret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
