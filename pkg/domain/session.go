package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session represents a server-side authentication session.
// The client only ever holds a signed reference to it.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TenantID   uuid.UUID
	TokenHash  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	LastSeenAt *time.Time
	Metadata   json.RawMessage
}

// SessionMetadata holds optional session context.
type SessionMetadata struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// IsValid checks if the session is valid (not expired and not revoked).
func (s *Session) IsValid() bool {
	if s.RevokedAt != nil {
		return false
	}
	return time.Now().Before(s.ExpiresAt)
}

// IssuedSession is what a successful login hands back to the transport layer.
type IssuedSession struct {
	Token                  string
	ExpiresAt              time.Time
	ExpiresIn              int
	PasswordChangeRequired bool
}
