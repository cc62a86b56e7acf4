package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUser_IsLocked(t *testing.T) {
	now := time.Now()
	past := now.Add(-1 * time.Hour)
	future := now.Add(1 * time.Hour)

	tests := []struct {
		name        string
		lockedUntil *time.Time
		want        bool
	}{
		{
			name:        "not locked (nil)",
			lockedUntil: nil,
			want:        false,
		},
		{
			name:        "locked (future time)",
			lockedUntil: &future,
			want:        true,
		},
		{
			name:        "not locked (past time)",
			lockedUntil: &past,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{
				ID:          uuid.New(),
				TenantID:    uuid.New(),
				Email:       "test@example.com",
				Role:        RoleRecruiter,
				LockedUntil: tt.lockedUntil,
			}

			if got := user.IsLocked(); got != tt.want {
				t.Errorf("IsLocked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserPassword_IsConsumed(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		temporary  bool
		consumedAt *time.Time
		want       bool
	}{
		{name: "permanent password", temporary: false, consumedAt: nil, want: false},
		{name: "permanent with stale consumed_at", temporary: false, consumedAt: &now, want: false},
		{name: "fresh temporary", temporary: true, consumedAt: nil, want: false},
		{name: "used temporary", temporary: true, consumedAt: &now, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pwd := UserPassword{Temporary: tt.temporary, ConsumedAt: tt.consumedAt}
			if got := pwd.IsConsumed(); got != tt.want {
				t.Errorf("IsConsumed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("Role %q should be valid", r)
		}
	}
	if Role("owner").Valid() {
		t.Error("unknown role should not be valid")
	}
	if Role("").Valid() {
		t.Error("empty role should not be valid")
	}
}
