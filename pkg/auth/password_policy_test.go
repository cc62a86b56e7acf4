package auth

import (
	"reflect"
	"testing"

	"github.com/tendant/simple-ats/internal/config"
)

func TestPasswordPolicy_ValidatePassword(t *testing.T) {
	strict := PasswordPolicy{
		MinLength:        12,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumber:    true,
		RequireSpecial:   true,
	}

	tests := []struct {
		name     string
		policy   PasswordPolicy
		password string
		wantErr  string
	}{
		{
			name:     "no requirements - any password valid",
			policy:   PasswordPolicy{},
			password: "a",
		},
		{
			name:     "min length - too short",
			policy:   PasswordPolicy{MinLength: 8},
			password: "1234567",
			wantErr:  "password must be at least 8 characters long",
		},
		{
			name:     "require uppercase - missing",
			policy:   PasswordPolicy{RequireUppercase: true},
			password: "password",
			wantErr:  "password must contain at least one uppercase letter",
		},
		{
			name:     "require special - missing",
			policy:   PasswordPolicy{RequireSpecial: true},
			password: "Password123",
			wantErr:  "password must contain at least one special character",
		},
		{
			name:     "all requirements - valid",
			policy:   strict,
			password: "StrongPass123!",
		},
		{
			name:     "all requirements - reports first miss",
			policy:   strict,
			password: "short",
			wantErr:  "password must be at least 12 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.ValidatePassword(tt.password)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePassword() unexpected error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestPasswordPolicy_Violations(t *testing.T) {
	policy := PasswordPolicy{
		MinLength:        12,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumber:    true,
		RequireSpecial:   true,
	}

	got := policy.Violations("abc")
	want := []string{
		"be at least 12 characters long",
		"contain at least one uppercase letter",
		"contain at least one number",
		"contain at least one special character",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Violations() = %v, want %v", got, want)
	}

	if v := policy.Violations("StrongPass123!"); len(v) != 0 {
		t.Errorf("Violations() = %v, want none", v)
	}
}

func TestNewPasswordPolicy(t *testing.T) {
	policy := NewPasswordPolicy(config.PasswordPolicyConfig{
		MinLength:        12,
		RequireUppercase: true,
		RequireNumber:    true,
	})

	if policy.MinLength != 12 {
		t.Errorf("MinLength = %d, want 12", policy.MinLength)
	}
	if !policy.RequireUppercase || !policy.RequireNumber {
		t.Error("RequireUppercase and RequireNumber should be true")
	}
	if policy.RequireLowercase || policy.RequireSpecial {
		t.Error("RequireLowercase and RequireSpecial should be false")
	}
}

func TestPasswordPolicy_GetRequirements(t *testing.T) {
	tests := []struct {
		name   string
		policy PasswordPolicy
		want   string
	}{
		{
			name:   "no requirements",
			policy: PasswordPolicy{},
			want:   "No password requirements",
		},
		{
			name:   "min length only",
			policy: PasswordPolicy{MinLength: 8},
			want:   "Password must contain at least 8 characters",
		},
		{
			name:   "temporary password policy",
			policy: *TemporaryPasswordPolicy,
			want:   "Password must contain at least 12 characters, one uppercase letter, one lowercase letter, one number, one special character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.GetRequirements(); got != tt.want {
				t.Errorf("GetRequirements() = %v, want %v", got, tt.want)
			}
		})
	}
}
