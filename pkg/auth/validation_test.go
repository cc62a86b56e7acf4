package auth

import (
	"strings"
	"testing"

	"github.com/tendant/simple-ats/pkg/domain"
)

func TestValidateTenantKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{
			name: "lowercase with hyphen",
			key:  "acme-kk",
		},
		{
			name: "digits only",
			key:  "42",
		},
		{
			name: "maximum length (63 chars)",
			key:  strings.Repeat("a", 63),
		},
		{
			name:    "empty string",
			key:     "",
			wantErr: true,
		},
		{
			name:    "too long (64 chars)",
			key:     strings.Repeat("a", 64),
			wantErr: true,
		},
		{
			name:    "uppercase",
			key:     "Acme",
			wantErr: true,
		},
		{
			name:    "contains space",
			key:     "acme kk",
			wantErr: true,
		},
		{
			name:    "underscore",
			key:     "acme_kk",
			wantErr: true,
		},
		{
			name:    "dot",
			key:     "acme.kk",
			wantErr: true,
		},
		{
			name:    "unicode characters",
			key:     "acmé",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTenantKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTenantKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && err != domain.ErrInvalidTenantID {
				t.Errorf("ValidateTenantKey(%q) error = %v, want %v", tt.key, err, domain.ErrInvalidTenantID)
			}
		})
	}
}

func TestNormalizeTenantKey(t *testing.T) {
	if got := NormalizeTenantKey("  Acme-KK "); got != "acme-kk" {
		t.Errorf("NormalizeTenantKey() = %q, want %q", got, "acme-kk")
	}
}

func TestIsReservedTenantKey(t *testing.T) {
	if !IsReservedTenantKey(domain.PlatformTenantKey) {
		t.Errorf("IsReservedTenantKey(%q) = false, want true", domain.PlatformTenantKey)
	}
	for _, key := range []string{"acme-kk", "platforms", "my-platform", ""} {
		if IsReservedTenantKey(key) {
			t.Errorf("IsReservedTenantKey(%q) = true, want false", key)
		}
	}
}
