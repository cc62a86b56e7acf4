package auth

import (
	"regexp"
	"strings"

	"github.com/tendant/simple-ats/pkg/domain"
)

// MaxTenantKeyLength keeps tenant identifiers usable as a DNS label.
const MaxTenantKeyLength = 63

var tenantKeyRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateTenantKey checks that key is a subdomain-safe tenant identifier:
// lowercase letters, digits and hyphens only. The key is not normalized
// first, so uppercase input is rejected rather than silently rewritten.
func ValidateTenantKey(key string) error {
	if key == "" || len(key) > MaxTenantKeyLength {
		return domain.ErrInvalidTenantID
	}
	if !tenantKeyRegex.MatchString(key) {
		return domain.ErrInvalidTenantID
	}
	return nil
}

// reservedTenantKeys cannot be claimed through ordinary provisioning.
var reservedTenantKeys = map[string]bool{
	domain.PlatformTenantKey: true,
}

// IsReservedTenantKey reports whether key belongs to the platform itself.
func IsReservedTenantKey(key string) bool {
	return reservedTenantKeys[key]
}

// NormalizeTenantKey trims and lowercases a tenant identifier typed at login.
func NormalizeTenantKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
