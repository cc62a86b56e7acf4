package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tendant/simple-ats/internal/config"
)

// PasswordPolicy defines password complexity requirements.
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

// NewPasswordPolicy creates a PasswordPolicy from config.
func NewPasswordPolicy(cfg config.PasswordPolicyConfig) *PasswordPolicy {
	return &PasswordPolicy{
		MinLength:        cfg.MinLength,
		RequireUppercase: cfg.RequireUppercase,
		RequireLowercase: cfg.RequireLowercase,
		RequireNumber:    cfg.RequireNumber,
		RequireSpecial:   cfg.RequireSpecial,
	}
}

// ValidatePassword returns the first requirement the password misses.
func (p *PasswordPolicy) ValidatePassword(password string) error {
	if v := p.Violations(password); len(v) > 0 {
		return fmt.Errorf("password must %s", v[0])
	}
	return nil
}

// Violations lists every requirement the password misses, in policy order.
func (p *PasswordPolicy) Violations(password string) []string {
	var missing []string
	if p.MinLength > 0 && len(password) < p.MinLength {
		missing = append(missing, fmt.Sprintf("be at least %d characters long", p.MinLength))
	}
	if p.RequireUppercase && !containsClass(password, unicode.IsUpper) {
		missing = append(missing, "contain at least one uppercase letter")
	}
	if p.RequireLowercase && !containsClass(password, unicode.IsLower) {
		missing = append(missing, "contain at least one lowercase letter")
	}
	if p.RequireNumber && !containsClass(password, unicode.IsDigit) {
		missing = append(missing, "contain at least one number")
	}
	if p.RequireSpecial && !containsClass(password, isSpecial) {
		missing = append(missing, "contain at least one special character")
	}
	return missing
}

// GetRequirements returns a human-readable description of the policy.
func (p *PasswordPolicy) GetRequirements() string {
	if !p.HasRequirements() {
		return "No password requirements"
	}

	var requirements []string
	if p.MinLength > 0 {
		requirements = append(requirements, fmt.Sprintf("at least %d characters", p.MinLength))
	}
	if p.RequireUppercase {
		requirements = append(requirements, "one uppercase letter")
	}
	if p.RequireLowercase {
		requirements = append(requirements, "one lowercase letter")
	}
	if p.RequireNumber {
		requirements = append(requirements, "one number")
	}
	if p.RequireSpecial {
		requirements = append(requirements, "one special character")
	}

	return "Password must contain " + strings.Join(requirements, ", ")
}

// HasRequirements returns true if the policy has any requirements.
func (p *PasswordPolicy) HasRequirements() bool {
	return p.MinLength > 0 || p.RequireUppercase || p.RequireLowercase || p.RequireNumber || p.RequireSpecial
}

func containsClass(s string, match func(rune) bool) bool {
	for _, r := range s {
		if match(r) {
			return true
		}
	}
	return false
}

func isSpecial(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}
