package auth

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/tendant/simple-ats/pkg/domain"
)

// Common disposable email domains to block (can be extended)
var disposableDomains = map[string]bool{
	"tempmail.com":      true,
	"10minutemail.com":  true,
	"guerrillamail.com": true,
	"mailinator.com":    true,
	"throwaway.email":   true,
	"yopmail.com":       true,
}

// Email validation regex (stricter than RFC 5322 for practical use)
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

const maxEmailLength = 254 // RFC 5321

// ValidateEmail validates an email address for format and length. Returned
// errors wrap domain.ErrInvalidEmail.
func ValidateEmail(email string, strict bool, blockDisposable bool) error {
	if email == "" {
		return fmt.Errorf("%w: email address is required", domain.ErrInvalidEmail)
	}

	if len(email) > maxEmailLength {
		return fmt.Errorf("%w: too long (max %d characters)", domain.ErrInvalidEmail, maxEmailLength)
	}

	normalized := NormalizeEmail(email)

	// mail.ParseAddress also accepts "Name <addr>"; only a bare address is allowed.
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return fmt.Errorf("%w: invalid format", domain.ErrInvalidEmail)
	}

	if strict && !emailRegex.MatchString(addr.Address) {
		return fmt.Errorf("%w: invalid format", domain.ErrInvalidEmail)
	}

	if blockDisposable {
		_, host := splitEmail(addr.Address)
		if disposableDomains[host] {
			return fmt.Errorf("%w: disposable email addresses are not allowed", domain.ErrInvalidEmail)
		}
	}

	return nil
}

// NormalizeEmail normalizes an email address by lowercasing and trimming.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailLocalPart returns the part of an address before the @.
func EmailLocalPart(email string) string {
	local, _ := splitEmail(email)
	return local
}

func splitEmail(email string) (local, host string) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email, ""
	}
	return email[:at], email[at+1:]
}
