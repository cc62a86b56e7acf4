package auth

import (
	"strings"
	"unicode"
)

// SanitizeName trims a display name, drops control characters and collapses
// runs of whitespace. Values are rendered as JSON or through html/template,
// so no HTML escaping happens here.
func SanitizeName(name string) string {
	return strings.Join(strings.Fields(removeControlChars(name)), " ")
}

// SanitizeOptional sanitizes an optional free-text field, returning nil when
// nothing is left.
func SanitizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := SanitizeName(*value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// removeControlChars removes control characters; tabs and newlines become spaces.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
