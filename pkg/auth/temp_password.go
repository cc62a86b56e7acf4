package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// MinTemporaryPasswordLength is the shortest temporary password we hand out.
const MinTemporaryPasswordLength = 12

// DefaultTemporaryPasswordLength is used when no length is configured.
const DefaultTemporaryPasswordLength = 16

const (
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars  = "23456789"
	symbolChars = "!@#$%^&*-_=+?"
)

// TemporaryPasswordPolicy is the policy every generated temporary password satisfies.
var TemporaryPasswordPolicy = &PasswordPolicy{
	MinLength:        MinTemporaryPasswordLength,
	RequireUppercase: true,
	RequireLowercase: true,
	RequireNumber:    true,
	RequireSpecial:   true,
}

// GenerateTemporaryPassword returns a random password of the given length
// (raised to MinTemporaryPasswordLength if shorter) containing at least one
// lowercase letter, uppercase letter, digit and symbol. Look-alike characters
// are excluded from the alphabet.
func GenerateTemporaryPassword(length int) (string, error) {
	if length < MinTemporaryPasswordLength {
		length = MinTemporaryPasswordLength
	}

	classes := []string{lowerChars, upperChars, digitChars, symbolChars}
	all := lowerChars + upperChars + digitChars + symbolChars

	buf := make([]byte, 0, length)
	for _, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < length {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	// Fisher-Yates so the guaranteed characters are not always up front.
	for i := len(buf) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		buf[i], buf[j.Int64()] = buf[j.Int64()], buf[i]
	}

	password := string(buf)
	if err := TemporaryPasswordPolicy.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("generated password violates policy: %w", err)
	}
	return password, nil
}

func randomChar(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[n.Int64()], nil
}
