package utils

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a given password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// StrengthChecklist holds the five independent password predicates shown to
// the user while they type a new password.
type StrengthChecklist struct {
	MinLength bool `json:"minLength"` // at least 8 characters
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Digit     bool `json:"digit"`
	Symbol    bool `json:"symbol"`
}

func CheckPasswordStrength(password string) StrengthChecklist {
	cl := StrengthChecklist{MinLength: len([]rune(password)) >= 8}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			cl.Uppercase = true
		case unicode.IsLower(r):
			cl.Lowercase = true
		case unicode.IsDigit(r):
			cl.Digit = true
		default:
			cl.Symbol = true
		}
	}
	return cl
}

// IsPasswordSecure is true iff every checklist predicate holds.
func IsPasswordSecure(password string) bool {
	cl := CheckPasswordStrength(password)
	return cl.MinLength && cl.Uppercase && cl.Lowercase && cl.Digit && cl.Symbol
}
