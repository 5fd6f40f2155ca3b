package utils

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest password accepted at signup and onboarding.
const MinSecretLength = 8

// MaxSecretBytes is the longest password bcrypt will hash.
const MaxSecretBytes = 72

// secretHashCost is the bcrypt work factor used for stored passwords.
const secretHashCost = 10

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), secretHashCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsStrongPassword reports whether password meets the minimum length.
func IsStrongPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinSecretLength
}

// IsPasswordWithinLimit reports whether password fits in bcrypt's input.
func IsPasswordWithinLimit(password string) bool {
	return len(password) <= MaxSecretBytes
}
