package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// HashOpaqueToken generates a SHA256 hash of an opaque token such as a navigation intent id.
// Stores key on the hash so a leaked key listing cannot be replayed.
func HashOpaqueToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}

// NewOpaqueToken returns lengthInBytes of crypto/rand output, URL-safe encoded
// so it can travel in a query string or cookie unescaped.
func NewOpaqueToken(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", errors.New("token length must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
