package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt. cost falls back to
// bcrypt.DefaultCost when out of range.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against a stored bcrypt hash.
func CheckPassword(password, stored string) bool {
	if password == "" || stored == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// HashSecondaryID produces the SHA-256 hex digest stored for government-ID
// lookups. Input is trimmed and lowercased so clients don't have to agree
// on formatting.
func HashSecondaryID(id string) string {
	normalized := strings.ToLower(strings.TrimSpace(id))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
