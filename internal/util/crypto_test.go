package util

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	password := "MyPassword123"

	hashed, err := HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Errorf("hash does not look like bcrypt: %q", hashed)
	}

	// empty password is rejected
	if _, err := HashPassword("", bcrypt.MinCost); err == nil {
		t.Error("empty password should fail")
	}

	// same password yields a different hash (random salt)
	hashed2, _ := HashPassword(password, bcrypt.MinCost)
	if hashed == hashed2 {
		t.Error("same password should produce different hashes")
	}

	// out-of-range cost falls back to the default
	if _, err := HashPassword(password, 99); err != nil {
		t.Errorf("out-of-range cost should fall back, got %v", err)
	}
}

func TestCheckPassword(t *testing.T) {
	password := "TestPass456"
	hashed, _ := HashPassword(password, bcrypt.MinCost)

	if !CheckPassword(password, hashed) {
		t.Error("correct password rejected")
	}
	if CheckPassword("WrongPass", hashed) {
		t.Error("wrong password accepted")
	}
	if CheckPassword("", hashed) {
		t.Error("empty password accepted")
	}
	if CheckPassword(password, "") {
		t.Error("empty hash accepted")
	}
	if CheckPassword(password, "invalid-format") {
		t.Error("invalid hash format accepted")
	}
}

func TestHashSecondaryID(t *testing.T) {
	a := HashSecondaryID("ABC1234567")
	b := HashSecondaryID("abc1234567")
	c := HashSecondaryID("  ABC1234567  ")

	// normalization: case and surrounding whitespace do not matter
	if a != b || a != c {
		t.Errorf("normalization failed: %q %q %q", a, b, c)
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if a == HashSecondaryID("XYZ0000000") {
		t.Error("different IDs produced the same digest")
	}
}
