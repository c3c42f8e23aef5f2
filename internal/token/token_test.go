package token

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", "voting-backend", 8)

	roles := []string{"admin", "agent"}
	tok, err := issuer.Generate("user-1", "admin@example.com", "admin", roles)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.PrincipalID != "user-1" {
		t.Errorf("PrincipalID = %q, want user-1", claims.PrincipalID)
	}
	if claims.Identifier != "admin@example.com" {
		t.Errorf("Identifier = %q", claims.Identifier)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" || claims.Roles[1] != "agent" {
		t.Errorf("Roles = %v, want [admin agent]", claims.Roles)
	}
}

func TestExpiryIsEightHours(t *testing.T) {
	issuer := NewIssuer("test-secret", "voting-backend", 0) // defaults to 8

	tok, err := issuer.Generate("user-1", "x@example.com", "", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	claims, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != 8*time.Hour {
		t.Errorf("token TTL = %v, want 8h", ttl)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-a", "voting-backend", 8)
	other := NewIssuer("secret-b", "voting-backend", 8)

	tok, err := issuer.Generate("user-1", "x@example.com", "agent", []string{"agent"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := other.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse with wrong secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	issuer := NewIssuer("test-secret", "voting-backend", 8)
	if _, err := issuer.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse garbage: err = %v, want ErrInvalidToken", err)
	}
}
