// Package token mints and verifies the signed session tokens that carry
// principal identity and role claims. Tokens are stateless: there is no
// server-side revocation, a token stays valid until its expiry elapses.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpired      = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the session payload. Role is the currently active role and is
// always a member of Roles; Roles is the full binding list captured at
// login and carried unchanged through role switches and refreshes.
type Claims struct {
	PrincipalID string   `json:"principal_id"`
	Identifier  string   `json:"identifier"`
	Role        string   `json:"role,omitempty"`
	Roles       []string `json:"roles"`
	jwt.RegisteredClaims
}

// Issuer signs and parses session tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewIssuer builds an Issuer. ttlHours defaults to 8 when non-positive.
func NewIssuer(secret, issuer string, ttlHours int) *Issuer {
	if ttlHours <= 0 {
		ttlHours = 8
	}
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    time.Duration(ttlHours) * time.Hour,
	}
}

// TTL returns the configured session lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Generate mints a fresh token for the principal. Every call produces a
// full-TTL token; nothing ever extends an existing one.
func (i *Issuer) Generate(principalID, identifier, role string, roles []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		PrincipalID: principalID,
		Identifier:  identifier,
		Role:        role,
		Roles:       roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Parse verifies signature and expiry and returns the claims.
// Returns ErrExpired for an out-of-date token and ErrInvalidToken for any
// other verification failure.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
