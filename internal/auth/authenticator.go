// Package auth implements authentication and role authority: identifier
// classification, credential verification, the static role hierarchy and
// the provisioning gate, plus role switching on live sessions.
//
// Sessions are stateless tokens. Switching roles or refreshing mints a new
// token and leaves the old one valid until its TTL elapses — an accepted
// trust window. Deployments that need hard revocation would have to add a
// server-side denylist or shorten the TTL.
package auth

import (
	"errors"
	"fmt"

	"github.com/Vk9769/voting-backend/internal/models"
	"github.com/Vk9769/voting-backend/internal/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Session is the result of a successful login, role switch or refresh.
type Session struct {
	Token string
	User  *models.User
	Role  string // active role, empty when the principal has no bindings
	Roles []string
}

// Authenticator orchestrates identifier resolution, credential checks,
// role resolution and token issuance.
type Authenticator struct {
	DB     *gorm.DB
	Tokens *token.Issuer
}

func NewAuthenticator(db *gorm.DB, tokens *token.Issuer) *Authenticator {
	return &Authenticator{DB: db, Tokens: tokens}
}

// Login resolves the identifier, verifies the password and issues a fresh
// session token. The active role defaults to the principal's
// highest-authority role; a principal with no bindings still gets a session
// with an empty active role (the role gate rejects it at protected routes).
func (a *Authenticator) Login(identifier, password string) (*Session, error) {
	var user models.User
	q := a.DB
	switch ClassifyIdentifier(identifier) {
	case KindEmail:
		q = q.Where("email = ?", identifier)
	case KindPhone:
		q = q.Where("phone = ?", identifier)
	default:
		q = q.Where("LOWER(voter_id) = LOWER(?) OR LOWER(gov_id_number) = LOWER(?)",
			identifier, identifier)
	}
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup principal: %w", err)
	}

	// bcrypt does its own constant-structure comparison; nothing here
	// short-circuits on partial matches.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	roles, err := a.rolesFor(user.ID)
	if err != nil {
		return nil, err
	}

	active := ""
	if len(roles) > 0 {
		active = roles[0]
	}

	tok, err := a.Tokens.Generate(user.ID, user.Email, active, roles)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{Token: tok, User: &user, Role: active, Roles: roles}, nil
}

// SwitchRole mints a new session with a different active role. The
// requested role must be an exact, case-sensitive member of the role list
// captured at login; storage is not re-queried.
func (a *Authenticator) SwitchRole(claims *token.Claims, requested string) (string, error) {
	held := false
	for _, r := range claims.Roles {
		if r == requested {
			held = true
			break
		}
	}
	if !held {
		return "", ErrForbidden
	}

	tok, err := a.Tokens.Generate(claims.PrincipalID, claims.Identifier, requested, claims.Roles)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

// Refresh verifies the presented token and reissues it with a fresh TTL.
// The active role and role list come from the decoded claims — dropping
// them here would silently strip authority from the session.
func (a *Authenticator) Refresh(tokenStr string) (string, error) {
	claims, err := a.Tokens.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	tok, err := a.Tokens.Generate(claims.PrincipalID, claims.Identifier, claims.Role, claims.Roles)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

// rolesFor loads the principal's role names ordered by authority,
// highest first.
func (a *Authenticator) rolesFor(userID string) ([]string, error) {
	var names []string
	err := a.DB.Table("roles").
		Select("roles.name").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.hierarchy ASC").
		Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	return names, nil
}
