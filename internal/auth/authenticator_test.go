package auth

import (
	"errors"
	"testing"

	"github.com/Vk9769/voting-backend/internal/models"
	"github.com/Vk9769/voting-backend/internal/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// a single connection keeps every session on the same in-memory db
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Role{}, &models.UserRole{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	for _, def := range DefaultHierarchy().Roles() {
		if err := db.Create(&models.Role{Name: def.Name, Hierarchy: def.Hierarchy}).Error; err != nil {
			t.Fatalf("seed role: %v", err)
		}
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, email, password string, roles ...string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	phone := "98765000" + id
	voterID := "VID-" + id
	user := models.User{
		ID:           id,
		FirstName:    "Test",
		Email:        email,
		Phone:        &phone,
		VoterID:      &voterID,
		PasswordHash: string(hash),
		Status:       models.StatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	for _, name := range roles {
		var role models.Role
		if err := db.Where("name = ?", name).First(&role).Error; err != nil {
			t.Fatalf("find role %s: %v", name, err)
		}
		if err := db.Create(&models.UserRole{UserID: id, RoleID: role.ID}).Error; err != nil {
			t.Fatalf("bind role: %v", err)
		}
	}
}

func newAuthenticator(db *gorm.DB) *Authenticator {
	return NewAuthenticator(db, token.NewIssuer("test-secret", "test", 8))
}

func TestLogin_DefaultsToHighestAuthorityRole(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "01", "p@example.com", "pass123", RoleAgent, RoleAdmin)
	a := newAuthenticator(db)

	session, err := a.Login("p@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Role != RoleAdmin {
		t.Errorf("active role = %q, want admin (lowest hierarchy)", session.Role)
	}
	if len(session.Roles) != 2 || session.Roles[0] != RoleAdmin || session.Roles[1] != RoleAgent {
		t.Errorf("roles = %v, want [admin agent] ordered by hierarchy", session.Roles)
	}
}

func TestLogin_ByPhoneAndSecondaryID(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "02", "q@example.com", "pass123", RoleVoter)
	a := newAuthenticator(db)

	if _, err := a.Login("9876500002", "pass123"); err != nil {
		t.Errorf("login by phone: %v", err)
	}
	if _, err := a.Login("VID-02", "pass123"); err != nil {
		t.Errorf("login by voter id: %v", err)
	}
	// secondary-ID matching is case-insensitive
	if _, err := a.Login("vid-02", "pass123"); err != nil {
		t.Errorf("login by lower-cased voter id: %v", err)
	}
}

func TestLogin_Errors(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "03", "r@example.com", "pass123", RoleVoter)
	a := newAuthenticator(db)

	if _, err := a.Login("nobody@example.com", "pass123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown identifier: err = %v, want ErrNotFound", err)
	}
	if _, err := a.Login("r@example.com", "wrong"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredential", err)
	}
}

func TestLogin_ZeroRoleBindings(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "04", "s@example.com", "pass123") // no roles
	a := newAuthenticator(db)

	session, err := a.Login("s@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Role != "" {
		t.Errorf("active role = %q, want empty", session.Role)
	}
	if len(session.Roles) != 0 {
		t.Errorf("roles = %v, want empty", session.Roles)
	}
}

func TestSwitchRole(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "05", "t@example.com", "pass123", RoleAdmin, RoleAgent)
	a := newAuthenticator(db)

	session, err := a.Login("t@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := a.Tokens.Parse(session.Token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// switching to a held role succeeds, role list unchanged
	newTok, err := a.SwitchRole(claims, RoleAgent)
	if err != nil {
		t.Fatalf("SwitchRole(agent): %v", err)
	}
	newClaims, err := a.Tokens.Parse(newTok)
	if err != nil {
		t.Fatalf("Parse new token: %v", err)
	}
	if newClaims.Role != RoleAgent {
		t.Errorf("active role = %q, want agent", newClaims.Role)
	}
	if len(newClaims.Roles) != len(claims.Roles) {
		t.Errorf("role list changed on switch: %v -> %v", claims.Roles, newClaims.Roles)
	}

	// switching to an unheld role is forbidden even though "voter" is a
	// globally valid role name
	if _, err := a.SwitchRole(claims, RoleVoter); !errors.Is(err, ErrForbidden) {
		t.Errorf("SwitchRole(voter): err = %v, want ErrForbidden", err)
	}
	// membership match is case-sensitive
	if _, err := a.SwitchRole(claims, "Agent"); !errors.Is(err, ErrForbidden) {
		t.Errorf("SwitchRole(Agent): err = %v, want ErrForbidden", err)
	}
}

func TestRefresh_PreservesRoleClaims(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "06", "u@example.com", "pass123", RoleAdmin, RoleAgent)
	a := newAuthenticator(db)

	session, err := a.Login("u@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	newTok, err := a.Refresh(session.Token)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := a.Tokens.Parse(newTok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("refreshed active role = %q, want admin", claims.Role)
	}
	if len(claims.Roles) != 2 {
		t.Errorf("refreshed role list = %v, want both roles", claims.Roles)
	}
	if claims.PrincipalID != "06" || claims.Identifier != "u@example.com" {
		t.Errorf("refreshed identity claims changed: %+v", claims)
	}
}

func TestRefresh_RejectsGarbage(t *testing.T) {
	db := testDB(t)
	a := newAuthenticator(db)
	if _, err := a.Refresh("bogus"); !errors.Is(err, token.ErrInvalidToken) {
		t.Errorf("Refresh(bogus): err = %v, want ErrInvalidToken", err)
	}
}
