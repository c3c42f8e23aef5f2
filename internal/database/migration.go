package database

import (
	"fmt"

	"github.com/Vk9769/voting-backend/internal/auth"
	"github.com/Vk9769/voting-backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Booth{},
		&models.AgentBooth{},
		&models.VoterBooth{},
		&models.TrackingPing{},
		&models.Vote{},
		&models.Task{},
		&models.ActivityFlag{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedRoles inserts the role reference rows from the static hierarchy.
// Existing rows are left untouched, so the seeding is safe to run at every
// startup.
func SeedRoles(db *gorm.DB, h *auth.Hierarchy) error {
	for _, def := range h.Roles() {
		role := models.Role{Name: def.Name, Hierarchy: def.Hierarchy}
		if err := db.Where(models.Role{Name: def.Name}).
			FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", def.Name, err)
		}
	}
	return nil
}
