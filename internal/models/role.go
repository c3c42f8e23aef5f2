package models

// Role is immutable reference data seeded at migration time.
// Hierarchy ranks authority: lower value = more authority.
type Role struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:32;uniqueIndex;not null"`
	Hierarchy int    `gorm:"not null"`
}

// UserRole binds a principal to a role. The set is fixed at provisioning or
// admin-edit time, never self-service.
type UserRole struct {
	UserID string `gorm:"primaryKey;size:36"`
	RoleID uint   `gorm:"primaryKey"`
}
