package models

import "time"

// Principal lifecycle statuses. Suspended accounts keep their rows; nothing
// in this table is ever hard-deleted, the audit trail depends on it.
const (
	StatusActive           = "active"
	StatusSuspended        = "suspended"
	StatusDeviceRegistered = "device_registered"
)

// User represents any principal: admins, field agents and voters alike.
type User struct {
	ID           string `gorm:"primaryKey;size:36"` // UUID
	FirstName    string `gorm:"size:64;not null"`
	LastName     string `gorm:"size:64"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	Phone        *string `gorm:"size:32;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	ProfilePhoto string `gorm:"size:255"`

	// Secondary identifiers. VoterID is the electoral-roll number; the
	// government ID is stored alongside a SHA-256 digest used for lookups.
	VoterID     *string `gorm:"size:64;uniqueIndex"`
	GovIDType   string  `gorm:"size:32"`
	GovIDNumber *string `gorm:"size:64"`
	GovIDHash   *string `gorm:"size:64;uniqueIndex"`

	Gender      string `gorm:"size:16"`
	DateOfBirth string `gorm:"size:10"` // YYYY-MM-DD
	Address     string `gorm:"size:512"`

	Status    string `gorm:"size:32;default:active"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
