package models

import "time"

// DefaultBoothRadiusMeters is applied when a booth is created without an
// explicit acceptance radius.
const DefaultBoothRadiusMeters = 50.0

// Booth is a polling place. Location is stored as plain lat/lng columns;
// all distance math goes through the geo package so every call site shares
// one spherical model.
type Booth struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:255;not null"`
	CenterLat    float64 `gorm:"not null"`
	CenterLng    float64 `gorm:"not null"`
	RadiusMeters float64 `gorm:"not null;default:50"`

	State        string `gorm:"size:64"`
	District     string `gorm:"size:64"`
	Constituency string `gorm:"size:64"`
	PartNumber   string `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgentBooth is the agent↔booth set membership. The composite primary key
// makes duplicate assignment a no-op insert.
type AgentBooth struct {
	AgentID   string `gorm:"primaryKey;size:36"`
	BoothID   uint   `gorm:"primaryKey"`
	CreatedAt time.Time
}

// VoterBooth holds a voter's single current booth. The primary key on
// VoterID is the invariant: at most one row per voter, reassignment is an
// upsert, never a second row.
type VoterBooth struct {
	VoterID   string `gorm:"primaryKey;size:36"`
	BoothID   uint   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
