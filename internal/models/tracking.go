package models

import "time"

// TrackingPing is one location report from a field agent's device.
// Append-only: rows are never updated or deleted here, retention is an
// operational concern.
type TrackingPing struct {
	ID              uint    `gorm:"primaryKey"`
	AgentID         string  `gorm:"size:36;index;not null"`
	Lat             float64 `gorm:"not null"`
	Lng             float64 `gorm:"not null"`
	AccuracyMeters  float64
	DeviceSignature string `gorm:"size:128"`
	CreatedAt       time.Time `gorm:"index"`
}
