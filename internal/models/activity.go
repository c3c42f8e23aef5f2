package models

import "time"

// Vote records whether a voter has been marked as voted by an agent at the
// booth. Tallying happens elsewhere; this is presence bookkeeping only.
type Vote struct {
	ID         uint   `gorm:"primaryKey"`
	VoterID    string `gorm:"size:36;uniqueIndex;not null"`
	Voted      bool   `gorm:"not null;default:false"`
	VerifiedBy string `gorm:"size:36"` // agent who marked the vote
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Task is a work item assigned to a field agent.
type Task struct {
	ID        uint   `gorm:"primaryKey"`
	AgentID   string `gorm:"size:36;index;not null"`
	Title     string `gorm:"size:255;not null"`
	Details   string `gorm:"size:1024"`
	Status    string `gorm:"size:32;default:pending"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivityFlag marks suspicious activity reported by an administrator.
type ActivityFlag struct {
	ID        uint   `gorm:"primaryKey"`
	BoothID   *uint  `gorm:"index"`
	AgentID   *string `gorm:"size:36;index"`
	Reason    string `gorm:"size:512;not null"`
	FlaggedBy string `gorm:"size:36;not null"`
	CreatedAt time.Time
}
