// Package assignment binds agents and voters to booths.
//
// Agent assignment is set membership: the (agent, booth) pair is inserted
// at most once and a duplicate request is a silent no-op. Voter assignment
// is replace-current: a voter has exactly one booth row and reassignment
// overwrites it. Both invariants are enforced by unique constraints plus
// upsert clauses, not check-then-insert, so concurrent requests cannot
// race their way into duplicate rows.
package assignment

import (
	"errors"
	"fmt"

	"github.com/Vk9769/voting-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrBoothNotFound     = errors.New("booth not found")
	// ErrRoleMismatch means the assignee does not currently hold the role
	// the assignment requires.
	ErrRoleMismatch = errors.New("principal does not hold required role")
)

// Manager commits booth assignments against storage.
type Manager struct {
	DB *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{DB: db}
}

// AssignAgent adds the booth to the agent's served set. Idempotent.
func (m *Manager) AssignAgent(agentID string, boothID uint) error {
	return m.DB.Transaction(func(tx *gorm.DB) error {
		if err := m.checkRole(tx, agentID, "agent"); err != nil {
			return err
		}
		if err := m.checkBooth(tx, boothID); err != nil {
			return err
		}
		row := models.AgentBooth{AgentID: agentID, BoothID: boothID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&row).Error; err != nil {
			return fmt.Errorf("insert agent assignment: %w", err)
		}
		return nil
	})
}

// AssignVoter sets the voter's current booth, overwriting any prior one.
// The primary key on voter_id plus the upsert keeps this linearizable:
// concurrent requests for one voter collapse to a single row, last commit
// wins.
func (m *Manager) AssignVoter(voterID string, boothID uint) error {
	return m.DB.Transaction(func(tx *gorm.DB) error {
		if err := m.checkRole(tx, voterID, "voter"); err != nil {
			return err
		}
		if err := m.checkBooth(tx, boothID); err != nil {
			return err
		}
		row := models.VoterBooth{VoterID: voterID, BoothID: boothID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "voter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"booth_id", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("upsert voter assignment: %w", err)
		}
		return nil
	})
}

// AgentAssignment is one row of the agent listing, joined with names.
type AgentAssignment struct {
	AgentID   string `json:"agent_id"`
	AgentName string `json:"agent_name"`
	BoothID   uint   `json:"booth_id"`
	BoothName string `json:"booth_name"`
}

// VoterAssignment is one row of the voter listing, joined with names.
type VoterAssignment struct {
	VoterID   string `json:"voter_id"`
	VoterName string `json:"voter_name"`
	BoothID   uint   `json:"booth_id"`
	BoothName string `json:"booth_name"`
}

// Listing holds agent and voter assignments as two separate collections,
// each ordered by booth name.
type Listing struct {
	Agents []AgentAssignment `json:"agents"`
	Voters []VoterAssignment `json:"voters"`
}

func (m *Manager) List() (*Listing, error) {
	var listing Listing

	err := m.DB.Table("agent_booths").
		Select("agent_booths.agent_id, users.first_name || ' ' || users.last_name AS agent_name, agent_booths.booth_id, booths.name AS booth_name").
		Joins("JOIN users ON users.id = agent_booths.agent_id").
		Joins("JOIN booths ON booths.id = agent_booths.booth_id").
		Order("booths.name ASC").
		Scan(&listing.Agents).Error
	if err != nil {
		return nil, fmt.Errorf("list agent assignments: %w", err)
	}

	err = m.DB.Table("voter_booths").
		Select("voter_booths.voter_id, users.first_name || ' ' || users.last_name AS voter_name, voter_booths.booth_id, booths.name AS booth_name").
		Joins("JOIN users ON users.id = voter_booths.voter_id").
		Joins("JOIN booths ON booths.id = voter_booths.booth_id").
		Order("booths.name ASC").
		Scan(&listing.Voters).Error
	if err != nil {
		return nil, fmt.Errorf("list voter assignments: %w", err)
	}

	return &listing, nil
}

// checkRole verifies inside the caller's transaction that the principal
// exists and currently holds the role, so a concurrent revocation cannot
// slip between check and insert.
func (m *Manager) checkRole(tx *gorm.DB, userID, role string) error {
	var user models.User
	if err := tx.Select("id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPrincipalNotFound
		}
		return fmt.Errorf("load principal: %w", err)
	}

	var n int64
	err := tx.Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, role).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("check role: %w", err)
	}
	if n == 0 {
		return ErrRoleMismatch
	}
	return nil
}

func (m *Manager) checkBooth(tx *gorm.DB, boothID uint) error {
	var booth models.Booth
	if err := tx.Select("id").First(&booth, boothID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoothNotFound
		}
		return fmt.Errorf("load booth: %w", err)
	}
	return nil
}
