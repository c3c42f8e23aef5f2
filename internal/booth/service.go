// Package booth manages polling places and their geofences.
package booth

import (
	"errors"
	"fmt"

	"github.com/Vk9769/voting-backend/internal/geo"
	"github.com/Vk9769/voting-backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound means the booth id does not exist.
var ErrNotFound = errors.New("booth not found")

// Service implements booth CRUD and geofence queries against storage.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// CreateInput carries the fields for a new booth. Name and center
// coordinates are required; the radius defaults to 50 meters.
type CreateInput struct {
	Name         string
	Lat          float64
	Lng          float64
	RadiusMeters *float64
	State        string
	District     string
	Constituency string
	PartNumber   string
}

func (s *Service) Create(in CreateInput) (*models.Booth, error) {
	radius := models.DefaultBoothRadiusMeters
	if in.RadiusMeters != nil {
		radius = *in.RadiusMeters
	}
	b := models.Booth{
		Name:         in.Name,
		CenterLat:    in.Lat,
		CenterLng:    in.Lng,
		RadiusMeters: radius,
		State:        in.State,
		District:     in.District,
		Constituency: in.Constituency,
		PartNumber:   in.PartNumber,
	}
	if err := s.DB.Create(&b).Error; err != nil {
		return nil, fmt.Errorf("create booth: %w", err)
	}
	return &b, nil
}

// UpdateInput supports partial edits: only non-nil fields are applied,
// every omitted field keeps its prior value.
type UpdateInput struct {
	Name         *string
	Lat          *float64
	Lng          *float64
	RadiusMeters *float64
	State        *string
	District     *string
	Constituency *string
	PartNumber   *string
}

func (s *Service) Update(id uint, in UpdateInput) (*models.Booth, error) {
	var b models.Booth
	if err := s.DB.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load booth: %w", err)
	}

	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Lat != nil {
		b.CenterLat = *in.Lat
	}
	if in.Lng != nil {
		b.CenterLng = *in.Lng
	}
	if in.RadiusMeters != nil {
		b.RadiusMeters = *in.RadiusMeters
	}
	if in.State != nil {
		b.State = *in.State
	}
	if in.District != nil {
		b.District = *in.District
	}
	if in.Constituency != nil {
		b.Constituency = *in.Constituency
	}
	if in.PartNumber != nil {
		b.PartNumber = *in.PartNumber
	}

	if err := s.DB.Save(&b).Error; err != nil {
		return nil, fmt.Errorf("update booth: %w", err)
	}
	return &b, nil
}

func (s *Service) Delete(id uint) error {
	res := s.DB.Delete(&models.Booth{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete booth: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Get(id uint) (*models.Booth, error) {
	var b models.Booth
	if err := s.DB.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load booth: %w", err)
	}
	return &b, nil
}

func (s *Service) List() ([]models.Booth, error) {
	var booths []models.Booth
	if err := s.DB.Order("name ASC").Find(&booths).Error; err != nil {
		return nil, fmt.Errorf("list booths: %w", err)
	}
	return booths, nil
}

// WithinGeofence reports whether the point falls inside the booth's
// acceptance radius.
func (s *Service) WithinGeofence(id uint, lat, lng float64) (bool, error) {
	b, err := s.Get(id)
	if err != nil {
		return false, err
	}
	return geo.Within(lat, lng, b.CenterLat, b.CenterLng, b.RadiusMeters), nil
}

// AssignableBooth returns the nearest booth whose geofence contains the
// point, or nil when no booth accepts it. Booth counts are small enough
// that a linear scan beats maintaining a spatial index.
func (s *Service) AssignableBooth(lat, lng float64) (*models.Booth, error) {
	booths, err := s.List()
	if err != nil {
		return nil, err
	}

	var best *models.Booth
	bestDist := 0.0
	for i := range booths {
		b := &booths[i]
		d := geo.Distance(lat, lng, b.CenterLat, b.CenterLng)
		if d > b.RadiusMeters {
			continue
		}
		if best == nil || d < bestDist {
			best = b
			bestDist = d
		}
	}
	return best, nil
}
