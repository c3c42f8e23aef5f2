package booth

import (
	"errors"
	"testing"

	"github.com/Vk9769/voting-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Booth{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(db)
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func TestCreate_DefaultRadius(t *testing.T) {
	s := testService(t)

	b, err := s.Create(CreateInput{Name: "Booth 1", Lat: 12.9, Lng: 77.6})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.RadiusMeters != models.DefaultBoothRadiusMeters {
		t.Errorf("radius = %f, want default %f", b.RadiusMeters, models.DefaultBoothRadiusMeters)
	}

	b2, err := s.Create(CreateInput{Name: "Booth 2", Lat: 12.9, Lng: 77.6, RadiusMeters: f64(120)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b2.RadiusMeters != 120 {
		t.Errorf("radius = %f, want 120", b2.RadiusMeters)
	}
}

func TestUpdate_PartialCoalesce(t *testing.T) {
	s := testService(t)

	b, err := s.Create(CreateInput{
		Name: "Govt School", Lat: 12.9, Lng: 77.6, RadiusMeters: f64(100),
		State: "KA", District: "Bangalore", Constituency: "North", PartNumber: "42",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// editing only the radius leaves every other field untouched
	updated, err := s.Update(b.ID, UpdateInput{RadiusMeters: f64(75)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.RadiusMeters != 75 {
		t.Errorf("radius = %f, want 75", updated.RadiusMeters)
	}
	if updated.Name != "Govt School" || updated.CenterLat != 12.9 || updated.CenterLng != 77.6 {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.State != "KA" || updated.District != "Bangalore" ||
		updated.Constituency != "North" || updated.PartNumber != "42" {
		t.Errorf("metadata changed: %+v", updated)
	}

	// a no-op edit round-trips the original values
	same, err := s.Update(b.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("Update no-op: %v", err)
	}
	got, err := s.Get(b.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != same.Name || got.RadiusMeters != same.RadiusMeters ||
		got.CenterLat != same.CenterLat || got.CenterLng != same.CenterLng {
		t.Errorf("no-op edit drifted: %+v vs %+v", got, same)
	}

	// moving only the center keeps everything else
	moved, err := s.Update(b.ID, UpdateInput{Lat: f64(13.0), Lng: f64(77.7)})
	if err != nil {
		t.Fatalf("Update center: %v", err)
	}
	if moved.CenterLat != 13.0 || moved.CenterLng != 77.7 {
		t.Errorf("center not moved: %+v", moved)
	}
	if moved.Name != "Govt School" || moved.RadiusMeters != 75 {
		t.Errorf("untouched fields changed on center move: %+v", moved)
	}

	// partial name edit
	renamed, err := s.Update(b.ID, UpdateInput{Name: str("Renamed School")})
	if err != nil {
		t.Fatalf("Update name: %v", err)
	}
	if renamed.Name != "Renamed School" || renamed.CenterLat != 13.0 {
		t.Errorf("name edit touched other fields: %+v", renamed)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	s := testService(t)
	if _, err := s.Update(999, UpdateInput{Name: str("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing booth: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing booth: err = %v, want ErrNotFound", err)
	}
}

func TestWithinGeofence(t *testing.T) {
	s := testService(t)
	b, err := s.Create(CreateInput{Name: "B", Lat: 12.9, Lng: 77.6, RadiusMeters: f64(100)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// ~80m north: inside
	inside, err := s.WithinGeofence(b.ID, 12.9+80.0/111195.0, 77.6)
	if err != nil || !inside {
		t.Errorf("WithinGeofence(80m) = %v, %v, want true", inside, err)
	}
	// ~150m north: outside
	outside, err := s.WithinGeofence(b.ID, 12.9+150.0/111195.0, 77.6)
	if err != nil || outside {
		t.Errorf("WithinGeofence(150m) = %v, %v, want false", outside, err)
	}
}

func TestAssignableBooth_NearestContaining(t *testing.T) {
	s := testService(t)
	far, _ := s.Create(CreateInput{Name: "Far", Lat: 12.91, Lng: 77.6, RadiusMeters: f64(5000)})
	near, _ := s.Create(CreateInput{Name: "Near", Lat: 12.9, Lng: 77.6, RadiusMeters: f64(5000)})
	_ = far

	b, err := s.AssignableBooth(12.9001, 77.6)
	if err != nil {
		t.Fatalf("AssignableBooth: %v", err)
	}
	if b == nil || b.ID != near.ID {
		t.Errorf("AssignableBooth = %+v, want nearest booth %d", b, near.ID)
	}

	// a point outside every fence resolves to none
	none, err := s.AssignableBooth(40.0, -74.0)
	if err != nil {
		t.Fatalf("AssignableBooth: %v", err)
	}
	if none != nil {
		t.Errorf("AssignableBooth far away = %+v, want nil", none)
	}
}
