package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/zone-app/api-go/models"
	"github.com/zone-app/api-go/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Zone{},
		&models.Activity{},
	); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}

	return db
}

func newTestServices(t *testing.T) (*ZoneService, *ActivityService) {
	t.Helper()

	db := newTestDB(t)
	zoneRepo := repositories.NewZoneRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	return NewZoneService(zoneRepo), NewActivityService(activityRepo, zoneRepo, noopNotifier{})
}

type noopNotifier struct{}

func (noopNotifier) Notify(userID uint, zone *models.Zone, activityType string) {}

func validZoneInput() CreateZoneInput {
	return CreateZoneInput{
		Title:              "Home",
		Address:            "1 Main St",
		Location:           "Springfield",
		Latitude:           37.4,
		Longitude:          -122.1,
		Radius:             200,
		Icon:               "home",
		Color:              "blue",
		NotificationOption: "both",
		NotificationText:   "Welcome home",
	}
}

// fixedClock pins the service clock so relative-time output is deterministic.
func fixedClock(s *ActivityService, at time.Time) {
	s.now = func() time.Time { return at }
}
