package repositories

import (
	"github.com/zone-app/api-go/models"
	"gorm.io/gorm"
)

// SampleCap bounds the zone-frequency tally so statistics never require a
// full-table scan.
const SampleCap = 1000

// ActivityFilters narrows and orders activity listings. SortBy is one of
// recent, oldest, zone; recent (timestamp desc) is the default.
type ActivityFilters struct {
	ZoneID uint
	Type   string
	SortBy string
	Limit  int
	Offset int
}

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(activity *models.Activity) error {
	return r.DB.Create(activity).Error
}

func (r *ActivityRepository) FindAll(userID uint, filters ActivityFilters) ([]models.Activity, int64, error) {
	query := r.DB.Model(&models.Activity{}).Where("user_id = ?", userID)

	if filters.ZoneID != 0 {
		query = query.Where("zone_id = ?", filters.ZoneID)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filters.SortBy {
	case "oldest":
		query = query.Order("timestamp ASC")
	case "zone":
		// Sorts by the denormalized snapshot name, unaffected by later renames.
		query = query.Order("zone_name ASC")
	default: // "recent"
		query = query.Order("timestamp DESC")
	}

	var activities []models.Activity
	if err := query.Offset(filters.Offset).Limit(filters.Limit).Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

// Count tallies activities for the user, optionally narrowed to a zone and/or
// a type. A zero zoneID or empty activityType means "any".
func (r *ActivityRepository) Count(userID uint, zoneID uint, activityType string) (int64, error) {
	query := r.DB.Model(&models.Activity{}).Where("user_id = ?", userID)
	if zoneID != 0 {
		query = query.Where("zone_id = ?", zoneID)
	}
	if activityType != "" {
		query = query.Where("type = ?", activityType)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// RecentSample returns at most SampleCap of the user's most recent activities,
// the bounded input for the most-visited-zone tally.
func (r *ActivityRepository) RecentSample(userID uint, zoneID uint) ([]models.Activity, error) {
	query := r.DB.Model(&models.Activity{}).Where("user_id = ?", userID)
	if zoneID != 0 {
		query = query.Where("zone_id = ?", zoneID)
	}

	var activities []models.Activity
	err := query.Order("timestamp DESC").Limit(SampleCap).Find(&activities).Error
	return activities, err
}
