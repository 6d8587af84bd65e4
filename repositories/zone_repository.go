package repositories

import (
	"github.com/zone-app/api-go/models"
	"gorm.io/gorm"
)

// ZoneFilters narrows and orders zone listings. SortBy is one of
// name, date, radius; date (newest first) is the default.
type ZoneFilters struct {
	Icon   string
	SortBy string
	Limit  int
	Offset int
}

type ZoneRepository struct {
	DB *gorm.DB
}

func NewZoneRepository(db *gorm.DB) *ZoneRepository {
	return &ZoneRepository{DB: db}
}

func (r *ZoneRepository) Create(zone *models.Zone) error {
	return r.DB.Create(zone).Error
}

// FindByID returns the zone or gorm.ErrRecordNotFound. Soft-deleted zones are
// excluded by gorm's DeletedAt handling.
func (r *ZoneRepository) FindByID(id uint) (*models.Zone, error) {
	var zone models.Zone
	if err := r.DB.First(&zone, id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *ZoneRepository) FindAll(userID uint, filters ZoneFilters) ([]models.Zone, int64, error) {
	query := r.DB.Model(&models.Zone{}).Where("user_id = ?", userID)

	if filters.Icon != "" {
		query = query.Where("icon = ?", filters.Icon)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filters.SortBy {
	case "name":
		query = query.Order("title ASC")
	case "radius":
		query = query.Order("radius DESC")
	default: // "date"
		query = query.Order("created_at DESC")
	}

	var zones []models.Zone
	if err := query.Offset(filters.Offset).Limit(filters.Limit).Find(&zones).Error; err != nil {
		return nil, 0, err
	}

	return zones, total, nil
}

// Update applies the given column map to the zone. Only provided fields change.
func (r *ZoneRepository) Update(zone *models.Zone, updates map[string]interface{}) error {
	return r.DB.Model(zone).Updates(updates).Error
}

// SoftDelete sets DeletedAt. Related activities are deliberately untouched;
// their snapshot fields keep history readable.
func (r *ZoneRepository) SoftDelete(zone *models.Zone) error {
	return r.DB.Delete(zone).Error
}
