package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/zone-app/api-go/apperrors"
	"github.com/zone-app/api-go/models"
	"github.com/zone-app/api-go/repositories"
	"gorm.io/gorm"
)

// DefaultPageSize is the page size applied when a listing gives no limit.
const DefaultPageSize = 100

// CreateZoneInput carries a new zone definition. Binding tags validate
// presence at the controller; geometry ranges are re-checked here so the
// service is safe to call from any entry point.
type CreateZoneInput struct {
	Title              string  `json:"title" binding:"required"`
	Address            string  `json:"address"`
	Location           string  `json:"location"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Radius             float64 `json:"radius"`
	Icon               string  `json:"icon"`
	Color              string  `json:"color"`
	Description        string  `json:"description"`
	ImageURL           string  `json:"imageUrl"`
	NotificationOption string  `json:"notificationOption" binding:"omitempty,oneof=enter exit both"`
	NotificationText   string  `json:"notificationText"`
}

// UpdateZoneInput uses pointers so only provided fields change.
type UpdateZoneInput struct {
	Title              *string  `json:"title"`
	Address            *string  `json:"address"`
	Location           *string  `json:"location"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	Radius             *float64 `json:"radius"`
	Icon               *string  `json:"icon"`
	Color              *string  `json:"color"`
	Description        *string  `json:"description"`
	ImageURL           *string  `json:"imageUrl"`
	NotificationOption *string  `json:"notificationOption" binding:"omitempty,oneof=enter exit both"`
	NotificationText   *string  `json:"notificationText"`
}

// ZoneResponse is the formatted zone returned to clients. Latitude and
// longitude are plain float64 regardless of how the column is declared.
type ZoneResponse struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"userId"`
	Title              string    `json:"title"`
	Address            string    `json:"address"`
	Location           string    `json:"location"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Radius             float64   `json:"radius"`
	Icon               string    `json:"icon"`
	Color              string    `json:"color"`
	Description        string    `json:"description,omitempty"`
	ImageURL           string    `json:"imageUrl,omitempty"`
	NotificationOption string    `json:"notificationOption"`
	NotificationText   string    `json:"notificationText"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type ZoneService struct {
	zones *repositories.ZoneRepository
}

func NewZoneService(zones *repositories.ZoneRepository) *ZoneService {
	return &ZoneService{zones: zones}
}

func validateGeometry(latitude, longitude, radius float64) error {
	if latitude < -90 || latitude > 90 {
		return apperrors.NewValidation(fmt.Sprintf("latitude must be between -90 and 90, got %v", latitude))
	}
	if longitude < -180 || longitude > 180 {
		return apperrors.NewValidation(fmt.Sprintf("longitude must be between -180 and 180, got %v", longitude))
	}
	if radius <= 0 {
		return apperrors.NewValidation(fmt.Sprintf("radius must be greater than 0, got %v", radius))
	}
	return nil
}

func FormatZone(zone *models.Zone) ZoneResponse {
	return ZoneResponse{
		ID:                 zone.ID,
		UserID:             zone.UserID,
		Title:              zone.Title,
		Address:            zone.Address,
		Location:           zone.Location,
		Latitude:           zone.Latitude,
		Longitude:          zone.Longitude,
		Radius:             zone.Radius,
		Icon:               zone.Icon,
		Color:              zone.Color,
		Description:        zone.Description,
		ImageURL:           zone.ImageURL,
		NotificationOption: zone.NotificationOption,
		NotificationText:   zone.NotificationText,
		CreatedAt:          zone.CreatedAt,
		UpdatedAt:          zone.UpdatedAt,
	}
}

func (s *ZoneService) CreateZone(ownerID uint, input CreateZoneInput) (*ZoneResponse, error) {
	if err := validateGeometry(input.Latitude, input.Longitude, input.Radius); err != nil {
		return nil, err
	}

	notificationOption := input.NotificationOption
	if notificationOption == "" {
		notificationOption = models.NotifyBoth
	}

	zone := models.Zone{
		UserID:             ownerID,
		Title:              input.Title,
		Address:            input.Address,
		Location:           input.Location,
		Latitude:           input.Latitude,
		Longitude:          input.Longitude,
		Radius:             input.Radius,
		Icon:               input.Icon,
		Color:              input.Color,
		Description:        input.Description,
		ImageURL:           input.ImageURL,
		NotificationOption: notificationOption,
		NotificationText:   input.NotificationText,
	}

	if err := s.zones.Create(&zone); err != nil {
		return nil, apperrors.NewInternal("Failed to create zone").WithCause(err)
	}

	formatted := FormatZone(&zone)
	return &formatted, nil
}

// loadOwnedZone fetches the zone and applies the ownership rule shared by
// every zone operation: absent or soft-deleted is NotFound, foreign owner
// is Forbidden.
func (s *ZoneService) loadOwnedZone(zoneID, requesterID uint) (*models.Zone, error) {
	zone, err := s.zones.FindByID(zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Zone not found")
		}
		return nil, apperrors.NewInternal("Failed to load zone").WithCause(err)
	}
	if zone.UserID != requesterID {
		return nil, apperrors.NewForbidden("You do not have access to this zone")
	}
	return zone, nil
}

func (s *ZoneService) GetZoneByID(zoneID, requesterID uint) (*ZoneResponse, error) {
	zone, err := s.loadOwnedZone(zoneID, requesterID)
	if err != nil {
		return nil, err
	}
	formatted := FormatZone(zone)
	return &formatted, nil
}

func (s *ZoneService) GetZones(ownerID uint, filters repositories.ZoneFilters) ([]ZoneResponse, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultPageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	zones, total, err := s.zones.FindAll(ownerID, filters)
	if err != nil {
		return nil, 0, apperrors.NewInternal("Failed to list zones").WithCause(err)
	}

	formatted := make([]ZoneResponse, len(zones))
	for i := range zones {
		formatted[i] = FormatZone(&zones[i])
	}
	return formatted, total, nil
}

func (s *ZoneService) UpdateZone(zoneID, requesterID uint, input UpdateZoneInput) (*ZoneResponse, error) {
	zone, err := s.loadOwnedZone(zoneID, requesterID)
	if err != nil {
		return nil, err
	}

	// Re-validate only the geometry fields that are actually changing.
	latitude := zone.Latitude
	longitude := zone.Longitude
	radius := zone.Radius
	if input.Latitude != nil {
		latitude = *input.Latitude
	}
	if input.Longitude != nil {
		longitude = *input.Longitude
	}
	if input.Radius != nil {
		radius = *input.Radius
	}
	if err := validateGeometry(latitude, longitude, radius); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Latitude != nil {
		updates["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		updates["longitude"] = *input.Longitude
	}
	if input.Radius != nil {
		updates["radius"] = *input.Radius
	}
	if input.Icon != nil {
		updates["icon"] = *input.Icon
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.NotificationOption != nil {
		if *input.NotificationOption != models.NotifyEnter &&
			*input.NotificationOption != models.NotifyExit &&
			*input.NotificationOption != models.NotifyBoth {
			return nil, apperrors.NewValidation("notificationOption must be one of enter, exit, both")
		}
		updates["notification_option"] = *input.NotificationOption
	}
	if input.NotificationText != nil {
		updates["notification_text"] = *input.NotificationText
	}

	if len(updates) > 0 {
		if err := s.zones.Update(zone, updates); err != nil {
			return nil, apperrors.NewInternal("Failed to update zone").WithCause(err)
		}
	}

	formatted := FormatZone(zone)
	return &formatted, nil
}

// DeleteZone soft deletes only. Activities referencing the zone are left in
// place; their snapshot fields keep history readable.
func (s *ZoneService) DeleteZone(zoneID, requesterID uint) error {
	zone, err := s.loadOwnedZone(zoneID, requesterID)
	if err != nil {
		return err
	}
	if err := s.zones.SoftDelete(zone); err != nil {
		return apperrors.NewInternal("Failed to delete zone").WithCause(err)
	}
	return nil
}
