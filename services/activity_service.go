package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/zone-app/api-go/apperrors"
	"github.com/zone-app/api-go/models"
	"github.com/zone-app/api-go/repositories"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Notifier receives a fire-and-forget alert after an activity is recorded.
// Delivery is out of scope here; the default implementation just logs.
type Notifier interface {
	Notify(userID uint, zone *models.Zone, activityType string)
}

// LogNotifier writes the notification text to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(userID uint, zone *models.Zone, activityType string) {
	log.Printf("notify user=%d zone=%q type=%s text=%q", userID, zone.Title, activityType, zone.NotificationText)
}

// CreateActivityInput is the only shape activity writes accept.
type CreateActivityInput struct {
	ZoneID uint   `json:"zoneId" binding:"required"`
	Type   string `json:"type" binding:"required"`
}

// ActivityResponse is the formatted activity. Time is the human-readable
// relative string, recomputed on every read and never persisted.
type ActivityResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"userId"`
	ZoneID    uint   `json:"zoneId"`
	ZoneName  string `json:"zoneName"`
	Icon      string `json:"icon"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Time      string `json:"time"`
}

// MostVisitedZone is the winner of the bounded zone-frequency tally.
type MostVisitedZone struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	VisitCount int64  `json:"visitCount"`
}

type Statistics struct {
	Total           int64            `json:"total"`
	EnterCount      int64            `json:"enterCount"`
	ExitCount       int64            `json:"exitCount"`
	MostVisitedZone *MostVisitedZone `json:"mostVisitedZone"`
}

type ActivityService struct {
	activities *repositories.ActivityRepository
	zones      *repositories.ZoneRepository
	notifier   Notifier
	now        func() time.Time
}

func NewActivityService(activities *repositories.ActivityRepository, zones *repositories.ZoneRepository, notifier Notifier) *ActivityService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ActivityService{
		activities: activities,
		zones:      zones,
		notifier:   notifier,
		now:        time.Now,
	}
}

// RelativeTime renders a timestamp as "Just now", "N minute(s) ago",
// "N hour(s) ago" or "N day(s) ago". Buckets are floor-divided and days are
// the final bucket; there is no weeks/months rollover.
func RelativeTime(timestampMs int64, now time.Time) string {
	elapsed := now.UnixMilli() - timestampMs
	if elapsed < 0 {
		elapsed = 0
	}

	seconds := elapsed / 1000
	if seconds < 60 {
		return "Just now"
	}
	minutes := seconds / 60
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := hours / 24
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

func (s *ActivityService) formatActivity(activity *models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:        activity.ID,
		UserID:    activity.UserID,
		ZoneID:    activity.ZoneID,
		ZoneName:  activity.ZoneName,
		Icon:      activity.Icon,
		Type:      activity.Type,
		Timestamp: activity.Timestamp,
		Time:      RelativeTime(activity.Timestamp, s.now()),
	}
}

// loadZoneForActivity applies the activity-side ownership rules: a missing or
// soft-deleted zone is NotFound, a foreign zone is a validation failure (the
// zone id the caller supplied is not a usable value for them).
func (s *ActivityService) loadZoneForActivity(zoneID, ownerID uint) (*models.Zone, error) {
	zone, err := s.zones.FindByID(zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Zone not found")
		}
		return nil, apperrors.NewInternal("Failed to load zone").WithCause(err)
	}
	if zone.UserID != ownerID {
		return nil, apperrors.NewValidation("Zone does not belong to this user")
	}
	return zone, nil
}

// CreateActivity is the only entry point for activity writes. It snapshots
// the zone's name and icon at write time and dispatches a notification per
// the zone's notification option.
func (s *ActivityService) CreateActivity(ownerID uint, input CreateActivityInput) (*ActivityResponse, error) {
	if input.Type != models.ActivityEnter && input.Type != models.ActivityExit {
		return nil, apperrors.NewValidation("type must be enter or exit")
	}

	zone, err := s.loadZoneForActivity(input.ZoneID, ownerID)
	if err != nil {
		return nil, err
	}

	activity := models.Activity{
		UserID:    ownerID,
		ZoneID:    zone.ID,
		ZoneName:  zone.Title,
		Icon:      zone.Icon,
		Type:      input.Type,
		Timestamp: s.now().UnixMilli(),
	}

	if err := s.activities.Create(&activity); err != nil {
		return nil, apperrors.NewInternal("Failed to record activity").WithCause(err)
	}

	if zone.NotificationOption == models.NotifyBoth || zone.NotificationOption == input.Type {
		go s.notifier.Notify(ownerID, zone, input.Type)
	}

	formatted := s.formatActivity(&activity)
	return &formatted, nil
}

// Record adapts CreateActivity to the geofence monitor's recorder interface.
func (s *ActivityService) Record(ctx context.Context, userID, zoneID uint, transition string) error {
	_, err := s.CreateActivity(userID, CreateActivityInput{ZoneID: zoneID, Type: transition})
	return err
}

func (s *ActivityService) GetActivities(ownerID uint, filters repositories.ActivityFilters) ([]ActivityResponse, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultPageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	activities, total, err := s.activities.FindAll(ownerID, filters)
	if err != nil {
		return nil, 0, apperrors.NewInternal("Failed to list activities").WithCause(err)
	}

	formatted := make([]ActivityResponse, len(activities))
	for i := range activities {
		formatted[i] = s.formatActivity(&activities[i])
	}
	return formatted, total, nil
}

// GetStatistics aggregates counts for the user, optionally narrowed to one
// zone (ownership is validated first in that case). The three counting
// queries run as a fixed concurrent batch; the most-visited tally reads a
// bounded sample rather than scanning the full log.
func (s *ActivityService) GetStatistics(ctx context.Context, ownerID uint, zoneID uint) (*Statistics, error) {
	if zoneID != 0 {
		if _, err := s.loadZoneForActivity(zoneID, ownerID); err != nil {
			return nil, err
		}
	}

	var total, enterCount, exitCount int64
	var sample []models.Activity

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.activities.Count(ownerID, zoneID, "")
		return err
	})
	g.Go(func() error {
		var err error
		enterCount, err = s.activities.Count(ownerID, zoneID, models.ActivityEnter)
		return err
	})
	g.Go(func() error {
		var err error
		exitCount, err = s.activities.Count(ownerID, zoneID, models.ActivityExit)
		return err
	})
	g.Go(func() error {
		var err error
		sample, err = s.activities.RecentSample(ownerID, zoneID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewInternal("Failed to compute statistics").WithCause(err)
	}

	return &Statistics{
		Total:           total,
		EnterCount:      enterCount,
		ExitCount:       exitCount,
		MostVisitedZone: mostVisitedZone(sample),
	}, nil
}

// mostVisitedZone tallies raw activity counts per zone over the sample and
// returns the zone with the highest count, or nil for an empty sample. Ties
// break toward the zone first encountered in the sample.
func mostVisitedZone(sample []models.Activity) *MostVisitedZone {
	if len(sample) == 0 {
		return nil
	}

	counts := make(map[uint]*MostVisitedZone, 8)
	order := make([]uint, 0, 8)
	for i := range sample {
		entry, ok := counts[sample[i].ZoneID]
		if !ok {
			entry = &MostVisitedZone{ID: sample[i].ZoneID, Name: sample[i].ZoneName}
			counts[sample[i].ZoneID] = entry
			order = append(order, sample[i].ZoneID)
		}
		entry.VisitCount++
	}

	var winner *MostVisitedZone
	for _, id := range order {
		if winner == nil || counts[id].VisitCount > winner.VisitCount {
			winner = counts[id]
		}
	}
	return winner
}
