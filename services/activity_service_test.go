package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/zone-app/api-go/apperrors"
	"github.com/zone-app/api-go/repositories"
)

func mustCreateZone(t *testing.T, zones *ZoneService, owner uint, title string) uint {
	t.Helper()
	input := validZoneInput()
	input.Title = title
	created, err := zones.CreateZone(owner, input)
	if err != nil {
		t.Fatalf("CreateZone %q: %v", title, err)
	}
	return created.ID
}

func TestCreateActivityValidation(t *testing.T) {
	zones, activities := newTestServices(t)
	zoneID := mustCreateZone(t, zones, ownerID, "Home")

	if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: zoneID, Type: "wander"}); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("bad type: expected validation error, got %v", err)
	}

	if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: 9999, Type: "enter"}); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Errorf("unknown zone: expected not found, got %v", err)
	}

	if _, err := activities.CreateActivity(strangerID, CreateActivityInput{ZoneID: zoneID, Type: "enter"}); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("foreign zone: expected validation error, got %v", err)
	}
}

func TestCreateActivityOnSoftDeletedZone(t *testing.T) {
	zones, activities := newTestServices(t)
	zoneID := mustCreateZone(t, zones, ownerID, "Home")

	if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: zoneID, Type: "enter"}); err != nil {
		t.Fatalf("CreateActivity before delete: %v", err)
	}

	if err := zones.DeleteZone(zoneID, ownerID); err != nil {
		t.Fatalf("DeleteZone: %v", err)
	}

	if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: zoneID, Type: "exit"}); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found on soft-deleted zone, got %v", err)
	}
}

func TestActivitySnapshotSurvivesRename(t *testing.T) {
	zones, activities := newTestServices(t)
	zoneID := mustCreateZone(t, zones, ownerID, "Old Name")

	if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: zoneID, Type: "enter"}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	newTitle := "New Name"
	if _, err := zones.UpdateZone(zoneID, ownerID, UpdateZoneInput{Title: &newTitle}); err != nil {
		t.Fatalf("UpdateZone: %v", err)
	}

	listed, _, err := activities.GetActivities(ownerID, repositories.ActivityFilters{})
	if err != nil {
		t.Fatalf("GetActivities: %v", err)
	}
	if listed[0].ZoneName != "Old Name" {
		t.Errorf("snapshot zoneName = %q, want %q", listed[0].ZoneName, "Old Name")
	}
}

func TestActivitySortByZoneUsesSnapshotName(t *testing.T) {
	zones, activities := newTestServices(t)
	zebraID := mustCreateZone(t, zones, ownerID, "Zebra")
	appleID := mustCreateZone(t, zones, ownerID, "Apple")

	if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: zebraID, Type: "enter"}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: appleID, Type: "enter"}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	// Rename after the fact; the sort must still follow the snapshots.
	renamed := "Aardvark"
	if _, err := zones.UpdateZone(zebraID, ownerID, UpdateZoneInput{Title: &renamed}); err != nil {
		t.Fatalf("UpdateZone: %v", err)
	}

	listed, _, err := activities.GetActivities(ownerID, repositories.ActivityFilters{SortBy: "zone"})
	if err != nil {
		t.Fatalf("GetActivities: %v", err)
	}
	if listed[0].ZoneName != "Apple" || listed[1].ZoneName != "Zebra" {
		t.Errorf("zone sort order = [%s %s], want [Apple Zebra]", listed[0].ZoneName, listed[1].ZoneName)
	}
}

func TestActivityTimestampOrdering(t *testing.T) {
	zones, activities := newTestServices(t)
	zoneID := mustCreateZone(t, zones, ownerID, "Home")

	base := time.Now()
	for i, kind := range []string{"enter", "exit", "enter"} {
		fixedClock(activities, base.Add(time.Duration(i)*time.Minute))
		if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: zoneID, Type: kind}); err != nil {
			t.Fatalf("CreateActivity %d: %v", i, err)
		}
	}

	recent, _, err := activities.GetActivities(ownerID, repositories.ActivityFilters{SortBy: "recent"})
	if err != nil {
		t.Fatalf("GetActivities recent: %v", err)
	}
	oldest, _, err := activities.GetActivities(ownerID, repositories.ActivityFilters{SortBy: "oldest"})
	if err != nil {
		t.Fatalf("GetActivities oldest: %v", err)
	}

	if recent[0].Timestamp < recent[2].Timestamp {
		t.Errorf("recent sort is not descending: %v", []int64{recent[0].Timestamp, recent[1].Timestamp, recent[2].Timestamp})
	}
	if oldest[0].Timestamp > oldest[2].Timestamp {
		t.Errorf("oldest sort is not ascending: %v", []int64{oldest[0].Timestamp, oldest[1].Timestamp, oldest[2].Timestamp})
	}
}

func TestGetStatistics(t *testing.T) {
	zones, activities := newTestServices(t)
	homeID := mustCreateZone(t, zones, ownerID, "Home")
	workID := mustCreateZone(t, zones, ownerID, "Work")

	for _, a := range []struct {
		zone uint
		kind string
	}{
		{homeID, "enter"}, {homeID, "exit"}, {homeID, "enter"},
		{workID, "enter"}, {workID, "exit"},
	} {
		if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: a.zone, Type: a.kind}); err != nil {
			t.Fatalf("CreateActivity: %v", err)
		}
	}

	stats, err := activities.GetStatistics(context.Background(), ownerID, 0)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}

	if stats.Total != 5 || stats.EnterCount != 3 || stats.ExitCount != 2 {
		t.Errorf("counts = %d/%d/%d, want 5/3/2", stats.Total, stats.EnterCount, stats.ExitCount)
	}
	if stats.MostVisitedZone == nil {
		t.Fatal("mostVisitedZone is nil")
	}
	if stats.MostVisitedZone.ID != homeID || stats.MostVisitedZone.VisitCount != 3 {
		t.Errorf("mostVisitedZone = %+v, want Home with 3", stats.MostVisitedZone)
	}
	if stats.MostVisitedZone.Name != "Home" {
		t.Errorf("mostVisitedZone name = %q, want Home", stats.MostVisitedZone.Name)
	}
}

func TestGetStatisticsScopedToZone(t *testing.T) {
	zones, activities := newTestServices(t)
	homeID := mustCreateZone(t, zones, ownerID, "Home")
	workID := mustCreateZone(t, zones, ownerID, "Work")

	for _, a := range []struct {
		zone uint
		kind string
	}{
		{homeID, "enter"}, {workID, "enter"}, {workID, "exit"},
	} {
		if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: a.zone, Type: a.kind}); err != nil {
			t.Fatalf("CreateActivity: %v", err)
		}
	}

	stats, err := activities.GetStatistics(context.Background(), ownerID, homeID)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if stats.Total != 1 || stats.EnterCount != 1 || stats.ExitCount != 0 {
		t.Errorf("scoped counts = %d/%d/%d, want 1/1/0", stats.Total, stats.EnterCount, stats.ExitCount)
	}

	// Scoping to a zone someone else owns is rejected before any counting.
	if _, err := activities.GetStatistics(context.Background(), strangerID, homeID); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("foreign zone scope: expected validation error, got %v", err)
	}
}

func TestGetStatisticsEmpty(t *testing.T) {
	_, activities := newTestServices(t)

	stats, err := activities.GetStatistics(context.Background(), ownerID, 0)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if stats.Total != 0 || stats.MostVisitedZone != nil {
		t.Errorf("empty stats = %+v, want zeroes and nil mostVisitedZone", stats)
	}
}

func TestGetStatisticsIdempotent(t *testing.T) {
	zones, activities := newTestServices(t)
	zoneID := mustCreateZone(t, zones, ownerID, "Home")

	for _, kind := range []string{"enter", "exit", "enter"} {
		if _, err := activities.CreateActivity(ownerID, CreateActivityInput{ZoneID: zoneID, Type: kind}); err != nil {
			t.Fatalf("CreateActivity: %v", err)
		}
	}

	first, err := activities.GetStatistics(context.Background(), ownerID, 0)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	second, err := activities.GetStatistics(context.Background(), ownerID, 0)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("statistics changed with no writes: %+v vs %+v", first, second)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "Just now"},
		{30 * time.Second, "Just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{59 * time.Minute, "59 minutes ago"},
		{time.Hour, "1 hour ago"},
		{23 * time.Hour, "23 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
		// No weeks/months bucket: days climb forever.
		{90 * 24 * time.Hour, "90 days ago"},
	}

	for _, tt := range tests {
		got := RelativeTime(now.Add(-tt.ago).UnixMilli(), now)
		if got != tt.want {
			t.Errorf("RelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
