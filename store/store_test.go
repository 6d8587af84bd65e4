package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zone-app/api-go/services"
)

type fakeZoneAPI struct {
	zones   []services.ZoneResponse
	nextID  uint
	failAll bool
}

var errRemote = errors.New("remote unavailable")

func (f *fakeZoneAPI) ListZones(ctx context.Context, query ZoneQuery) ([]services.ZoneResponse, int64, error) {
	if f.failAll {
		return nil, 0, errRemote
	}
	out := make([]services.ZoneResponse, len(f.zones))
	copy(out, f.zones)
	return out, int64(len(f.zones)), nil
}

func (f *fakeZoneAPI) CreateZone(ctx context.Context, input services.CreateZoneInput) (*services.ZoneResponse, error) {
	if f.failAll {
		return nil, errRemote
	}
	f.nextID++
	zone := services.ZoneResponse{
		ID:        f.nextID,
		Title:     input.Title,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Radius:    input.Radius,
		Icon:      input.Icon,
		CreatedAt: time.Now(),
	}
	f.zones = append(f.zones, zone)
	return &zone, nil
}

func (f *fakeZoneAPI) UpdateZone(ctx context.Context, id uint, input services.UpdateZoneInput) (*services.ZoneResponse, error) {
	if f.failAll {
		return nil, errRemote
	}
	for i := range f.zones {
		if f.zones[i].ID == id {
			if input.Title != nil {
				f.zones[i].Title = *input.Title
			}
			return &f.zones[i], nil
		}
	}
	return nil, errors.New("zone not found")
}

func (f *fakeZoneAPI) DeleteZone(ctx context.Context, id uint) error {
	if f.failAll {
		return errRemote
	}
	for i := range f.zones {
		if f.zones[i].ID == id {
			f.zones = append(f.zones[:i], f.zones[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestZoneStoreLifecycle(t *testing.T) {
	api := &fakeZoneAPI{}
	store := NewZoneStore(api)
	ctx := context.Background()

	if _, err := store.Create(ctx, services.CreateZoneInput{Title: "Home", Latitude: 1, Longitude: 2, Radius: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := len(store.Zones()); got != 1 {
		t.Fatalf("cached %d zones after hydrate, want 1", got)
	}

	store.Dispose()
	if got := len(store.Zones()); got != 0 {
		t.Errorf("cached %d zones after Dispose, want 0", got)
	}
}

func TestZoneStoreKeepsStaleCacheOnFailure(t *testing.T) {
	api := &fakeZoneAPI{}
	store := NewZoneStore(api)
	ctx := context.Background()

	if _, err := store.Create(ctx, services.CreateZoneInput{Title: "Home", Latitude: 1, Longitude: 2, Radius: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	api.failAll = true
	if err := store.Refresh(ctx, ZoneQuery{}); err == nil {
		t.Fatal("Refresh succeeded against a failing API")
	}

	// Stale data stays available and the failure is recorded.
	if got := len(store.Zones()); got != 1 {
		t.Errorf("cache dropped to %d zones after failure, want stale 1", got)
	}
	if store.LastError("refresh") == "" {
		t.Error("LastError(refresh) empty after failure")
	}

	// The next success of the same method clears the recorded error.
	api.failAll = false
	if err := store.Refresh(ctx, ZoneQuery{}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if store.LastError("refresh") != "" {
		t.Errorf("LastError(refresh) = %q after success, want empty", store.LastError("refresh"))
	}
}

func TestZoneStoreReconcilesMutations(t *testing.T) {
	api := &fakeZoneAPI{}
	store := NewZoneStore(api)
	ctx := context.Background()

	created, err := store.Create(ctx, services.CreateZoneInput{Title: "Home", Latitude: 1, Longitude: 2, Radius: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := len(store.Zones()); got != 1 {
		t.Fatalf("cache has %d zones after create, want 1", got)
	}

	title := "Base"
	if _, err := store.Update(ctx, created.ID, services.UpdateZoneInput{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := store.Zones()[0].Title; got != "Base" {
		t.Errorf("cached title = %q after update, want Base", got)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := len(store.Zones()); got != 0 {
		t.Errorf("cache has %d zones after delete, want 0", got)
	}
}

func TestZoneStoreSortedViews(t *testing.T) {
	api := &fakeZoneAPI{}
	store := NewZoneStore(api)
	ctx := context.Background()

	for _, z := range []struct {
		title  string
		radius float64
		icon   string
	}{
		{"Charlie", 100, "home"},
		{"Alpha", 300, "work"},
		{"Bravo", 200, "home"},
	} {
		if _, err := store.Create(ctx, services.CreateZoneInput{Title: z.title, Latitude: 1, Longitude: 2, Radius: z.radius, Icon: z.icon}); err != nil {
			t.Fatalf("Create %q: %v", z.title, err)
		}
	}

	byName := store.SortedBy("name")
	if byName[0].Title != "Alpha" {
		t.Errorf("name sort first = %q, want Alpha", byName[0].Title)
	}

	byRadius := store.SortedBy("radius")
	if byRadius[0].Radius != 300 {
		t.Errorf("radius sort first = %v, want 300", byRadius[0].Radius)
	}

	home := store.FilterByIcon("home")
	if len(home) != 2 {
		t.Errorf("icon filter returned %d zones, want 2", len(home))
	}
}

type fakeActivityAPI struct {
	activities []services.ActivityResponse
	nextID     uint
	fail       bool
}

func (f *fakeActivityAPI) ListActivities(ctx context.Context, query ActivityQuery) ([]services.ActivityResponse, int64, error) {
	if f.fail {
		return nil, 0, errRemote
	}
	out := make([]services.ActivityResponse, len(f.activities))
	copy(out, f.activities)
	return out, int64(len(f.activities)), nil
}

func (f *fakeActivityAPI) CreateActivity(ctx context.Context, input services.CreateActivityInput) (*services.ActivityResponse, error) {
	if f.fail {
		return nil, errRemote
	}
	f.nextID++
	activity := services.ActivityResponse{
		ID:        f.nextID,
		ZoneID:    input.ZoneID,
		Type:      input.Type,
		Timestamp: time.Now().UnixMilli(),
	}
	f.activities = append(f.activities, activity)
	return &activity, nil
}

func (f *fakeActivityAPI) GetStatistics(ctx context.Context, zoneID uint) (*services.Statistics, error) {
	if f.fail {
		return nil, errRemote
	}
	return &services.Statistics{Total: int64(len(f.activities))}, nil
}

func TestActivityStoreRecordAndViews(t *testing.T) {
	api := &fakeActivityAPI{}
	store := NewActivityStore(api)
	ctx := context.Background()

	if _, err := store.Record(ctx, services.CreateActivityInput{ZoneID: 1, Type: "enter"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := store.Record(ctx, services.CreateActivityInput{ZoneID: 2, Type: "enter"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := store.Record(ctx, services.CreateActivityInput{ZoneID: 1, Type: "exit"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if got := store.Total(); got != 3 {
		t.Errorf("Total = %d, want 3", got)
	}
	if got := len(store.ForZone(1)); got != 2 {
		t.Errorf("ForZone(1) returned %d activities, want 2", got)
	}

	stats := store.StatsForZone(1)
	if stats.TotalVisits != 1 {
		t.Errorf("StatsForZone(1).TotalVisits = %d, want 1", stats.TotalVisits)
	}
}

func TestActivityStoreErrorBookkeeping(t *testing.T) {
	api := &fakeActivityAPI{fail: true}
	store := NewActivityStore(api)
	ctx := context.Background()

	if err := store.Refresh(ctx, ActivityQuery{}); err == nil {
		t.Fatal("Refresh succeeded against a failing API")
	}
	if store.LastError("refresh") == "" {
		t.Error("LastError(refresh) empty after failure")
	}
	// A different method's bookkeeping is untouched.
	if store.LastError("record") != "" {
		t.Errorf("LastError(record) = %q, want empty", store.LastError("record"))
	}

	api.fail = false
	if err := store.Refresh(ctx, ActivityQuery{}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if store.LastError("refresh") != "" {
		t.Error("LastError(refresh) not cleared by success")
	}
}
