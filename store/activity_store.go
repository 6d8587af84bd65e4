package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zone-app/api-go/services"
)

// ActivityStore caches the user's activity log and exposes filtered and
// derived views to the UI.
type ActivityStore struct {
	api ActivityAPI

	mu         sync.RWMutex
	activities []services.ActivityResponse
	total      int64
	lastErr    map[string]string
	guard      flightGuard
	now        func() time.Time
}

func NewActivityStore(api ActivityAPI) *ActivityStore {
	return &ActivityStore{
		api:     api,
		lastErr: make(map[string]string),
		now:     time.Now,
	}
}

func (s *ActivityStore) Initialize(ctx context.Context) error {
	return s.Refresh(ctx, ActivityQuery{})
}

func (s *ActivityStore) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = nil
	s.total = 0
	s.lastErr = make(map[string]string)
}

func (s *ActivityStore) finish(method string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr[method] = err.Error()
		return err
	}
	delete(s.lastErr, method)
	return nil
}

func (s *ActivityStore) LastError(method string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr[method]
}

func (s *ActivityStore) Refresh(ctx context.Context, query ActivityQuery) error {
	if err := s.guard.begin("refresh"); err != nil {
		return err
	}
	defer s.guard.end("refresh")

	activities, total, err := s.api.ListActivities(ctx, query)
	if err != nil {
		return s.finish("refresh", err)
	}

	s.mu.Lock()
	s.activities = activities
	s.total = total
	s.mu.Unlock()
	return s.finish("refresh", nil)
}

// Record appends an activity remotely and prepends the server's copy to the
// cache (recent-first is the default view order).
func (s *ActivityStore) Record(ctx context.Context, input services.CreateActivityInput) (*services.ActivityResponse, error) {
	if err := s.guard.begin("record"); err != nil {
		return nil, err
	}
	defer s.guard.end("record")

	activity, err := s.api.CreateActivity(ctx, input)
	if err != nil {
		return nil, s.finish("record", err)
	}

	s.mu.Lock()
	s.activities = append([]services.ActivityResponse{*activity}, s.activities...)
	s.total++
	s.mu.Unlock()
	s.finish("record", nil)
	return activity, nil
}

// Statistics fetches the server-side aggregate; zoneID 0 means all zones.
func (s *ActivityStore) Statistics(ctx context.Context, zoneID uint) (*services.Statistics, error) {
	if err := s.guard.begin("statistics"); err != nil {
		return nil, err
	}
	defer s.guard.end("statistics")

	stats, err := s.api.GetStatistics(ctx, zoneID)
	if err != nil {
		return nil, s.finish("statistics", err)
	}
	s.finish("statistics", nil)
	return stats, nil
}

// Activities returns a copy of the cached list.
func (s *ActivityStore) Activities() []services.ActivityResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]services.ActivityResponse, len(s.activities))
	copy(out, s.activities)
	return out
}

func (s *ActivityStore) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// ForZone returns cached activities for the zone, recent first.
func (s *ActivityStore) ForZone(zoneID uint) []services.ActivityResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []services.ActivityResponse
	for _, activity := range s.activities {
		if activity.ZoneID == zoneID {
			out = append(out, activity)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

// StatsForZone derives the statistics view for one zone from the cache.
func (s *ActivityStore) StatsForZone(zoneID uint) ZoneStats {
	return DeriveZoneStats(zoneID, s.Activities(), s.now())
}
