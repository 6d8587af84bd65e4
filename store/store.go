// Package store holds the client-side mirrors of server state. Stores are
// explicitly constructed and carry an Initialize/Dispose lifecycle instead
// of hydrating as global singletons on import. A failed request keeps the
// previous cache (stale but available) and records the error; the recorded
// error clears on the next success of the same method.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/zone-app/api-go/services"
)

// ErrRequestInFlight is returned when a store method is called while an
// earlier call to the same method is still running. There is no request
// deduplication or cancellation; callers simply retry.
var ErrRequestInFlight = errors.New("store: request already in flight")

// ZoneQuery mirrors the zone list endpoint's query parameters.
type ZoneQuery struct {
	Filter string // icon filter
	Sort   string // name | date | radius
	Limit  int
	Offset int
}

// ActivityQuery mirrors the activity list endpoint's query parameters.
type ActivityQuery struct {
	ZoneID uint
	Type   string // enter | exit
	Sort   string // recent | oldest | zone
	Limit  int
	Offset int
}

// ZoneAPI is the remote surface the zone store talks to.
type ZoneAPI interface {
	ListZones(ctx context.Context, query ZoneQuery) ([]services.ZoneResponse, int64, error)
	CreateZone(ctx context.Context, input services.CreateZoneInput) (*services.ZoneResponse, error)
	UpdateZone(ctx context.Context, id uint, input services.UpdateZoneInput) (*services.ZoneResponse, error)
	DeleteZone(ctx context.Context, id uint) error
}

// ActivityAPI is the remote surface the activity store talks to.
type ActivityAPI interface {
	ListActivities(ctx context.Context, query ActivityQuery) ([]services.ActivityResponse, int64, error)
	CreateActivity(ctx context.Context, input services.CreateActivityInput) (*services.ActivityResponse, error)
	GetStatistics(ctx context.Context, zoneID uint) (*services.Statistics, error)
}

type flightGuard struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func (g *flightGuard) begin(method string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight == nil {
		g.inFlight = make(map[string]bool)
	}
	if g.inFlight[method] {
		return ErrRequestInFlight
	}
	g.inFlight[method] = true
	return nil
}

func (g *flightGuard) end(method string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, method)
}

// ZoneStore caches the user's zones.
type ZoneStore struct {
	api ZoneAPI

	mu      sync.RWMutex
	zones   []services.ZoneResponse
	total   int64
	lastErr map[string]string
	guard   flightGuard
}

func NewZoneStore(api ZoneAPI) *ZoneStore {
	return &ZoneStore{
		api:     api,
		lastErr: make(map[string]string),
	}
}

// Initialize hydrates the cache with the default listing.
func (s *ZoneStore) Initialize(ctx context.Context) error {
	return s.Refresh(ctx, ZoneQuery{})
}

// Dispose drops cached state. The store may be Initialized again afterward.
func (s *ZoneStore) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones = nil
	s.total = 0
	s.lastErr = make(map[string]string)
}

func (s *ZoneStore) finish(method string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr[method] = err.Error()
		return err
	}
	delete(s.lastErr, method)
	return nil
}

// LastError returns the message recorded by the last failed call of the
// method, or "" if its last call succeeded.
func (s *ZoneStore) LastError(method string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr[method]
}

func (s *ZoneStore) Refresh(ctx context.Context, query ZoneQuery) error {
	if err := s.guard.begin("refresh"); err != nil {
		return err
	}
	defer s.guard.end("refresh")

	zones, total, err := s.api.ListZones(ctx, query)
	if err != nil {
		return s.finish("refresh", err)
	}

	s.mu.Lock()
	s.zones = zones
	s.total = total
	s.mu.Unlock()
	return s.finish("refresh", nil)
}

// Create persists the zone remotely and reconciles the cache with the
// server's copy.
func (s *ZoneStore) Create(ctx context.Context, input services.CreateZoneInput) (*services.ZoneResponse, error) {
	if err := s.guard.begin("create"); err != nil {
		return nil, err
	}
	defer s.guard.end("create")

	zone, err := s.api.CreateZone(ctx, input)
	if err != nil {
		return nil, s.finish("create", err)
	}

	s.mu.Lock()
	s.zones = append([]services.ZoneResponse{*zone}, s.zones...)
	s.total++
	s.mu.Unlock()
	s.finish("create", nil)
	return zone, nil
}

func (s *ZoneStore) Update(ctx context.Context, id uint, input services.UpdateZoneInput) (*services.ZoneResponse, error) {
	if err := s.guard.begin("update"); err != nil {
		return nil, err
	}
	defer s.guard.end("update")

	zone, err := s.api.UpdateZone(ctx, id, input)
	if err != nil {
		return nil, s.finish("update", err)
	}

	s.mu.Lock()
	for i := range s.zones {
		if s.zones[i].ID == id {
			s.zones[i] = *zone
			break
		}
	}
	s.mu.Unlock()
	s.finish("update", nil)
	return zone, nil
}

func (s *ZoneStore) Delete(ctx context.Context, id uint) error {
	if err := s.guard.begin("delete"); err != nil {
		return err
	}
	defer s.guard.end("delete")

	if err := s.api.DeleteZone(ctx, id); err != nil {
		return s.finish("delete", err)
	}

	s.mu.Lock()
	for i := range s.zones {
		if s.zones[i].ID == id {
			s.zones = append(s.zones[:i], s.zones[i+1:]...)
			s.total--
			break
		}
	}
	s.mu.Unlock()
	return s.finish("delete", nil)
}

// Zones returns a copy of the cached zone list.
func (s *ZoneStore) Zones() []services.ZoneResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]services.ZoneResponse, len(s.zones))
	copy(out, s.zones)
	return out
}

func (s *ZoneStore) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// FilterByIcon returns the cached zones carrying the icon.
func (s *ZoneStore) FilterByIcon(icon string) []services.ZoneResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []services.ZoneResponse
	for _, zone := range s.zones {
		if zone.Icon == icon {
			out = append(out, zone)
		}
	}
	return out
}

// SortedBy returns a sorted copy of the cache: name (title asc), radius
// (desc) or date (newest first, the default).
func (s *ZoneStore) SortedBy(sortBy string) []services.ZoneResponse {
	out := s.Zones()
	switch sortBy {
	case "name":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	case "radius":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Radius > out[j].Radius })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}
