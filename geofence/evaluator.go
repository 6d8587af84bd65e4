// Package geofence turns raw position updates into enter/exit transitions
// against a user's zone set. It is pure computation driven by its caller:
// there are no timers or background loops here, a position source feeds
// Monitor.Update and transitions come out as activity writes and
// notifications.
package geofence

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean earth radius used for great-circle distance.
const EarthRadiusMeters = 6371000.0

// Zone is the minimal zone view the engine needs.
type Zone struct {
	ID                 uint
	Name               string
	Latitude           float64
	Longitude          float64
	Radius             float64 // meters
	NotificationOption string
	NotificationText   string
}

// Distance returns the great-circle distance in meters between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Evaluator answers point-in-zone queries over a cached zone set.
type Evaluator struct {
	zones []Zone
}

func NewEvaluator(zones []Zone) *Evaluator {
	e := &Evaluator{}
	e.SetZones(zones)
	return e
}

// SetZones replaces the cached zone set, e.g. after the user edits zones.
func (e *Evaluator) SetZones(zones []Zone) {
	e.zones = append(e.zones[:0], zones...)
}

func (e *Evaluator) Zones() []Zone {
	return e.zones
}

// Contains reports whether the position lies within the zone's radius.
// A point exactly on the boundary counts as inside.
func Contains(zone Zone, lat, lon float64) bool {
	return Distance(zone.Latitude, zone.Longitude, lat, lon) <= zone.Radius
}

// Membership returns the set of zone ids containing the position.
func (e *Evaluator) Membership(lat, lon float64) map[uint]bool {
	inside := make(map[uint]bool, len(e.zones))
	for _, zone := range e.zones {
		if Contains(zone, lat, lon) {
			inside[zone.ID] = true
		}
	}
	return inside
}
