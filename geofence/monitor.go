package geofence

import (
	"context"
	"sync"
)

// Transition types emitted by the monitor. They match the activity log's
// two type values.
const (
	TransitionEnter = "enter"
	TransitionExit  = "exit"
)

// ActivityRecorder receives detected boundary crossings. The activity
// service satisfies this.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, zoneID uint, transition string) error
}

// Notifier receives alerts for transitions the zone's notification option
// admits.
type Notifier interface {
	Notify(userID uint, zone Zone, transition string)
}

// Transition is one detected boundary crossing.
type Transition struct {
	Zone Zone
	Type string
}

// Monitor tracks one user's zone membership across position updates and
// emits enter/exit transitions. The first update seeds membership without
// emitting, so a session starting inside a zone does not fabricate an enter.
type Monitor struct {
	mu        sync.Mutex
	userID    uint
	evaluator *Evaluator
	recorder  ActivityRecorder
	notifier  Notifier
	inside    map[uint]bool
	seeded    bool
}

func NewMonitor(userID uint, evaluator *Evaluator, recorder ActivityRecorder, notifier Notifier) *Monitor {
	return &Monitor{
		userID:    userID,
		evaluator: evaluator,
		recorder:  recorder,
		notifier:  notifier,
		inside:    make(map[uint]bool),
	}
}

// SetZones replaces the monitored zone set. Membership state for removed
// zones is dropped; no synthetic exits are emitted for them.
func (m *Monitor) SetZones(zones []Zone) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evaluator.SetZones(zones)
	kept := make(map[uint]bool, len(zones))
	for _, zone := range zones {
		if m.inside[zone.ID] {
			kept[zone.ID] = true
		}
	}
	m.inside = kept
}

// Update evaluates a position fix and records every membership change. The
// recorder is invoked synchronously so a failed write leaves membership
// unchanged for that zone and the transition is re-detected on the next fix.
func (m *Monitor) Update(ctx context.Context, lat, lon float64) ([]Transition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.evaluator.Membership(lat, lon)

	if !m.seeded {
		m.inside = current
		m.seeded = true
		return nil, nil
	}

	var transitions []Transition
	var firstErr error
	for _, zone := range m.evaluator.Zones() {
		was := m.inside[zone.ID]
		is := current[zone.ID]
		if was == is {
			continue
		}

		transition := TransitionExit
		if is {
			transition = TransitionEnter
		}

		if err := m.recorder.Record(ctx, m.userID, zone.ID, transition); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		m.inside[zone.ID] = is
		if !is {
			delete(m.inside, zone.ID)
		}
		transitions = append(transitions, Transition{Zone: zone, Type: transition})

		if m.notifier != nil && wantsNotification(zone.NotificationOption, transition) {
			m.notifier.Notify(m.userID, zone, transition)
		}
	}

	return transitions, firstErr
}

func wantsNotification(option, transition string) bool {
	return option == "both" || option == transition
}
