package store

import (
	"math"
	"sort"
	"time"

	"github.com/zone-app/api-go/services"
)

const millisPerWeek = 7 * 24 * 60 * 60 * 1000

// ZoneStats is the client-side derived view over the raw activity list for
// one zone. Nothing here is persisted; same input always yields same output.
type ZoneStats struct {
	TotalVisits      int     `json:"totalVisits"`
	EnterCount       int     `json:"enterCount"`
	ExitCount        int     `json:"exitCount"`
	AvgVisitsPerWeek float64 `json:"avgVisitsPerWeek"`
	LastVisit        *int64  `json:"lastVisit"`
	MostActiveDay    string  `json:"mostActiveDay"`
}

// DeriveZoneStats computes per-zone statistics from the full activity list.
// A visit is the conservative pairing min(enters, exits). The most active
// day is the modal weekday of the filtered timestamps, ties broken by which
// weekday was encountered first. The average is visits over whole weeks
// since the chronologically earliest filtered activity, never dividing by
// less than one week, rounded to one decimal.
func DeriveZoneStats(zoneID uint, activities []services.ActivityResponse, now time.Time) ZoneStats {
	filtered := make([]services.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		if activity.ZoneID == zoneID {
			filtered = append(filtered, activity)
		}
	}

	if len(filtered) == 0 {
		return ZoneStats{MostActiveDay: "N/A"}
	}

	enterCount := 0
	exitCount := 0
	for _, activity := range filtered {
		switch activity.Type {
		case "enter":
			enterCount++
		case "exit":
			exitCount++
		}
	}

	totalVisits := enterCount
	if exitCount < totalVisits {
		totalVisits = exitCount
	}

	lastVisit := filtered[0].Timestamp
	for _, activity := range filtered[1:] {
		if activity.Timestamp > lastVisit {
			lastVisit = activity.Timestamp
		}
	}

	// The oldest activity is read off the tail of the descending-sorted list.
	sorted := make([]services.ActivityResponse, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	oldest := sorted[len(sorted)-1].Timestamp

	weeks := float64(now.UnixMilli()-oldest) / millisPerWeek
	avg := math.Round(float64(totalVisits)/math.Max(1, weeks)*10) / 10

	return ZoneStats{
		TotalVisits:      totalVisits,
		EnterCount:       enterCount,
		ExitCount:        exitCount,
		AvgVisitsPerWeek: avg,
		LastVisit:        &lastVisit,
		MostActiveDay:    mostActiveDay(filtered),
	}
}

// mostActiveDay picks the weekday with the most activity timestamps. The
// first weekday to reach the winning count keeps it on ties, matching
// encounter order over the filtered list.
func mostActiveDay(activities []services.ActivityResponse) string {
	counts := make(map[string]int, 7)
	order := make([]string, 0, 7)
	for _, activity := range activities {
		day := time.UnixMilli(activity.Timestamp).Weekday().String()
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}

	best := ""
	bestCount := 0
	for _, day := range order {
		if counts[day] > bestCount {
			best = day
			bestCount = counts[day]
		}
	}
	return best
}
