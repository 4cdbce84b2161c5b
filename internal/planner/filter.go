package planner

import (
	"time"

	"github.com/glasgownights/nightout-api/internal/types"
)

const (
	// Candidates out to 1.5x the preferred radius stay eligible; the
	// distance component scores the outer band down instead of cutting it.
	softRadiusFactor = 1.5

	// Hard cutoff: anything estimated above twice the budget is dropped.
	budgetCutoffFactor = 2.0
)

// isTimeCompatible reports whether a candidate is available during the
// requested [windowStart, windowEnd) minute window on the given date.
// windowEnd may exceed 1440 when the evening crosses midnight.
func isTimeCompatible(c types.Candidate, date string, windowStart, windowEnd int) bool {
	if c.Kind == types.CandidateEvent {
		return eventOverlapsWindow(c, date, windowStart, windowEnd)
	}
	return venueOpenDuring(c, date, windowStart, windowEnd)
}

// eventOverlapsWindow requires both timestamps: an event we cannot place
// in time is never recommended.
func eventOverlapsWindow(c types.Candidate, date string, windowStart, windowEnd int) bool {
	start, okStart := eventMinutes(c.Start, date)
	end, okEnd := eventMinutes(c.End, date)
	if !okStart || !okEnd {
		return false
	}
	return overlaps(start, end, windowStart, windowEnd)
}

// eventMinutes converts an event timestamp into minutes relative to
// midnight (UTC) of the requested date. Timestamps on later dates come
// out above 1440 and still compare correctly against wrapped windows.
func eventMinutes(ts, date string) (int, bool) {
	if ts == "" {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		// Providers sometimes omit the zone suffix.
		t, err = time.Parse("2006-01-02T15:04:05", ts)
		if err != nil {
			return 0, false
		}
	}
	midnight, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	return int(t.UTC().Sub(midnight).Minutes()), true
}

// venueOpenDuring checks the venue's open-hour blocks for the request's
// weekday. Venues without hour data are assumed open: starving the result
// set on missing data is worse than the odd closed door.
func venueOpenDuring(c types.Candidate, date string, windowStart, windowEnd int) bool {
	if len(c.OpenHours) == 0 {
		return true
	}
	blocks, ok := c.OpenHours[weekdayName(date)]
	if !ok || len(blocks) == 0 {
		return true
	}
	for _, block := range blocks {
		if len(block) < 2 {
			continue
		}
		open, close := block[0], block[1]
		if close < open {
			// Overnight block, e.g. [1200, 180] closes at 03:00 next day.
			close += minutesPerDay
		}
		if overlaps(open, close, windowStart, windowEnd) {
			return true
		}
	}
	return false
}

// withinSoftRadius keeps candidates inside 1.5x the preferred radius.
func withinSoftRadius(c types.Candidate, preferredRadiusKm float64) bool {
	return c.DistanceKmFromCenter <= preferredRadiusKm*softRadiusFactor
}

// withinBudgetCutoff drops candidates whose estimated cost exceeds twice
// the per-person budget. Everything cheaper is scored, not excluded.
func withinBudgetCutoff(costPP, budgetPP float64) bool {
	return costPP <= budgetPP*budgetCutoffFactor
}
