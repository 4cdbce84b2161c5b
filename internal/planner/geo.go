package planner

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/glasgownights/nightout-api/internal/types"
)

const (
	earthRadiusKm = 6371.0

	// Walking speed estimate: 12 minutes per kilometre.
	walkMinutesPerKm = 12.0

	minutesPerDay = 1440
)

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(a, b types.Location) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// walkMinutes converts a distance to estimated walking minutes.
func walkMinutes(km float64) int {
	return int(math.Round(km * walkMinutesPerKm))
}

// parseClock converts "HH:MM" to minutes since midnight, 0-1439.
// Callers are responsible for well-formed input.
func parseClock(s string) int {
	var h, m int
	fmt.Sscanf(s, "%d:%d", &h, &m)
	total := h*60 + m
	return ((total % minutesPerDay) + minutesPerDay) % minutesPerDay
}

// formatClock renders minutes since midnight as "HH:MM", modulo 24h so
// plans that run past midnight wrap cleanly.
func formatClock(minutes int) string {
	m := ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// weekdayName returns the lowercase weekday for a YYYY-MM-DD date, the key
// format used by candidate open-hour tables.
func weekdayName(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return strings.ToLower(t.Weekday().String())
}

// overlaps reports whether two half-open intervals [s1,e1) and [s2,e2)
// intersect.
func overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}
