package types

import (
	"fmt"
	"time"
)

// Candidate kinds. Everything the planner ranks is one of these two.
const (
	CandidateVenue = "venue"
	CandidateEvent = "event"
)

// Location is an immutable latitude/longitude pair in degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlanRequest captures the user's preferences for one evening.
// Zero-valued optional fields are filled with defaults by the planner
// (walk limit 15 min, 10 results, 3.0 km radius, configured city center).
type PlanRequest struct {
	Date              string    `json:"date"`       // calendar date, YYYY-MM-DD
	StartTime         string    `json:"start_time"` // clock time, HH:MM
	DurationMinutes   int       `json:"duration_minutes"`
	GroupSize         int       `json:"group_size"`
	BudgetPerPerson   float64   `json:"budget_per_person_gbp"`
	Moods             []string  `json:"moods"`
	Center            *Location `json:"center,omitempty"`
	MaxWalkMinutes    int       `json:"max_walk_minutes_between_stops,omitempty"`
	MaxResults        int       `json:"max_results,omitempty"`
	PreferredRadiusKm float64   `json:"preferred_radius_km,omitempty"`
}

// Validate enforces the caller contract: a well-formed date and start
// time, a positive duration and group size, and a non-negative budget.
// Missing optional data elsewhere degrades to defaults and never errors.
func (r PlanRequest) Validate() error {
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	if _, err := time.Parse("15:04", r.StartTime); err != nil {
		return fmt.Errorf("invalid start_time %q: %w", r.StartTime, err)
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("duration_minutes must be positive, got %d", r.DurationMinutes)
	}
	if r.GroupSize <= 0 {
		return fmt.Errorf("group_size must be positive, got %d", r.GroupSize)
	}
	if r.BudgetPerPerson < 0 {
		return fmt.Errorf("budget_per_person_gbp must not be negative, got %.2f", r.BudgetPerPerson)
	}
	return nil
}

// Candidate is a venue or event eligible for recommendation. Candidates
// are produced by upstream providers and treated as read-only here.
// Kind-specific fields are pointers so that absent data is distinguishable
// from zero values.
type Candidate struct {
	ID                   string   `json:"id"`
	Kind                 string   `json:"type"`
	Name                 string   `json:"name"`
	Categories           []string `json:"categories"`
	Location             Location `json:"location"`
	DistanceKmFromCenter float64  `json:"distance_km_from_center"`
	Indoor               bool     `json:"indoor"`
	Outdoor              bool     `json:"outdoor"`

	// Venue attributes.
	PriceTier    *int               `json:"price_tier,omitempty"` // 1-4
	Rating       *float64           `json:"rating,omitempty"`     // 0-5
	Reviews      *int               `json:"reviews,omitempty"`
	OpenHours    map[string][][]int `json:"open_hours,omitempty"` // weekday -> [start,end) minute blocks
	CapacityHint *int               `json:"capacity_hint,omitempty"`

	// Event attributes. Start/End are RFC 3339 timestamps.
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
}

// WeatherHour is one hourly record of a weather snapshot.
type WeatherHour struct {
	Time     string  `json:"time"` // HH:MM
	TempC    float64 `json:"temp_c"`
	PrecipMm float64 `json:"precip_mm"`
	IsRain   bool    `json:"is_rain"`
}

// WeatherSnapshot is an optional hourly forecast for the requested date.
type WeatherSnapshot struct {
	Date   string        `json:"date"`
	Hourly []WeatherHour `json:"hourly"`
}

// RankedItem pairs a candidate with its weighted score, the six component
// scores, reasons, and derived estimates. It lives for one request only.
type RankedItem struct {
	Item                 Candidate          `json:"item"`
	Score                float64            `json:"score"`
	Components           map[string]float64 `json:"components"`
	Reasons              []string           `json:"reasons"`
	ETAMinutesFromCenter int                `json:"eta_minutes_from_center"`
	EstimatedCostPP      float64            `json:"estimated_cost_pp"`
}

// RankedSummary is the outbound projection of a RankedItem with rounded
// numbers, keeping the response payload small.
type RankedSummary struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Kind                 string             `json:"type"`
	Score                float64            `json:"score"`
	Components           map[string]float64 `json:"components"`
	Reasons              []string           `json:"reasons"`
	ETAMinutesFromCenter int                `json:"eta_minutes_from_center"`
	EstimatedCostPP      float64            `json:"estimated_cost_pp"`
}

// ItineraryStop is one stop of a multi-stop plan.
type ItineraryStop struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Arrive            string  `json:"arrive"` // HH:MM
	Depart            string  `json:"depart"` // HH:MM
	WalkMinutesToNext int     `json:"walk_minutes_to_next"`
	CostPP            float64 `json:"cost_pp"`
}

// Itinerary is a 2-3 stop evening plan with per-person totals.
type Itinerary struct {
	Title            string          `json:"title"`
	Stops            []ItineraryStop `json:"stops"`
	TotalCostPP      float64         `json:"total_cost_pp"`
	TotalWalkMinutes int             `json:"total_walk_minutes"`
	Reasons          []string        `json:"reasons"`
	PlanB            string          `json:"plan_b"`
}

// RecommendationRequest is the inbound contract: the user's request, the
// normalized candidate list, and an optional weather snapshot.
type RecommendationRequest struct {
	Request    PlanRequest      `json:"request"`
	Candidates []Candidate      `json:"candidates"`
	Weather    *WeatherSnapshot `json:"weather,omitempty"`
}

// RecommendationResponse is the outbound contract.
type RecommendationResponse struct {
	RequestID   string          `json:"request_id"`
	GeneratedAt string          `json:"generated_at"`
	Top         []RankedSummary `json:"top"`
	Itineraries []Itinerary     `json:"itineraries"`
}
