package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glasgownights/nightout-api/internal/types"
)

func rankedVenue(id, name string, score, costPP float64, loc types.Location, categories ...string) types.RankedItem {
	return types.RankedItem{
		Item: types.Candidate{
			ID:         id,
			Kind:       types.CandidateVenue,
			Name:       name,
			Categories: categories,
			Location:   loc,
			Indoor:     true,
		},
		Score:           score,
		EstimatedCostPP: costPP,
	}
}

func TestSelectTemplates(t *testing.T) {
	t.Run("mood order, deduped, capped at two", func(t *testing.T) {
		templates := selectTemplates([]string{"karaoke", "KARAOKE", "fun", "culture"})
		require.Len(t, templates, 2)
		assert.Equal(t, itineraryTemplates["karaoke"], templates[0])
		assert.Equal(t, itineraryTemplates["fun"], templates[1])
	})

	t.Run("unknown moods fall back to the default", func(t *testing.T) {
		templates := selectTemplates([]string{"mystery"})
		require.Len(t, templates, 1)
		assert.Equal(t, defaultTemplate, templates[0])
	})

	t.Run("no moods fall back to the default", func(t *testing.T) {
		templates := selectTemplates(nil)
		require.Len(t, templates, 1)
		assert.Equal(t, defaultTemplate, templates[0])
	})
}

func TestDwellMinutes(t *testing.T) {
	assert.Equal(t, 82, dwellMinutes([]string{"karaoke", "bar"}), "first known category wins")
	assert.Equal(t, 67, dwellMinutes([]string{"bar", "pub"}))
	assert.Equal(t, 67, dwellMinutes([]string{"mystery"}), "unknown categories use the default range")
}

func TestItineraryTitle(t *testing.T) {
	assert.Equal(t, "Karaoke Night", itineraryTitle([]string{"fun", "karaoke"}), "priority order, not request order")
	assert.Equal(t, "Chilled Evening", itineraryTitle([]string{"chill"}))
	assert.Equal(t, "Night Out", itineraryTitle(nil))
	assert.Equal(t, "Night Out", itineraryTitle([]string{"mystery"}))
}

func TestBuildItineraries_KaraokeEvening(t *testing.T) {
	eng := NewEngine(types.Location{})

	req := types.PlanRequest{
		Date:            testDate,
		StartTime:       "19:00",
		DurationMinutes: 240,
		GroupSize:       4,
		BudgetPerPerson: 25,
		Moods:           []string{"karaoke"},
	}
	// Everything at the center so the clock is driven by dwell alone.
	ranked := []types.RankedItem{
		rankedVenue("bar-1", "Sing City", 90, 12, glasgowCenter, "karaoke", "bar"),
		rankedVenue("bar-2", "Dram!", 80, 8, glasgowCenter, "bar", "pub"),
		rankedVenue("bar-3", "The Snug", 70, 12, glasgowCenter, "bar"),
	}

	itineraries := eng.BuildItineraries(req, ranked)
	require.Len(t, itineraries, 1)

	it := itineraries[0]
	assert.Equal(t, "Karaoke Night", it.Title)
	// Sing City fills both the opening bar slot and, being used, leaves the
	// karaoke slot empty; Dram! closes the evening.
	require.Len(t, it.Stops, 2)
	assert.Equal(t, "bar-1", it.Stops[0].ID)
	assert.Equal(t, "19:00", it.Stops[0].Arrive)
	assert.Equal(t, "20:22", it.Stops[0].Depart, "karaoke dwell midpoint is 82 minutes")
	assert.Equal(t, 7, it.Stops[0].WalkMinutesToNext)

	assert.Equal(t, "bar-2", it.Stops[1].ID)
	assert.Equal(t, "20:22", it.Stops[1].Arrive)
	assert.Equal(t, "21:29", it.Stops[1].Depart)
	assert.Equal(t, 0, it.Stops[1].WalkMinutesToNext, "last stop has no onward walk")

	assert.Equal(t, 20.0, it.TotalCostPP)
	assert.Equal(t, 0, it.TotalWalkMinutes)
	assert.Contains(t, it.Reasons, "within budget")
	assert.Contains(t, it.Reasons, "mostly indoor")
	assert.Equal(t, planBNote, it.PlanB)
}

func TestBuildItineraries_EventOverridesClock(t *testing.T) {
	eng := NewEngine(types.Location{})

	req := types.PlanRequest{
		Date:            testDate,
		StartTime:       "19:00",
		DurationMinutes: 300,
		GroupSize:       4,
		BudgetPerPerson: 30,
		Moods:           []string{"live-music"},
	}
	gig := types.RankedItem{
		Item: types.Candidate{
			ID:         "ev-1",
			Kind:       types.CandidateEvent,
			Name:       "Basement Sessions",
			Categories: []string{"live-music"},
			Location:   glasgowCenter,
			Indoor:     true,
			Start:      "2025-11-15T20:30:00Z",
			End:        "2025-11-15T22:30:00Z",
		},
		Score:           85,
		EstimatedCostPP: 15,
	}
	ranked := []types.RankedItem{
		rankedVenue("bar-1", "Opener", 90, 8, glasgowCenter, "bar"),
		gig,
		rankedVenue("bar-2", "Closer", 70, 8, glasgowCenter, "bar"),
	}

	itineraries := eng.BuildItineraries(req, ranked)
	require.Len(t, itineraries, 1)

	it := itineraries[0]
	assert.Equal(t, "Live Music Evening", it.Title)
	require.Len(t, it.Stops, 3)

	assert.Equal(t, "ev-1", it.Stops[1].ID)
	assert.Equal(t, "20:30", it.Stops[1].Arrive, "timed event dictates arrival")
	assert.Equal(t, "22:30", it.Stops[1].Depart)

	// The closing bar picks up from the event's real end.
	assert.Equal(t, "22:30", it.Stops[2].Arrive)
	assert.Equal(t, "23:37", it.Stops[2].Depart)

	assert.Equal(t, 31.0, it.TotalCostPP)
	assert.Contains(t, it.Reasons, "slightly above budget")
}

func TestBuildItineraries_BudgetStretchDiscard(t *testing.T) {
	eng := NewEngine(types.Location{})

	req := types.PlanRequest{
		Date:            testDate,
		StartTime:       "19:00",
		DurationMinutes: 240,
		GroupSize:       4,
		BudgetPerPerson: 25,
		Moods:           []string{"karaoke"},
	}
	ranked := []types.RankedItem{
		rankedVenue("v1", "Gold Bar", 90, 35, glasgowCenter, "karaoke", "bar"),
		rankedVenue("v2", "Platinum Bar", 80, 35, glasgowCenter, "bar"),
	}

	// 70 per person blows the 1.2x stretch on a 25 budget.
	assert.Empty(t, eng.BuildItineraries(req, ranked))
}

func TestBuildItineraries_TooFewStopsDiscard(t *testing.T) {
	eng := NewEngine(types.Location{})

	req := types.PlanRequest{
		Date:            testDate,
		StartTime:       "19:00",
		DurationMinutes: 240,
		GroupSize:       4,
		BudgetPerPerson: 25,
		Moods:           []string{"karaoke"},
	}
	// One candidate covers every slot it could fill; it cannot repeat.
	ranked := []types.RankedItem{
		rankedVenue("v1", "Solo Bar", 90, 12, glasgowCenter, "karaoke", "bar"),
	}

	assert.Empty(t, eng.BuildItineraries(req, ranked))
}

func TestBuildItineraries_WalkCapSkipsUnreachableStops(t *testing.T) {
	eng := NewEngine(types.Location{})

	req := types.PlanRequest{
		Date:            testDate,
		StartTime:       "19:00",
		DurationMinutes: 240,
		GroupSize:       4,
		BudgetPerPerson: 25,
		Moods:           []string{"karaoke"},
	}
	// ~5.6km north of George Square, a 67-minute walk against a 15-minute cap.
	farNorth := types.Location{Lat: 55.9142, Lon: -4.2518}

	ranked := []types.RankedItem{
		rankedVenue("far", "Distant Bar", 95, 8, farNorth, "bar"),
		rankedVenue("near-1", "Close Bar", 80, 8, glasgowCenter, "karaoke", "bar"),
		rankedVenue("near-2", "Closer Still", 70, 8, glasgowCenter, "bar"),
	}

	itineraries := eng.BuildItineraries(req, ranked)
	require.Len(t, itineraries, 1)
	for _, stop := range itineraries[0].Stops {
		assert.NotEqual(t, "far", stop.ID)
	}
}

func TestBuildItineraries_NoRepeatedStops(t *testing.T) {
	eng := NewEngine(types.Location{})

	req := types.PlanRequest{
		Date:            testDate,
		StartTime:       "19:00",
		DurationMinutes: 240,
		GroupSize:       4,
		BudgetPerPerson: 25,
		Moods:           []string{"karaoke", "fun"},
	}
	ranked := []types.RankedItem{
		rankedVenue("v1", "A", 90, 8, glasgowCenter, "karaoke", "bar"),
		rankedVenue("v2", "B", 85, 8, glasgowCenter, "bar"),
		rankedVenue("v3", "C", 80, 8, glasgowCenter, "arcade"),
		rankedVenue("v4", "D", 75, 8, glasgowCenter, "bar", "pub"),
	}

	itineraries := eng.BuildItineraries(req, ranked)
	require.Len(t, itineraries, 2, "one plan per matching mood")
	for _, it := range itineraries {
		seen := map[string]bool{}
		for _, stop := range it.Stops {
			assert.False(t, seen[stop.ID], "stop %s repeated within a plan", stop.ID)
			seen[stop.ID] = true
		}
	}
}
