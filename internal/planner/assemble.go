package planner

import (
	"math"
	"time"

	"github.com/glasgownights/nightout-api/internal/types"
)

// AssembleResponse packages ranked items and itineraries into the external
// response shape. The request id and generation time come from the caller
// so the core itself stays deterministic.
func AssembleResponse(requestID string, generatedAt time.Time, ranked []types.RankedItem, itineraries []types.Itinerary) types.RecommendationResponse {
	top := make([]types.RankedSummary, 0, len(ranked))
	for _, item := range ranked {
		top = append(top, types.RankedSummary{
			ID:                   item.Item.ID,
			Name:                 item.Item.Name,
			Kind:                 item.Item.Kind,
			Score:                round1(item.Score),
			Components:           roundComponents(item.Components),
			Reasons:              item.Reasons,
			ETAMinutesFromCenter: item.ETAMinutesFromCenter,
			EstimatedCostPP:      round2(item.EstimatedCostPP),
		})
	}

	rounded := make([]types.Itinerary, 0, len(itineraries))
	for _, it := range itineraries {
		it.TotalCostPP = round2(it.TotalCostPP)
		// Round on a copy; the caller's stops stay untouched.
		stops := make([]types.ItineraryStop, len(it.Stops))
		copy(stops, it.Stops)
		for i := range stops {
			stops[i].CostPP = round2(stops[i].CostPP)
		}
		it.Stops = stops
		rounded = append(rounded, it)
	}

	return types.RecommendationResponse{
		RequestID:   requestID,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Top:         top,
		Itineraries: rounded,
	}
}

func roundComponents(components map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(components))
	for name, v := range components {
		out[name] = round2(v)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
