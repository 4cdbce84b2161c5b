// Package planner is the ranking and itinerary-construction engine. It
// filters candidates for time, radius and budget compatibility, scores
// the survivors on six weighted components, orders them with a
// deterministic tie-break chain plus a diversity penalty, and greedily
// assembles short multi-stop evening plans.
//
// Every entry point is a pure function of (request, candidates, weather):
// the engine holds no per-call state, performs no I/O, and may be shared
// freely across goroutines.
package planner

import (
	"github.com/glasgownights/nightout-api/internal/types"
)

// Engine bundles the immutable configuration the core needs: the city
// center used when a request does not name one.
type Engine struct {
	center types.Location
}

// NewEngine returns an engine centered on the given location. A zero
// location falls back to George Square.
func NewEngine(center types.Location) *Engine {
	if center == (types.Location{}) {
		center = glasgowCenter
	}
	return &Engine{center: center}
}

// normalize fills a request's optional fields with their defaults. The
// returned value is a copy; callers' requests are never written.
func (e *Engine) normalize(req types.PlanRequest) types.PlanRequest {
	if req.Center == nil {
		center := e.center
		req.Center = &center
	}
	if req.MaxWalkMinutes <= 0 {
		req.MaxWalkMinutes = defaultMaxWalkMinutes
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultMaxResults
	}
	if req.PreferredRadiusKm <= 0 {
		req.PreferredRadiusKm = defaultPreferredRadiusKm
	}
	return req
}

// RankActivities filters, scores and orders the candidate list against
// the request, returning at most req.MaxResults items. An empty candidate
// list yields an empty ranked list; that is a valid terminal state.
func (e *Engine) RankActivities(req types.PlanRequest, candidates []types.Candidate, wx *types.WeatherSnapshot) []types.RankedItem {
	req = e.normalize(req)

	windowStart := parseClock(req.StartTime)
	windowEnd := windowStart + req.DurationMinutes

	ranked := make([]types.RankedItem, 0, len(candidates))
	for _, c := range candidates {
		if !isTimeCompatible(c, req.Date, windowStart, windowEnd) {
			continue
		}
		if !withinSoftRadius(c, req.PreferredRadiusKm) {
			continue
		}
		costPP := estimateCostPP(c)
		if !withinBudgetCutoff(costPP, req.BudgetPerPerson) {
			continue
		}

		score, components, reasons := scoreCandidate(req, c, wx, costPP)
		ranked = append(ranked, types.RankedItem{
			Item:                 c,
			Score:                score,
			Components:           components,
			Reasons:              reasons,
			ETAMinutesFromCenter: walkMinutes(c.DistanceKmFromCenter),
			EstimatedCostPP:      costPP,
		})
	}

	sortRanked(ranked)
	ranked = applyDiversityPenalty(ranked)
	sortRanked(ranked)

	if len(ranked) > req.MaxResults {
		ranked = ranked[:req.MaxResults]
	}
	return ranked
}
