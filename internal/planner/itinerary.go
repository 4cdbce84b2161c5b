package planner

import (
	"strings"

	"github.com/glasgownights/nightout-api/internal/types"
)

const (
	maxItineraries = 2
	minStops       = 2

	// Display estimate shown for each transfer between stops; the last
	// stop shows zero. Clock advancement uses the real computed walk;
	// the two are intentionally distinct fields.
	displayWalkMinutes = 7

	// An itinerary may run up to 20% over budget before it is discarded.
	budgetStretchFactor = 1.2

	planBNote = "Alternatives available within your preferred radius if a stop falls through"
)

// BuildItineraries assembles at most two multi-stop plans from the ranked
// list, one per matching mood template. Plans that end up with fewer than
// two stops or blow the stretched budget are dropped silently; failure to
// build is a normal outcome, not an error.
func (e *Engine) BuildItineraries(req types.PlanRequest, ranked []types.RankedItem) []types.Itinerary {
	req = e.normalize(req)

	itineraries := make([]types.Itinerary, 0, maxItineraries)
	for _, template := range selectTemplates(req.Moods) {
		if it, ok := e.fillTemplate(req, template, ranked); ok {
			itineraries = append(itineraries, it)
		}
	}
	return itineraries
}

// selectTemplates returns the templates for the user's moods, in mood
// order and capped at two. When no mood maps, a single default template
// keeps the evening going.
func selectTemplates(moods []string) [][]string {
	templates := make([][]string, 0, maxItineraries)
	picked := map[string]bool{}
	for _, mood := range moods {
		key := strings.ToLower(mood)
		if picked[key] {
			continue
		}
		if tmpl, ok := itineraryTemplates[key]; ok {
			templates = append(templates, tmpl)
			picked[key] = true
		}
		if len(templates) == maxItineraries {
			return templates
		}
	}
	if len(templates) == 0 {
		templates = append(templates, defaultTemplate)
	}
	return templates
}

// fillTemplate greedily fills each category slot from the ranked list,
// walking from the center through each chosen stop. No backtracking: a
// slot with no reachable match is skipped and the plan may come up short.
func (e *Engine) fillTemplate(req types.PlanRequest, template []string, ranked []types.RankedItem) (types.Itinerary, bool) {
	var (
		stops       []types.ItineraryStop
		totalWalk   int
		totalCost   float64
		indoorStops int
	)

	location := *req.Center
	clock := parseClock(req.StartTime)

	used := map[string]bool{}
	for _, slot := range template {
		alternatives := strings.Split(slot, "|")

		var pick *types.RankedItem
		walk := 0
		for i := range ranked {
			item := &ranked[i]
			if used[item.Item.ID] || !matchesSlot(item.Item.Categories, alternatives) {
				continue
			}
			w := walkMinutes(haversineKm(location, item.Item.Location))
			if w > req.MaxWalkMinutes {
				continue
			}
			pick = item
			walk = w
			break
		}
		if pick == nil {
			continue
		}

		if len(stops) > 0 {
			clock += walk
			totalWalk += walk
		}

		arrive := clock
		depart := arrive + dwellMinutes(pick.Item.Categories)
		if pick.Item.Kind == types.CandidateEvent {
			// A timed event dictates its own clock: arrive for the start,
			// stay for the actual duration.
			if start, okS := eventMinutes(pick.Item.Start, req.Date); okS {
				if end, okE := eventMinutes(pick.Item.End, req.Date); okE {
					arrive = start
					depart = end
				}
			}
		}

		stops = append(stops, types.ItineraryStop{
			ID:                pick.Item.ID,
			Name:              pick.Item.Name,
			Arrive:            formatClock(arrive),
			Depart:            formatClock(depart),
			WalkMinutesToNext: displayWalkMinutes,
			CostPP:            pick.EstimatedCostPP,
		})

		used[pick.Item.ID] = true
		location = pick.Item.Location
		clock = depart
		totalCost += pick.EstimatedCostPP
		if pick.Item.Indoor {
			indoorStops++
		}
	}

	if len(stops) < minStops || totalCost > req.BudgetPerPerson*budgetStretchFactor {
		return types.Itinerary{}, false
	}
	stops[len(stops)-1].WalkMinutesToNext = 0

	return types.Itinerary{
		Title:            itineraryTitle(req.Moods),
		Stops:            stops,
		TotalCostPP:      totalCost,
		TotalWalkMinutes: totalWalk,
		Reasons:          itineraryReasons(req, stops, totalCost, totalWalk, indoorStops),
		PlanB:            planBNote,
	}, true
}

// matchesSlot reports whether any candidate category is one of the slot's
// alternatives.
func matchesSlot(categories, alternatives []string) bool {
	for _, cat := range categories {
		for _, alt := range alternatives {
			if cat == alt {
				return true
			}
		}
	}
	return false
}

// dwellMinutes is the midpoint of the dwell range for the first of the
// stop's categories with a known range.
func dwellMinutes(categories []string) int {
	for _, cat := range categories {
		if r, ok := dwellRanges[cat]; ok {
			return (r[0] + r[1]) / 2
		}
	}
	return (defaultDwellRange[0] + defaultDwellRange[1]) / 2
}

// itineraryTitle picks the title of the first matching mood in a fixed
// priority order.
func itineraryTitle(moods []string) string {
	moodSet := map[string]bool{}
	for _, m := range moods {
		moodSet[strings.ToLower(m)] = true
	}
	for _, mood := range titlePriority {
		if moodSet[mood] {
			return moodTitles[mood]
		}
	}
	return genericTitle
}

// itineraryReasons attaches up to three tags describing the plan.
func itineraryReasons(req types.PlanRequest, stops []types.ItineraryStop, totalCost float64, totalWalk, indoorStops int) []string {
	reasons := make([]string, 0, 3)
	switch {
	case totalCost <= req.BudgetPerPerson:
		reasons = append(reasons, "within budget")
	case totalCost <= req.BudgetPerPerson*1.1:
		reasons = append(reasons, "slightly above budget")
	}
	if totalWalk <= req.MaxWalkMinutes*len(stops) {
		reasons = append(reasons, "short transfers")
	}
	if float64(indoorStops) >= 0.7*float64(len(stops)) {
		reasons = append(reasons, "mostly indoor")
	}
	return reasons
}
