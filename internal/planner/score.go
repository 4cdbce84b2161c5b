package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/glasgownights/nightout-api/internal/types"
)

const maxReasons = 4

// scoreCandidate computes the six normalized components and the weighted
// total for one candidate, plus up to four human-readable reasons.
func scoreCandidate(req types.PlanRequest, c types.Candidate, wx *types.WeatherSnapshot, costPP float64) (float64, map[string]float64, []string) {
	components := map[string]float64{
		"mood":     moodScore(req.Moods, c.Categories),
		"price":    priceScore(costPP, req.BudgetPerPerson),
		"rating":   ratingScore(c.Rating, c.Reviews),
		"group":    groupScore(c.CapacityHint, req.GroupSize),
		"distance": distanceScore(c.DistanceKmFromCenter, req.PreferredRadiusKm),
		"weather":  weatherScore(wx, req.StartTime, c.Indoor, c.Outdoor),
	}

	total := 0.0
	for _, name := range scoreComponents {
		total += scoreWeights[name] * components[name]
	}

	return total, components, buildReasons(req, c, components, costPP)
}

// moodScore is the best overlap, across the user's moods, between the
// candidate's categories and the mood's category set, measured as the
// fraction of the candidate's own tags that fit. 0.6 when the user stated
// no moods; a 0.3 floor when moods were stated but nothing matches.
func moodScore(moods, categories []string) float64 {
	if len(moods) == 0 {
		return 0.6
	}
	best := 0.0
	for _, mood := range moods {
		set, ok := moodCategories[strings.ToLower(mood)]
		if !ok {
			continue
		}
		matched := 0
		for _, cat := range categories {
			if set[cat] {
				matched++
			}
		}
		if len(categories) > 0 {
			if frac := float64(matched) / float64(len(categories)); frac > best {
				best = frac
			}
		}
	}
	if best == 0 {
		return 0.3
	}
	return best
}

// priceScore is 1.0 at or under budget, then decays linearly; the +10
// in the denominator flattens the penalty as budgets grow.
func priceScore(costPP, budgetPP float64) float64 {
	if costPP <= budgetPP {
		return 1.0
	}
	return math.Max(0, 1-(costPP-budgetPP)/(budgetPP+10))
}

// ratingScore normalizes a 0-5 rating, discounting thinly-reviewed
// candidates. Unknown ratings sit at a neutral 0.6.
func ratingScore(rating *float64, reviews *int) float64 {
	if rating == nil {
		return 0.6
	}
	score := *rating / 5
	if reviews == nil || *reviews < 30 {
		score *= 0.85
	}
	return score
}

// groupScore uses a capacity hint when one exists, allowing 20% headroom
// over the group size, and otherwise steps down as groups grow.
func groupScore(capacity *int, groupSize int) float64 {
	if capacity != nil {
		return math.Min(1, float64(*capacity)/(float64(groupSize)*1.2))
	}
	switch {
	case groupSize <= 12:
		return 0.75
	case groupSize <= 20:
		return 0.5
	default:
		return 0.3
	}
}

// distanceScore falls linearly to zero at the preferred radius, with a
// flat 0.2 markdown for anything in the soft band beyond it.
func distanceScore(distanceKm, preferredRadiusKm float64) float64 {
	score := math.Max(0, 1-math.Min(distanceKm/preferredRadiusKm, 1))
	if distanceKm > preferredRadiusKm {
		score = math.Max(0, score-0.2)
	}
	return score
}

// weatherScore matches the hourly record for the requested start hour.
// No snapshot at all is a mild unknown (0.8), not a penalty.
func weatherScore(wx *types.WeatherSnapshot, startTime string, indoor, outdoor bool) float64 {
	if wx == nil {
		return 0.8
	}
	hour := findHour(wx, startTime)
	switch {
	case hour.IsRain && outdoor:
		return 0.2
	case hour.IsRain && indoor:
		return 1.0
	case !hour.IsRain && outdoor && hour.TempC > 10:
		return 1.0
	default:
		return 0.8
	}
}

// findHour locates the hourly record whose time shares the request's hour
// prefix, defaulting to a bland 10°C dry hour when nothing matches.
func findHour(wx *types.WeatherSnapshot, startTime string) types.WeatherHour {
	prefix := startTime
	if i := strings.Index(startTime, ":"); i >= 0 {
		prefix = startTime[:i]
	}
	for _, h := range wx.Hourly {
		if strings.HasPrefix(h.Time, prefix) {
			return h
		}
	}
	return types.WeatherHour{TempC: 10}
}

// buildReasons produces at most four short justification strings, in a
// fixed order: mood, budget, rating, rain shelter, short walk.
func buildReasons(req types.PlanRequest, c types.Candidate, components map[string]float64, costPP float64) []string {
	reasons := make([]string, 0, maxReasons)
	add := func(s string) {
		if len(reasons) < maxReasons {
			reasons = append(reasons, s)
		}
	}

	if components["mood"] > 0.7 {
		add("Great match for your vibe")
	}
	if costPP <= req.BudgetPerPerson {
		if costPP <= req.BudgetPerPerson*0.75 {
			add(fmt.Sprintf("Well under budget at about £%.0f per person", costPP))
		} else {
			add(fmt.Sprintf("Within budget at about £%.0f per person", costPP))
		}
	}
	if c.Rating != nil && *c.Rating >= 4.5 {
		add(fmt.Sprintf("Highly rated (%.1f)", *c.Rating))
	}
	if components["weather"] == 1.0 && c.Indoor {
		add("Indoor, so rain won't spoil it")
	}
	if c.DistanceKmFromCenter < 1 {
		add(fmt.Sprintf("Short walk (~%d min)", walkMinutes(c.DistanceKmFromCenter)))
	}
	return reasons
}
