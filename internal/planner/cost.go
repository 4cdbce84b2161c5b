package planner

import "github.com/glasgownights/nightout-api/internal/types"

// estimateCostPP derives the expected per-person cost in GBP for any
// candidate. Venues map their price tier through the tier table, falling
// back to tier 2 money when the tier is unknown. Events average their
// listed min/max prices, use min alone when that is all they list, and
// fall back to a flat default otherwise. Deterministic and side-effect
// free: it is called from filtering, scoring and reason generation.
func estimateCostPP(c types.Candidate) float64 {
	if c.Kind == types.CandidateEvent {
		switch {
		case c.PriceMin != nil && c.PriceMax != nil:
			return (*c.PriceMin + *c.PriceMax) / 2
		case c.PriceMin != nil:
			return *c.PriceMin
		default:
			return defaultEventCostPP
		}
	}
	if c.PriceTier != nil {
		if cost, ok := priceTierCost[*c.PriceTier]; ok {
			return cost
		}
	}
	return defaultVenueCostPP
}
