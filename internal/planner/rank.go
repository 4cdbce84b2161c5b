package planner

import (
	"sort"

	"github.com/glasgownights/nightout-api/internal/types"
)

const diversityPenalty = 0.9

// sortRanked totally orders items by score descending, then review count
// descending (missing counts as zero), then distance ascending, then name
// ascending. The chain is deterministic so equal inputs rank equally.
func sortRanked(items []types.RankedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ra, rb := reviewCount(a.Item), reviewCount(b.Item)
		if ra != rb {
			return ra > rb
		}
		if a.Item.DistanceKmFromCenter != b.Item.DistanceKmFromCenter {
			return a.Item.DistanceKmFromCenter < b.Item.DistanceKmFromCenter
		}
		return a.Item.Name < b.Item.Name
	})
}

func reviewCount(c types.Candidate) int {
	if c.Reviews == nil {
		return 0
	}
	return *c.Reviews
}

// applyDiversityPenalty walks the sorted list counting each item's primary
// (first-listed) category; the 3rd and later occurrences have their score
// marked down once by 10%. It returns a new slice rather than mutating
// candidate state shared with the caller.
func applyDiversityPenalty(items []types.RankedItem) []types.RankedItem {
	out := make([]types.RankedItem, len(items))
	copy(out, items)

	seen := map[string]int{}
	for i := range out {
		primary := primaryCategory(out[i].Item)
		if primary == "" {
			continue
		}
		seen[primary]++
		if seen[primary] >= 3 {
			out[i].Score *= diversityPenalty
		}
	}
	return out
}

func primaryCategory(c types.Candidate) string {
	if len(c.Categories) == 0 {
		return ""
	}
	return c.Categories[0]
}
