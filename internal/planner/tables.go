package planner

import "github.com/glasgownights/nightout-api/internal/types"

// Immutable lookup tables for scoring and itinerary construction. These
// are package-level so the engine stays a pure function of its inputs;
// nothing here is written after init.

// Component weights. They sum to 100, so the weighted score lands in [0,100].
var scoreWeights = map[string]float64{
	"mood":     30,
	"price":    20,
	"rating":   15,
	"group":    15,
	"distance": 10,
	"weather":  10,
}

// Summation order for the weighted total. Float addition is not
// associative, so equal inputs only stay bit-identical when the terms
// are added in a fixed order.
var scoreComponents = []string{"mood", "price", "rating", "group", "distance", "weather"}

// Per-person cost in GBP for each venue price tier.
var priceTierCost = map[int]float64{
	1: 8,
	2: 12,
	3: 20,
	4: 35,
}

const (
	defaultVenueCostPP = 12.0 // tier 2, used when the tier is unknown
	defaultEventCostPP = 15.0 // used when an event lists no prices
)

// Categories considered a fit for each mood tag.
var moodCategories = map[string]map[string]bool{
	"karaoke":     {"karaoke": true, "bar": true, "private-rooms": true, "singing": true},
	"fun":         {"karaoke": true, "arcade": true, "bowling": true, "darts": true, "pub-quiz": true, "bar": true, "pub": true},
	"chill":       {"cocktail": true, "wine-bar": true, "gastropub": true, "cafe": true, "lounge": true},
	"competitive": {"bowling": true, "darts": true, "escape-room": true, "quiz": true, "pool": true, "games": true},
	"live-music":  {"live-music": true, "concert": true, "gig": true, "music-venue": true},
	"culture":     {"museum": true, "gallery": true, "theatre": true, "comedy": true, "art": true},
}

// Ordered category slots per mood. A slot may list alternatives separated
// by "|"; any candidate carrying one of them can fill it.
var itineraryTemplates = map[string][]string{
	"karaoke":     {"bar", "karaoke", "bar"},
	"fun":         {"bar", "arcade|bowling|darts", "bar"},
	"competitive": {"bar", "bowling|darts|escape-room|quiz", "bar"},
	"chill":       {"gastropub|restaurant", "live-music|comedy", "cocktail|dessert"},
	"live-music":  {"bar", "live-music|concert", "bar"},
	"culture":     {"cafe", "museum|gallery|theatre|comedy", "bar"},
}

// Template used when none of the user's moods map to one.
var defaultTemplate = []string{"bar", "gastropub|restaurant", "bar"}

// Expected [min,max] minutes a group spends at a stop, by category.
var dwellRanges = map[string][2]int{
	"bar":         {60, 75},
	"pub":         {60, 75},
	"karaoke":     {75, 90},
	"bowling":     {60, 90},
	"darts":       {60, 90},
	"escape-room": {60, 75},
	"quiz":        {90, 120},
	"arcade":      {45, 75},
	"restaurant":  {75, 90},
	"gastropub":   {75, 90},
	"cafe":        {45, 60},
	"cocktail":    {60, 75},
	"live-music":  {90, 120},
	"concert":     {90, 150},
	"gig":         {90, 120},
	"comedy":      {75, 105},
	"museum":      {60, 90},
	"gallery":     {45, 75},
	"theatre":     {120, 180},
}

var defaultDwellRange = [2]int{60, 75}

// Itinerary titles, checked against the user's moods in this order.
var titlePriority = []string{"karaoke", "live-music", "culture", "competitive", "chill", "fun"}

var moodTitles = map[string]string{
	"karaoke":     "Karaoke Night",
	"live-music":  "Live Music Evening",
	"culture":     "Culture Night",
	"competitive": "Games Night Out",
	"chill":       "Chilled Evening",
	"fun":         "Fun & Games Night",
}

const genericTitle = "Night Out"

// George Square, the default center when a request names none.
var glasgowCenter = types.Location{Lat: 55.8642, Lon: -4.2518}

// Request defaults.
const (
	defaultMaxWalkMinutes    = 15
	defaultMaxResults        = 10
	defaultPreferredRadiusKm = 3.0
)
