// Package services provides the estimation and pricing engine for fence jobs,
// plus quote exports and pricebook access.
package services

import "math"

// DefaultRollLengthFeet is the length of a standard fabric roll.
const DefaultRollLengthFeet = 100

// RequiredFootage converts quoted footage into the footage actually installed,
// inflated by the waste percentage. Negative inputs are clamped to zero rather
// than rejected so the engine always produces a displayable estimate.
func RequiredFootage(totalFeet, wastePercent float64) float64 {
	if totalFeet < 0 {
		totalFeet = 0
	}
	if wastePercent < 0 {
		wastePercent = 0
	}
	return totalFeet * (1 + wastePercent/100)
}

// PostsNeeded returns the post count for a run of fence: one post per spacing
// interval plus a trailing end post. Zero footage needs zero posts. Spacing is
// floored at 1 ft to guard the zero-spacing case.
func PostsNeeded(requiredFeet float64, spacingFeet int) int {
	if requiredFeet <= 0 {
		return 0
	}
	if spacingFeet < 1 {
		spacingFeet = 1
	}
	return int(math.Ceil(requiredFeet/float64(spacingFeet))) + 1
}

// RollsNeeded returns the number of whole fabric rolls to purchase. There is
// no partial-roll credit.
func RollsNeeded(requiredFeet float64, rollLengthFeet int) int {
	if requiredFeet <= 0 {
		return 0
	}
	if rollLengthFeet < 1 {
		rollLengthFeet = 1
	}
	return int(math.Ceil(requiredFeet / float64(rollLengthFeet)))
}

// AllowedPostSpacings lists the post spacings (in feet) offered on the form.
var AllowedPostSpacings = []int{3, 4, 6, 8, 10}

// NormalizePostSpacing snaps a requested spacing to the nearest allowed value.
// Non-positive input falls back to 8 ft, the usual silt fence spacing.
func NormalizePostSpacing(spacingFeet int) int {
	if spacingFeet <= 0 {
		return 8
	}
	best := AllowedPostSpacings[0]
	for _, s := range AllowedPostSpacings {
		if abs(spacingFeet-s) < abs(spacingFeet-best) {
			best = s
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
