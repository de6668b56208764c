package review

import "math"

// Penalty and multiplier constants are a fixed external contract; scores must
// stay comparable across releases.
var severityPenalty = map[Severity]float64{
	SeverityCritical: 15.0,
	SeverityHigh:     8.0,
	SeverityMedium:   4.0,
	SeverityLow:      1.5,
	SeverityInfo:     0.5,
}

var categoryMultiplier = map[Category]float64{
	CategorySecurity:        1.3,
	CategoryBug:             1.1,
	CategoryPerformance:     1.0,
	CategoryMaintainability: 0.8,
	CategoryStyle:           0.8,
}

const strictPenaltyFactor = 1.15

// Score computes the 0-100 health score for an issue set. Strict mode
// inflates the total penalty before clamping.
func Score(issues []Issue, strict bool) ScoreBreakdown {
	penalties := make(map[Severity]float64)
	bySeverity := make(map[Severity]int)
	byCategory := make(map[Category]int)

	for _, i := range issues {
		bySeverity[i.Severity]++
		byCategory[i.Category]++
		penalties[i.Severity] += severityPenalty[i.Severity] * categoryMultiplier[i.Category]
	}

	var total float64
	for _, p := range penalties {
		total += p
	}
	if strict {
		total *= strictPenaltyFactor
	}

	score := int(math.Round(math.Min(100, math.Max(0, 100-total))))

	return ScoreBreakdown{
		Score:             score,
		PenaltyBySeverity: penalties,
		CountBySeverity:   bySeverity,
		CountByCategory:   byCategory,
	}
}
