// Package score derives section and overall scores from the 0-100
// effectiveness scores of individual metrics.
package score

import "math"

// Section returns the rounded arithmetic mean of a section's effectiveness
// scores. An empty slice yields 0. Ties round half up.
func Section(scores []int) int {
	if len(scores) == 0 {
		return 0
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Floor(float64(sum)/float64(len(scores)) + 0.5))
}

// Overall applies the same mean-and-round rule to the section scores. The
// rounding is intentionally two-stage: sections round first, then the
// overall rounds the rounded values.
func Overall(sectionScores []int) int {
	return Section(sectionScores)
}
