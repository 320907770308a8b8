package calorie

import (
	"math"

	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// scoreAdherence compares the actual weekly weights against the linear glide
// path from the initial weight to the goal. Each week loses 10 points of
// score per pound of distance from the expected weight, floored at zero; a
// week exactly on the glide path scores 100 and a week 10 lbs off scores 0.
//
// The glide path is anchored at the first weekly observation; expectations
// for later entries advance by plan week, so a skipped week still moves the
// expected weight a full step.
func scoreAdherence(
	record *domain.TrackingRecord,
	entries []domain.WeeklyProgressEntry,
	params *Params,
) *domain.Adherence {
	if len(entries) == 0 {
		return &domain.Adherence{}
	}

	initial := entries[0].Weight
	expectedChange := (initial - record.GoalWeight) / float64(record.DurationWeeks)

	weekly := make([]domain.WeeklyAdherence, 0, len(entries))
	total := 0
	goodWeeks := 0
	longest, current := 0, 0

	// The glide path is anchored at the first logged week; a skipped plan
	// week still advances the expectation by a full step.
	firstWeek := entries[0].Week
	for _, entry := range entries {
		expected := initial - expectedChange*float64(entry.Week-firstWeek)
		score := int(math.Max(0, math.Round(100-math.Abs(expected-entry.Weight)*10)))

		weekly = append(weekly, domain.WeeklyAdherence{
			Week:     entry.Week,
			Expected: expected,
			Actual:   entry.Weight,
			Score:    score,
		})
		total += score

		if score >= params.AdherenceStreakThreshold {
			goodWeeks++
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}

	return &domain.Adherence{
		OverallAdherence: int(math.Round(float64(total) / float64(len(entries)))),
		WeeklyAdherence:  weekly,
		LongestStreak:    longest,
		CurrentStreak:    current,
		ConsistencyScore: int(math.Round(float64(goodWeeks) / float64(len(entries)) * 100)),
	}
}
