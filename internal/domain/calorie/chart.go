package calorie

import (
	"fmt"
	"math"

	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// buildChartData produces the plottable view of the record: one label per
// recorded week, the actual weights, and the target glide-path weight for the
// same weeks. Empty series when no weekly progress exists.
func buildChartData(record *domain.TrackingRecord) *domain.ChartData {
	entries := record.WeeklyProgress
	chart := &domain.ChartData{
		Labels:        make([]string, 0, len(entries)),
		ActualWeights: make([]float64, 0, len(entries)),
		TargetWeights: make([]float64, 0, len(entries)),
	}
	if len(entries) == 0 {
		return chart
	}

	initial := entries[0].Weight
	expectedChange := (initial - record.GoalWeight) / float64(record.DurationWeeks)

	// Target weights follow the same week-anchored glide path as adherence
	// scoring.
	firstWeek := entries[0].Week
	for _, entry := range entries {
		chart.Labels = append(chart.Labels, fmt.Sprintf("Week %d", entry.Week))
		chart.ActualWeights = append(chart.ActualWeights, entry.Weight)
		chart.TargetWeights = append(chart.TargetWeights,
			initial-expectedChange*float64(entry.Week-firstWeek))
	}
	return chart
}

// progressPercentage reports how far the record has moved from its initial
// weight toward the goal, clamped to [0,100]. Zero when no weekly progress
// exists or when the goal equals the initial weight.
func progressPercentage(record *domain.TrackingRecord) float64 {
	if len(record.WeeklyProgress) == 0 {
		return 0
	}
	initial := record.WeeklyProgress[0].Weight
	span := initial - record.GoalWeight
	if span == 0 {
		return 0
	}
	percent := (initial - record.CurrentWeight) / span * 100
	return math.Min(100, math.Max(0, percent))
}
