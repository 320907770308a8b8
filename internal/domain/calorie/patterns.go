package calorie

import (
	"fmt"
	"math"

	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// Trend classifications.
const (
	TrendGradualGain   = "Gradual Gain"
	TrendSteadyDecline = "Steady Decline"
	TrendStable        = "Stable"
	TrendInconsistent  = "Inconsistent"

	// Sentinel values returned below the minimum observation count.
	TrendInsufficientData = "Insufficient data"
	PatternNotAvailable   = "N/A"
)

// minPatternObservations is the minimum number of weekly observations needed
// before trend classification is meaningful.
const minPatternObservations = 3

// detectPatterns classifies the weight trend over the record's weekly
// observations. With fewer than three observations it returns the
// insufficient-data sentinel. Otherwise it computes week-over-week deltas,
// classifies each as positive/negative/neutral and lets the plurality decide
// the overall trend; ties favor Inconsistent.
//
// Consistency and volatility are both clamped to [0,100]: consistency decays
// with the average absolute deviation of deltas from their mean, volatility
// grows with the standard deviation of the deltas.
func detectPatterns(entries []domain.WeeklyProgressEntry) *domain.ProgressPatterns {
	if len(entries) < minPatternObservations {
		return &domain.ProgressPatterns{
			OverallTrend:     TrendInsufficientData,
			PatternType:      PatternNotAvailable,
			ConsistencyScore: 0,
		}
	}

	deltas := make([]float64, 0, len(entries)-1)
	for i := 1; i < len(entries); i++ {
		deltas = append(deltas, entries[i].Weight-entries[i-1].Weight)
	}

	var positives, negatives, neutrals int
	for _, d := range deltas {
		switch {
		case d > 0:
			positives++
		case d < 0:
			negatives++
		default:
			neutrals++
		}
	}

	trend := classifyTrend(positives, negatives, neutrals)

	mean := meanOf(deltas)
	avgAbsDeviation := 0.0
	variance := 0.0
	for _, d := range deltas {
		avgAbsDeviation += math.Abs(d - mean)
		variance += (d - mean) * (d - mean)
	}
	avgAbsDeviation /= float64(len(deltas))
	stdDev := math.Sqrt(variance / float64(len(deltas)))

	consistency := clampScore(math.Round(100 - avgAbsDeviation*20))
	volatility := clampScore(math.Round(stdDev * 10))

	return &domain.ProgressPatterns{
		OverallTrend:        trend,
		PatternType:         classifyPatternType(volatility),
		ConsistencyScore:    consistency,
		Volatility:          volatility,
		AverageWeeklyChange: mean,
		TrendDetails: fmt.Sprintf(
			"%d of %d weeks trending down, average change %.2f lbs/week",
			negatives, len(deltas), mean,
		),
	}
}

// classifyTrend picks the plurality winner among the delta classifications.
// A strict plurality is required; any tie for the lead is Inconsistent.
func classifyTrend(positives, negatives, neutrals int) string {
	switch {
	case positives > negatives && positives > neutrals:
		return TrendGradualGain
	case negatives > positives && negatives > neutrals:
		return TrendSteadyDecline
	case neutrals > positives && neutrals > negatives:
		return TrendStable
	default:
		return TrendInconsistent
	}
}

// classifyPatternType buckets volatility into a qualitative label.
func classifyPatternType(volatility int) string {
	switch {
	case volatility < 30:
		return "Consistent"
	case volatility < 60:
		return "Variable"
	default:
		return "Highly Variable"
	}
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// clampScore clamps a rounded score into [0,100].
func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
