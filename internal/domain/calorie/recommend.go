package calorie

import (
	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// noProgressMessage is returned before any weekly progress exists.
const noProgressMessage = "No progress data recorded yet. Log a weight update to receive recommendations."

// recommend derives qualitative advice from the gap between current and goal
// weight. The rules are purely threshold-driven on the remaining weight; no
// deeper causal model is implied. The sleep correlation in particular encodes
// a fixed rule (small remaining gap reads as positive), not an observed
// correlation.
func recommend(record *domain.TrackingRecord, params *Params) *domain.Recommendations {
	if len(record.WeeklyProgress) == 0 {
		return &domain.Recommendations{Message: noProgressMessage}
	}

	weightLeft := record.CurrentWeight - record.GoalWeight

	rec := &domain.Recommendations{}
	if weightLeft > params.RecommendationWeightGap {
		rec.BestDays = []string{"Monday", "Wednesday", "Friday"}
		rec.FocusAreas = []string{"Increase physical activity"}
	} else {
		rec.BestDays = []string{"Tuesday", "Thursday"}
		rec.FocusAreas = []string{"Maintain consistency"}
	}

	if weightLeft < params.SleepPositiveGap {
		rec.SleepCorrelation = "Positive"
	} else {
		rec.SleepCorrelation = "Negative"
	}

	return rec
}
