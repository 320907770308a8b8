package calorie

import (
	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// MealRatios is the morning/afternoon/night split of a daily calorie target.
// The three ratios sum to 1.0.
type MealRatios struct {
	Morning   float64
	Afternoon float64
	Night     float64
}

// Params defines all configurable parameters for the calorie engine.
// There is exactly one canonical constant set: 3500 kcal per pound of fat
// with explicit lb->kg and in->cm conversion inside the BMR formula.
type Params struct {
	// KcalPerPound is the energy equivalent of one pound of body fat.
	KcalPerPound float64

	// ActivityMultipliers scales BMR to TDEE per activity level.
	ActivityMultipliers map[domain.ActivityLevel]float64

	// MealRatios holds the per-activity-level meal split.
	MealRatios map[domain.ActivityLevel]MealRatios

	// UpdateMorningCap caps the morning ratio on update recomputations,
	// rebalancing away from a large morning allocation after the first plan.
	UpdateMorningCap float64

	// AdherenceStreakThreshold is the minimum weekly adherence score that
	// counts toward a streak.
	AdherenceStreakThreshold int

	// RecommendationWeightGap is the weight-left threshold (lbs) above which
	// the engine recommends increased physical activity.
	RecommendationWeightGap float64

	// SleepPositiveGap is the weight-left threshold (lbs) below which sleep
	// correlation is reported as positive.
	SleepPositiveGap float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default in place.
type ParamsConfig struct {
	KcalPerPound             float64
	UpdateMorningCap         float64
	AdherenceStreakThreshold int
	RecommendationWeightGap  float64
	SleepPositiveGap         float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		KcalPerPound: 3500,

		ActivityMultipliers: map[domain.ActivityLevel]float64{
			domain.ActivitySedentary:        1.2,
			domain.ActivityLightlyActive:    1.375,
			domain.ActivityModeratelyActive: 1.55,
			domain.ActivityVeryActive:       1.725,
			domain.ActivityExtraActive:      1.9,
		},

		// More active users get a heavier daytime allocation and a lighter
		// evening one.
		MealRatios: map[domain.ActivityLevel]MealRatios{
			domain.ActivitySedentary:        {Morning: 0.25, Afternoon: 0.35, Night: 0.40},
			domain.ActivityLightlyActive:    {Morning: 0.30, Afternoon: 0.35, Night: 0.35},
			domain.ActivityModeratelyActive: {Morning: 0.30, Afternoon: 0.40, Night: 0.30},
			domain.ActivityVeryActive:       {Morning: 0.35, Afternoon: 0.40, Night: 0.25},
			domain.ActivityExtraActive:      {Morning: 0.35, Afternoon: 0.45, Night: 0.20},
		},

		UpdateMorningCap:         0.25,
		AdherenceStreakThreshold: 80,
		RecommendationWeightGap:  5,
		SleepPositiveGap:         2,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.KcalPerPound > 0 {
		params.KcalPerPound = config.KcalPerPound
	}
	if config.UpdateMorningCap > 0 {
		params.UpdateMorningCap = config.UpdateMorningCap
	}
	if config.AdherenceStreakThreshold > 0 {
		params.AdherenceStreakThreshold = config.AdherenceStreakThreshold
	}
	if config.RecommendationWeightGap > 0 {
		params.RecommendationWeightGap = config.RecommendationWeightGap
	}
	if config.SleepPositiveGap > 0 {
		params.SleepPositiveGap = config.SleepPositiveGap
	}

	return params
}
