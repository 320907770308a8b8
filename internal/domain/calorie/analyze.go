package calorie

import (
	"fmt"
	"math"
	"time"

	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// Conversion factors used inside the BMR formula. Weight and height arrive
// normalized to pounds/inches and are converted to kg/cm for Mifflin-St Jeor.
const (
	kilogramsPerPound   = 1 / poundsPerKilogram
	centimetersPerInch  = 2.54
	mifflinWeightFactor = 10
	mifflinHeightFactor = 6.25
	mifflinAgeFactor    = 5
	mifflinOffset       = 5 // fixed neutral (male) offset
	daysPerWeek         = 7
)

// AnalysisInput carries the raw biometrics and goal for one analysis run.
// Weight and height may be in metric or imperial units; they are normalized
// internally unless Normalized is set.
type AnalysisInput struct {
	CurrentWeight float64
	GoalWeight    float64
	DurationWeeks int
	Age           int
	Height        float64
	ActivityLevel domain.ActivityLevel

	// Normalized marks the weights and height as already in pounds and
	// inches. Stored record values are normalized once at creation; running
	// them through the unit heuristics again would re-convert anything under
	// the thresholds (a metric-origin height, a sub-100 lb weight).
	Normalized bool
}

// AnalysisResult is the output of one analysis run. BMR, TDEE and
// DailyDeficit are exposed for diagnostics and testing; DailyCalories and
// MealDistribution are what callers persist.
type AnalysisResult struct {
	NormalizedWeight float64
	NormalizedHeight float64
	BMR              float64
	TDEE             float64
	DailyDeficit     float64
	DailyCalories    int
	MealDistribution domain.MealDistribution
	InitialNote      domain.ProgressNote
}

// validateInput checks all required analysis fields, returning a
// ValidationError naming the first missing or invalid field.
func validateInput(input AnalysisInput, params *Params) error {
	if input.CurrentWeight <= 0 {
		return domain.NewValidationError("current_weight", "must be greater than zero", domain.ErrNonPositiveWeight)
	}
	if input.GoalWeight <= 0 {
		return domain.NewValidationError("goal_weight", "must be greater than zero", domain.ErrNonPositiveWeight)
	}
	if input.Height <= 0 {
		return domain.NewValidationError("height", "must be greater than zero", domain.ErrNonPositiveHeight)
	}
	if input.Age <= 0 {
		return domain.NewValidationError("age", "must be greater than zero", domain.ErrNonPositiveAge)
	}
	if input.DurationWeeks < 1 {
		return domain.NewValidationError("duration_weeks", "must be at least one", domain.ErrNonPositiveDuration)
	}
	if _, ok := params.ActivityMultipliers[input.ActivityLevel]; !ok {
		return domain.NewValidationError("activity_level", "is not a recognized value", domain.ErrInvalidActivityLevel)
	}
	return nil
}

// calculateBMR computes basal metabolic rate via Mifflin-St Jeor with the
// fixed neutral offset. Weight is in pounds and height in inches; both are
// converted to metric internally.
func calculateBMR(weightLbs, heightIn float64, age int) float64 {
	weightKg := weightLbs * kilogramsPerPound
	heightCm := heightIn * centimetersPerInch
	return mifflinWeightFactor*weightKg +
		mifflinHeightFactor*heightCm -
		mifflinAgeFactor*float64(age) +
		mifflinOffset
}

// calculateDailyDeficit spreads the total energy gap to goal evenly across
// the plan's days. A goal weight above current weight yields zero deficit,
// not a surplus.
func calculateDailyDeficit(currentLbs, goalLbs float64, durationWeeks int, params *Params) float64 {
	deficit := (currentLbs - goalLbs) * params.KcalPerPound / float64(durationWeeks*daysPerWeek)
	return math.Max(deficit, 0)
}

// analyze runs the full analysis pipeline: validation, unit normalization,
// BMR, TDEE, deficit, daily calorie target and the initial meal split.
func analyze(input AnalysisInput, isUpdate bool, now time.Time, params *Params) (*AnalysisResult, error) {
	if err := validateInput(input, params); err != nil {
		return nil, err
	}

	weight := input.CurrentWeight
	goal := input.GoalWeight
	height := input.Height
	if !input.Normalized {
		weight = NormalizeWeight(weight)
		goal = NormalizeWeight(goal)
		height = NormalizeHeight(height)
	}

	bmr := calculateBMR(weight, height, input.Age)
	tdee := bmr * params.ActivityMultipliers[input.ActivityLevel]
	deficit := calculateDailyDeficit(weight, goal, input.DurationWeeks, params)

	// The deficit is already clamped at zero; this clamp keeps the target
	// non-negative when the deficit exceeds TDEE (aggressive goals over short
	// durations).
	dailyCalories := int(math.Round(tdee - deficit))
	if dailyCalories < 0 {
		dailyCalories = 0
	}

	meals, err := distributeMeals(dailyCalories, input.ActivityLevel, isUpdate, params)
	if err != nil {
		return nil, err
	}

	note := domain.ProgressNote{
		Note: fmt.Sprintf(
			"Plan created: %.1f lbs to %.1f lbs over %d weeks at %d kcal/day",
			weight, goal, input.DurationWeeks, dailyCalories,
		),
		Timestamp: now,
	}

	return &AnalysisResult{
		NormalizedWeight: weight,
		NormalizedHeight: height,
		BMR:              bmr,
		TDEE:             tdee,
		DailyDeficit:     deficit,
		DailyCalories:    dailyCalories,
		MealDistribution: meals,
		InitialNote:      note,
	}, nil
}
