package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Tracking record validation errors
var (
	ErrNonPositiveWeight   = errors.New("weight must be greater than zero")
	ErrNonPositiveHeight   = errors.New("height must be greater than zero")
	ErrNonPositiveAge      = errors.New("age must be greater than zero")
	ErrNonPositiveDuration = errors.New("duration must be at least one week")
	ErrNegativeCalories    = errors.New("daily calories cannot be negative")
)

// ActivityLevel is the categorical multiplier bucket describing a user's
// exercise frequency. Downstream computation (TDEE, meal ratios) fails for
// unrecognized values.
type ActivityLevel string

// Recognized activity levels, from least to most active.
const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtraActive      ActivityLevel = "extra_active"
)

// Valid reports whether the activity level is one of the recognized values.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary,
		ActivityLightlyActive,
		ActivityModeratelyActive,
		ActivityVeryActive,
		ActivityExtraActive:
		return true
	default:
		return false
	}
}

// MealSlot is one of the three daily meal allocations.
// Description and RecommendedMeals are static per-slot content, not computed.
type MealSlot struct {
	Calories         int      `json:"calories"`
	Description      string   `json:"description"`
	RecommendedMeals []string `json:"recommended_meals"`
}

// MealDistribution splits a daily calorie target into morning/afternoon/night
// allocations. Total always equals the input daily calories; per-slot rounding
// may cause the sum of slots to drift from Total by a kcal or two, which is
// accepted rather than corrected.
type MealDistribution struct {
	Morning   MealSlot `json:"morning"`
	Afternoon MealSlot `json:"afternoon"`
	Night     MealSlot `json:"night"`
	Total     int      `json:"total"`
}

// WeeklyProgressEntry is one point of the forward-looking weekly projection.
type WeeklyProgressEntry struct {
	Week              int       `json:"week"`
	Weight            float64   `json:"weight"`
	PredictedDate     time.Time `json:"predicted_date"`
	DailyCalories     int       `json:"daily_calories"`
	CalorieAdjustment int       `json:"calorie_adjustment"`
}

// ProgressNote is a freeform, timestamped note in the record's append-only log.
type ProgressNote struct {
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressPatterns classifies the weight trend over the record's weekly
// observations and scores consistency and volatility, both in [0,100].
type ProgressPatterns struct {
	OverallTrend        string  `json:"overall_trend"`
	PatternType         string  `json:"pattern_type"`
	ConsistencyScore    int     `json:"consistency_score"`
	Volatility          int     `json:"volatility"`
	AverageWeeklyChange float64 `json:"average_weekly_change"`
	TrendDetails        string  `json:"trend_details"`
}

// WeeklyAdherence scores one week against the expected linear glide path.
type WeeklyAdherence struct {
	Week     int     `json:"week"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
	Score    int     `json:"score"`
}

// Adherence compares actual weekly weights against the linear glide path to
// goal. A streak is a run of consecutive weeks with score >= 80.
type Adherence struct {
	OverallAdherence int               `json:"overall_adherence"`
	WeeklyAdherence  []WeeklyAdherence `json:"weekly_adherence"`
	LongestStreak    int               `json:"longest_streak"`
	CurrentStreak    int               `json:"current_streak"`
	ConsistencyScore int               `json:"consistency_score"`
}

// Recommendations holds qualitative advice derived from the gap between
// current and goal weight. Message is set instead of the other fields when
// no weekly progress exists yet.
type Recommendations struct {
	BestDays         []string `json:"best_days,omitempty"`
	SleepCorrelation string   `json:"sleep_correlation,omitempty"`
	FocusAreas       []string `json:"focus_areas,omitempty"`
	Message          string   `json:"message,omitempty"`
}

// ChartData is the plottable view of the record: actual weights against the
// target glide path, one label per recorded week.
type ChartData struct {
	Labels        []string  `json:"labels"`
	ActualWeights []float64 `json:"actual_weights"`
	TargetWeights []float64 `json:"target_weights"`
}

// TrackingRecord is a persisted calorie-tracking plan for a user. A user owns
// zero or more records; the most recent one is the active plan. Weights are in
// pounds and height in inches after normalization at creation; units are
// assumed consistent for the life of the record.
//
// DailyCalories, MealDistribution, WeeklyProgress, ProgressPatterns,
// ChartData, Recommendations and ProgressPercentage are all derived and are
// recomputed wholesale on each update or read, never independently mutated.
// ProgressNotes is append-only and never deleted.
type TrackingRecord struct {
	ID                 uuid.UUID             `json:"id"`
	UserID             uuid.UUID             `json:"user_id"`
	CurrentWeight      float64               `json:"current_weight"`
	GoalWeight         float64               `json:"goal_weight"`
	Age                int                   `json:"age"`
	Height             float64               `json:"height"`
	ActivityLevel      ActivityLevel         `json:"activity_level"`
	DurationWeeks      int                   `json:"duration_weeks"`
	DailyCalories      int                   `json:"daily_calories"`
	MealDistribution   MealDistribution      `json:"meal_distribution"`
	WeeklyProgress     []WeeklyProgressEntry `json:"weekly_progress"`
	ProgressNotes      []ProgressNote        `json:"progress_notes"`
	ProgressPatterns   *ProgressPatterns     `json:"progress_patterns,omitempty"`
	ChartData          *ChartData            `json:"chart_data,omitempty"`
	Recommendations    *Recommendations      `json:"recommendations,omitempty"`
	ProgressPercentage float64               `json:"progress_percentage"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// NewTrackingRecord creates a new TrackingRecord for the given user with
// normalized biometrics. It generates a new UUID and sets timestamps.
// Returns an error if validation fails.
//
// Derived fields (daily calories, meal distribution) are left zero; the
// caller runs the analysis engine and fills them before persisting.
func NewTrackingRecord(
	userID uuid.UUID,
	currentWeight, goalWeight float64,
	age int,
	height float64,
	activityLevel ActivityLevel,
	durationWeeks int,
) (*TrackingRecord, error) {
	now := time.Now().UTC()
	record := &TrackingRecord{
		ID:            uuid.New(),
		UserID:        userID,
		CurrentWeight: currentWeight,
		GoalWeight:    goalWeight,
		Age:           age,
		Height:        height,
		ActivityLevel: activityLevel,
		DurationWeeks: durationWeeks,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the TrackingRecord has valid data.
// Returns an error if any field fails validation.
func (t *TrackingRecord) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if t.CurrentWeight <= 0 {
		return NewValidationError("current_weight", "must be greater than zero", ErrNonPositiveWeight)
	}
	if t.GoalWeight <= 0 {
		return NewValidationError("goal_weight", "must be greater than zero", ErrNonPositiveWeight)
	}
	if t.Age <= 0 {
		return NewValidationError("age", "must be greater than zero", ErrNonPositiveAge)
	}
	if t.Height <= 0 {
		return NewValidationError("height", "must be greater than zero", ErrNonPositiveHeight)
	}
	if !t.ActivityLevel.Valid() {
		return NewValidationError("activity_level", "is not a recognized value", ErrInvalidActivityLevel)
	}
	if t.DurationWeeks < 1 {
		return NewValidationError("duration_weeks", "must be at least one", ErrNonPositiveDuration)
	}
	if t.DailyCalories < 0 {
		return NewValidationError("daily_calories", "cannot be negative", ErrNegativeCalories)
	}
	return nil
}
