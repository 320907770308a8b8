// Package calorie implements the tracking analysis engine: unit
// normalization, BMR/TDEE and daily calorie computation, meal distribution,
// weekly projection, trend detection, adherence scoring and recommendations.
// All operations are pure functions over their inputs; callers persist the
// results.
package calorie

import (
	"errors"
	"time"

	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// Common errors
var (
	ErrNilRecord = errors.New("tracking record cannot be nil")
)

// Service defines the interface for calorie engine operations.
type Service interface {
	// Analyze validates and normalizes the input biometrics and computes the
	// daily calorie target, meal distribution and initial progress note.
	// Inputs marked Normalized skip the unit heuristics. isUpdate applies the
	// update-time morning meal cap.
	Analyze(input AnalysisInput, isUpdate bool, now time.Time) (*AnalysisResult, error)

	// DistributeMeals splits a daily calorie target into the three meal
	// slots for the given activity level.
	DistributeMeals(dailyCalories int, level domain.ActivityLevel, isUpdate bool) (domain.MealDistribution, error)

	// Project produces the single-entry projection for the record's current
	// plan week, or an empty sequence once the plan duration has elapsed.
	Project(record *domain.TrackingRecord, now time.Time) ([]domain.WeeklyProgressEntry, error)

	// DetectPatterns classifies the trend over the given weekly observations.
	DetectPatterns(entries []domain.WeeklyProgressEntry) *domain.ProgressPatterns

	// ScoreAdherence scores the weekly observations against the linear glide
	// path to the record's goal weight.
	ScoreAdherence(record *domain.TrackingRecord, entries []domain.WeeklyProgressEntry) (*domain.Adherence, error)

	// Recommend derives qualitative advice from the record's remaining gap.
	Recommend(record *domain.TrackingRecord) (*domain.Recommendations, error)

	// BuildChartData produces the plottable actual-vs-target series.
	BuildChartData(record *domain.TrackingRecord) (*domain.ChartData, error)

	// ProgressPercentage reports progress from initial weight toward goal,
	// clamped to [0,100].
	ProgressPercentage(record *domain.TrackingRecord) (float64, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new calorie service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new calorie service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

func (s *defaultService) Analyze(
	input AnalysisInput,
	isUpdate bool,
	now time.Time,
) (*AnalysisResult, error) {
	return analyze(input, isUpdate, now, s.params)
}

func (s *defaultService) DistributeMeals(
	dailyCalories int,
	level domain.ActivityLevel,
	isUpdate bool,
) (domain.MealDistribution, error) {
	return distributeMeals(dailyCalories, level, isUpdate, s.params)
}

func (s *defaultService) Project(
	record *domain.TrackingRecord,
	now time.Time,
) ([]domain.WeeklyProgressEntry, error) {
	if record == nil {
		return nil, ErrNilRecord
	}
	return project(record, now), nil
}

func (s *defaultService) DetectPatterns(
	entries []domain.WeeklyProgressEntry,
) *domain.ProgressPatterns {
	return detectPatterns(entries)
}

func (s *defaultService) ScoreAdherence(
	record *domain.TrackingRecord,
	entries []domain.WeeklyProgressEntry,
) (*domain.Adherence, error) {
	if record == nil {
		return nil, ErrNilRecord
	}
	return scoreAdherence(record, entries, s.params), nil
}

func (s *defaultService) Recommend(record *domain.TrackingRecord) (*domain.Recommendations, error) {
	if record == nil {
		return nil, ErrNilRecord
	}
	return recommend(record, s.params), nil
}

func (s *defaultService) BuildChartData(record *domain.TrackingRecord) (*domain.ChartData, error) {
	if record == nil {
		return nil, ErrNilRecord
	}
	return buildChartData(record), nil
}

func (s *defaultService) ProgressPercentage(record *domain.TrackingRecord) (float64, error) {
	if record == nil {
		return 0, ErrNilRecord
	}
	return progressPercentage(record), nil
}
