package calorie

import (
	"reflect"
	"testing"
	"time"

	"github.com/trimtrack/trimtrack-api/internal/domain"
)

func TestRecommendNoProgress(t *testing.T) {
	t.Parallel()

	record := testRecord(8, time.Now())
	rec := recommend(record, NewDefaultParams())

	if rec.Message != noProgressMessage {
		t.Errorf("Expected no-progress message, got %q", rec.Message)
	}
	if len(rec.BestDays) != 0 || len(rec.FocusAreas) != 0 || rec.SleepCorrelation != "" {
		t.Error("Expected no advice fields before any weekly progress")
	}
}

func TestRecommendThresholds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		currentWeight float64
		goalWeight    float64
		expectedDays  []string
		expectedFocus []string
		expectedSleep string
	}{
		{
			name:          "Large gap recommends more activity",
			currentWeight: 180,
			goalWeight:    160,
			expectedDays:  []string{"Monday", "Wednesday", "Friday"},
			expectedFocus: []string{"Increase physical activity"},
			expectedSleep: "Negative",
		},
		{
			name:          "Small gap recommends maintenance",
			currentWeight: 163,
			goalWeight:    160,
			expectedDays:  []string{"Tuesday", "Thursday"},
			expectedFocus: []string{"Maintain consistency"},
			expectedSleep: "Negative",
		},
		{
			name:          "Near goal reads sleep as positive",
			currentWeight: 161,
			goalWeight:    160,
			expectedDays:  []string{"Tuesday", "Thursday"},
			expectedFocus: []string{"Maintain consistency"},
			expectedSleep: "Positive",
		},
		{
			name:          "Past goal reads sleep as positive",
			currentWeight: 158,
			goalWeight:    160,
			expectedDays:  []string{"Tuesday", "Thursday"},
			expectedFocus: []string{"Maintain consistency"},
			expectedSleep: "Positive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := testRecord(8, time.Now())
			record.CurrentWeight = tc.currentWeight
			record.GoalWeight = tc.goalWeight
			record.WeeklyProgress = weeklyEntries(180, 177.5)

			rec := recommend(record, NewDefaultParams())

			if !reflect.DeepEqual(rec.BestDays, tc.expectedDays) {
				t.Errorf("Expected best days %v, got %v", tc.expectedDays, rec.BestDays)
			}
			if !reflect.DeepEqual(rec.FocusAreas, tc.expectedFocus) {
				t.Errorf("Expected focus areas %v, got %v", tc.expectedFocus, rec.FocusAreas)
			}
			if rec.SleepCorrelation != tc.expectedSleep {
				t.Errorf("Expected sleep correlation %q, got %q", tc.expectedSleep, rec.SleepCorrelation)
			}
			if rec.Message != "" {
				t.Errorf("Expected no message with progress data, got %q", rec.Message)
			}
		})
	}
}

func TestRecommendBoundaryAtFivePounds(t *testing.T) {
	t.Parallel()

	// Exactly 5 lbs left is not "greater than" the threshold.
	record := testRecord(8, time.Now())
	record.CurrentWeight = 165
	record.GoalWeight = 160
	record.WeeklyProgress = []domain.WeeklyProgressEntry{{Week: 1, Weight: 180}}

	rec := recommend(record, NewDefaultParams())

	expected := []string{"Tuesday", "Thursday"}
	if !reflect.DeepEqual(rec.BestDays, expected) {
		t.Errorf("Expected best days %v at the boundary, got %v", expected, rec.BestDays)
	}
}
