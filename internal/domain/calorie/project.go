package calorie

import (
	"time"

	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// Calorie adjustment steps by percent-through-plan: start generous, tighten
// near the end.
const (
	earlyPlanAdjustment = 50
	midPlanAdjustment   = 25
	latePlanAdjustment  = -25
	finalPlanAdjustment = -50
)

// currentWeekOf computes the 1-based plan week containing now, anchored at
// the record's creation time.
func currentWeekOf(anchor, now time.Time) int {
	days := int(now.Sub(anchor).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days/daysPerWeek + 1
}

// calorieAdjustment is a coarse step function of how far through the plan the
// given week falls.
func calorieAdjustment(week, durationWeeks int) int {
	percent := float64(week) / float64(durationWeeks) * 100
	switch {
	case percent < 25:
		return earlyPlanAdjustment
	case percent < 50:
		return midPlanAdjustment
	case percent < 75:
		return latePlanAdjustment
	default:
		return finalPlanAdjustment
	}
}

// project produces the forward-looking projection for the record's current
// plan week. This is a point query per call, not a full future schedule: the
// result holds at most one entry, and is empty once the plan duration has
// elapsed.
func project(record *domain.TrackingRecord, now time.Time) []domain.WeeklyProgressEntry {
	anchor := record.CreatedAt
	week := currentWeekOf(anchor, now)
	if week > record.DurationWeeks {
		// Plan complete or expired; no further projection.
		return []domain.WeeklyProgressEntry{}
	}

	return []domain.WeeklyProgressEntry{
		{
			Week:              week,
			Weight:            record.CurrentWeight,
			PredictedDate:     anchor.AddDate(0, 0, week*daysPerWeek),
			DailyCalories:     record.DailyCalories,
			CalorieAdjustment: calorieAdjustment(week, record.DurationWeeks),
		},
	}
}
