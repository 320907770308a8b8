package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/domain/calorie"
	"github.com/trimtrack/trimtrack-api/internal/store"
)

func ptrFloat(v float64) *float64                           { return &v }
func ptrInt(v int) *int                                     { return &v }
func ptrLevel(v domain.ActivityLevel) *domain.ActivityLevel { return &v }

// newTestTrackingService wires a tracking service against in-memory stores
// and the real calorie engine, with one registered user. The sqlmock supplies
// the transaction boundary; weight updates need ExpectBegin/ExpectCommit.
func newTestTrackingService(
	t *testing.T,
) (TrackingService, sqlmock.Sqlmock, *mockUserStore, *mockTrackingStore, *domain.User) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := newMockUserStore()
	records := newMockTrackingStore()

	user, err := domain.NewUser("user@example.com", "securepassword123")
	require.NoError(t, err)
	user.HashedPassword = "hashed:securepassword123"
	require.NoError(t, users.Create(context.Background(), user))

	svc, err := NewTrackingService(users, records, calorie.NewDefaultService(), db, nil)
	require.NoError(t, err)

	return svc, mock, users, records, user
}

func fullInput() InitializeInput {
	return InitializeInput{
		CurrentWeight: 180,
		GoalWeight:    160,
		DurationWeeks: 8,
		Age:           ptrInt(30),
		Height:        ptrFloat(70),
		ActivityLevel: ptrLevel(domain.ActivityModeratelyActive),
	}
}

func TestNewTrackingServiceNilDependencies(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	engine := calorie.NewDefaultService()
	users := newMockUserStore()
	records := newMockTrackingStore()

	_, err = NewTrackingService(nil, records, engine, db, nil)
	assert.Error(t, err)
	_, err = NewTrackingService(users, nil, engine, db, nil)
	assert.Error(t, err)
	_, err = NewTrackingService(users, records, nil, db, nil)
	assert.Error(t, err)
	_, err = NewTrackingService(users, records, engine, nil, nil)
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	t.Parallel()
	svc, _, _, records, user := newTestTrackingService(t)

	result, err := svc.Initialize(context.Background(), user.ID, fullInput())
	require.NoError(t, err)

	record := result.Record
	assert.Equal(t, user.ID, record.UserID)
	assert.Equal(t, 180.0, record.CurrentWeight)
	assert.Equal(t, 160.0, record.GoalWeight)
	assert.Equal(t, 8, record.DurationWeeks)
	assert.Equal(t, 1513, record.DailyCalories)
	assert.Equal(t, 1513, record.MealDistribution.Total)
	assert.Empty(t, record.WeeklyProgress)
	require.Len(t, record.ProgressNotes, 1)
	assert.Contains(t, record.ProgressNotes[0].Note, "Plan created")
	assert.GreaterOrEqual(t, result.ProcessingTime, time.Duration(0))

	// The record must be persisted.
	stored, err := records.GetLatestByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, stored.ID)
}

func TestInitializeNormalizesMetricInput(t *testing.T) {
	t.Parallel()
	svc, _, _, _, user := newTestTrackingService(t)

	input := fullInput()
	input.CurrentWeight = 82       // kg
	input.GoalWeight = 72          // kg
	input.Height = ptrFloat(1.8)   // meters

	result, err := svc.Initialize(context.Background(), user.ID, input)
	require.NoError(t, err)

	assert.InDelta(t, 82*2.20462, result.Record.CurrentWeight, 1e-6)
	assert.InDelta(t, 72*2.20462, result.Record.GoalWeight, 1e-6)
	assert.InDelta(t, 1.8*3.28084, result.Record.Height, 1e-6)
}

func TestInitializeFallsBackToProfile(t *testing.T) {
	t.Parallel()
	svc, _, users, _, user := newTestTrackingService(t)

	// Store the biometrics on the profile instead of the request.
	user.Height = ptrFloat(70)
	user.Age = ptrInt(30)
	user.ActivityLevel = ptrLevel(domain.ActivityModeratelyActive)
	require.NoError(t, users.Update(context.Background(), user))

	input := InitializeInput{
		CurrentWeight: 180,
		GoalWeight:    160,
		DurationWeeks: 8,
	}

	result, err := svc.Initialize(context.Background(), user.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 30, result.Record.Age)
	assert.Equal(t, 70.0, result.Record.Height)
	assert.Equal(t, domain.ActivityModeratelyActive, result.Record.ActivityLevel)
}

func TestInitializeMissingBiometrics(t *testing.T) {
	t.Parallel()
	svc, _, _, _, user := newTestTrackingService(t)

	input := InitializeInput{
		CurrentWeight: 180,
		GoalWeight:    160,
		DurationWeeks: 8,
		// No age/height/activity level on request or profile.
	}

	_, err := svc.Initialize(context.Background(), user.ID, input)
	require.Error(t, err)

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestInitializeUnknownUser(t *testing.T) {
	t.Parallel()
	svc, _, _, _, _ := newTestTrackingService(t)

	_, err := svc.Initialize(context.Background(), uuid.New(), fullInput())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	svc, mock, _, _, user := newTestTrackingService(t)

	_, err := svc.Initialize(context.Background(), user.ID, fullInput())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	record, err := svc.Update(context.Background(), user.ID, UpdateInput{UpdatedWeight: 176})
	require.NoError(t, err)

	assert.Equal(t, 176.0, record.CurrentWeight)

	// Daily calories are recomputed from the new weight and the update-time
	// morning cap applies; moderately_active already sits at 30%, so only the
	// total shifts.
	assert.Greater(t, record.DailyCalories, 0)
	assert.Equal(t, record.DailyCalories, record.MealDistribution.Total)

	// One projection entry for the current plan week.
	require.Len(t, record.WeeklyProgress, 1)
	assert.Equal(t, 1, record.WeeklyProgress[0].Week)
	assert.Equal(t, 176.0, record.WeeklyProgress[0].Weight)

	// A weight-update note is appended after the creation note.
	require.Len(t, record.ProgressNotes, 2)
	assert.Contains(t, record.ProgressNotes[1].Note, "Weight updated")

	// Derived analytics are regenerated.
	require.NotNil(t, record.ProgressPatterns)
	assert.Equal(t, calorie.TrendInsufficientData, record.ProgressPatterns.OverallTrend)
	require.NotNil(t, record.Recommendations)
	require.NotNil(t, record.ChartData)
	assert.Len(t, record.ChartData.ActualWeights, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSameWeekReplacesEntry(t *testing.T) {
	t.Parallel()
	svc, mock, _, _, user := newTestTrackingService(t)

	_, err := svc.Initialize(context.Background(), user.ID, fullInput())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err = svc.Update(context.Background(), user.ID, UpdateInput{UpdatedWeight: 178})
	require.NoError(t, err)

	// A second update within the same plan week replaces the entry rather
	// than appending a duplicate week.
	record, err := svc.Update(context.Background(), user.ID, UpdateInput{UpdatedWeight: 176})
	require.NoError(t, err)

	require.Len(t, record.WeeklyProgress, 1)
	assert.Equal(t, 176.0, record.WeeklyProgress[0].Weight)
}

func TestUpdateNormalizesMetricWeight(t *testing.T) {
	t.Parallel()
	svc, mock, _, _, user := newTestTrackingService(t)

	_, err := svc.Initialize(context.Background(), user.ID, fullInput())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	record, err := svc.Update(context.Background(), user.ID, UpdateInput{UpdatedWeight: 80})
	require.NoError(t, err)

	assert.InDelta(t, 80*2.20462, record.CurrentWeight, 1e-6)
}

func TestUpdateDoesNotRenormalizeStoredBiometrics(t *testing.T) {
	t.Parallel()
	svc, mock, _, _, user := newTestTrackingService(t)

	// A metric height normalizes to 5.9, below the unit-detection threshold.
	input := fullInput()
	input.Height = ptrFloat(1.8)

	created, err := svc.Initialize(context.Background(), user.ID, input)
	require.NoError(t, err)
	require.InDelta(t, 1.8*3.28084, created.Record.Height, 1e-6)

	mock.ExpectBegin()
	mock.ExpectCommit()

	// Same weight again: identical biometrics must yield identical calories,
	// with the stored height surviving untouched.
	record, err := svc.Update(context.Background(), user.ID, UpdateInput{UpdatedWeight: 180})
	require.NoError(t, err)

	assert.InDelta(t, 1.8*3.28084, record.Height, 1e-6)
	assert.Equal(t, created.Record.DailyCalories, record.DailyCalories)
}

func TestUpdateWithoutPlan(t *testing.T) {
	t.Parallel()
	svc, mock, _, _, user := newTestTrackingService(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), user.ID, UpdateInput{UpdatedWeight: 176})
	assert.ErrorIs(t, err, store.ErrTrackingNotFound)
}

func TestGet(t *testing.T) {
	t.Parallel()
	svc, mock, _, _, user := newTestTrackingService(t)

	_, err := svc.Initialize(context.Background(), user.ID, fullInput())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err = svc.Update(context.Background(), user.ID, UpdateInput{UpdatedWeight: 176})
	require.NoError(t, err)

	view, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 176.0, view.Record.CurrentWeight)
	require.Len(t, view.Projection, 1)
	require.NotNil(t, view.Patterns)
	require.NotNil(t, view.Adherence)
	require.NotNil(t, view.Recommendations)
	require.NotNil(t, view.ChartData)
	assert.GreaterOrEqual(t, view.ProgressPercentage, 0.0)
}

func TestGetWithoutPlan(t *testing.T) {
	t.Parallel()
	svc, _, _, _, user := newTestTrackingService(t)

	_, err := svc.Get(context.Background(), user.ID)
	assert.ErrorIs(t, err, store.ErrTrackingNotFound)
}

func TestGetHistory(t *testing.T) {
	t.Parallel()
	svc, _, _, _, user := newTestTrackingService(t)

	history, err := svc.GetHistory(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.Initialize(context.Background(), user.ID, fullInput())
	require.NoError(t, err)

	history, err = svc.GetHistory(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
