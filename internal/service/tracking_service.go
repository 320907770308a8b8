package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/domain/calorie"
	"github.com/trimtrack/trimtrack-api/internal/platform/logger"
	"github.com/trimtrack/trimtrack-api/internal/store"
)

// InitializeInput carries the biometrics for starting a new tracking plan.
// Age, Height and ActivityLevel may be omitted; the service falls back to the
// user's profile before failing validation.
type InitializeInput struct {
	CurrentWeight float64
	GoalWeight    float64
	DurationWeeks int
	Age           *int
	Height        *float64
	ActivityLevel *domain.ActivityLevel
}

// InitializeResult is the outcome of starting a new tracking plan.
// ProcessingTime is diagnostic, not contractual.
type InitializeResult struct {
	Record         *domain.TrackingRecord
	ProcessingTime time.Duration
}

// UpdateInput carries a progress update. Height is an optional override used
// only when neither the record nor the user profile can supply one.
type UpdateInput struct {
	UpdatedWeight float64
	Height        *float64
}

// TrackingView is the composed read model: the latest record plus all derived
// analytics recomputed on read. The stored derived fields are not assumed
// fresh; recomputation is deterministic given the same stored history.
type TrackingView struct {
	Record             *domain.TrackingRecord       `json:"record"`
	Projection         []domain.WeeklyProgressEntry `json:"projection"`
	Patterns           *domain.ProgressPatterns     `json:"patterns"`
	Adherence          *domain.Adherence            `json:"adherence"`
	Recommendations    *domain.Recommendations      `json:"recommendations"`
	ChartData          *domain.ChartData            `json:"chart_data"`
	ProgressPercentage float64                      `json:"progress_percentage"`
}

// TrackingService orchestrates the tracking record lifecycle: initialization,
// weekly progress updates, composed reads and history queries.
type TrackingService interface {
	// Initialize starts a new tracking plan for the user. Returns
	// store.ErrUserNotFound if the user is unknown, or a validation error if
	// the biometrics are incomplete after profile fallback.
	Initialize(ctx context.Context, userID uuid.UUID, input InitializeInput) (*InitializeResult, error)

	// Update records a new weight, re-derives calories and meals, and
	// wholesale regenerates all derived analytics. Returns
	// store.ErrUserNotFound or store.ErrTrackingNotFound when the user or
	// latest record is missing, or a validation error when the height cannot
	// be resolved from record, profile, or input.
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*domain.TrackingRecord, error)

	// Get returns the latest record with projection, patterns, adherence,
	// chart data and recommendations recomputed on read.
	Get(ctx context.Context, userID uuid.UUID) (*TrackingView, error)

	// GetHistory returns all of the user's records, newest first, unmodified.
	GetHistory(ctx context.Context, userID uuid.UUID) ([]*domain.TrackingRecord, error)
}

// trackingServiceImpl implements the TrackingService interface.
type trackingServiceImpl struct {
	userStore     store.UserStore
	trackingStore store.TrackingStore
	engine        calorie.Service
	db            *sql.DB
	logger        *slog.Logger
	timeFunc      func() time.Time // Injectable for testing
}

// NewTrackingService creates a new TrackingService. The database handle is
// used to run the read-modify-write of weight updates inside a transaction.
// It returns an error if any of the required dependencies are nil.
func NewTrackingService(
	userStore store.UserStore,
	trackingStore store.TrackingStore,
	engine calorie.Service,
	db *sql.DB,
	log *slog.Logger,
) (TrackingService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if trackingStore == nil {
		return nil, fmt.Errorf("trackingStore cannot be nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &trackingServiceImpl{
		userStore:     userStore,
		trackingStore: trackingStore,
		engine:        engine,
		db:            db,
		logger:        log.With(slog.String("component", "tracking_service")),
		timeFunc:      time.Now,
	}, nil
}

// Initialize implements TrackingService.Initialize.
func (s *trackingServiceImpl) Initialize(
	ctx context.Context,
	userID uuid.UUID,
	input InitializeInput,
) (*InitializeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	started := s.timeFunc()

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolveBiometrics(input, user)
	if err != nil {
		return nil, err
	}

	now := started.UTC()
	analysis, err := s.engine.Analyze(resolved, false, now)
	if err != nil {
		return nil, err
	}

	record, err := domain.NewTrackingRecord(
		userID,
		analysis.NormalizedWeight,
		calorie.NormalizeWeight(resolved.GoalWeight),
		resolved.Age,
		analysis.NormalizedHeight,
		resolved.ActivityLevel,
		resolved.DurationWeeks,
	)
	if err != nil {
		return nil, err
	}

	record.DailyCalories = analysis.DailyCalories
	record.MealDistribution = analysis.MealDistribution
	record.WeeklyProgress = []domain.WeeklyProgressEntry{}
	record.ProgressNotes = []domain.ProgressNote{analysis.InitialNote}

	if err := s.trackingStore.Create(ctx, record); err != nil {
		log.Error("failed to persist tracking record",
			"error", err,
			"user_id", userID)
		return nil, NewTrackingServiceError("initialize", "failed to persist record", err)
	}

	elapsed := s.timeFunc().Sub(started)
	log.Info("tracking plan initialized",
		"user_id", userID,
		"record_id", record.ID,
		"daily_calories", record.DailyCalories,
		"duration_ms", elapsed.Milliseconds())

	return &InitializeResult{
		Record:         record,
		ProcessingTime: elapsed,
	}, nil
}

// Update implements TrackingService.Update. All derived fields are replaced
// wholesale before the record is saved; nothing is merged incrementally. The
// read-modify-write runs inside one transaction so two concurrent updates for
// the same user cannot interleave on the same record.
func (s *trackingServiceImpl) Update(
	ctx context.Context,
	userID uuid.UUID,
	input UpdateInput,
) (*domain.TrackingRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var updated *domain.TrackingRecord
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.trackingStore.WithTx(tx)

		record, err := txStore.GetLatestByUser(ctx, userID)
		if err != nil {
			return err
		}

		height, err := resolveHeight(record, user, input.Height)
		if err != nil {
			return err
		}

		now := s.timeFunc().UTC()
		weight := calorie.NormalizeWeight(input.UpdatedWeight)

		record.CurrentWeight = weight
		record.Height = height
		record.ProgressNotes = append(record.ProgressNotes, domain.ProgressNote{
			Note:      fmt.Sprintf("Weight updated to %.1f lbs", weight),
			Timestamp: now,
		})

		// The record's weights and height were normalized at creation and the
		// fresh weight above; the engine must not run the unit heuristics on
		// them again.
		analysis, err := s.engine.Analyze(calorie.AnalysisInput{
			CurrentWeight: record.CurrentWeight,
			GoalWeight:    record.GoalWeight,
			DurationWeeks: record.DurationWeeks,
			Age:           record.Age,
			Height:        record.Height,
			ActivityLevel: record.ActivityLevel,
			Normalized:    true,
		}, true, now)
		if err != nil {
			return err
		}
		record.DailyCalories = analysis.DailyCalories
		record.MealDistribution = analysis.MealDistribution

		projection, err := s.engine.Project(record, now)
		if err != nil {
			return NewTrackingServiceError("update", "failed to project progress", err)
		}
		record.WeeklyProgress = mergeProjection(record.WeeklyProgress, projection)

		if err := s.deriveAnalytics(record); err != nil {
			return err
		}

		if err := txStore.Save(ctx, record); err != nil {
			log.Error("failed to save tracking record",
				"error", err,
				"user_id", userID,
				"record_id", record.ID)
			return NewTrackingServiceError("update", "failed to save record", err)
		}

		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("tracking record updated",
		"user_id", userID,
		"record_id", updated.ID,
		"weight", updated.CurrentWeight,
		"daily_calories", updated.DailyCalories)

	return updated, nil
}

// Get implements TrackingService.Get.
func (s *trackingServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*TrackingView, error) {
	record, err := s.trackingStore.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.timeFunc().UTC()
	projection, err := s.engine.Project(record, now)
	if err != nil {
		return nil, NewTrackingServiceError("get", "failed to project progress", err)
	}

	adherence, err := s.engine.ScoreAdherence(record, record.WeeklyProgress)
	if err != nil {
		return nil, NewTrackingServiceError("get", "failed to score adherence", err)
	}

	recommendations, err := s.engine.Recommend(record)
	if err != nil {
		return nil, NewTrackingServiceError("get", "failed to build recommendations", err)
	}

	chart, err := s.engine.BuildChartData(record)
	if err != nil {
		return nil, NewTrackingServiceError("get", "failed to build chart data", err)
	}

	percent, err := s.engine.ProgressPercentage(record)
	if err != nil {
		return nil, NewTrackingServiceError("get", "failed to compute progress percentage", err)
	}

	return &TrackingView{
		Record:             record,
		Projection:         projection,
		Patterns:           s.engine.DetectPatterns(record.WeeklyProgress),
		Adherence:          adherence,
		Recommendations:    recommendations,
		ChartData:          chart,
		ProgressPercentage: percent,
	}, nil
}

// GetHistory implements TrackingService.GetHistory.
func (s *trackingServiceImpl) GetHistory(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TrackingRecord, error) {
	return s.trackingStore.GetAllByUser(ctx, userID)
}

// resolveBiometrics fills the optional initialization fields from the user's
// profile, failing with a validation error for anything still missing.
func (s *trackingServiceImpl) resolveBiometrics(
	input InitializeInput,
	user *domain.User,
) (calorie.AnalysisInput, error) {
	resolved := calorie.AnalysisInput{
		CurrentWeight: input.CurrentWeight,
		GoalWeight:    input.GoalWeight,
		DurationWeeks: input.DurationWeeks,
	}

	switch {
	case input.Age != nil:
		resolved.Age = *input.Age
	case user.Age != nil:
		resolved.Age = *user.Age
	default:
		return resolved, domain.NewValidationError("age", "is required", nil)
	}

	switch {
	case input.Height != nil:
		resolved.Height = *input.Height
	case user.Height != nil:
		resolved.Height = *user.Height
	default:
		return resolved, domain.NewValidationError("height", "is required", nil)
	}

	switch {
	case input.ActivityLevel != nil:
		resolved.ActivityLevel = *input.ActivityLevel
	case user.ActivityLevel != nil:
		resolved.ActivityLevel = *user.ActivityLevel
	default:
		return resolved, domain.NewValidationError("activity_level", "is required", nil)
	}

	return resolved, nil
}

// resolveHeight resolves the height for an update from the record, the user
// profile, or the request body, in that order.
func resolveHeight(
	record *domain.TrackingRecord,
	user *domain.User,
	override *float64,
) (float64, error) {
	switch {
	case record.Height > 0:
		// Already normalized at record creation.
		return record.Height, nil
	case user.Height != nil && *user.Height > 0:
		return calorie.NormalizeHeight(*user.Height), nil
	case override != nil && *override > 0:
		return calorie.NormalizeHeight(*override), nil
	default:
		return 0, domain.NewValidationError(
			"height", "could not be resolved from record, profile, or request", domain.ErrNonPositiveHeight)
	}
}

// mergeProjection folds the point projection for the current week into the
// stored weekly history: a repeated update within the same plan week replaces
// that week's entry, a new week appends. The history never exceeds the plan
// duration because the projector stops emitting entries past it.
func mergeProjection(
	history []domain.WeeklyProgressEntry,
	projection []domain.WeeklyProgressEntry,
) []domain.WeeklyProgressEntry {
	if len(projection) == 0 {
		return history
	}
	entry := projection[0]
	if n := len(history); n > 0 && history[n-1].Week == entry.Week {
		history[n-1] = entry
		return history
	}
	return append(history, entry)
}

// deriveAnalytics recomputes and replaces the record's persisted derived
// analytics from its weekly history.
func (s *trackingServiceImpl) deriveAnalytics(record *domain.TrackingRecord) error {
	record.ProgressPatterns = s.engine.DetectPatterns(record.WeeklyProgress)

	recommendations, err := s.engine.Recommend(record)
	if err != nil {
		return NewTrackingServiceError("update", "failed to build recommendations", err)
	}
	record.Recommendations = recommendations

	chart, err := s.engine.BuildChartData(record)
	if err != nil {
		return NewTrackingServiceError("update", "failed to build chart data", err)
	}
	record.ChartData = chart

	percent, err := s.engine.ProgressPercentage(record)
	if err != nil {
		return NewTrackingServiceError("update", "failed to compute progress percentage", err)
	}
	record.ProgressPercentage = percent

	return nil
}
