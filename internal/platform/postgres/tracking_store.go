package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/platform/logger"
	"github.com/trimtrack/trimtrack-api/internal/store"
)

// PostgresTrackingStore implements the store.TrackingStore interface
// using a PostgreSQL database as the storage backend. Derived structures
// (meal distribution, weekly progress, notes, patterns, chart data,
// recommendations) are stored as JSONB columns and replaced wholesale on
// every save.
type PostgresTrackingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTrackingStore creates a new PostgreSQL implementation of the
// TrackingStore interface. If logger is nil, the default logger is used.
func NewPostgresTrackingStore(db store.DBTX, logger *slog.Logger) *PostgresTrackingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTrackingStore{
		db:     db,
		logger: logger.With(slog.String("component", "tracking_store")),
	}
}

// Ensure PostgresTrackingStore implements store.TrackingStore interface
var _ store.TrackingStore = (*PostgresTrackingStore)(nil)

// WithTx returns a new TrackingStore that runs against the provided transaction.
func (s *PostgresTrackingStore) WithTx(tx *sql.Tx) store.TrackingStore {
	return &PostgresTrackingStore{
		db:     tx,
		logger: s.logger,
	}
}

const trackingColumns = `
	id, user_id, current_weight, goal_weight, age, height, activity_level,
	duration_weeks, daily_calories, meal_distribution, weekly_progress,
	progress_notes, progress_patterns, chart_data, recommendations,
	progress_percentage, created_at, updated_at
`

// Create implements store.TrackingStore.Create.
func (s *PostgresTrackingStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	derived, err := marshalDerived(record)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tracking_records (` + trackingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.CurrentWeight,
		record.GoalWeight,
		record.Age,
		record.Height,
		string(record.ActivityLevel),
		record.DurationWeeks,
		record.DailyCalories,
		derived.mealDistribution,
		derived.weeklyProgress,
		derived.progressNotes,
		derived.progressPatterns,
		derived.chartData,
		derived.recommendations,
		record.ProgressPercentage,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to create tracking record",
			"error", err,
			"record_id", record.ID,
			"user_id", record.UserID)
		return fmt.Errorf("failed to create tracking record: %w", err)
	}

	return nil
}

// GetLatestByUser implements store.TrackingStore.GetLatestByUser.
func (s *PostgresTrackingStore) GetLatestByUser(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.TrackingRecord, error) {
	query := `
		SELECT ` + trackingColumns + `
		FROM tracking_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest tracking record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading tracking record row: %w", err)
		}
		return nil, store.ErrTrackingNotFound
	}

	record, err := scanTrackingRecord(rows)
	if err != nil {
		return nil, err
	}
	return record, rows.Err()
}

// GetAllByUser implements store.TrackingStore.GetAllByUser, newest first.
func (s *PostgresTrackingStore) GetAllByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TrackingRecord, error) {
	query := `
		SELECT ` + trackingColumns + `
		FROM tracking_records
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracking records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.TrackingRecord, 0)
	for rows.Next() {
		record, err := scanTrackingRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracking record rows: %w", err)
	}

	return records, nil
}

// Save implements store.TrackingStore.Save. All derived columns are replaced
// wholesale; there is no partial merge.
func (s *PostgresTrackingStore) Save(ctx context.Context, record *domain.TrackingRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	derived, err := marshalDerived(record)
	if err != nil {
		return err
	}

	record.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tracking_records
		SET current_weight = $1, goal_weight = $2, age = $3, height = $4,
			activity_level = $5, duration_weeks = $6, daily_calories = $7,
			meal_distribution = $8, weekly_progress = $9, progress_notes = $10,
			progress_patterns = $11, chart_data = $12, recommendations = $13,
			progress_percentage = $14, updated_at = $15
		WHERE id = $16
	`

	result, err := s.db.ExecContext(ctx, query,
		record.CurrentWeight,
		record.GoalWeight,
		record.Age,
		record.Height,
		string(record.ActivityLevel),
		record.DurationWeeks,
		record.DailyCalories,
		derived.mealDistribution,
		derived.weeklyProgress,
		derived.progressNotes,
		derived.progressPatterns,
		derived.chartData,
		derived.recommendations,
		record.ProgressPercentage,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		log.Error("failed to save tracking record",
			"error", err,
			"record_id", record.ID,
			"user_id", record.UserID)
		return fmt.Errorf("failed to save tracking record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrTrackingNotFound
	}

	return nil
}

// derivedColumns holds the JSONB payloads for one record.
type derivedColumns struct {
	mealDistribution []byte
	weeklyProgress   []byte
	progressNotes    []byte
	progressPatterns []byte
	chartData        []byte
	recommendations  []byte
}

// marshalDerived serializes the record's derived structures for storage.
// Nil optional structures are stored as SQL NULL.
func marshalDerived(record *domain.TrackingRecord) (*derivedColumns, error) {
	var d derivedColumns
	var err error

	if d.mealDistribution, err = json.Marshal(record.MealDistribution); err != nil {
		return nil, fmt.Errorf("failed to marshal meal distribution: %w", err)
	}
	if d.weeklyProgress, err = json.Marshal(record.WeeklyProgress); err != nil {
		return nil, fmt.Errorf("failed to marshal weekly progress: %w", err)
	}
	if d.progressNotes, err = json.Marshal(record.ProgressNotes); err != nil {
		return nil, fmt.Errorf("failed to marshal progress notes: %w", err)
	}
	if d.progressPatterns, err = marshalOptional(record.ProgressPatterns); err != nil {
		return nil, fmt.Errorf("failed to marshal progress patterns: %w", err)
	}
	if d.chartData, err = marshalOptional(record.ChartData); err != nil {
		return nil, fmt.Errorf("failed to marshal chart data: %w", err)
	}
	if d.recommendations, err = marshalOptional(record.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	return &d, nil
}

// marshalOptional marshals v unless it is a nil pointer, in which case it
// returns nil so the column is stored as NULL.
func marshalOptional[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// scanTrackingRecord reads one tracking record row, including the JSONB
// derived columns.
func scanTrackingRecord(rows *sql.Rows) (*domain.TrackingRecord, error) {
	var record domain.TrackingRecord
	var activityLevel string
	var mealDistribution, weeklyProgress, progressNotes []byte
	var progressPatterns, chartData, recommendations []byte

	err := rows.Scan(
		&record.ID,
		&record.UserID,
		&record.CurrentWeight,
		&record.GoalWeight,
		&record.Age,
		&record.Height,
		&activityLevel,
		&record.DurationWeeks,
		&record.DailyCalories,
		&mealDistribution,
		&weeklyProgress,
		&progressNotes,
		&progressPatterns,
		&chartData,
		&recommendations,
		&record.ProgressPercentage,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTrackingNotFound
		}
		return nil, fmt.Errorf("failed to scan tracking record row: %w", err)
	}

	record.ActivityLevel = domain.ActivityLevel(activityLevel)

	if err := json.Unmarshal(mealDistribution, &record.MealDistribution); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal distribution: %w", err)
	}
	if err := json.Unmarshal(weeklyProgress, &record.WeeklyProgress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weekly progress: %w", err)
	}
	if err := json.Unmarshal(progressNotes, &record.ProgressNotes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress notes: %w", err)
	}
	if err := unmarshalOptional(progressPatterns, &record.ProgressPatterns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress patterns: %w", err)
	}
	if err := unmarshalOptional(chartData, &record.ChartData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chart data: %w", err)
	}
	if err := unmarshalOptional(recommendations, &record.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}

	return &record, nil
}

// unmarshalOptional decodes data into *target unless the column was NULL.
func unmarshalOptional[T any](data []byte, target **T) error {
	if len(data) == 0 {
		*target = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*target = &v
	return nil
}
