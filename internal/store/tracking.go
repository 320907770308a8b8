package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// TrackingStore defines the interface for tracking record persistence.
// The query convention is most-recent-first by creation time.
type TrackingStore interface {
	// Create saves a new tracking record to the store.
	// Returns validation errors from the domain record if data is invalid.
	Create(ctx context.Context, record *domain.TrackingRecord) error

	// GetLatestByUser retrieves the most recently created tracking record
	// for the given user. Returns ErrTrackingNotFound if none exists.
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.TrackingRecord, error)

	// GetAllByUser retrieves all tracking records for the given user,
	// newest first. Returns an empty slice when none exist.
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TrackingRecord, error)

	// Save persists a mutated record, replacing all derived fields
	// wholesale. Returns ErrTrackingNotFound if the record does not exist.
	Save(ctx context.Context, record *domain.TrackingRecord) error

	// WithTx returns a new TrackingStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TrackingStore
}
