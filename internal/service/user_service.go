package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/platform/logger"
	"github.com/trimtrack/trimtrack-api/internal/service/auth"
	"github.com/trimtrack/trimtrack-api/internal/store"
)

// ProfileInput carries the optional biometric profile fields a user may set.
// Nil fields are left unchanged.
type ProfileInput struct {
	Height        *float64
	Age           *int
	ActivityLevel *domain.ActivityLevel
}

// UserService provides profile and credential operations on existing users.
type UserService interface {
	// UpdateProfile sets the user's biometric fallback fields.
	// Returns store.ErrUserNotFound if the user does not exist.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*domain.User, error)

	// ChangePassword verifies the current password and replaces it with the
	// new one. Returns domain.ErrInvalidPassword when the current password
	// does not match.
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a new UserService. The database handle is used to run
// read-modify-write operations inside a transaction.
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	log *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		userStore: userStore,
		verifier:  verifier,
		db:        db,
		logger:    log.With(slog.String("component", "user_service")),
	}, nil
}

// UpdateProfile implements UserService.UpdateProfile. The read and write run
// in one transaction so concurrent profile updates cannot interleave.
func (s *userServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	input ProfileInput,
) (*domain.User, error) {
	var updated *domain.User

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if input.Height != nil {
			if *input.Height <= 0 {
				return domain.NewValidationError("height", "must be greater than zero", domain.ErrNonPositiveHeight)
			}
			user.Height = input.Height
		}
		if input.Age != nil {
			if *input.Age <= 0 {
				return domain.NewValidationError("age", "must be greater than zero", domain.ErrNonPositiveAge)
			}
			user.Age = input.Age
		}
		if input.ActivityLevel != nil {
			if !input.ActivityLevel.Valid() {
				return domain.NewValidationError(
					"activity_level", "is not a recognized value", domain.ErrInvalidActivityLevel)
			}
			user.ActivityLevel = input.ActivityLevel
		}

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ChangePassword implements UserService.ChangePassword. Verification and
// re-hash happen against the same row version inside one transaction.
func (s *userServiceImpl) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	currentPassword, newPassword string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if err := s.verifier.Compare(user.HashedPassword, currentPassword); err != nil {
			return domain.ErrInvalidPassword
		}

		// The store re-hashes a non-empty plaintext password on update.
		user.Password = newPassword
		return txStore.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	log.Info("password changed", "user_id", userID)
	return nil
}
