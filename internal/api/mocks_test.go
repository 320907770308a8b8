package api

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/service"
	"github.com/trimtrack/trimtrack-api/internal/service/auth"
	"github.com/trimtrack/trimtrack-api/internal/store"
)

// mockUserStore is a minimal in-memory UserStore for handler tests.
type mockUserStore struct {
	users     map[uuid.UUID]*domain.User
	createErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// mockJWTService returns fixed tokens and claims.
type mockJWTService struct {
	token        string
	refreshToken string
	claims       *auth.Claims
	generateErr  error
	validateErr  error
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return m.token, m.generateErr
}

func (m *mockJWTService) GenerateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	return m.refreshToken, m.generateErr
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.claims, nil
}

func (m *mockJWTService) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.claims, nil
}

// mockPasswordVerifier succeeds or fails wholesale.
type mockPasswordVerifier struct {
	shouldSucceed bool
}

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.shouldSucceed {
		return nil
	}
	return domain.ErrInvalidPassword
}

// mockUserService records the last call and returns canned results.
type mockUserService struct {
	user              *domain.User
	updateProfileErr  error
	changePasswordErr error
}

func (m *mockUserService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	input service.ProfileInput,
) (*domain.User, error) {
	if m.updateProfileErr != nil {
		return nil, m.updateProfileErr
	}
	if input.Height != nil {
		m.user.Height = input.Height
	}
	if input.Age != nil {
		m.user.Age = input.Age
	}
	if input.ActivityLevel != nil {
		m.user.ActivityLevel = input.ActivityLevel
	}
	return m.user, nil
}

func (m *mockUserService) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	currentPassword, newPassword string,
) error {
	return m.changePasswordErr
}

// mockTrackingService returns canned results per method.
type mockTrackingService struct {
	initResult *service.InitializeResult
	initErr    error

	updateRecord *domain.TrackingRecord
	updateErr    error

	view   *service.TrackingView
	getErr error

	history    []*domain.TrackingRecord
	historyErr error
}

func (m *mockTrackingService) Initialize(
	ctx context.Context,
	userID uuid.UUID,
	input service.InitializeInput,
) (*service.InitializeResult, error) {
	return m.initResult, m.initErr
}

func (m *mockTrackingService) Update(
	ctx context.Context,
	userID uuid.UUID,
	input service.UpdateInput,
) (*domain.TrackingRecord, error) {
	return m.updateRecord, m.updateErr
}

func (m *mockTrackingService) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*service.TrackingView, error) {
	return m.view, m.getErr
}

func (m *mockTrackingService) GetHistory(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TrackingRecord, error) {
	return m.history, m.historyErr
}
