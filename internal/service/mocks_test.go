package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/store"
)

// mockUserStore is an in-memory UserStore for service tests. Errors can be
// forced per method via the err fields.
type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	createErr error
	getErr    error
	updateErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// mockTrackingStore is an in-memory TrackingStore for service tests.
type mockTrackingStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*domain.TrackingRecord

	createErr error
	getErr    error
	saveErr   error
}

func newMockTrackingStore() *mockTrackingStore {
	return &mockTrackingStore{records: make(map[uuid.UUID]*domain.TrackingRecord)}
}

func (m *mockTrackingStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if err := record.Validate(); err != nil {
		return err
	}
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

func (m *mockTrackingStore) GetLatestByUser(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.TrackingRecord, error) {
	all, err := m.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, store.ErrTrackingNotFound
	}
	return all[0], nil
}

func (m *mockTrackingStore) GetAllByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TrackingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	records := make([]*domain.TrackingRecord, 0)
	for _, r := range m.records {
		if r.UserID == userID {
			copied := *r
			records = append(records, &copied)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (m *mockTrackingStore) Save(ctx context.Context, record *domain.TrackingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.records[record.ID]; !ok {
		return store.ErrTrackingNotFound
	}
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

func (m *mockTrackingStore) WithTx(tx *sql.Tx) store.TrackingStore { return m }

// mockVerifier compares passwords as plain strings against a "hash" that is
// simply the password prefixed, avoiding bcrypt cost in tests.
type mockVerifier struct{}

func (mockVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return domain.ErrInvalidPassword
}
