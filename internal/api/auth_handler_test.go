package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trimtrack/trimtrack-api/internal/api/shared"
	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/service/auth"
)

func postJSON(t *testing.T, handler http.HandlerFunc, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func newTestAuthHandler(users *mockUserStore, jwt *mockJWTService, verifierOK bool) *AuthHandler {
	return NewAuthHandler(
		users,
		&mockUserService{},
		jwt,
		&mockPasswordVerifier{shouldSucceed: verifierOK},
		time.Hour,
	)
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
		wantToken  bool
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"email":    "test@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusCreated,
			wantToken:  true,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"email":    "invalid-email",
				"password": "password1234567",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"email":    "test@example.com",
				"password": "short",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing fields",
			payload:    map[string]interface{}{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := newTestAuthHandler(
				newMockUserStore(),
				&mockJWTService{token: "test-token", refreshToken: "test-refresh"},
				true,
			)

			w := postJSON(t, handler.Register, tc.payload)
			assert.Equal(t, tc.wantStatus, w.Code)

			if tc.wantToken {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "test-token", resp.AccessToken)
				assert.Equal(t, "test-refresh", resp.RefreshToken)
				assert.NotEqual(t, uuid.Nil, resp.UserID)
			}
		})
	}
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newMockUserStore()
	existing, err := domain.NewUser("test@example.com", "password1234567")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), existing))

	handler := newTestAuthHandler(users, &mockJWTService{token: "t"}, true)

	w := postJSON(t, handler.Register, map[string]interface{}{
		"email":    "test@example.com",
		"password": "password1234567",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	newStoreWithUser := func(t *testing.T) *mockUserStore {
		users := newMockUserStore()
		user, err := domain.NewUser("test@example.com", "password1234567")
		require.NoError(t, err)
		user.HashedPassword = "hashed"
		require.NoError(t, users.Create(context.Background(), user))
		return users
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		handler := newTestAuthHandler(
			newStoreWithUser(t),
			&mockJWTService{token: "test-token", refreshToken: "test-refresh"},
			true,
		)

		w := postJSON(t, handler.Login, map[string]interface{}{
			"email":    "test@example.com",
			"password": "password1234567",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "test-token", resp.AccessToken)
		assert.NotEmpty(t, resp.ExpiresAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		handler := newTestAuthHandler(newStoreWithUser(t), &mockJWTService{token: "t"}, false)

		w := postJSON(t, handler.Login, map[string]interface{}{
			"email":    "test@example.com",
			"password": "wrong-password-12",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		handler := newTestAuthHandler(newMockUserStore(), &mockJWTService{token: "t"}, true)

		w := postJSON(t, handler.Login, map[string]interface{}{
			"email":    "nobody@example.com",
			"password": "password1234567",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRefreshTokenHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid refresh token", func(t *testing.T) {
		t.Parallel()

		handler := newTestAuthHandler(newMockUserStore(), &mockJWTService{
			token:        "new-access",
			refreshToken: "new-refresh",
			claims:       &auth.Claims{UserID: userID, TokenType: "refresh"},
		}, true)

		w := postJSON(t, handler.RefreshToken, map[string]interface{}{
			"refresh_token": "old-refresh",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp RefreshTokenResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "new-access", resp.AccessToken)
		assert.Equal(t, "new-refresh", resp.RefreshToken)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		t.Parallel()

		handler := newTestAuthHandler(newMockUserStore(), &mockJWTService{
			validateErr: auth.ErrExpiredRefreshToken,
		}, true)

		w := postJSON(t, handler.RefreshToken, map[string]interface{}{
			"refresh_token": "stale",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		handler := newTestAuthHandler(newMockUserStore(), &mockJWTService{}, true)

		w := postJSON(t, handler.RefreshToken, map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChangePasswordHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	withUser := func(r *http.Request) *http.Request {
		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		return r.WithContext(ctx)
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(
			newMockUserStore(), &mockUserService{}, &mockJWTService{},
			&mockPasswordVerifier{shouldSucceed: true}, time.Hour)

		body, _ := json.Marshal(map[string]interface{}{
			"current_password": "password1234567",
			"new_password":     "newpassword12345",
		})
		req := withUser(httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
		w := httptest.NewRecorder()
		handler.ChangePassword(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(
			newMockUserStore(),
			&mockUserService{changePasswordErr: domain.ErrInvalidPassword},
			&mockJWTService{}, &mockPasswordVerifier{}, time.Hour)

		body, _ := json.Marshal(map[string]interface{}{
			"current_password": "wrong-password-1",
			"new_password":     "newpassword12345",
		})
		req := withUser(httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
		w := httptest.NewRecorder()
		handler.ChangePassword(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(
			newMockUserStore(), &mockUserService{}, &mockJWTService{},
			&mockPasswordVerifier{}, time.Hour)

		w := postJSON(t, handler.ChangePassword, map[string]interface{}{
			"current_password": "password1234567",
			"new_password":     "newpassword12345",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
