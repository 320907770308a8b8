package api

import (
	"github.com/google/uuid"

	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// ChangePasswordRequest defines the payload for the password change endpoint.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=1"`
	NewPassword     string `json:"new_password"     validate:"required,min=12,max=72"`
}

// UpdateProfileRequest defines the payload for the profile update endpoint.
// All fields are optional; omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Height        *float64 `json:"height,omitempty"         validate:"omitempty,gt=0"`
	Age           *int     `json:"age,omitempty"            validate:"omitempty,gt=0"`
	ActivityLevel *string  `json:"activity_level,omitempty" validate:"omitempty,oneof=sedentary lightly_active moderately_active very_active extra_active"`
}

// ProfileResponse defines the response for profile endpoints.
type ProfileResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	Height        *float64  `json:"height,omitempty"`
	Age           *int      `json:"age,omitempty"`
	ActivityLevel *string   `json:"activity_level,omitempty"`
}

// InitializeTrackingRequest defines the payload for starting a tracking plan.
// Age, height, and activity level fall back to the user's profile when omitted.
type InitializeTrackingRequest struct {
	CurrentWeight float64  `json:"current_weight" validate:"required,gt=0"`
	GoalWeight    float64  `json:"goal_weight"    validate:"required,gt=0"`
	DurationWeeks int      `json:"duration_weeks" validate:"required,gt=0"`
	Age           *int     `json:"age,omitempty"            validate:"omitempty,gt=0"`
	Height        *float64 `json:"height,omitempty"         validate:"omitempty,gt=0"`
	ActivityLevel *string  `json:"activity_level,omitempty" validate:"omitempty,oneof=sedentary lightly_active moderately_active very_active extra_active"`
}

// InitializeTrackingResponse defines the response for a newly created plan.
type InitializeTrackingResponse struct {
	Record           *domain.TrackingRecord `json:"record"`
	ProcessingTimeMS int64                  `json:"processing_time_ms"`
}

// UpdateWeightRequest defines the payload for a weekly weight update.
// Height is only consulted when neither the record nor the profile has one.
type UpdateWeightRequest struct {
	UpdatedWeight float64  `json:"updated_weight" validate:"required,gt=0"`
	Height        *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
}

// TrackingResponse wraps the composed read model for the tracking endpoints.
type TrackingResponse struct {
	*service.TrackingView
}

// HistoryResponse defines the response for the tracking history endpoint.
type HistoryResponse struct {
	Records []*domain.TrackingRecord `json:"records"`
	Count   int                      `json:"count"`
}
