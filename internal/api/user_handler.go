package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/trimtrack/trimtrack-api/internal/api/shared"
	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/service"
)

// UserHandler handles profile-related API requests.
type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// UpdateProfile handles PUT /api/users/me/profile. Omitted fields are left
// unchanged; the stored values serve as fallbacks when a tracking plan is
// initialized without explicit biometrics.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.ProfileInput{
		Height: req.Height,
		Age:    req.Age,
	}
	if req.ActivityLevel != nil {
		level := domain.ActivityLevel(*req.ActivityLevel)
		input.ActivityLevel = &level
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := ProfileResponse{
		UserID: user.ID,
		Email:  user.Email,
		Height: user.Height,
		Age:    user.Age,
	}
	if user.ActivityLevel != nil {
		level := string(*user.ActivityLevel)
		resp.ActivityLevel = &level
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
