package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/trimtrack/trimtrack-api/internal/api/shared"
	"github.com/trimtrack/trimtrack-api/internal/domain"
	"github.com/trimtrack/trimtrack-api/internal/service"
)

// TrackingHandler handles tracking-record API requests.
type TrackingHandler struct {
	trackingService service.TrackingService
	validator       *validator.Validate
}

// NewTrackingHandler creates a new TrackingHandler with the given dependencies.
func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
		validator:       validator.New(),
	}
}

// Initialize handles POST /api/tracking. It starts a new tracking plan for
// the authenticated user, superseding any previous plan.
func (h *TrackingHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req InitializeTrackingRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.InitializeInput{
		CurrentWeight: req.CurrentWeight,
		GoalWeight:    req.GoalWeight,
		DurationWeeks: req.DurationWeeks,
		Age:           req.Age,
		Height:        req.Height,
	}
	if req.ActivityLevel != nil {
		level := domain.ActivityLevel(*req.ActivityLevel)
		input.ActivityLevel = &level
	}

	result, err := h.trackingService.Initialize(r.Context(), userID, input)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, InitializeTrackingResponse{
		Record:           result.Record,
		ProcessingTimeMS: result.ProcessingTime.Milliseconds(),
	})
}

// UpdateWeight handles PUT /api/tracking/weight. It records a new weight on
// the latest plan and regenerates all derived fields.
func (h *TrackingHandler) UpdateWeight(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateWeightRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	record, err := h.trackingService.Update(r.Context(), userID, service.UpdateInput{
		UpdatedWeight: req.UpdatedWeight,
		Height:        req.Height,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, record)
}

// Get handles GET /api/tracking. It returns the latest record with all
// analytics recomputed on read.
func (h *TrackingHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	view, err := h.trackingService.Get(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TrackingResponse{TrackingView: view})
}

// GetHistory handles GET /api/tracking/history. It returns all of the user's
// records, newest first.
func (h *TrackingHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	records, err := h.trackingService.GetHistory(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HistoryResponse{
		Records: records,
		Count:   len(records),
	})
}
