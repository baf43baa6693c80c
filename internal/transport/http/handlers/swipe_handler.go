package handlers

import (
	"errors"
	"net/http"

	swipesvc "github.com/romatertia749-eng/StudNet/internal/services/swipes"
	"github.com/romatertia749-eng/StudNet/internal/transport/http/dto"
	httperrors "github.com/romatertia749-eng/StudNet/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

// Like serves POST /profiles/{profile_id}/like.
func (h *SwipeHandler) Like(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	profileID, ok := parseInt64Param(r, "profile_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "profile_id must be a positive integer")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id is required")
		return
	}

	result, err := h.service.Like(r.Context(), req.UserID, profileID)
	if err != nil {
		handleSwipeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, likeResponse(result))
}

// Pass serves POST /profiles/{profile_id}/pass.
func (h *SwipeHandler) Pass(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	profileID, ok := parseInt64Param(r, "profile_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "profile_id must be a positive integer")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id is required")
		return
	}

	if err := h.service.Pass(r.Context(), req.UserID, profileID); err != nil {
		handleSwipeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PassResponse{Message: "pass recorded"})
}

func likeResponse(result swipesvc.LikeResult) dto.LikeResponse {
	resp := dto.LikeResponse{Message: "like recorded"}
	if result.Matched {
		matchID := result.Match.ID
		resp.Matched = true
		resp.MatchID = &matchID
		resp.Message = "it's a match"
	}
	return resp
}

func handleSwipeError(w http.ResponseWriter, err error) {
	var tooFast swipesvc.TooFastError
	switch {
	case errors.Is(err, swipesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
	case errors.Is(err, swipesvc.ErrTargetNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "target profile not found")
	case errors.Is(err, swipesvc.ErrAlreadyLiked):
		writeConflict(w, "ALREADY_SWIPED", "you already acted on this profile")
	case errors.As(err, &tooFast):
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "TOO_FAST",
			Message:       "too many like actions, slow down",
			RetryAfterSec: tooFast.RetryAfterSec,
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
	}
}
