package handlers

import (
	"net/http"
	"strings"

	swipesvc "github.com/romatertia749-eng/StudNet/internal/services/swipes"
	"github.com/romatertia749-eng/StudNet/internal/transport/http/dto"
	httperrors "github.com/romatertia749-eng/StudNet/internal/transport/http/errors"
)

type LikesHandler struct {
	service *swipesvc.Service
}

func NewLikesHandler(service *swipesvc.Service) *LikesHandler {
	return &LikesHandler{service: service}
}

// Respond serves POST /likes/respond: answer an incoming like with the
// reciprocal like or a pass.
func (h *LikesHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	userID, ok := parseInt64Query(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	var req dto.RespondRequest
	if err := decodeJSON(r, &req); err != nil || req.TargetUserID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "targetUserId and action are required")
		return
	}

	result, err := h.service.Respond(r.Context(), userID, req.TargetUserID, req.Action)
	if err != nil {
		handleSwipeError(w, err)
		return
	}

	resp := likeResponse(result)
	if strings.EqualFold(strings.TrimSpace(req.Action), "decline") {
		resp.Message = "pass recorded"
	}
	httperrors.Write(w, http.StatusOK, resp)
}
