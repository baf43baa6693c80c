package handlers

import (
	"errors"
	"net/http"

	matchsvc "github.com/romatertia749-eng/StudNet/internal/services/matches"
	"github.com/romatertia749-eng/StudNet/internal/transport/http/dto"
	httperrors "github.com/romatertia749-eng/StudNet/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchsvc.Service
}

func NewMatchesHandler(service *matchsvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

// List serves GET /matches: every match for user_id with the counterpart's
// profile embedded.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	userID, ok := parseInt64Query(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	items, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, matchsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewMatchResponses(items))
}
