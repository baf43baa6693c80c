package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	feedsvc "github.com/romatertia749-eng/StudNet/internal/services/feed"
	"github.com/romatertia749-eng/StudNet/internal/transport/http/dto"
	httperrors "github.com/romatertia749-eng/StudNet/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// Candidates serves GET /profiles: the paginated discovery feed for user_id.
func (h *FeedHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	userID, ok := parseInt64Query(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	page, err := h.service.Candidates(r.Context(), feedsvc.CandidatesRequest{
		ViewerUserID: userID,
		City:         strings.TrimSpace(r.URL.Query().Get("city")),
		University:   strings.TrimSpace(r.URL.Query().Get("university")),
		Page:         parseIntOrDefault(r.URL.Query().Get("page"), 0),
		Size:         parseIntOrDefault(r.URL.Query().Get("size"), feedsvc.DefaultPageSize),
	})
	if err != nil {
		handleFeedError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPageResponse(page))
}

// IncomingLikes serves GET /profiles/incoming-likes: users who liked the
// caller and have not been answered yet.
func (h *FeedHandler) IncomingLikes(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	userID, ok := parseInt64Query(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	page, err := h.service.IncomingLikes(r.Context(), feedsvc.IncomingLikesRequest{
		ViewerUserID: userID,
		Page:         parseIntOrDefault(r.URL.Query().Get("page"), 0),
		Size:         parseIntOrDefault(r.URL.Query().Get("size"), feedsvc.DefaultPageSize),
	})
	if err != nil {
		handleFeedError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPageResponse(page))
}

func handleFeedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feedsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid feed request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to load feed")
	}
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func parseInt64Query(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
