package dto

import (
	"time"

	matchsvc "github.com/romatertia749-eng/StudNet/internal/services/matches"
)

type MatchResponse struct {
	ID             int64           `json:"id"`
	MatchedAt      time.Time       `json:"matched_at"`
	MatchedProfile ProfileResponse `json:"matched_profile"`
}

func NewMatchResponses(items []matchsvc.MatchItem) []MatchResponse {
	out := make([]MatchResponse, 0, len(items))
	for _, item := range items {
		out = append(out, MatchResponse{
			ID:             item.ID,
			MatchedAt:      item.MatchedAt,
			MatchedProfile: NewProfileResponse(item.Profile),
		})
	}
	return out
}
