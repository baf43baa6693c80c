package dto

type SwipeRequest struct {
	UserID int64 `json:"user_id"`
}

type LikeResponse struct {
	Matched bool   `json:"matched"`
	MatchID *int64 `json:"match_id,omitempty"`
	Message string `json:"message"`
}

type PassResponse struct {
	Message string `json:"message"`
}

// RespondRequest answers an incoming like. The client sends the sender's
// user id, not their profile id.
type RespondRequest struct {
	TargetUserID int64  `json:"targetUserId"`
	Action       string `json:"action"`
}
