package model

import "time"

// Match stores the unordered pair in canonical order: User1ID < User2ID.
type Match struct {
	ID        int64     `json:"id"`
	User1ID   int64     `json:"user1_id"`
	User2ID   int64     `json:"user2_id"`
	MatchedAt time.Time `json:"matched_at"`
}

func (m Match) OtherUserID(userID int64) int64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}
