package model

import (
	"time"

	"github.com/romatertia749-eng/StudNet/internal/domain/enums"
)

type Swipe struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	TargetProfileID int64             `json:"target_profile_id"`
	Action          enums.SwipeAction `json:"action"`
	CreatedAt       time.Time         `json:"created_at"`
}
