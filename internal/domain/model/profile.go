package model

import (
	"time"

	"github.com/romatertia749-eng/StudNet/internal/domain/enums"
)

type Profile struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	Username   *string      `json:"username"`
	FirstName  *string      `json:"first_name"`
	LastName   *string      `json:"last_name"`
	Name       string       `json:"name"`
	Gender     enums.Gender `json:"gender"`
	Age        int          `json:"age"`
	City       string       `json:"city"`
	University string       `json:"university"`
	Interests  []string     `json:"interests"`
	Goals      []string     `json:"goals"`
	Bio        *string      `json:"bio"`
	PhotoURL   *string      `json:"photo_url"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
