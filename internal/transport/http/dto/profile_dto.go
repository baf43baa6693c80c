package dto

import (
	"time"

	"github.com/romatertia749-eng/StudNet/internal/domain/model"
)

type ProfileResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   *string   `json:"username"`
	FirstName  *string   `json:"first_name"`
	LastName   *string   `json:"last_name"`
	Name       string    `json:"name"`
	Gender     string    `json:"gender"`
	Age        int       `json:"age"`
	City       string    `json:"city"`
	University string    `json:"university"`
	Interests  []string  `json:"interests"`
	Goals      []string  `json:"goals"`
	Bio        *string   `json:"bio"`
	PhotoURL   *string   `json:"photo_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewProfileResponse(p model.Profile) ProfileResponse {
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	goals := p.Goals
	if goals == nil {
		goals = []string{}
	}

	return ProfileResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Username:   p.Username,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Name:       p.Name,
		Gender:     string(p.Gender),
		Age:        p.Age,
		City:       p.City,
		University: p.University,
		Interests:  interests,
		Goals:      goals,
		Bio:        p.Bio,
		PhotoURL:   p.PhotoURL,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func NewProfileResponses(profiles []model.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, NewProfileResponse(p))
	}
	return out
}

type ProfileCheckResponse struct {
	HasProfile bool `json:"has_profile"`
}
