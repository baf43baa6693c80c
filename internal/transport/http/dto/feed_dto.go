package dto

import feedsvc "github.com/romatertia749-eng/StudNet/internal/services/feed"

type PageResponse struct {
	Content       []ProfileResponse `json:"content"`
	TotalElements int               `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
	Size          int               `json:"size"`
	Number        int               `json:"number"`
}

func NewPageResponse(page feedsvc.Page) PageResponse {
	return PageResponse{
		Content:       NewProfileResponses(page.Content),
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Size:          page.Size,
		Number:        page.Number,
	}
}
