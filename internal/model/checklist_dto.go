package model

import "time"

// ChecklistData — чек-лист поездки; Content null, пока не сгенерирован
type ChecklistData struct {
	Content   *ChecklistContent `json:"content"`
	CreatedAt *time.Time        `json:"created_at,omitempty"`
}

// SuggestPlacesRequest — подсказки мест для города
type SuggestPlacesRequest struct {
	Country string `json:"country" binding:"required"`
	City    string `json:"city" binding:"required"`
}

// SuggestedPlace — одно предложенное место
type SuggestedPlace struct {
	Name      string `json:"name"`
	PlaceType string `json:"place_type"`
	Reason    string `json:"reason,omitempty"`
}
