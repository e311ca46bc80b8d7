package model

import "time"

// CreatePreferenceRequest — новое пожелание
type CreatePreferenceRequest struct {
	Country   string `json:"country" binding:"required"`
	City      string `json:"city" binding:"required"`
	Location  string `json:"location"`
	PlaceType string `json:"place_type"`
	Priority  *int   `json:"priority"`
	Comment   string `json:"comment"`
}

// UpdatePreferenceRequest — частичное обновление пожелания
type UpdatePreferenceRequest struct {
	Country   *string `json:"country"`
	City      *string `json:"city"`
	Location  *string `json:"location"`
	PlaceType *string `json:"place_type"`
	Priority  *int    `json:"priority"`
	Comment   *string `json:"comment"`
}

// CheckDuplicateRequest — мягкая проверка на похожее пожелание
type CheckDuplicateRequest struct {
	Country  string `json:"country" binding:"required"`
	City     string `json:"city" binding:"required"`
	Location string `json:"location"`
}

// DuplicateCheckData — результат проверки
type DuplicateCheckData struct {
	HasSimilar bool             `json:"has_similar"`
	Similar    []PreferenceItem `json:"similar,omitempty"`
}

// ReactionInfo — реакция в составе пожелания
type ReactionInfo struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Emoji    string `json:"emoji"`
}

// SetReactionRequest — поставить или заменить реакцию
type SetReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// PreferenceItem — пожелание в ответах API
type PreferenceItem struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"user_id"`
	Username  string         `json:"username"`
	Country   string         `json:"country"`
	City      string         `json:"city"`
	Location  string         `json:"location,omitempty"`
	PlaceType string         `json:"place_type"`
	Priority  int            `json:"priority"`
	Comment   string         `json:"comment,omitempty"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	Reactions []ReactionInfo `json:"reactions"`
	IsMine    bool           `json:"is_mine"`
	CreatedAt time.Time      `json:"created_at"`
}
