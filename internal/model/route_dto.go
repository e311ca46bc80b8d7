package model

import (
	"time"

	"gorm.io/datatypes"
)

// RouteOptionItem — вариант маршрута с количеством голосов
type RouteOptionItem struct {
	ID           int64          `json:"id"`
	OptionNumber int            `json:"option_number"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Reasoning    string         `json:"reasoning,omitempty"`
	RouteData    datatypes.JSON `json:"route_data,omitempty"`
	VoteCount    int            `json:"vote_count"`
	MyVote       bool           `json:"my_vote"`
	CreatedAt    time.Time      `json:"created_at"`
}

// GenerateRoutesData — ответ на запуск генерации
type GenerateRoutesData struct {
	GenerationStatus string            `json:"generation_status"`
	GenerationCount  int               `json:"generation_count"`
	Degraded         bool              `json:"degraded,omitempty"`
	Routes           []RouteOptionItem `json:"routes"`
}

// VoteRequest — голос за вариант маршрута
type VoteRequest struct {
	RouteOptionID int64 `json:"route_option_id" binding:"required"`
}

// VotingResultItem — строка итогов голосования
type VotingResultItem struct {
	RouteOptionID int64  `json:"route_option_id"`
	OptionNumber  int    `json:"option_number"`
	Title         string `json:"title"`
	VoteCount     int    `json:"vote_count"`
}

// VotingResultsData — итоги голосования; WinnerID пуст, если голосов нет
type VotingResultsData struct {
	Results  []VotingResultItem `json:"results"`
	WinnerID *int64             `json:"winner_id,omitempty"`
}

// MissingPreferenceItem — пожелание, не попавшее в вариант маршрута
type MissingPreferenceItem struct {
	PreferenceID int64  `json:"preference_id"`
	Country      string `json:"country"`
	City         string `json:"city"`
	Location     string `json:"location,omitempty"`
	Username     string `json:"username"`
}

// WhyNotIncludedData — объяснение, почему место не вошло в маршрут
type WhyNotIncludedData struct {
	PreferenceID int64  `json:"preference_id"`
	Explanation  string `json:"explanation"`
}
