package model

import "time"

// CreateTripRequest — создание поездки, даты в формате 2006-01-02
type CreateTripRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

// UpdateTripRequest — частичное обновление, nil-поля не трогаем
type UpdateTripRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// JoinTripRequest — вступление по коду приглашения
type JoinTripRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// ParticipantInfo — участник поездки в ответах API
type ParticipantInfo struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// TripListItem — поездка в списке "мои поездки"
type TripListItem struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	GenerationStatus string    `json:"generation_status"`
	ParticipantCount int       `json:"participant_count"`
	IsOrganizer      bool      `json:"is_organizer"`
	CreatedAt        time.Time `json:"created_at"`
}

// TripDetail — детальная карточка поездки
type TripDetail struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	StartDate        string            `json:"start_date"`
	EndDate          string            `json:"end_date"`
	InviteCode       string            `json:"invite_code"`
	GenerationStatus string            `json:"generation_status"`
	GenerationCount  int               `json:"generation_count"`
	IsOrganizer      bool              `json:"is_organizer"`
	Participants     []ParticipantInfo `json:"participants"`
	CreatedAt        time.Time         `json:"created_at"`
}
