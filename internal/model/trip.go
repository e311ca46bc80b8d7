package model

import (
	"crypto/rand"
	"math/big"
	"time"
)

// GenerationStatus — статус генерации маршрутов поездки
type GenerationStatus string

const (
	GenerationStatusIdle       GenerationStatus = "idle"
	GenerationStatusInProgress GenerationStatus = "in_progress"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// ParticipantRole — роль участника поездки
type ParticipantRole string

const (
	RoleOrganizer   ParticipantRole = "organizer"
	RoleParticipant ParticipantRole = "participant"
)

// Trip — поездка
type Trip struct {
	BaseModel
	PublicID    int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	InviteCode string `gorm:"uniqueIndex;type:varchar(20);not null" json:"invite_code"`

	GenerationStatus GenerationStatus `gorm:"type:varchar(16);not null;default:'idle'" json:"generation_status"`
	GenerationCount  int              `gorm:"not null;default:0" json:"generation_count"`

	CreatedByID int64 `gorm:"not null;index" json:"created_by_id"`
}

func (Trip) TableName() string {
	return "trips"
}

// DurationDays — длительность поездки в днях, обе даты включительно
func (t *Trip) DurationDays() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

// GenerateInviteCode возвращает случайный 8-символьный код приглашения
func GenerateInviteCode() (string, error) {
	code := make([]byte, 8)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// TripParticipant — участие пользователя в поездке
type TripParticipant struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TripID   int64           `gorm:"not null;uniqueIndex:idx_trip_user" json:"trip_id"`
	UserID   int64           `gorm:"not null;uniqueIndex:idx_trip_user" json:"user_id"`
	Role     ParticipantRole `gorm:"type:varchar(16);not null;default:'participant'" json:"role"`
	JoinedAt time.Time       `gorm:"not null" json:"joined_at"`
}

func (TripParticipant) TableName() string {
	return "trip_participants"
}
