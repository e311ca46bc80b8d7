package model

import "time"

// PlaceType — тип места в пожелании
type PlaceType string

const (
	PlaceTypeMuseum    PlaceType = "museum"
	PlaceTypePark      PlaceType = "park"
	PlaceTypeViewpoint PlaceType = "viewpoint"
	PlaceTypeFood      PlaceType = "food"
	PlaceTypeActivity  PlaceType = "activity"
	PlaceTypeDistrict  PlaceType = "district"
	PlaceTypeOther     PlaceType = "other"
)

// ValidPlaceTypes — допустимые значения для валидации запросов
var ValidPlaceTypes = map[PlaceType]bool{
	PlaceTypeMuseum:    true,
	PlaceTypePark:      true,
	PlaceTypeViewpoint: true,
	PlaceTypeFood:      true,
	PlaceTypeActivity:  true,
	PlaceTypeDistrict:  true,
	PlaceTypeOther:     true,
}

// PlacePreference — пожелание участника по месту
type PlacePreference struct {
	BaseModel
	TripID int64 `gorm:"not null;index" json:"trip_id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	Country  string `gorm:"type:varchar(100);not null" json:"country"`
	City     string `gorm:"type:varchar(100);not null" json:"city"`
	Location string `gorm:"type:varchar(255)" json:"location,omitempty"`

	PlaceType PlaceType `gorm:"type:varchar(16);not null;default:'other'" json:"place_type"`
	Priority  int       `gorm:"not null;default:3" json:"priority"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`

	// координаты заполняются геокодером, best-effort
	Latitude  *float64 `gorm:"type:double precision" json:"latitude,omitempty"`
	Longitude *float64 `gorm:"type:double precision" json:"longitude,omitempty"`
}

func (PlacePreference) TableName() string {
	return "place_preferences"
}

// Reaction — эмодзи-реакция на пожелание, одна на пользователя
type Reaction struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PreferenceID int64     `gorm:"not null;uniqueIndex:idx_preference_user" json:"preference_id"`
	UserID       int64     `gorm:"not null;uniqueIndex:idx_preference_user" json:"user_id"`
	Emoji        string    `gorm:"type:varchar(10);not null" json:"emoji"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}
