package model

import (
	"time"

	"gorm.io/datatypes"
)

// RouteOption — один вариант маршрута из сгенерированного батча
type RouteOption struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TripID int64 `gorm:"not null;index" json:"trip_id"`

	OptionNumber int    `gorm:"not null" json:"option_number"`
	Title        string `gorm:"type:varchar(255);not null" json:"title"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Reasoning    string `gorm:"type:text" json:"reasoning,omitempty"`

	// структурированный план по дням, опционально
	RouteData datatypes.JSON `gorm:"type:jsonb" json:"route_data,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (RouteOption) TableName() string {
	return "route_options"
}
