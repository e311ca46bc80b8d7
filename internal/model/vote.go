package model

import "time"

// Vote — голос участника за вариант маршрута, один на пару (user, route_option)
type Vote struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TripID        int64     `gorm:"not null;index" json:"trip_id"`
	UserID        int64     `gorm:"not null;uniqueIndex:idx_user_route" json:"user_id"`
	RouteOptionID int64     `gorm:"not null;uniqueIndex:idx_user_route" json:"route_option_id"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (Vote) TableName() string {
	return "votes"
}
