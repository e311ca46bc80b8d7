package database

import (
	"TripTogether/internal/model"
)

// Migrate прогоняет AutoMigrate по всем моделям.
// Порядок важен: сначала таблицы без внешних ссылок.
func Migrate() error {
	return db.AutoMigrate(
		&model.User{},
		&model.Trip{},
		&model.TripParticipant{},
		&model.PlacePreference{},
		&model.Reaction{},
		&model.RouteOption{},
		&model.Vote{},
		&model.TripChecklist{},
	)
}
