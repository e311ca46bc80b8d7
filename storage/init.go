package storage

import (
	"TripTogether/storage/database"
	"TripTogether/storage/mq"
	"TripTogether/storage/redis"
)

// Единая точка инициализации storage-слоя

func Init() error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		return err
	}

	if err := mq.Init(); err != nil {
		return err
	}

	return nil
}
