package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"TripTogether/pkg/logger"
	"TripTogether/storage/database"
	"TripTogether/storage/mq"
	"TripTogether/storage/redis"
)

// Close аккуратно закрывает все подключения.
// Порядок: MQ -> Redis -> Database. Сначала перестаём принимать сообщения,
// базу закрываем последней, чтобы успели завершиться записи.
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Logger.Info("Closing storage connections...")

	if err := mq.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close message queue", zap.Error(err))
	} else {
		logger.Logger.Info("Message queue closed successfully")
	}

	if err := redis.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close Redis connection", zap.Error(err))
	} else {
		logger.Logger.Info("Redis connection closed successfully")
	}

	if err := database.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close database connection", zap.Error(err))
	} else {
		logger.Logger.Info("Database connection closed successfully")
	}

	logger.Logger.Info("All storage connections closed")
}
