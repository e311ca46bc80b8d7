package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"TripTogether/internal/cache"
	"TripTogether/pkg/logger"
	"TripTogether/pkg/metrics"
	"TripTogether/storage/mq"
)

const (
	consumerTag  = "trip-events-worker"
	dedupeTTL    = 24 * time.Hour
	prefetchSize = 10
)

// RunWorker слушает очередь событий поездок и блокируется до отмены контекста
func RunWorker(ctx context.Context) error {
	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.TripEventsQueue,
		ConsumerTag:   consumerTag,
		PrefetchCount: prefetchSize,
		Handler:       handleTripEvent,
	})
}

func handleTripEvent(body []byte) error {
	ctx := context.Background()

	var msg TripEventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// сообщение не наше, переповтор не поможет
		logger.Logger.Error("Failed to decode trip event, dropping", zap.Error(err))
		metrics.GetMetrics().RecordTripEventConsumed(ctx, "unknown", "malformed")
		return nil
	}

	// at-least-once доставка, дедупликация по message_id
	if msg.MessageID != "" {
		acquired, err := cache.TryLock(ctx, "event:"+msg.MessageID, dedupeTTL)
		if err != nil {
			return fmt.Errorf("dedupe lock: %w", err)
		}
		if !acquired {
			logger.Logger.Debug("Duplicate trip event skipped",
				zap.String("message_id", msg.MessageID),
				zap.String("event", msg.Event),
			)
			metrics.GetMetrics().RecordTripEventConsumed(ctx, msg.Event, "duplicate")
			return nil
		}
	}

	logger.Logger.Info("Trip event processed",
		zap.String("event", msg.Event),
		zap.Int64("trip_id", msg.TripID),
		zap.Int64("actor_id", msg.ActorID),
		zap.Time("occurred_at", msg.OccurredAt),
	)
	metrics.GetMetrics().RecordTripEventConsumed(ctx, msg.Event, "success")

	return nil
}
