package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TripTogether/pkg/logger"
	"TripTogether/pkg/metrics"
	"TripTogether/storage/mq"
)

// PublishTripEvent публикует событие поездки. Ошибки публикации логируются
// и не возвращаются: событие вспомогательное, API-запрос из-за него не падает.
func PublishTripEvent(ctx context.Context, event string, tripID, actorID int64, payload map[string]interface{}) {
	msg := TripEventMessage{
		MessageID:  uuid.NewString(),
		Event:      event,
		TripID:     tripID,
		ActorID:    actorID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}

	if err := mq.PublishMessage(ctx, mq.TripEventsExchange, event, msg); err != nil {
		logger.Logger.Warn("Failed to publish trip event",
			zap.String("event", event),
			zap.Int64("trip_id", tripID),
			zap.Error(err),
		)
		return
	}

	metrics.GetMetrics().RecordTripEventPublished(ctx, event)
}
