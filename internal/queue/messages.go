package queue

import "time"

// События поездки, летят в exchange trip.events
const (
	EventRoutesGenerated    = "trip.routes.generated"
	EventChecklistGenerated = "trip.checklist.generated"
)

// TripEventMessage — событие поездки в очереди
type TripEventMessage struct {
	MessageID  string                 `json:"message_id"`
	Event      string                 `json:"event"`
	TripID     int64                  `json:"trip_id"`
	ActorID    int64                  `json:"actor_id"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
