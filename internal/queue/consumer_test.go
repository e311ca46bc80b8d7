package queue

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"TripTogether/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestHandleTripEvent(t *testing.T) {
	msg := TripEventMessage{
		MessageID:  "msg-1",
		Event:      EventRoutesGenerated,
		TripID:     42,
		ActorID:    7,
		Payload:    map[string]interface{}{"routes": 3},
		OccurredAt: time.Now(),
	}
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	assert.NoError(t, handleTripEvent(body))
}

func TestHandleTripEventMalformed(t *testing.T) {
	// битое сообщение выбрасывается без requeue
	assert.NoError(t, handleTripEvent([]byte("{not json")))
}
