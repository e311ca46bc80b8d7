package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"TripTogether/config"
	"TripTogether/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *DeepSeekClient {
	t.Helper()

	logger.Logger = zap.NewNop()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prev := config.Cfg
	config.Cfg.DeepSeekAPIKey = "test-key"
	config.Cfg.DeepSeekBaseURL = srv.URL
	config.Cfg.DeepSeekModel = "deepseek-chat"
	config.Cfg.DeepSeekTimeoutSeconds = 5
	t.Cleanup(func() { config.Cfg = prev })

	return NewDeepSeekClient()
}

func TestDeepSeekComplete(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "  ### Вариант 1: Тест\n"}}]}`))
	})

	content, err := client.Complete(context.Background(), "system prompt", "user prompt", Options{Kind: "routes"})
	require.NoError(t, err)

	assert.Equal(t, "### Вариант 1: Тест", content)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/chat/completions", gotPath)
}

func TestDeepSeekCompleteRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit"}}`))
	})

	_, err := client.Complete(context.Background(), "s", "u", Options{})
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestDeepSeekCompleteAuthFailed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key"}}`))
	})

	_, err := client.Complete(context.Background(), "s", "u", Options{})
	assert.True(t, errors.Is(err, ErrAuthFailed))
}

func TestDeepSeekCompleteQuotaAsRateLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error": {"code": "insufficient_quota"}}`))
	})

	_, err := client.Complete(context.Background(), "s", "u", Options{})
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestDeepSeekCompleteProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	})

	_, err := client.Complete(context.Background(), "s", "u", Options{})
	assert.True(t, errors.Is(err, ErrProvider))
}

func TestDeepSeekCompleteEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := client.Complete(context.Background(), "s", "u", Options{})
	assert.True(t, errors.Is(err, ErrProvider))
}

func TestDisabledClient(t *testing.T) {
	c := &disabledClient{}
	_, err := c.Complete(context.Background(), "s", "u", Options{})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
