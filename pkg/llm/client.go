package llm

import (
	"context"
	"errors"
	"sync"

	"TripTogether/config"
	"TripTogether/pkg/logger"

	"go.uber.org/zap"
)

// Ошибки провайдера. Сервисный слой переводит их в доменные коды ответа.
var (
	ErrNotConfigured = errors.New("llm provider is not configured")
	ErrRateLimited   = errors.New("llm provider rate limit exceeded")
	ErrAuthFailed    = errors.New("llm provider authentication failed")
	ErrProvider      = errors.New("llm provider error")
)

// Options — параметры одного запроса к модели. Kind попадает в метрики
// как llm.request.kind (routes, checklist, suggestions, explain).
type Options struct {
	Temperature float64
	MaxTokens   int
	Kind        string
}

// Client — клиент чат-модели. Единственная операция: системный промпт
// плюс пользовательский промпт, на выходе сырой текст ответа.
type Client interface {
	Complete(ctx context.Context, system, user string, opts Options) (string, error)
}

var (
	llmClient Client
	llmOnce   sync.Once
)

// Init инициализирует клиент LLM. Без API-ключа подставляется заглушка,
// которая возвращает ErrNotConfigured: приложение поднимается, а генерация
// отвечает осмысленной ошибкой.
func Init() {
	llmOnce.Do(func() {
		cfg := config.Cfg

		if cfg.DeepSeekAPIKey == "" {
			llmClient = &disabledClient{}
			logger.Logger.Warn("LLM client disabled: DEEPSEEK_API_KEY is not set")
			return
		}

		llmClient = NewDeepSeekClient()
		logger.Logger.Info("LLM client initialized successfully",
			zap.String("base_url", cfg.DeepSeekBaseURL),
			zap.String("model", cfg.DeepSeekModel),
		)
	})
}

func GetClient() Client {
	if llmClient == nil {
		panic("LLM client not initialized, call llm.Init() first")
	}
	return llmClient
}

// SetClient подменяет клиент, нужно тестам сервисного слоя
func SetClient(c Client) {
	llmOnce.Do(func() {})
	llmClient = c
}

type disabledClient struct{}

func (d *disabledClient) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	return "", ErrNotConfigured
}
