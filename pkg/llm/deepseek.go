package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"TripTogether/config"
	"TripTogether/pkg/logger"
	"TripTogether/pkg/metrics"

	"go.uber.org/zap"
)

// DeepSeekClient ходит в chat-completions API DeepSeek (OpenAI-совместимый)
type DeepSeekClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewDeepSeekClient() *DeepSeekClient {
	cfg := config.Cfg

	return &DeepSeekClient{
		baseURL: strings.TrimSuffix(cfg.DeepSeekBaseURL, "/"),
		apiKey:  cfg.DeepSeekAPIKey,
		model:   cfg.DeepSeekModel,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.DeepSeekTimeoutSeconds) * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *DeepSeekClient) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	kind := opts.Kind
	if kind == "" {
		kind = "chat"
	}

	m := metrics.GetMetrics()
	m.AddLLMActiveRequest(ctx)
	defer m.SubtractLLMActiveRequest(ctx)

	start := time.Now()
	content, err := c.doComplete(ctx, system, user, opts)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = classifyStatus(err)
	}
	m.RecordLLMRequest(ctx, kind, status, duration)

	if err != nil {
		logger.Logger.Error("LLM request failed",
			zap.String("kind", kind),
			zap.Float64("duration_seconds", duration),
			zap.Error(err),
		)
		return "", err
	}

	logger.Logger.Info("LLM request completed",
		zap.String("kind", kind),
		zap.Float64("duration_seconds", duration),
		zap.Int("response_chars", len(content)),
	)
	return content, nil
}

func (c *DeepSeekClient) doComplete(ctx context.Context, system, user string, opts Options) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	payload := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek request: %w", err)
	}
	defer resp.Body.Close()

	// тело ограничено: ответ модели и так лимитирован max_tokens
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("deepseek error: %s: %w", parsed.Error.Message, classifyErrorCode(parsed.Error.Code, parsed.Error.Type))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("deepseek returned no choices: %w", ErrProvider)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("deepseek returned empty content: %w", ErrProvider)
	}
	return content, nil
}

func classifyHTTPError(status int, body []byte) error {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 300 {
		snippet = snippet[:300]
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("deepseek http %d: %s: %w", status, snippet, ErrRateLimited)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("deepseek http %d: %s: %w", status, snippet, ErrAuthFailed)
	case strings.Contains(snippet, "insufficient_quota"):
		return fmt.Errorf("deepseek http %d: %s: %w", status, snippet, ErrRateLimited)
	case strings.Contains(snippet, "invalid_api_key"):
		return fmt.Errorf("deepseek http %d: %s: %w", status, snippet, ErrAuthFailed)
	default:
		return fmt.Errorf("deepseek http %d: %s: %w", status, snippet, ErrProvider)
	}
}

func classifyErrorCode(code, errType string) error {
	switch {
	case code == "insufficient_quota" || errType == "insufficient_quota":
		return ErrRateLimited
	case code == "invalid_api_key" || errType == "authentication_error":
		return ErrAuthFailed
	default:
		return ErrProvider
	}
}

func classifyStatus(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrAuthFailed):
		return "auth_failed"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	default:
		return "error"
	}
}
