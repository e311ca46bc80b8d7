package llm

import (
	"context"
	"sync"
)

type MockCall struct {
	System string
	User   string
	Opts   Options
}

// MockClient — настраиваемый клиент LLM для тестов, реализует Client
type MockClient struct {
	mu    sync.Mutex
	Calls []MockCall

	// Responses отдаются по очереди; после исчерпания возвращается последний
	Responses []string

	// NextErr возвращается на следующий вызов и сбрасывается
	NextErr error

	next int
}

func NewMockClient(responses ...string) *MockClient {
	return &MockClient{
		Calls:     make([]MockCall, 0),
		Responses: responses,
	}
}

func (m *MockClient) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{System: system, User: user, Opts: opts})

	if m.NextErr != nil {
		err := m.NextErr
		m.NextErr = nil
		return "", err
	}

	if len(m.Responses) == 0 {
		return "", ErrProvider
	}
	if m.next >= len(m.Responses) {
		return m.Responses[len(m.Responses)-1], nil
	}
	resp := m.Responses[m.next]
	m.next++
	return resp, nil
}

// FailNext настраивает возврат ошибки на следующий вызов
func (m *MockClient) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NextErr = err
}
