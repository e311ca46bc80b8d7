package geocoder

import (
	"context"
	"sync"
)

// MockClient — настраиваемый геокодер для тестов, реализует Client
type MockClient struct {
	mu    sync.Mutex
	Calls []string

	// Results отдаёт координаты по адресу; отсутствие ключа — "не найдено"
	Results map[string]Coordinates

	// NextErr возвращается на следующий вызов и сбрасывается
	NextErr error
}

func NewMockClient() *MockClient {
	return &MockClient{
		Results: make(map[string]Coordinates),
	}
}

func (m *MockClient) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, address)

	if m.NextErr != nil {
		err := m.NextErr
		m.NextErr = nil
		return nil, err
	}

	if coords, ok := m.Results[address]; ok {
		c := coords
		return &c, nil
	}
	return nil, nil
}
