package geocoder

import (
	"context"
	"sync"

	"TripTogether/config"
	"TripTogether/pkg/logger"

	"go.uber.org/zap"
)

// Coordinates — точка в градусах WGS84
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Client — геокодер адресов. Возвращает nil без ошибки, когда адрес
// не найден: геокодирование для пожеланий необязательно.
type Client interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

var (
	geoClient Client
	geoOnce   sync.Once
)

// Init инициализирует геокодер. Без API-ключа подставляется заглушка,
// пожелания сохраняются без координат.
func Init() {
	geoOnce.Do(func() {
		cfg := config.Cfg

		if cfg.YandexAPIKey == "" {
			geoClient = &disabledClient{}
			logger.Logger.Warn("Geocoder disabled: YANDEX_API_KEY is not set")
			return
		}

		geoClient = NewYandexClient()
		logger.Logger.Info("Geocoder initialized successfully",
			zap.String("provider", "yandex"),
		)
	})
}

func GetClient() Client {
	if geoClient == nil {
		panic("geocoder not initialized, call geocoder.Init() first")
	}
	return geoClient
}

// SetClient подменяет геокодер, нужно тестам сервисного слоя
func SetClient(c Client) {
	geoOnce.Do(func() {})
	geoClient = c
}

type disabledClient struct{}

func (d *disabledClient) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	return nil, nil
}
