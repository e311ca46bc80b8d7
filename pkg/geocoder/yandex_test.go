package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestYandex(t *testing.T, handler http.HandlerFunc) *YandexClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &YandexClient{
		apiKey:     "test-key",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
	}
}

func TestYandexGeocode(t *testing.T) {
	var gotQuery string
	client := newTestYandex(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("geocode")
		_, _ = w.Write([]byte(`{"response": {"GeoObjectCollection": {"featureMember": [
			{"GeoObject": {"Point": {"pos": "30.314997 59.938784"}}}
		]}}}`))
	})

	coords, err := client.Geocode(context.Background(), "Санкт-Петербург, Эрмитаж")
	require.NoError(t, err)
	require.NotNil(t, coords)

	// pos приходит в порядке "долгота широта"
	assert.InDelta(t, 59.938784, coords.Latitude, 1e-9)
	assert.InDelta(t, 30.314997, coords.Longitude, 1e-9)
	assert.Equal(t, "Санкт-Петербург, Эрмитаж", gotQuery)
}

func TestYandexGeocodeNotFound(t *testing.T) {
	client := newTestYandex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"GeoObjectCollection": {"featureMember": []}}}`))
	})

	coords, err := client.Geocode(context.Background(), "несуществующее место")
	require.NoError(t, err)
	assert.Nil(t, coords)
}

func TestYandexGeocodeEmptyAddress(t *testing.T) {
	client := newTestYandex(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be made for empty address")
	})

	coords, err := client.Geocode(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, coords)
}

func TestYandexGeocodeHTTPError(t *testing.T) {
	client := newTestYandex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.Geocode(context.Background(), "Казань")
	assert.Error(t, err)
}

func TestYandexGeocodeBadPos(t *testing.T) {
	client := newTestYandex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"GeoObjectCollection": {"featureMember": [
			{"GeoObject": {"Point": {"pos": "мусор"}}}
		]}}}`))
	})

	coords, err := client.Geocode(context.Background(), "Казань")
	require.NoError(t, err)
	assert.Nil(t, coords)
}
