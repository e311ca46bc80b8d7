package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRouteResponseTwoOptions(t *testing.T) {
	content := `### Вариант 1: Классический Стамбул
Маршрут:
День 1: Султанахмет, Айя-София
День 2: Гранд-базар и Галата
Обоснование:
Учитывает пожелания по музеям и еде.

### Вариант 2: Босфор и районы
Маршрут:
День 1: Прогулка по Босфору
Обоснование:
Больше прогулок, меньше музеев.`

	routes := ParseRouteResponse(content)
	require.Len(t, routes, 2)

	assert.Equal(t, "Классический Стамбул", routes[0].Title)
	assert.Contains(t, routes[0].Description, "День 1: Султанахмет")
	assert.Contains(t, routes[0].Description, "День 2: Гранд-базар")
	assert.Contains(t, routes[0].Reasoning, "музеям и еде")
	assert.NotContains(t, routes[0].Description, "Босфору")

	assert.Equal(t, "Босфор и районы", routes[1].Title)
	assert.Contains(t, routes[1].Reasoning, "меньше музеев")
}

func TestParseRouteResponseEnglishMarkers(t *testing.T) {
	content := `### Option 1: Coastal loop
Itinerary:
Day 1: Lisbon old town
Day 2: Sintra
Reasoning:
Covers the viewpoint requests.`

	routes := ParseRouteResponse(content)
	require.Len(t, routes, 1)

	assert.Equal(t, "Coastal loop", routes[0].Title)
	assert.Contains(t, routes[0].Description, "Day 1: Lisbon old town")
	assert.Contains(t, routes[0].Reasoning, "viewpoint requests")
}

func TestParseRouteResponseSyntheticTitles(t *testing.T) {
	// заголовки без названий после двоеточия
	content := `### Вариант
Маршрут:
День 1: Казань

### Вариант
Маршрут:
День 1: Свияжск`

	routes := ParseRouteResponse(content)
	require.Len(t, routes, 2)

	assert.Equal(t, "Вариант 1", routes[0].Title)
	assert.Equal(t, "Вариант 2", routes[1].Title)
}

func TestParseRouteResponseTitleFromFirstLine(t *testing.T) {
	// название отдельной строкой после заголовка
	content := `### Вариант 1
Северное кольцо
Маршрут:
День 1: Выборг`

	routes := ParseRouteResponse(content)
	require.Len(t, routes, 1)
	assert.Equal(t, "Северное кольцо", routes[0].Title)
}

func TestParseRouteResponseNoHeadings(t *testing.T) {
	routes := ParseRouteResponse("Просто текст без структуры.\nЕщё строка.")
	assert.Empty(t, routes)

	routes = ParseRouteResponse("")
	assert.Empty(t, routes)
}

func TestParseRoutesWithFallback(t *testing.T) {
	raw := "Свободный текст о маршруте без заголовков."

	outcome := ParseRoutesWithFallback(raw)
	require.Len(t, outcome.Routes, 1)
	assert.True(t, outcome.Degraded)
	assert.Equal(t, "Предложенный маршрут", outcome.Routes[0].Title)
	assert.Equal(t, raw, outcome.Routes[0].Description)
	assert.NotEmpty(t, outcome.Routes[0].Reasoning)

	outcome = ParseRoutesWithFallback("### Вариант 1: Норм\nМаршрут:\nДень 1: тест")
	require.Len(t, outcome.Routes, 1)
	assert.False(t, outcome.Degraded)
	assert.Equal(t, "Норм", outcome.Routes[0].Title)
}

func TestParseRouteResponseMarkerLineGoesToSection(t *testing.T) {
	content := `### Вариант 1: Тест
Маршрут:
День 1: место
Обоснование:
Потому что так.`

	routes := ParseRouteResponse(content)
	require.Len(t, routes, 1)

	// строка-маркер остаётся в начале секции, как и многострочное содержимое
	assert.Contains(t, routes[0].Description, "Маршрут:")
	assert.Contains(t, routes[0].Reasoning, "Обоснование:")
}
