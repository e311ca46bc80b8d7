package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeForMatch(t *testing.T) {
	assert.Equal(t, "санкт петербург", NormalizeForMatch("**Санкт-Петербург**"))
	assert.Equal(t, "день 1: эрмитаж", NormalizeForMatch("День  1:   Эрмитаж"))
	assert.Equal(t, "", NormalizeForMatch(""))
}

func TestIsPlaceMentioned(t *testing.T) {
	routeText := "День 1: прогулка по Санкт-Петербургу, вечером — Эрмитаж."

	// точное вхождение локации
	assert.True(t, IsPlaceMentioned(routeText, "Эрмитаж", ""))
	// дефис против пробела: совпадение по словам
	assert.True(t, IsPlaceMentioned("Едем в Санкт Петербург", "", "Санкт-Петербург"))
	assert.False(t, IsPlaceMentioned(routeText, "Лувр", "Париж"))
	assert.False(t, IsPlaceMentioned("", "Эрмитаж", "Санкт-Петербург"))
}
