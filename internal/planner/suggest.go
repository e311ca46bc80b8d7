package planner

import (
	"encoding/json"
	"strings"

	"TripTogether/internal/model"
)

// BuildPlaceSuggestionsPrompt подставляет страну и город в шаблон подсказок
func BuildPlaceSuggestionsPrompt(country, city string) string {
	prompt := strings.ReplaceAll(PlaceSuggestionsPromptTemplate, "{{country}}", country)
	return strings.ReplaceAll(prompt, "{{city}}", city)
}

const (
	maxSuggestedPlaces = 10
	maxReasonRunes     = 200
)

// ParsePlaceSuggestions разбирает JSON-массив подсказок. Места с неизвестным
// типом отбрасываются, reason обрезается, максимум 10 мест; при невалидном
// JSON возвращается пустой список.
func ParsePlaceSuggestions(content string) []model.SuggestedPlace {
	content = StripCodeFence(content)

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return []model.SuggestedPlace{}
	}

	result := make([]model.SuggestedPlace, 0, len(raw))
	for _, rawItem := range raw {
		// записи разбираются по одной, битая не валит остальные
		var item struct {
			Name      string `json:"name"`
			Title     string `json:"title"`
			PlaceType string `json:"place_type"`
			Reason    string `json:"reason"`
			Why       string `json:"why"`
		}
		if err := json.Unmarshal(rawItem, &item); err != nil {
			continue
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = strings.TrimSpace(item.Title)
		}

		placeType := model.PlaceType(strings.ToLower(strings.TrimSpace(item.PlaceType)))
		if name == "" || !model.ValidPlaceTypes[placeType] {
			continue
		}

		reason := strings.TrimSpace(item.Reason)
		if reason == "" {
			reason = strings.TrimSpace(item.Why)
		}
		reason = truncateRunes(reason, maxReasonRunes)

		result = append(result, model.SuggestedPlace{
			Name:      name,
			PlaceType: string(placeType),
			Reason:    reason,
		})
		if len(result) == maxSuggestedPlaces {
			break
		}
	}

	return result
}
