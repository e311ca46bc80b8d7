package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"TripTogether/internal/model"
)

// BuildPackingPrompt собирает промпт чек-листа по победившему маршруту.
// placesFromRoute — строка вида "Россия: Казань, Москва; Турция: Стамбул".
func BuildPackingPrompt(trip TripInfo, winnerTitle, winnerDescription, placesFromRoute string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Поездка: %s\n", trip.Title))
	sb.WriteString(fmt.Sprintf("Даты: %s — %s, %d дн.\n",
		trip.StartDate.Format(dateLayout),
		trip.EndDate.Format(dateLayout),
		trip.DurationDays(),
	))
	if trip.Description != "" {
		sb.WriteString(fmt.Sprintf("Описание поездки: %s\n", trip.Description))
	}
	if placesFromRoute != "" {
		sb.WriteString(fmt.Sprintf("Страны и города маршрута (из пожеланий участников): %s\n", placesFromRoute))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Выбранный маршрут (набрал больше всего голосов): «%s»\n", winnerTitle))
	sb.WriteString("Описание маршрута:\n")
	sb.WriteString(truncateRunes(winnerDescription, 2000))

	return sb.String()
}

const maxItemsPerCategory = 15

// ParsePackingResponse разбирает JSON-ответ чек-листа. Код-фенсы срезаются,
// битые категории пропускаются, при невалидном JSON возвращается пустой
// список категорий, не ошибка.
func ParsePackingResponse(content string) model.ChecklistContent {
	content = StripCodeFence(content)

	var raw struct {
		Categories []json.RawMessage `json:"categories"`
	}

	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return model.ChecklistContent{Categories: []model.ChecklistCategory{}}
	}

	result := model.ChecklistContent{Categories: []model.ChecklistCategory{}}
	for _, rawCategory := range raw.Categories {
		// категории разбираются по одной, битая не валит остальные
		var c struct {
			Name  string        `json:"name"`
			Items []interface{} `json:"items"`
		}
		if err := json.Unmarshal(rawCategory, &c); err != nil {
			continue
		}

		name := strings.TrimSpace(c.Name)
		if name == "" || c.Items == nil {
			continue
		}

		items := make([]string, 0, len(c.Items))
		for _, it := range c.Items {
			if it == nil {
				continue
			}
			s := strings.TrimSpace(fmt.Sprintf("%v", it))
			if s == "" {
				continue
			}
			items = append(items, s)
			if len(items) == maxItemsPerCategory {
				break
			}
		}

		result.Categories = append(result.Categories, model.ChecklistCategory{
			Name:  name,
			Items: items,
		})
	}

	return result
}

// StripCodeFence срезает обрамляющие ``` из ответа модели
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		} else {
			content = content[3:]
		}
	}
	if strings.HasSuffix(content, "```") {
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
