package planner

import (
	"fmt"
	"strings"
)

// ParsedRoute — один вариант маршрута из ответа модели
type ParsedRoute struct {
	Title       string
	Description string
	Reasoning   string
}

// ParseOutcome — результат разбора ответа; Degraded выставлен, когда
// заголовки вариантов не нашлись и весь текст упакован в один маршрут
type ParseOutcome struct {
	Routes   []ParsedRoute
	Degraded bool
}

type section int

const (
	sectionTitle section = iota
	sectionDescription
	sectionReasoning
)

// ParseRouteResponse разбирает текстовый ответ модели на варианты маршрута.
// Вариант начинается с "### Вариант" или "### Option"; строки с "Маршрут:",
// "Itinerary:", "День", "Day " идут в описание, с "Обоснование:", "Reasoning:",
// "Почему" — в обоснование. Без заголовков возвращает пустой срез, не ошибку.
func ParseRouteResponse(content string) []ParsedRoute {
	var routes []ParsedRoute
	var current *ParsedRoute
	var descBuf, reasonBuf strings.Builder
	currentSection := sectionTitle

	flush := func() {
		if current == nil {
			return
		}
		current.Description = strings.TrimSpace(descBuf.String())
		current.Reasoning = strings.TrimSpace(reasonBuf.String())
		routes = append(routes, *current)
		descBuf.Reset()
		reasonBuf.Reset()
	}

	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)

		if strings.HasPrefix(line, "### Вариант") || strings.HasPrefix(line, "### Option") {
			flush()
			current = &ParsedRoute{}
			currentSection = sectionTitle
			// название после первого двоеточия, если есть
			if idx := strings.Index(line, ":"); idx >= 0 {
				current.Title = strings.TrimSpace(line[idx+1:])
			}
			continue
		}

		if current == nil {
			continue
		}

		switch {
		case strings.Contains(line, "Маршрут:") || strings.Contains(line, "Itinerary:") ||
			strings.Contains(line, "День") || strings.Contains(line, "Day "):
			currentSection = sectionDescription
		case strings.Contains(line, "Обоснование:") || strings.Contains(line, "Reasoning:") ||
			strings.Contains(line, "Почему"):
			currentSection = sectionReasoning
		}

		switch currentSection {
		case sectionDescription:
			descBuf.WriteString(line)
			descBuf.WriteString("\n")
		case sectionReasoning:
			reasonBuf.WriteString(line)
			reasonBuf.WriteString("\n")
		case sectionTitle:
			if current.Title == "" && line != "" {
				current.Title = line
			}
		}
	}

	flush()

	for i := range routes {
		if routes[i].Title == "" {
			routes[i].Title = fmt.Sprintf("Вариант %d", i+1)
		}
	}

	return routes
}

// ParseRoutesWithFallback оборачивает разбор: если заголовков не нашлось,
// весь ответ становится единственным вариантом и результат помечается Degraded
func ParseRoutesWithFallback(content string) ParseOutcome {
	routes := ParseRouteResponse(content)
	if len(routes) > 0 {
		return ParseOutcome{Routes: routes}
	}

	return ParseOutcome{
		Routes: []ParsedRoute{{
			Title:       "Предложенный маршрут",
			Description: content,
			Reasoning:   "Маршрут сгенерирован на основе ваших пожеланий.",
		}},
		Degraded: true,
	}
}
