package planner

import (
	"fmt"
	"strings"
	"time"
)

// TripInfo — данные поездки для построения промптов
type TripInfo struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// DurationDays — длительность поездки, обе даты включительно
func (t TripInfo) DurationDays() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

// Preference — пожелание участника в том виде, в котором оно попадает в промпт
type Preference struct {
	Country   string
	City      string
	Location  string
	PlaceType string
	Priority  int
	Comment   string
	Username  string
}

const dateLayout = "2006-01-02"

// BuildRoutePrompt собирает пользовательский промпт генерации маршрутов.
// Детерминированный: одинаковый вход даёт одинаковый текст.
func BuildRoutePrompt(trip TripInfo, prefs []Preference) string {
	var sb strings.Builder

	sb.WriteString("## Trip Information\n")
	sb.WriteString(fmt.Sprintf("- Title: %s\n", trip.Title))

	if trip.Description != "" {
		sb.WriteString(fmt.Sprintf("- Description: %s\n", trip.Description))
	}

	sb.WriteString(fmt.Sprintf("- Start Date: %s\n", trip.StartDate.Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("- End Date: %s\n", trip.EndDate.Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("- Duration: %d days\n", trip.DurationDays()))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("## Participant Preferences (%d total)\n", len(prefs)))
	sb.WriteString("\n")

	for _, pref := range prefs {
		locationStr := ""
		if pref.Location != "" {
			locationStr = ", " + pref.Location
		}
		commentStr := ""
		if pref.Comment != "" {
			commentStr = fmt.Sprintf(" - %q", pref.Comment)
		}
		sb.WriteString(fmt.Sprintf(
			"- %s, %s%s [%s] Priority: %d/5 (by %s)%s\n",
			pref.City,
			pref.Country,
			locationStr,
			pref.PlaceType,
			pref.Priority,
			pref.Username,
			commentStr,
		))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// BuildWhyNotIncludedPrompt — вопрос "почему место не вошло в маршрут"
func BuildWhyNotIncludedPrompt(routeTitle, routeDescription, placeName, country, city string, priority int, comment string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Маршрут: «%s»\n", routeTitle))
	sb.WriteString("Описание маршрута:\n")
	sb.WriteString(truncateRunes(routeDescription, 2000))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Место из пожеланий: %s (%s, %s), приоритет %d/5.\n", placeName, city, country, priority))
	if comment != "" {
		sb.WriteString(fmt.Sprintf("Комментарий участника: %q\n", comment))
	}
	sb.WriteString("Почему это место не вошло в маршрут?")

	return sb.String()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
