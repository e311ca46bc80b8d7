package planner

import "strings"

const matchPunctuation = "*#_`[]().,-—–"

// NormalizeForMatch приводит текст к виду для подстрочного сравнения:
// markdown-пунктуация заменяется пробелами, пробелы схлопываются, нижний регистр
func NormalizeForMatch(s string) string {
	if s == "" {
		return ""
	}

	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(matchPunctuation, r) {
			sb.WriteRune(' ')
		} else {
			sb.WriteRune(r)
		}
	}

	return strings.ToLower(strings.Join(strings.Fields(sb.String()), " "))
}

// IsPlaceMentioned проверяет, упомянуто ли место (локация или город) в тексте
// маршрута. Сначала точное вхождение, потом по словам, это покрывает
// расхождения вида "Санкт-Петербург" и "Санкт Петербург".
func IsPlaceMentioned(routeText, location, city string) bool {
	if routeText == "" {
		return false
	}

	text := NormalizeForMatch(routeText)

	if containsNormalized(text, location) || containsNormalized(text, city) {
		return true
	}

	if allWordsPresent(text, location) || allWordsPresent(text, city) {
		return true
	}

	return false
}

func containsNormalized(text, s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	n := NormalizeForMatch(s)
	return n != "" && strings.Contains(text, n)
}

func allWordsPresent(text, s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	var words []string
	for _, w := range strings.Fields(NormalizeForMatch(s)) {
		if len([]rune(w)) >= 2 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return false
	}

	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}
