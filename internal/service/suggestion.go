package service

import (
	"context"
	"sync"

	"TripTogether/internal/model"
	"TripTogether/internal/planner"
	"TripTogether/pkg/llm"
)

var (
	suggestionService *SuggestionService
	suggestionOnce    sync.Once
)

func Suggestion() *SuggestionService {
	suggestionOnce.Do(func() {
		suggestionService = NewSuggestionService(llm.GetClient())
	})
	return suggestionService
}

type SuggestionService struct {
	llm llm.Client
}

func NewSuggestionService(client llm.Client) *SuggestionService {
	return &SuggestionService{llm: client}
}

// SuggestPlaces спрашивает у модели популярные места города.
// Невалидный JSON в ответе отдаётся пустым списком, не ошибкой.
func (s *SuggestionService) SuggestPlaces(ctx context.Context, country, city string) ([]model.SuggestedPlace, error) {
	prompt := planner.BuildPlaceSuggestionsPrompt(country, city)

	raw, err := s.llm.Complete(ctx, "", prompt, llm.Options{
		Temperature: 0.7,
		MaxTokens:   1500,
		Kind:        "suggestions",
	})
	if err != nil {
		return nil, mapLLMError(err)
	}

	return planner.ParsePlaceSuggestions(raw), nil
}
