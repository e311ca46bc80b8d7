package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/llm"
)

func TestSuggestPlaces(t *testing.T) {
	mock := llm.NewMockClient(`[
		{"name": "Лувр", "place_type": "museum", "reason": "Главный музей города"},
		{"name": "Монмартр", "place_type": "district", "reason": "Атмосферный холм художников"},
		{"name": "Нечто странное", "place_type": "castle", "reason": "Неизвестный тип отбрасывается"}
	]`)
	svc := NewSuggestionService(mock)

	places, err := svc.SuggestPlaces(context.Background(), "Франция", "Париж")
	require.NoError(t, err)

	require.Len(t, places, 2)
	assert.Equal(t, "Лувр", places[0].Name)
	assert.Equal(t, "museum", places[0].PlaceType)
	assert.Equal(t, "Монмартр", places[1].Name)

	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "suggestions", mock.Calls[0].Opts.Kind)
	assert.Contains(t, mock.Calls[0].User, "Париж")
	assert.Empty(t, mock.Calls[0].System)
}

func TestSuggestPlacesMalformedResponse(t *testing.T) {
	mock := llm.NewMockClient("простите, я не умею в JSON")
	svc := NewSuggestionService(mock)

	places, err := svc.SuggestPlaces(context.Background(), "Франция", "Париж")
	require.NoError(t, err)
	assert.Empty(t, places)
	assert.NotNil(t, places)
}

func TestSuggestPlacesProviderError(t *testing.T) {
	mock := llm.NewMockClient()
	mock.FailNext(llm.ErrRateLimited)
	svc := NewSuggestionService(mock)

	_, err := svc.SuggestPlaces(context.Background(), "Франция", "Париж")
	assert.ErrorIs(t, err, pkgerrors.LLMRateLimited)
}
