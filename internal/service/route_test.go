package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripTogether/config"
	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/llm"
)

const twoRoutesResponse = `### Вариант 1: Классический Париж
Маршрут:
День 1: Лувр и набережные Сены
День 2: Монмартр и Сакре-Кёр
Обоснование:
Покрывает музеи с высоким приоритетом

### Вариант 2: Гастрономический тур
Маршрут:
День 1: рынок Муфтар и дегустации
Обоснование:
Для любителей еды`

func newRouteEnv(t *testing.T) (*RouteService, *llm.MockClient, *model.User, *model.Trip) {
	t.Helper()

	db := newTestDB(t)
	mock := llm.NewMockClient(twoRoutesResponse)
	svc := NewRouteService(db, mock)

	user := seedUser(t, db, "organizer")
	trip := seedTrip(t, db, user)
	seedPreference(t, db, trip, user, "Франция", "Париж", "Лувр")
	return svc, mock, user, trip
}

func TestGenerateRoutes(t *testing.T) {
	svc, mock, user, trip := newRouteEnv(t)
	ctx := context.Background()

	data, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	assert.Equal(t, string(model.GenerationStatusCompleted), data.GenerationStatus)
	assert.Equal(t, 1, data.GenerationCount)
	assert.False(t, data.Degraded)
	require.Len(t, data.Routes, 2)
	assert.Equal(t, 1, data.Routes[0].OptionNumber)
	assert.Equal(t, "Классический Париж", data.Routes[0].Title)
	assert.Contains(t, data.Routes[0].Description, "Лувр")
	assert.Contains(t, data.Routes[0].Reasoning, "приоритетом")
	assert.Equal(t, 2, data.Routes[1].OptionNumber)
	assert.Equal(t, "Гастрономический тур", data.Routes[1].Title)

	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "routes", mock.Calls[0].Opts.Kind)
	assert.Contains(t, mock.Calls[0].User, "Лувр")
}

func TestRegenerateReplacesBatchAndClearsVotes(t *testing.T) {
	svc, _, user, trip := newRouteEnv(t)
	ctx := context.Background()

	first, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	require.NoError(t, svc.db.Create(&model.Vote{
		TripID:        trip.ID,
		UserID:        user.ID,
		RouteOptionID: first.Routes[0].ID,
	}).Error)

	second, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	assert.Equal(t, 2, second.GenerationCount)

	// старый батч заменён, голоса по нему не переживают регенерацию
	var routeCount, voteCount int64
	require.NoError(t, svc.db.Model(&model.RouteOption{}).Where("trip_id = ?", trip.ID).Count(&routeCount).Error)
	require.NoError(t, svc.db.Model(&model.Vote{}).Where("trip_id = ?", trip.ID).Count(&voteCount).Error)
	assert.EqualValues(t, 2, routeCount)
	assert.Zero(t, voteCount)
}

func TestGenerateRoutesDegraded(t *testing.T) {
	db := newTestDB(t)
	mock := llm.NewMockClient("Поезжайте в Париж, там хорошо в любое время года.")
	svc := NewRouteService(db, mock)

	user := seedUser(t, db, "organizer")
	trip := seedTrip(t, db, user)
	seedPreference(t, db, trip, user, "Франция", "Париж", "")

	data, err := svc.Generate(context.Background(), publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	// без заголовков вариантов весь ответ становится единственным маршрутом
	assert.True(t, data.Degraded)
	assert.Equal(t, string(model.GenerationStatusCompleted), data.GenerationStatus)
	require.Len(t, data.Routes, 1)
	assert.Contains(t, data.Routes[0].Description, "Париж")
}

func TestGenerateRoutesNoPreferences(t *testing.T) {
	db := newTestDB(t)
	mock := llm.NewMockClient(twoRoutesResponse)
	svc := NewRouteService(db, mock)

	user := seedUser(t, db, "organizer")
	trip := seedTrip(t, db, user)

	_, err := svc.Generate(context.Background(), publicID(user), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.NoPreferences)
	assert.Empty(t, mock.Calls)
}

func TestGenerateFailureKeepsBatchAndCount(t *testing.T) {
	svc, mock, user, trip := newRouteEnv(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	mock.FailNext(llm.ErrRateLimited)
	_, err = svc.Generate(ctx, publicID(user), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.LLMRateLimited)

	// неудача не сжигает попытку и не трогает прежний батч
	var current model.Trip
	require.NoError(t, svc.db.First(&current, trip.ID).Error)
	assert.Equal(t, model.GenerationStatusFailed, current.GenerationStatus)
	assert.Equal(t, 1, current.GenerationCount)

	var routeCount int64
	require.NoError(t, svc.db.Model(&model.RouteOption{}).Where("trip_id = ?", trip.ID).Count(&routeCount).Error)
	assert.EqualValues(t, 2, routeCount)

	// после failed можно пробовать снова
	data, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	assert.Equal(t, 2, data.GenerationCount)
}

func TestGenerateLimitReached(t *testing.T) {
	saved := config.Cfg.MaxGenerationCount
	config.Cfg.MaxGenerationCount = 2
	t.Cleanup(func() { config.Cfg.MaxGenerationCount = saved })

	svc, _, user, trip := newRouteEnv(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
		require.NoError(t, err)
	}

	_, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.GenerationLimitReached)
}

func TestGenerateWhileInProgress(t *testing.T) {
	svc, mock, user, trip := newRouteEnv(t)
	ctx := context.Background()

	require.NoError(t, svc.db.Model(&model.Trip{}).Where("id = ?", trip.ID).
		Update("generation_status", model.GenerationStatusInProgress).Error)

	_, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.GenerationInProgress)
	assert.Empty(t, mock.Calls)
}

func TestGenerateLLMErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		llmErr   error
		expected error
	}{
		{"not configured", llm.ErrNotConfigured, pkgerrors.LLMNotConfigured},
		{"rate limited", llm.ErrRateLimited, pkgerrors.LLMRateLimited},
		{"auth failed", llm.ErrAuthFailed, pkgerrors.LLMAuthFailed},
		{"provider", llm.ErrProvider, pkgerrors.LLMProviderError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock, user, trip := newRouteEnv(t)
			mock.FailNext(tc.llmErr)

			_, err := svc.Generate(context.Background(), publicID(user), tripPublicID(trip))
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestGetRoutes(t *testing.T) {
	svc, _, user, trip := newRouteEnv(t)
	ctx := context.Background()

	other := seedUser(t, svc.db, "other")
	joinTrip(t, svc.db, trip, other, model.RoleParticipant)

	data, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	require.NoError(t, svc.db.Create(&model.Vote{
		TripID:        trip.ID,
		UserID:        other.ID,
		RouteOptionID: data.Routes[0].ID,
	}).Error)

	mine, err := svc.GetRoutes(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 1, mine[0].VoteCount)
	assert.False(t, mine[0].MyVote)

	theirs, err := svc.GetRoutes(ctx, publicID(other), tripPublicID(trip))
	require.NoError(t, err)
	assert.True(t, theirs[0].MyVote)
}

func TestMissingPreferences(t *testing.T) {
	svc, _, user, trip := newRouteEnv(t)
	ctx := context.Background()

	// пожелание из newRouteEnv ("Лувр") упомянуто в первом варианте
	skipped := seedPreference(t, svc.db, trip, user, "Франция", "Ницца", "Английская набережная")

	data, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	missing, err := svc.MissingPreferences(ctx, publicID(user), tripPublicID(trip), data.Routes[0].ID)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, skipped.ID, missing[0].PreferenceID)
	assert.Equal(t, "Ницца", missing[0].City)
	assert.Equal(t, "organizer", missing[0].Username)

	_, err = svc.MissingPreferences(ctx, publicID(user), tripPublicID(trip), data.Routes[0].ID+1000)
	assert.ErrorIs(t, err, pkgerrors.RouteNotFound)
}

func TestMissingPreferencesChecksReasoning(t *testing.T) {
	db := newTestDB(t)
	mock := llm.NewMockClient(`### Вариант 1: Классический Париж
Маршрут:
День 1: Лувр и набережные Сены
Обоснование:
Версаль оставили на отдельный день в конце поездки`)
	svc := NewRouteService(db, mock)

	user := seedUser(t, db, "organizer")
	trip := seedTrip(t, db, user)
	seedPreference(t, db, trip, user, "Франция", "Париж", "Лувр")
	// город упомянут только в обосновании, но это тоже попадание
	seedPreference(t, db, trip, user, "Франция", "Версаль", "")
	ctx := context.Background()

	data, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	missing, err := svc.MissingPreferences(ctx, publicID(user), tripPublicID(trip), data.Routes[0].ID)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestWhyNotIncluded(t *testing.T) {
	db := newTestDB(t)
	mock := llm.NewMockClient(twoRoutesResponse, "Ницца далеко от основного маршрута, не хватило дней.")
	svc := NewRouteService(db, mock)

	user := seedUser(t, db, "organizer")
	trip := seedTrip(t, db, user)
	seedPreference(t, db, trip, user, "Франция", "Париж", "Лувр")
	skipped := seedPreference(t, db, trip, user, "Франция", "Ницца", "")
	ctx := context.Background()

	data, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	answer, err := svc.WhyNotIncluded(ctx, publicID(user), tripPublicID(trip), data.Routes[0].ID, skipped.ID)
	require.NoError(t, err)
	assert.Equal(t, skipped.ID, answer.PreferenceID)
	assert.Contains(t, answer.Explanation, "Ницца")

	require.Len(t, mock.Calls, 2)
	assert.Equal(t, "explain", mock.Calls[1].Opts.Kind)
	assert.Contains(t, mock.Calls[1].User, "Ницца")

	_, err = svc.WhyNotIncluded(ctx, publicID(user), tripPublicID(trip), data.Routes[0].ID, skipped.ID+1000)
	assert.ErrorIs(t, err, pkgerrors.PreferenceNotFound)
}
