package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/llm"
)

const checklistResponse = "```json\n" + `{
  "categories": [
    {"name": "Документы", "items": ["Паспорт", "Страховка"]},
    {"name": "Одежда", "items": ["Куртка", "Удобная обувь", "Шапка"]}
  ]
}` + "\n```"

func newChecklistEnv(t *testing.T, responses ...string) (*ChecklistService, *llm.MockClient, *model.User, *model.Trip, *model.RouteOption) {
	t.Helper()

	db := newTestDB(t)
	mock := llm.NewMockClient(responses...)
	svc := NewChecklistService(db, mock)

	user := seedUser(t, db, "organizer")
	trip := seedTrip(t, db, user)
	require.NoError(t, db.Model(&model.Trip{}).Where("id = ?", trip.ID).
		Update("generation_status", model.GenerationStatusCompleted).Error)

	seedPreference(t, db, trip, user, "Франция", "Париж", "Лувр")
	seedPreference(t, db, trip, user, "Франция", "Лион", "")
	winner := seedRoute(t, db, trip, 1, "Классический Париж")
	return svc, mock, user, trip, winner
}

func castVote(t *testing.T, svc *ChecklistService, trip *model.Trip, user *model.User, route *model.RouteOption) {
	t.Helper()
	require.NoError(t, svc.db.Create(&model.Vote{
		TripID:        trip.ID,
		UserID:        user.ID,
		RouteOptionID: route.ID,
	}).Error)
}

func TestGenerateChecklistPreconditions(t *testing.T) {
	svc, mock, user, trip, _ := newChecklistEnv(t, checklistResponse)
	ctx := context.Background()

	// без голосов чек-лист не строится
	_, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.VoteFirst)
	assert.Empty(t, mock.Calls)

	// без маршрутов просим сперва сгенерировать их
	require.NoError(t, svc.db.Where("trip_id = ?", trip.ID).Delete(&model.RouteOption{}).Error)
	_, err = svc.Generate(ctx, publicID(user), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.GenerateRoutesFirst)
}

func TestGenerateChecklist(t *testing.T) {
	svc, mock, user, trip, winner := newChecklistEnv(t, checklistResponse)
	ctx := context.Background()

	castVote(t, svc, trip, user, winner)

	data, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	require.NotNil(t, data.Content)
	require.Len(t, data.Content.Categories, 2)
	assert.Equal(t, "Документы", data.Content.Categories[0].Name)
	assert.Equal(t, []string{"Паспорт", "Страховка"}, data.Content.Categories[0].Items)
	require.NotNil(t, data.CreatedAt)

	// промпт собирается по победителю и географии пожеланий
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "checklist", mock.Calls[0].Opts.Kind)
	assert.Contains(t, mock.Calls[0].User, "Классический Париж")
	assert.Contains(t, mock.Calls[0].User, "Франция: Лион, Париж")

	got, err := svc.Get(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	require.NotNil(t, got.Content)
	assert.Len(t, got.Content.Categories, 2)
}

func TestGenerateChecklistPicksTopVotedRoute(t *testing.T) {
	svc, mock, user, trip, first := newChecklistEnv(t, checklistResponse)
	ctx := context.Background()

	second := seedRoute(t, svc.db, trip, 2, "Гастрономический тур")
	alice := seedUser(t, svc.db, "alice")
	joinTrip(t, svc.db, trip, alice, model.RoleParticipant)

	castVote(t, svc, trip, user, second)
	castVote(t, svc, trip, alice, second)
	castVote(t, svc, trip, alice, first)

	_, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].User, "Гастрономический тур")
}

func TestRegenerateChecklistOverwrites(t *testing.T) {
	svc, _, user, trip, winner := newChecklistEnv(t,
		checklistResponse,
		`{"categories": [{"name": "Только документы", "items": ["Паспорт"]}]}`,
	)
	ctx := context.Background()

	castVote(t, svc, trip, user, winner)

	_, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)

	data, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	require.Len(t, data.Content.Categories, 1)
	assert.Equal(t, "Только документы", data.Content.Categories[0].Name)

	// строка одна, регенерация перезаписывает
	var count int64
	require.NoError(t, svc.db.Model(&model.TripChecklist{}).Where("trip_id = ?", trip.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateChecklistLLMFailure(t *testing.T) {
	svc, mock, user, trip, winner := newChecklistEnv(t, checklistResponse)
	ctx := context.Background()

	castVote(t, svc, trip, user, winner)
	mock.FailNext(llm.ErrRateLimited)

	_, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.LLMRateLimited)

	// неудачная генерация не оставляет чек-листа
	got, err := svc.Get(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	assert.Nil(t, got.Content)
}

func TestGetChecklistBeforeGeneration(t *testing.T) {
	svc, _, user, trip, _ := newChecklistEnv(t, checklistResponse)

	got, err := svc.Get(context.Background(), publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	assert.Nil(t, got.Content)
	assert.Nil(t, got.CreatedAt)
}

func TestGenerateChecklistMalformedResponse(t *testing.T) {
	svc, _, user, trip, winner := newChecklistEnv(t, "это не JSON вовсе")
	ctx := context.Background()

	castVote(t, svc, trip, user, winner)

	// невалидный JSON не ошибка, чек-лист сохраняется пустым
	data, err := svc.Generate(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	require.NotNil(t, data.Content)
	assert.Empty(t, data.Content.Categories)
}
