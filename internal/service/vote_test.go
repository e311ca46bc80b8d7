package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
)

// newVotingEnv поднимает поездку с готовым батчем из двух вариантов
func newVotingEnv(t *testing.T) (*VoteService, *model.User, *model.Trip, *model.RouteOption, *model.RouteOption) {
	t.Helper()

	db := newTestDB(t)
	svc := NewVoteService(db)

	user := seedUser(t, db, "organizer")
	trip := seedTrip(t, db, user)
	require.NoError(t, db.Model(&model.Trip{}).Where("id = ?", trip.ID).
		Update("generation_status", model.GenerationStatusCompleted).Error)

	first := seedRoute(t, db, trip, 1, "Вариант 1")
	second := seedRoute(t, db, trip, 2, "Вариант 2")
	return svc, user, trip, first, second
}

func TestCastVote(t *testing.T) {
	svc, user, trip, first, second := newVotingEnv(t)
	ctx := context.Background()

	require.NoError(t, svc.Cast(ctx, publicID(user), tripPublicID(trip), first.ID))

	// за другой вариант голосовать можно, повторно за тот же — нет
	require.NoError(t, svc.Cast(ctx, publicID(user), tripPublicID(trip), second.ID))
	err := svc.Cast(ctx, publicID(user), tripPublicID(trip), first.ID)
	assert.ErrorIs(t, err, pkgerrors.DuplicateVote)

	var count int64
	require.NoError(t, svc.db.Model(&model.Vote{}).Where("trip_id = ?", trip.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	votes, err := svc.MyVotes(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, votes)
}

func TestCastVoteRoutesNotReady(t *testing.T) {
	svc, user, trip, first, _ := newVotingEnv(t)
	ctx := context.Background()

	require.NoError(t, svc.db.Model(&model.Trip{}).Where("id = ?", trip.ID).
		Update("generation_status", model.GenerationStatusIdle).Error)

	err := svc.Cast(ctx, publicID(user), tripPublicID(trip), first.ID)
	assert.ErrorIs(t, err, pkgerrors.RoutesNotReady)
}

func TestCastVoteUnknownRoute(t *testing.T) {
	svc, user, trip, first, _ := newVotingEnv(t)
	ctx := context.Background()

	err := svc.Cast(ctx, publicID(user), tripPublicID(trip), first.ID+1000)
	assert.ErrorIs(t, err, pkgerrors.RouteNotFound)

	// маршрут чужой поездки недоступен
	stranger := seedUser(t, svc.db, "stranger")
	otherTrip := seedTrip(t, svc.db, stranger)
	require.NoError(t, svc.db.Model(&model.Trip{}).Where("id = ?", otherTrip.ID).
		Update("generation_status", model.GenerationStatusCompleted).Error)
	foreign := seedRoute(t, svc.db, otherTrip, 1, "Чужой вариант")

	err = svc.Cast(ctx, publicID(user), tripPublicID(trip), foreign.ID)
	assert.ErrorIs(t, err, pkgerrors.RouteNotFound)
}

func TestRetractVote(t *testing.T) {
	svc, user, trip, first, _ := newVotingEnv(t)
	ctx := context.Background()

	require.NoError(t, svc.Cast(ctx, publicID(user), tripPublicID(trip), first.ID))
	require.NoError(t, svc.Retract(ctx, publicID(user), tripPublicID(trip), first.ID))

	err := svc.Retract(ctx, publicID(user), tripPublicID(trip), first.ID)
	assert.ErrorIs(t, err, pkgerrors.VoteNotFound)

	votes, err := svc.MyVotes(ctx, publicID(user), tripPublicID(trip))
	require.NoError(t, err)
	assert.Empty(t, votes)
	assert.NotNil(t, votes)
}

func TestVotingResults(t *testing.T) {
	svc, organizer, trip, first, second := newVotingEnv(t)
	ctx := context.Background()

	alice := seedUser(t, svc.db, "alice")
	bob := seedUser(t, svc.db, "bob")
	joinTrip(t, svc.db, trip, alice, model.RoleParticipant)
	joinTrip(t, svc.db, trip, bob, model.RoleParticipant)

	require.NoError(t, svc.Cast(ctx, publicID(organizer), tripPublicID(trip), second.ID))
	require.NoError(t, svc.Cast(ctx, publicID(alice), tripPublicID(trip), second.ID))
	require.NoError(t, svc.Cast(ctx, publicID(bob), tripPublicID(trip), first.ID))

	data, err := svc.Results(ctx, publicID(organizer), tripPublicID(trip))
	require.NoError(t, err)
	require.Len(t, data.Results, 2)
	assert.Equal(t, second.ID, data.Results[0].RouteOptionID)
	assert.Equal(t, 2, data.Results[0].VoteCount)
	assert.Equal(t, first.ID, data.Results[1].RouteOptionID)
	assert.Equal(t, 1, data.Results[1].VoteCount)
	require.NotNil(t, data.WinnerID)
	assert.Equal(t, second.ID, *data.WinnerID)
}

func TestVotingResultsTieBreaksByOptionNumber(t *testing.T) {
	svc, organizer, trip, first, second := newVotingEnv(t)
	ctx := context.Background()

	alice := seedUser(t, svc.db, "alice")
	joinTrip(t, svc.db, trip, alice, model.RoleParticipant)

	require.NoError(t, svc.Cast(ctx, publicID(organizer), tripPublicID(trip), second.ID))
	require.NoError(t, svc.Cast(ctx, publicID(alice), tripPublicID(trip), first.ID))

	data, err := svc.Results(ctx, publicID(organizer), tripPublicID(trip))
	require.NoError(t, err)

	// при равенстве голосов побеждает меньший option_number
	require.NotNil(t, data.WinnerID)
	assert.Equal(t, first.ID, *data.WinnerID)
}

func TestVotingResultsWithoutVotes(t *testing.T) {
	svc, organizer, trip, _, _ := newVotingEnv(t)
	ctx := context.Background()

	data, err := svc.Results(ctx, publicID(organizer), tripPublicID(trip))
	require.NoError(t, err)
	assert.Len(t, data.Results, 2)
	assert.Nil(t, data.WinnerID)
	for _, r := range data.Results {
		assert.Zero(t, r.VoteCount)
	}
}
