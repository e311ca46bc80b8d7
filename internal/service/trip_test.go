package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripTogether/config"
	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(dateLayout)
}

func TestCreateTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewTripService(db)
	ctx := context.Background()

	user := seedUser(t, db, "organizer")

	detail, err := svc.Create(ctx, publicID(user), model.CreateTripRequest{
		Title:       "Выходные в Казани",
		Description: "Два дня на кремль и казан",
		StartDate:   futureDate(10),
		EndDate:     futureDate(12),
	})
	require.NoError(t, err)

	assert.Equal(t, "Выходные в Казани", detail.Title)
	assert.Len(t, detail.InviteCode, 8)
	assert.Equal(t, string(model.GenerationStatusIdle), detail.GenerationStatus)
	assert.Zero(t, detail.GenerationCount)
	assert.True(t, detail.IsOrganizer)
	require.Len(t, detail.Participants, 1)
	assert.Equal(t, string(model.RoleOrganizer), detail.Participants[0].Role)
}

func TestCreateTripDateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTripService(db)
	ctx := context.Background()

	user := seedUser(t, db, "organizer")

	_, err := svc.Create(ctx, publicID(user), model.CreateTripRequest{
		Title:     "Сломанные даты",
		StartDate: "12.05.2026",
		EndDate:   futureDate(5),
	})
	assert.ErrorIs(t, err, pkgerrors.InvalidDateRange)

	_, err = svc.Create(ctx, publicID(user), model.CreateTripRequest{
		Title:     "Конец раньше начала",
		StartDate: futureDate(10),
		EndDate:   futureDate(5),
	})
	assert.ErrorIs(t, err, pkgerrors.InvalidDateRange)

	_, err = svc.Create(ctx, publicID(user), model.CreateTripRequest{
		Title:     "Поездка в прошлое",
		StartDate: futureDate(-3),
		EndDate:   futureDate(5),
	})
	assert.ErrorIs(t, err, pkgerrors.StartDateInPast)
}

func TestJoinTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewTripService(db)
	ctx := context.Background()

	organizer := seedUser(t, db, "organizer")
	guest := seedUser(t, db, "guest")
	trip := seedTrip(t, db, organizer)

	detail, err := svc.Join(ctx, publicID(guest), trip.InviteCode)
	require.NoError(t, err)
	assert.Len(t, detail.Participants, 2)
	assert.False(t, detail.IsOrganizer)

	_, err = svc.Join(ctx, publicID(guest), trip.InviteCode)
	assert.ErrorIs(t, err, pkgerrors.AlreadyParticipant)

	_, err = svc.Join(ctx, publicID(guest), "WRONGCODE")
	assert.ErrorIs(t, err, pkgerrors.InvalidInviteCode)
}

func TestJoinTripParticipantLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewTripService(db)
	ctx := context.Background()

	saved := config.Cfg.MaxParticipantsPerTrip
	config.Cfg.MaxParticipantsPerTrip = 2
	t.Cleanup(func() { config.Cfg.MaxParticipantsPerTrip = saved })

	organizer := seedUser(t, db, "organizer")
	second := seedUser(t, db, "second")
	third := seedUser(t, db, "third")
	trip := seedTrip(t, db, organizer)

	_, err := svc.Join(ctx, publicID(second), trip.InviteCode)
	require.NoError(t, err)

	_, err = svc.Join(ctx, publicID(third), trip.InviteCode)
	assert.ErrorIs(t, err, pkgerrors.ParticipantLimitReached)
}

func TestLeaveTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewTripService(db)
	ctx := context.Background()

	organizer := seedUser(t, db, "organizer")
	guest := seedUser(t, db, "guest")
	trip := seedTrip(t, db, organizer)
	joinTrip(t, db, trip, guest, model.RoleParticipant)

	require.NoError(t, svc.Leave(ctx, publicID(guest), tripPublicID(trip)))

	// ушедший больше не видит поездку
	_, err := svc.Detail(ctx, publicID(guest), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.NotParticipant)

	err = svc.Leave(ctx, publicID(organizer), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.OrganizerCannotLeave)
}

func TestUpdateTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewTripService(db)
	ctx := context.Background()

	organizer := seedUser(t, db, "organizer")
	guest := seedUser(t, db, "guest")
	trip := seedTrip(t, db, organizer)
	joinTrip(t, db, trip, guest, model.RoleParticipant)

	newTitle := "Новое название"
	_, err := svc.Update(ctx, publicID(guest), tripPublicID(trip), model.UpdateTripRequest{Title: &newTitle})
	assert.ErrorIs(t, err, pkgerrors.NotOrganizer)

	detail, err := svc.Update(ctx, publicID(organizer), tripPublicID(trip), model.UpdateTripRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, detail.Title)

	// частичное обновление дат валидируется против оставшейся границы
	badEnd := trip.StartDate.AddDate(0, 0, -1).Format(dateLayout)
	_, err = svc.Update(ctx, publicID(organizer), tripPublicID(trip), model.UpdateTripRequest{EndDate: &badEnd})
	assert.ErrorIs(t, err, pkgerrors.InvalidDateRange)
}

func TestDeleteTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewTripService(db)
	ctx := context.Background()

	organizer := seedUser(t, db, "organizer")
	guest := seedUser(t, db, "guest")
	trip := seedTrip(t, db, organizer)
	joinTrip(t, db, trip, guest, model.RoleParticipant)

	pref := seedPreference(t, db, trip, guest, "Франция", "Париж", "Лувр")
	require.NoError(t, db.Create(&model.Reaction{PreferenceID: pref.ID, UserID: organizer.ID, Emoji: "🔥"}).Error)
	route := seedRoute(t, db, trip, 1, "Вариант 1")
	require.NoError(t, db.Create(&model.Vote{TripID: trip.ID, UserID: guest.ID, RouteOptionID: route.ID}).Error)
	require.NoError(t, db.Create(&model.TripChecklist{TripID: trip.ID, Content: []byte(`{"categories":[]}`)}).Error)

	err := svc.Delete(ctx, publicID(guest), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.NotOrganizer)

	require.NoError(t, svc.Delete(ctx, publicID(organizer), tripPublicID(trip)))

	_, err = svc.Detail(ctx, publicID(organizer), tripPublicID(trip))
	assert.ErrorIs(t, err, pkgerrors.TripNotFound)

	for name, m := range map[string]interface{}{
		"preferences":  &model.PlacePreference{},
		"reactions":    &model.Reaction{},
		"routes":       &model.RouteOption{},
		"votes":        &model.Vote{},
		"checklists":   &model.TripChecklist{},
		"participants": &model.TripParticipant{},
	} {
		var count int64
		require.NoError(t, db.Unscoped().Model(m).Count(&count).Error)
		assert.Zero(t, count, name)
	}
}

func TestListTrips(t *testing.T) {
	db := newTestDB(t)
	svc := NewTripService(db)
	ctx := context.Background()

	organizer := seedUser(t, db, "organizer")
	guest := seedUser(t, db, "guest")
	first := seedTrip(t, db, organizer)
	second := seedTrip(t, db, organizer)
	joinTrip(t, db, first, guest, model.RoleParticipant)
	_ = second

	mine, err := svc.List(ctx, publicID(organizer))
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, item := range mine {
		assert.True(t, item.IsOrganizer)
	}

	joined, err := svc.List(ctx, publicID(guest))
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, tripPublicID(first), joined[0].ID)
	assert.Equal(t, 2, joined[0].ParticipantCount)
	assert.False(t, joined[0].IsOrganizer)

	stranger := seedUser(t, db, "stranger")
	empty, err := svc.List(ctx, publicID(stranger))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
