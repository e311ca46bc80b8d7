package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
	"gorm.io/gorm"
)

func newReactionEnv(t *testing.T) (*ReactionService, *gorm.DB, *model.User, *model.Trip, *model.PlacePreference) {
	t.Helper()

	db := newTestDB(t)
	svc := NewReactionService(db)

	user := seedUser(t, db, "organizer")
	trip := seedTrip(t, db, user)
	pref := seedPreference(t, db, trip, user, "Франция", "Париж", "Лувр")
	return svc, db, user, trip, pref
}

func TestSetReaction(t *testing.T) {
	svc, db, user, trip, pref := newReactionEnv(t)
	ctx := context.Background()

	info, err := svc.Set(ctx, publicID(user), tripPublicID(trip), pref.ID, "👍")
	require.NoError(t, err)
	assert.Equal(t, "👍", info.Emoji)
	assert.Equal(t, "organizer", info.Username)

	// повторная реакция заменяет эмодзи, строка остаётся одна
	info, err = svc.Set(ctx, publicID(user), tripPublicID(trip), pref.ID, "🔥")
	require.NoError(t, err)
	assert.Equal(t, "🔥", info.Emoji)

	var reactions []model.Reaction
	require.NoError(t, db.Where("preference_id = ?", pref.ID).Find(&reactions).Error)
	require.Len(t, reactions, 1)
	assert.Equal(t, "🔥", reactions[0].Emoji)
}

func TestSetReactionValidation(t *testing.T) {
	svc, _, user, trip, pref := newReactionEnv(t)
	ctx := context.Background()

	_, err := svc.Set(ctx, publicID(user), tripPublicID(trip), pref.ID, "")
	assert.ErrorIs(t, err, pkgerrors.InvalidEmoji)

	_, err = svc.Set(ctx, publicID(user), tripPublicID(trip), pref.ID, "слишком длинно")
	assert.ErrorIs(t, err, pkgerrors.InvalidEmoji)

	_, err = svc.Set(ctx, publicID(user), tripPublicID(trip), pref.ID+100, "👍")
	assert.ErrorIs(t, err, pkgerrors.PreferenceNotFound)
}

func TestRemoveReaction(t *testing.T) {
	svc, _, user, trip, pref := newReactionEnv(t)
	ctx := context.Background()

	_, err := svc.Set(ctx, publicID(user), tripPublicID(trip), pref.ID, "👍")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, publicID(user), tripPublicID(trip), pref.ID))

	err = svc.Remove(ctx, publicID(user), tripPublicID(trip), pref.ID)
	assert.ErrorIs(t, err, pkgerrors.ReactionNotFound)
}
