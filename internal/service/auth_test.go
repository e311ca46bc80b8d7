package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
)

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	data, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "  Anna@Example.COM ",
		Username: " anna ",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, data.AccessToken)
	assert.NotEmpty(t, data.RefreshToken)
	assert.Greater(t, data.ExpiresIn, 0)
	assert.Equal(t, "anna@example.com", data.User.Email)
	assert.Equal(t, "anna", data.User.Username)
	assert.NotEmpty(t, data.User.ID)

	// email нормализуется, повтор в другом регистре отклоняется
	_, err = svc.Register(ctx, model.RegisterRequest{
		Email:    "ANNA@example.com",
		Username: "anna2",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, pkgerrors.EmailAlreadyTaken)

	_, err = svc.Register(ctx, model.RegisterRequest{
		Email:    "other@example.com",
		Username: "anna",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, pkgerrors.UsernameAlreadyTaken)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "secret123",
	})
	require.NoError(t, err)

	data, err := svc.Login(ctx, model.LoginRequest{Email: "BOB@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "bob", data.User.Username)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "bob@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, pkgerrors.InvalidCredentials)

	// неизвестный email неотличим от неверного пароля
	_, err = svc.Login(ctx, model.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, pkgerrors.InvalidCredentials)
}

func TestLoginDeactivated(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "carol@example.com",
		Username: "carol",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.User{}).Where("username = ?", "carol").Update("is_active", false).Error)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "carol@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, pkgerrors.UserDeactivated)
}

func TestRefresh(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	registered, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "dave@example.com",
		Username: "dave",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)

	_, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, pkgerrors.Unauthorized)

	// access-токен не годится как refresh
	_, err = svc.Refresh(ctx, registered.AccessToken)
	assert.ErrorIs(t, err, pkgerrors.Unauthorized)
}

func TestMe(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	user := seedUser(t, db, "eva")

	profile, err := svc.Me(ctx, publicID(user))
	require.NoError(t, err)
	assert.Equal(t, "eva", profile.Username)
	assert.Equal(t, "eva@example.com", profile.Email)

	_, err = svc.Me(ctx, "999999")
	assert.ErrorIs(t, err, pkgerrors.UserNotFound)
}
