package service

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"TripTogether/internal/model"
	"TripTogether/pkg/logger"
	"TripTogether/pkg/snowflake"
	"TripTogether/pkg/token"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()

	if err := snowflake.Init(1, 1); err != nil {
		panic(err)
	}
	if err := token.Init(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// newTestDB поднимает изолированную in-memory SQLite на тест
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Trip{},
		&model.TripParticipant{},
		&model.PlacePreference{},
		&model.Reaction{},
		&model.RouteOption{},
		&model.Vote{},
		&model.TripChecklist{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	publicID, err := snowflake.NextID()
	require.NoError(t, err)

	user := &model.User{
		PublicID:     publicID,
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "irrelevant",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedTrip создаёт поездку, organizer сразу записывается участником
func seedTrip(t *testing.T, db *gorm.DB, organizer *model.User) *model.Trip {
	t.Helper()

	publicID, err := snowflake.NextID()
	require.NoError(t, err)

	code, err := model.GenerateInviteCode()
	require.NoError(t, err)

	start := time.Now().AddDate(0, 1, 0)
	trip := &model.Trip{
		PublicID:         publicID,
		Title:            "Тестовая поездка",
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 4),
		InviteCode:       code,
		GenerationStatus: model.GenerationStatusIdle,
		CreatedByID:      organizer.ID,
	}
	require.NoError(t, db.Create(trip).Error)

	joinTrip(t, db, trip, organizer, model.RoleOrganizer)
	return trip
}

func joinTrip(t *testing.T, db *gorm.DB, trip *model.Trip, user *model.User, role model.ParticipantRole) {
	t.Helper()

	require.NoError(t, db.Create(&model.TripParticipant{
		TripID:   trip.ID,
		UserID:   user.ID,
		Role:     role,
		JoinedAt: time.Now(),
	}).Error)
}

func seedPreference(t *testing.T, db *gorm.DB, trip *model.Trip, user *model.User, country, city, location string) *model.PlacePreference {
	t.Helper()

	pref := &model.PlacePreference{
		TripID:    trip.ID,
		UserID:    user.ID,
		Country:   country,
		City:      city,
		Location:  location,
		PlaceType: model.PlaceTypeOther,
		Priority:  3,
	}
	require.NoError(t, db.Create(pref).Error)
	return pref
}

func seedRoute(t *testing.T, db *gorm.DB, trip *model.Trip, optionNumber int, title string) *model.RouteOption {
	t.Helper()

	route := &model.RouteOption{
		TripID:       trip.ID,
		OptionNumber: optionNumber,
		Title:        title,
		Description:  "День 1: прогулка по центру",
	}
	require.NoError(t, db.Create(route).Error)
	return route
}

func publicID(u *model.User) string {
	return formatID(u.PublicID)
}

func tripPublicID(tr *model.Trip) string {
	return formatID(tr.PublicID)
}
