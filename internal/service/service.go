package service

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
)

// Публичные ID (snowflake) ходят в API строками, внутренние — int64 первичные ключи.

const dateLayout = "2006-01-02"

func parsePublicID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func loadUserByPublicID(ctx context.Context, db *gorm.DB, publicID string) (*model.User, error) {
	id, ok := parsePublicID(publicID)
	if !ok {
		return nil, pkgerrors.UserNotFound
	}

	var user model.User
	if err := db.WithContext(ctx).Where("public_id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.UserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func loadTripByPublicID(ctx context.Context, db *gorm.DB, publicID string) (*model.Trip, error) {
	id, ok := parsePublicID(publicID)
	if !ok {
		return nil, pkgerrors.TripNotFound
	}

	var trip model.Trip
	if err := db.WithContext(ctx).Where("public_id = ?", id).First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.TripNotFound
		}
		return nil, err
	}

	return &trip, nil
}

// requireParticipant возвращает строку участия или NotParticipant
func requireParticipant(ctx context.Context, db *gorm.DB, tripID, userID int64) (*model.TripParticipant, error) {
	var participant model.TripParticipant
	err := db.WithContext(ctx).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotParticipant
		}
		return nil, err
	}

	return &participant, nil
}

// requireTripAccess резолвит пользователя, поездку и проверяет участие
func requireTripAccess(ctx context.Context, db *gorm.DB, userID, tripID string) (*model.User, *model.Trip, error) {
	user, err := loadUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, nil, err
	}

	trip, err := loadTripByPublicID(ctx, db, tripID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := requireParticipant(ctx, db, trip.ID, user.ID); err != nil {
		return nil, nil, err
	}

	return user, trip, nil
}

// usernamesByID собирает отображение users.id -> username одним запросом
func usernamesByID(ctx context.Context, db *gorm.DB, userIDs []int64) (map[int64]model.User, error) {
	result := make(map[int64]model.User, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var users []model.User
	if err := db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}

	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}
