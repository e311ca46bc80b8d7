package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/storage/database"
)

var (
	reactionService *ReactionService
	reactionOnce    sync.Once
)

func Reaction() *ReactionService {
	reactionOnce.Do(func() {
		reactionService = NewReactionService(database.DB())
	})
	return reactionService
}

type ReactionService struct {
	db *gorm.DB
}

func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{db: db}
}

// Set ставит или заменяет эмодзи-реакцию пользователя на пожелание
func (s *ReactionService) Set(ctx context.Context, userID, tripID string, preferenceID int64, emoji string) (*model.ReactionInfo, error) {
	if emoji == "" || utf8.RuneCountInString(emoji) > 4 {
		return nil, pkgerrors.InvalidEmoji
	}

	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	var pref model.PlacePreference
	if err := s.db.WithContext(ctx).Where("id = ? AND trip_id = ?", preferenceID, trip.ID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.PreferenceNotFound
		}
		return nil, err
	}

	reaction := &model.Reaction{
		PreferenceID: pref.ID,
		UserID:       user.ID,
		Emoji:        emoji,
	}

	// одна реакция на пользователя, повторная заменяет эмодзи
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "preference_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"emoji"}),
	}).Create(reaction).Error
	if err != nil {
		return nil, fmt.Errorf("failed to set reaction: %w", err)
	}

	return &model.ReactionInfo{
		UserID:   formatID(user.PublicID),
		Username: user.Username,
		Emoji:    emoji,
	}, nil
}

// Remove снимает реакцию пользователя с пожелания
func (s *ReactionService) Remove(ctx context.Context, userID, tripID string, preferenceID int64) error {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return err
	}

	var pref model.PlacePreference
	if err := s.db.WithContext(ctx).Where("id = ? AND trip_id = ?", preferenceID, trip.ID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.PreferenceNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("preference_id = ? AND user_id = ?", pref.ID, user.ID).
		Delete(&model.Reaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove reaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ReactionNotFound
	}

	return nil
}
