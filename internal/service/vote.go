package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/storage/database"
)

var (
	voteService *VoteService
	voteOnce    sync.Once
)

func Vote() *VoteService {
	voteOnce.Do(func() {
		voteService = NewVoteService(database.DB())
	})
	return voteService
}

type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// Cast отдаёт голос за вариант маршрута. Повторный голос за тот же
// вариант отклоняется, уникальность страхует индекс (user, route_option).
func (s *VoteService) Cast(ctx context.Context, userID, tripID string, routeOptionID int64) error {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return err
	}

	if trip.GenerationStatus != model.GenerationStatusCompleted {
		return pkgerrors.RoutesNotReady
	}

	var route model.RouteOption
	if err := s.db.WithContext(ctx).Where("id = ? AND trip_id = ?", routeOptionID, trip.ID).First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.RouteNotFound
		}
		return err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&model.Vote{}).
		Where("user_id = ? AND route_option_id = ?", user.ID, route.ID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return pkgerrors.DuplicateVote
	}

	vote := &model.Vote{
		TripID:        trip.ID,
		UserID:        user.ID,
		RouteOptionID: route.ID,
	}
	if err := s.db.WithContext(ctx).Create(vote).Error; err != nil {
		if isUniqueViolation(err) {
			return pkgerrors.DuplicateVote
		}
		return fmt.Errorf("failed to cast vote: %w", err)
	}

	return nil
}

// Retract снимает собственный голос
func (s *VoteService) Retract(ctx context.Context, userID, tripID string, routeOptionID int64) error {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("trip_id = ? AND user_id = ? AND route_option_id = ?", trip.ID, user.ID, routeOptionID).
		Delete(&model.Vote{})
	if result.Error != nil {
		return fmt.Errorf("failed to retract vote: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.VoteNotFound
	}

	return nil
}

// MyVotes возвращает варианты, за которые голосовал пользователь
func (s *VoteService) MyVotes(ctx context.Context, userID, tripID string) ([]int64, error) {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	var routeIDs []int64
	err = s.db.WithContext(ctx).Model(&model.Vote{}).
		Where("trip_id = ? AND user_id = ?", trip.ID, user.ID).
		Order("route_option_id ASC").
		Pluck("route_option_id", &routeIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}

	if routeIDs == nil {
		routeIDs = []int64{}
	}
	return routeIDs, nil
}

// Results возвращает итоги голосования. Победитель определяется строго:
// больше голосов, при равенстве меньший option_number; без голосов победителя нет.
func (s *VoteService) Results(ctx context.Context, userID, tripID string) (*model.VotingResultsData, error) {
	_, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	results, err := votingAggregate(ctx, s.db, trip.ID)
	if err != nil {
		return nil, err
	}

	data := &model.VotingResultsData{Results: results}
	if len(results) > 0 && results[0].VoteCount > 0 {
		winnerID := results[0].RouteOptionID
		data.WinnerID = &winnerID
	}

	return data, nil
}

// votingAggregate считает голоса по вариантам, ранжирование стабильное
func votingAggregate(ctx context.Context, db *gorm.DB, tripID int64) ([]model.VotingResultItem, error) {
	var rows []model.VotingResultItem
	err := db.WithContext(ctx).Model(&model.RouteOption{}).
		Select("route_options.id AS route_option_id, route_options.option_number, route_options.title, COUNT(votes.id) AS vote_count").
		Joins("LEFT JOIN votes ON votes.route_option_id = route_options.id").
		Where("route_options.trip_id = ?", tripID).
		Group("route_options.id, route_options.option_number, route_options.title").
		Order("vote_count DESC, route_options.option_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate votes: %w", err)
	}

	if rows == nil {
		rows = []model.VotingResultItem{}
	}
	return rows, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
