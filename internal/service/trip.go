package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"TripTogether/config"
	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/logger"
	"TripTogether/pkg/snowflake"
	"TripTogether/storage/database"
)

var (
	tripService *TripService
	tripOnce    sync.Once
)

func Trip() *TripService {
	tripOnce.Do(func() {
		tripService = NewTripService(database.DB())
	})
	return tripService
}

type TripService struct {
	db *gorm.DB
}

func NewTripService(db *gorm.DB) *TripService {
	return &TripService{db: db}
}

// Create создаёт поездку, создатель становится организатором
func (s *TripService) Create(ctx context.Context, userID string, req model.CreateTripRequest) (*model.TripDetail, error) {
	user, err := loadUserByPublicID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	if startDate.Before(today) {
		return nil, pkgerrors.StartDateInPast
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate trip ID: %w", err)
	}

	inviteCode, err := s.uniqueInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	trip := &model.Trip{
		PublicID:         publicID,
		Title:            req.Title,
		Description:      req.Description,
		StartDate:        startDate,
		EndDate:          endDate,
		InviteCode:       inviteCode,
		GenerationStatus: model.GenerationStatusIdle,
		CreatedByID:      user.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trip).Error; err != nil {
			return fmt.Errorf("failed to create trip: %w", err)
		}

		participant := &model.TripParticipant{
			TripID:   trip.ID,
			UserID:   user.ID,
			Role:     model.RoleOrganizer,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(participant).Error; err != nil {
			return fmt.Errorf("failed to create organizer participant: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Logger.Info("Trip created",
		zap.Int64("trip_id", trip.PublicID),
		zap.Int64("organizer_id", user.PublicID),
	)

	return s.buildDetail(ctx, trip, user.ID)
}

// List возвращает поездки, где пользователь участвует
func (s *TripService) List(ctx context.Context, userID string) ([]model.TripListItem, error) {
	user, err := loadUserByPublicID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	var participations []model.TripParticipant
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).Find(&participations).Error; err != nil {
		return nil, fmt.Errorf("failed to query participations: %w", err)
	}

	if len(participations) == 0 {
		return []model.TripListItem{}, nil
	}

	tripIDs := make([]int64, 0, len(participations))
	roleByTrip := make(map[int64]model.ParticipantRole, len(participations))
	for _, p := range participations {
		tripIDs = append(tripIDs, p.TripID)
		roleByTrip[p.TripID] = p.Role
	}

	var trips []model.Trip
	if err := s.db.WithContext(ctx).Where("id IN ?", tripIDs).Order("created_at DESC").Find(&trips).Error; err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}

	counts, err := s.participantCounts(ctx, tripIDs)
	if err != nil {
		return nil, err
	}

	items := make([]model.TripListItem, 0, len(trips))
	for _, t := range trips {
		items = append(items, model.TripListItem{
			ID:               formatID(t.PublicID),
			Title:            t.Title,
			Description:      t.Description,
			StartDate:        t.StartDate.Format(dateLayout),
			EndDate:          t.EndDate.Format(dateLayout),
			GenerationStatus: string(t.GenerationStatus),
			ParticipantCount: counts[t.ID],
			IsOrganizer:      roleByTrip[t.ID] == model.RoleOrganizer,
			CreatedAt:        t.CreatedAt,
		})
	}

	return items, nil
}

// Detail возвращает карточку поездки с участниками
func (s *TripService) Detail(ctx context.Context, userID, tripID string) (*model.TripDetail, error) {
	user, err := loadUserByPublicID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	trip, err := loadTripByPublicID(ctx, s.db, tripID)
	if err != nil {
		return nil, err
	}

	if _, err := requireParticipant(ctx, s.db, trip.ID, user.ID); err != nil {
		return nil, err
	}

	return s.buildDetail(ctx, trip, user.ID)
}

// Update обновляет поездку, только организатор
func (s *TripService) Update(ctx context.Context, userID, tripID string, req model.UpdateTripRequest) (*model.TripDetail, error) {
	user, trip, err := s.requireOrganizer(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		trip.Title = *req.Title
	}
	if req.Description != nil {
		trip.Description = *req.Description
	}

	startStr := trip.StartDate.Format(dateLayout)
	endStr := trip.EndDate.Format(dateLayout)
	if req.StartDate != nil {
		startStr = *req.StartDate
	}
	if req.EndDate != nil {
		endStr = *req.EndDate
	}
	startDate, endDate, err := parseDateRange(startStr, endStr)
	if err != nil {
		return nil, err
	}
	trip.StartDate = startDate
	trip.EndDate = endDate

	if err := s.db.WithContext(ctx).Save(trip).Error; err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	return s.buildDetail(ctx, trip, user.ID)
}

// Delete удаляет поездку со всем содержимым, только организатор
func (s *TripService) Delete(ctx context.Context, userID, tripID string) error {
	_, trip, err := s.requireOrganizer(ctx, userID, tripID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prefIDs []int64
		if err := tx.Model(&model.PlacePreference{}).Where("trip_id = ?", trip.ID).Pluck("id", &prefIDs).Error; err != nil {
			return err
		}
		if len(prefIDs) > 0 {
			if err := tx.Where("preference_id IN ?", prefIDs).Delete(&model.Reaction{}).Error; err != nil {
				return err
			}
		}

		for _, m := range []interface{}{
			&model.Vote{}, &model.RouteOption{}, &model.TripChecklist{},
			&model.PlacePreference{}, &model.TripParticipant{},
		} {
			if err := tx.Unscoped().Where("trip_id = ?", trip.ID).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Delete(trip).Error
	})
}

// Join добавляет пользователя в поездку по коду приглашения
func (s *TripService) Join(ctx context.Context, userID, inviteCode string) (*model.TripDetail, error) {
	user, err := loadUserByPublicID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	var trip model.Trip
	if err := s.db.WithContext(ctx).Where("invite_code = ?", inviteCode).First(&trip).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.InvalidInviteCode
		}
		return nil, fmt.Errorf("failed to query trip by invite code: %w", err)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&model.TripParticipant{}).
		Where("trip_id = ? AND user_id = ?", trip.ID, user.ID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, pkgerrors.AlreadyParticipant
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.TripParticipant{}).
		Where("trip_id = ?", trip.ID).Count(&total).Error; err != nil {
		return nil, err
	}
	if total >= int64(config.Cfg.MaxParticipantsPerTrip) {
		return nil, pkgerrors.ParticipantLimitReached
	}

	participant := &model.TripParticipant{
		TripID:   trip.ID,
		UserID:   user.ID,
		Role:     model.RoleParticipant,
		JoinedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(participant).Error; err != nil {
		return nil, fmt.Errorf("failed to join trip: %w", err)
	}

	logger.Logger.Info("User joined trip",
		zap.Int64("trip_id", trip.PublicID),
		zap.Int64("user_id", user.PublicID),
	)

	return s.buildDetail(ctx, &trip, user.ID)
}

// Leave выводит пользователя из поездки, организатор покинуть не может
func (s *TripService) Leave(ctx context.Context, userID, tripID string) error {
	user, err := loadUserByPublicID(ctx, s.db, userID)
	if err != nil {
		return err
	}

	trip, err := loadTripByPublicID(ctx, s.db, tripID)
	if err != nil {
		return err
	}

	participant, err := requireParticipant(ctx, s.db, trip.ID, user.ID)
	if err != nil {
		return err
	}

	if participant.Role == model.RoleOrganizer {
		return pkgerrors.OrganizerCannotLeave
	}

	return s.db.WithContext(ctx).Delete(&model.TripParticipant{}, participant.ID).Error
}

func (s *TripService) requireOrganizer(ctx context.Context, userID, tripID string) (*model.User, *model.Trip, error) {
	user, err := loadUserByPublicID(ctx, s.db, userID)
	if err != nil {
		return nil, nil, err
	}

	trip, err := loadTripByPublicID(ctx, s.db, tripID)
	if err != nil {
		return nil, nil, err
	}

	participant, err := requireParticipant(ctx, s.db, trip.ID, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if participant.Role != model.RoleOrganizer {
		return nil, nil, pkgerrors.NotOrganizer
	}

	return user, trip, nil
}

func (s *TripService) buildDetail(ctx context.Context, trip *model.Trip, viewerID int64) (*model.TripDetail, error) {
	var participants []model.TripParticipant
	if err := s.db.WithContext(ctx).Where("trip_id = ?", trip.ID).Order("joined_at ASC").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}

	userIDs := make([]int64, 0, len(participants))
	for _, p := range participants {
		userIDs = append(userIDs, p.UserID)
	}
	users, err := usernamesByID(ctx, s.db, userIDs)
	if err != nil {
		return nil, err
	}

	infos := make([]model.ParticipantInfo, 0, len(participants))
	isOrganizer := false
	for _, p := range participants {
		u := users[p.UserID]
		infos = append(infos, model.ParticipantInfo{
			UserID:   formatID(u.PublicID),
			Username: u.Username,
			Role:     string(p.Role),
			JoinedAt: p.JoinedAt,
		})
		if p.UserID == viewerID && p.Role == model.RoleOrganizer {
			isOrganizer = true
		}
	}

	return &model.TripDetail{
		ID:               formatID(trip.PublicID),
		Title:            trip.Title,
		Description:      trip.Description,
		StartDate:        trip.StartDate.Format(dateLayout),
		EndDate:          trip.EndDate.Format(dateLayout),
		InviteCode:       trip.InviteCode,
		GenerationStatus: string(trip.GenerationStatus),
		GenerationCount:  trip.GenerationCount,
		IsOrganizer:      isOrganizer,
		Participants:     infos,
		CreatedAt:        trip.CreatedAt,
	}, nil
}

func (s *TripService) participantCounts(ctx context.Context, tripIDs []int64) (map[int64]int, error) {
	type row struct {
		TripID int64
		Total  int
	}

	var rows []row
	err := s.db.WithContext(ctx).Model(&model.TripParticipant{}).
		Select("trip_id, COUNT(*) as total").
		Where("trip_id IN ?", tripIDs).
		Group("trip_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}

	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.TripID] = r.Total
	}
	return counts, nil
}

func (s *TripService) uniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := model.GenerateInviteCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}

		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Trip{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique invite code")
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.InvalidDateRange
	}

	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.InvalidDateRange
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, pkgerrors.InvalidDateRange
	}

	return startDate, endDate, nil
}
