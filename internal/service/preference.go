package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"TripTogether/config"
	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/geocoder"
	"TripTogether/pkg/logger"
	"TripTogether/storage/database"
)

var (
	preferenceService *PreferenceService
	preferenceOnce    sync.Once
)

func Preference() *PreferenceService {
	preferenceOnce.Do(func() {
		preferenceService = NewPreferenceService(database.DB(), geocoder.GetClient())
	})
	return preferenceService
}

type PreferenceService struct {
	db  *gorm.DB
	geo geocoder.Client
}

func NewPreferenceService(db *gorm.DB, geo geocoder.Client) *PreferenceService {
	return &PreferenceService{db: db, geo: geo}
}

// List возвращает пожелания поездки, самые приоритетные и свежие сверху
func (s *PreferenceService) List(ctx context.Context, userID, tripID string) ([]model.PreferenceItem, error) {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	var prefs []model.PlacePreference
	err = s.db.WithContext(ctx).
		Where("trip_id = ?", trip.ID).
		Order("priority DESC").Order("created_at DESC").
		Find(&prefs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}

	return s.buildItems(ctx, prefs, user.ID)
}

// Create добавляет пожелание; координаты геокодируются best-effort
func (s *PreferenceService) Create(ctx context.Context, userID, tripID string, req model.CreatePreferenceRequest) (*model.PreferenceItem, error) {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.PlacePreference{}).Where("trip_id = ?", trip.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count >= int64(config.Cfg.MaxPreferencesPerTrip) {
		return nil, pkgerrors.PreferenceLimitReached
	}

	priority := 3
	if req.Priority != nil {
		priority = *req.Priority
	}
	if priority < 1 || priority > 5 {
		return nil, pkgerrors.InvalidPriority
	}

	placeType := model.PlaceTypeOther
	if req.PlaceType != "" {
		placeType = model.PlaceType(req.PlaceType)
		if !model.ValidPlaceTypes[placeType] {
			return nil, pkgerrors.InvalidPlaceType
		}
	}

	pref := &model.PlacePreference{
		TripID:    trip.ID,
		UserID:    user.ID,
		Country:   strings.TrimSpace(req.Country),
		City:      strings.TrimSpace(req.City),
		Location:  strings.TrimSpace(req.Location),
		PlaceType: placeType,
		Priority:  priority,
		Comment:   req.Comment,
	}

	s.geocodePreference(ctx, pref)

	if err := s.db.WithContext(ctx).Create(pref).Error; err != nil {
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}

	items, err := s.buildItems(ctx, []model.PlacePreference{*pref}, user.ID)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// CheckDuplicate ищет похожие пожелания, мягкое предупреждение перед созданием
func (s *PreferenceService) CheckDuplicate(ctx context.Context, userID, tripID string, req model.CheckDuplicateRequest) (*model.DuplicateCheckData, error) {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Where("trip_id = ?", trip.ID).
		Where("LOWER(country) = LOWER(?)", strings.TrimSpace(req.Country)).
		Where("LOWER(city) = LOWER(?)", strings.TrimSpace(req.City))

	if loc := strings.TrimSpace(req.Location); loc != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+loc+"%")
	}

	var similar []model.PlacePreference
	if err := query.Find(&similar).Error; err != nil {
		return nil, fmt.Errorf("failed to check duplicates: %w", err)
	}

	items, err := s.buildItems(ctx, similar, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.DuplicateCheckData{
		HasSimilar: len(items) > 0,
		Similar:    items,
	}, nil
}

// Update изменяет пожелание, только владелец
func (s *PreferenceService) Update(ctx context.Context, userID, tripID string, preferenceID int64, req model.UpdatePreferenceRequest) (*model.PreferenceItem, error) {
	user, pref, err := s.requireOwnPreference(ctx, userID, tripID, preferenceID)
	if err != nil {
		return nil, err
	}

	placeChanged := false
	if req.Country != nil {
		pref.Country = strings.TrimSpace(*req.Country)
		placeChanged = true
	}
	if req.City != nil {
		pref.City = strings.TrimSpace(*req.City)
		placeChanged = true
	}
	if req.Location != nil {
		pref.Location = strings.TrimSpace(*req.Location)
		placeChanged = true
	}
	if req.PlaceType != nil {
		placeType := model.PlaceType(*req.PlaceType)
		if !model.ValidPlaceTypes[placeType] {
			return nil, pkgerrors.InvalidPlaceType
		}
		pref.PlaceType = placeType
	}
	if req.Priority != nil {
		if *req.Priority < 1 || *req.Priority > 5 {
			return nil, pkgerrors.InvalidPriority
		}
		pref.Priority = *req.Priority
	}
	if req.Comment != nil {
		pref.Comment = *req.Comment
	}

	if placeChanged {
		pref.Latitude = nil
		pref.Longitude = nil
		s.geocodePreference(ctx, pref)
	}

	if err := s.db.WithContext(ctx).Save(pref).Error; err != nil {
		return nil, fmt.Errorf("failed to update preference: %w", err)
	}

	items, err := s.buildItems(ctx, []model.PlacePreference{*pref}, user.ID)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Delete удаляет пожелание вместе с реакциями, только владелец
func (s *PreferenceService) Delete(ctx context.Context, userID, tripID string, preferenceID int64) error {
	_, pref, err := s.requireOwnPreference(ctx, userID, tripID, preferenceID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("preference_id = ?", pref.ID).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(pref).Error
	})
}

func (s *PreferenceService) requireOwnPreference(ctx context.Context, userID, tripID string, preferenceID int64) (*model.User, *model.PlacePreference, error) {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, nil, err
	}

	var pref model.PlacePreference
	if err := s.db.WithContext(ctx).Where("id = ? AND trip_id = ?", preferenceID, trip.ID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.PreferenceNotFound
		}
		return nil, nil, err
	}

	if pref.UserID != user.ID {
		return nil, nil, pkgerrors.NotPreferenceOwner
	}

	return user, &pref, nil
}

func (s *PreferenceService) geocodePreference(ctx context.Context, pref *model.PlacePreference) {
	parts := make([]string, 0, 3)
	for _, p := range []string{pref.Location, pref.City, pref.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	coords, err := s.geo.Geocode(ctx, strings.Join(parts, ", "))
	if err != nil {
		logger.Logger.Warn("Geocoding failed, saving preference without coordinates",
			zap.String("city", pref.City),
			zap.Error(err),
		)
		return
	}
	if coords != nil {
		pref.Latitude = &coords.Latitude
		pref.Longitude = &coords.Longitude
	}
}

func (s *PreferenceService) buildItems(ctx context.Context, prefs []model.PlacePreference, viewerID int64) ([]model.PreferenceItem, error) {
	if len(prefs) == 0 {
		return []model.PreferenceItem{}, nil
	}

	prefIDs := make([]int64, 0, len(prefs))
	userIDSet := make(map[int64]struct{})
	for _, p := range prefs {
		prefIDs = append(prefIDs, p.ID)
		userIDSet[p.UserID] = struct{}{}
	}

	var reactions []model.Reaction
	if err := s.db.WithContext(ctx).Where("preference_id IN ?", prefIDs).Order("created_at ASC").Find(&reactions).Error; err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	for _, r := range reactions {
		userIDSet[r.UserID] = struct{}{}
	}

	userIDs := make([]int64, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	users, err := usernamesByID(ctx, s.db, userIDs)
	if err != nil {
		return nil, err
	}

	reactionsByPref := make(map[int64][]model.ReactionInfo)
	for _, r := range reactions {
		u := users[r.UserID]
		reactionsByPref[r.PreferenceID] = append(reactionsByPref[r.PreferenceID], model.ReactionInfo{
			UserID:   formatID(u.PublicID),
			Username: u.Username,
			Emoji:    r.Emoji,
		})
	}

	items := make([]model.PreferenceItem, 0, len(prefs))
	for _, p := range prefs {
		u := users[p.UserID]

		infos := reactionsByPref[p.ID]
		if infos == nil {
			infos = []model.ReactionInfo{}
		}

		items = append(items, model.PreferenceItem{
			ID:        p.ID,
			UserID:    formatID(u.PublicID),
			Username:  u.Username,
			Country:   p.Country,
			City:      p.City,
			Location:  p.Location,
			PlaceType: string(p.PlaceType),
			Priority:  p.Priority,
			Comment:   p.Comment,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Reactions: infos,
			IsMine:    p.UserID == viewerID,
			CreatedAt: p.CreatedAt,
		})
	}

	return items, nil
}
