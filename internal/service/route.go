package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"TripTogether/config"
	"TripTogether/internal/model"
	"TripTogether/internal/planner"
	"TripTogether/internal/queue"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/llm"
	"TripTogether/pkg/logger"
	"TripTogether/pkg/metrics"
	"TripTogether/storage/database"
)

var (
	routeService *RouteService
	routeOnce    sync.Once
)

func Route() *RouteService {
	routeOnce.Do(func() {
		routeService = NewRouteService(database.DB(), llm.GetClient())
	})
	return routeService
}

type RouteService struct {
	db  *gorm.DB
	llm llm.Client
}

func NewRouteService(db *gorm.DB, client llm.Client) *RouteService {
	return &RouteService{db: db, llm: client}
}

// Generate запускает генерацию маршрутов.
// Статусы: idle -> in_progress -> {completed, failed} -> in_progress (регенерация).
// Вход защищён одним условным UPDATE, гонки двух запросов разруливает БД.
func (s *RouteService) Generate(ctx context.Context, userID, tripID string) (*model.GenerateRoutesData, error) {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.preferenceSnapshot(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if len(prefs) == 0 {
		return nil, pkgerrors.NoPreferences
	}

	maxCount := config.Cfg.MaxGenerationCount
	result := s.db.WithContext(ctx).Model(&model.Trip{}).
		Where("id = ? AND generation_status <> ? AND generation_count < ?",
			trip.ID, model.GenerationStatusInProgress, maxCount).
		Update("generation_status", model.GenerationStatusInProgress)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to acquire generation slot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// слот не взят: либо генерация уже идёт, либо исчерпан лимит
		var current model.Trip
		if err := s.db.WithContext(ctx).First(&current, trip.ID).Error; err != nil {
			return nil, err
		}
		if current.GenerationStatus == model.GenerationStatusInProgress {
			return nil, pkgerrors.GenerationInProgress
		}
		return nil, pkgerrors.GenerationLimitReached
	}

	outcome, err := s.callPlanner(ctx, trip, prefs)
	if err != nil {
		s.markFailed(ctx, trip.ID)
		metrics.GetMetrics().RecordGeneration(ctx, "routes", "failed", 0)
		return nil, mapLLMError(err)
	}

	routes := make([]model.RouteOption, 0, len(outcome.Routes))
	for i, r := range outcome.Routes {
		routes = append(routes, model.RouteOption{
			TripID:       trip.ID,
			OptionNumber: i + 1,
			Title:        r.Title,
			Description:  r.Description,
			Reasoning:    r.Reasoning,
		})
	}

	// старый батч живёт до валидации нового, поэтому удаление внутри
	// той же транзакции, что и вставка
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&model.RouteOption{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&routes).Error; err != nil {
			return err
		}

		return tx.Model(&model.Trip{}).Where("id = ?", trip.ID).Updates(map[string]interface{}{
			"generation_status": model.GenerationStatusCompleted,
			"generation_count":  gorm.Expr("generation_count + 1"),
		}).Error
	})
	if err != nil {
		s.markFailed(ctx, trip.ID)
		metrics.GetMetrics().RecordGeneration(ctx, "routes", "failed", 0)
		return nil, fmt.Errorf("failed to store generated routes: %w", err)
	}

	metrics.GetMetrics().RecordGeneration(ctx, "routes", "success", int64(len(routes)))
	logger.Logger.Info("Routes generated",
		zap.Int64("trip_id", trip.PublicID),
		zap.Int("routes", len(routes)),
		zap.Bool("degraded", outcome.Degraded),
	)

	queue.PublishTripEvent(ctx, queue.EventRoutesGenerated, trip.PublicID, user.PublicID, map[string]interface{}{
		"routes":   len(routes),
		"degraded": outcome.Degraded,
	})

	var updated model.Trip
	if err := s.db.WithContext(ctx).First(&updated, trip.ID).Error; err != nil {
		return nil, err
	}

	items, err := s.buildRouteItems(ctx, trip.ID, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.GenerateRoutesData{
		GenerationStatus: string(updated.GenerationStatus),
		GenerationCount:  updated.GenerationCount,
		Degraded:         outcome.Degraded,
		Routes:           items,
	}, nil
}

// GetRoutes возвращает варианты маршрутов с количеством голосов
func (s *RouteService) GetRoutes(ctx context.Context, userID, tripID string) ([]model.RouteOptionItem, error) {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	return s.buildRouteItems(ctx, trip.ID, user.ID)
}

// MissingPreferences возвращает пожелания, не упомянутые в варианте маршрута
func (s *RouteService) MissingPreferences(ctx context.Context, userID, tripID string, routeOptionID int64) ([]model.MissingPreferenceItem, error) {
	_, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	route, err := s.loadRoute(ctx, trip.ID, routeOptionID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.preferenceSnapshot(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	// место могло попасть только в обоснование или в структурированные
	// данные маршрута, их тоже учитываем
	routeText := route.Title + "\n" + route.Description + "\n" + route.Reasoning
	if len(route.RouteData) > 0 {
		routeText += "\n" + string(route.RouteData)
	}

	missing := make([]model.MissingPreferenceItem, 0)
	for _, p := range prefs {
		if planner.IsPlaceMentioned(routeText, p.pref.Location, p.pref.City) {
			continue
		}
		missing = append(missing, model.MissingPreferenceItem{
			PreferenceID: p.pref.ID,
			Country:      p.pref.Country,
			City:         p.pref.City,
			Location:     p.pref.Location,
			Username:     p.username,
		})
	}

	return missing, nil
}

// WhyNotIncluded спрашивает у модели, почему место не вошло в маршрут
func (s *RouteService) WhyNotIncluded(ctx context.Context, userID, tripID string, routeOptionID, preferenceID int64) (*model.WhyNotIncludedData, error) {
	_, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	route, err := s.loadRoute(ctx, trip.ID, routeOptionID)
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

	placeName := pref.Location
	if placeName == "" {
		placeName = pref.City
	}

	prompt := planner.BuildWhyNotIncludedPrompt(
		route.Title, route.Description,
		placeName, pref.Country, pref.City,
		pref.Priority, pref.Comment,
	)

	answer, err := s.llm.Complete(ctx, planner.WhyNotIncludedSystemPrompt, prompt, llm.Options{
		Temperature: 0.5,
		MaxTokens:   300,
		Kind:        "explain",
	})
	if err != nil {
		return nil, mapLLMError(err)
	}

	return &model.WhyNotIncludedData{
		PreferenceID: pref.ID,
		Explanation:  answer,
	}, nil
}

type prefWithUser struct {
	pref     model.PlacePreference
	username string
}

// preferenceSnapshot читает пожелания с именами авторов, приоритетные сверху
func (s *RouteService) preferenceSnapshot(ctx context.Context, tripID int64) ([]prefWithUser, error) {
	var prefs []model.PlacePreference
	err := s.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("priority DESC").Order("created_at ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}

	userIDs := make([]int64, 0, len(prefs))
	for _, p := range prefs {
		userIDs = append(userIDs, p.UserID)
	}
	users, err := usernamesByID(ctx, s.db, userIDs)
	if err != nil {
		return nil, err
	}

	snapshot := make([]prefWithUser, 0, len(prefs))
	for _, p := range prefs {
		snapshot = append(snapshot, prefWithUser{pref: p, username: users[p.UserID].Username})
	}
	return snapshot, nil
}

func (s *RouteService) callPlanner(ctx context.Context, trip *model.Trip, prefs []prefWithUser) (planner.ParseOutcome, error) {
	plannerPrefs := make([]planner.Preference, 0, len(prefs))
	for _, p := range prefs {
		plannerPrefs = append(plannerPrefs, planner.Preference{
			Country:   p.pref.Country,
			City:      p.pref.City,
			Location:  p.pref.Location,
			PlaceType: string(p.pref.PlaceType),
			Priority:  p.pref.Priority,
			Comment:   p.pref.Comment,
			Username:  p.username,
		})
	}

	prompt := planner.BuildRoutePrompt(planner.TripInfo{
		Title:       trip.Title,
		Description: trip.Description,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
	}, plannerPrefs)

	raw, err := s.llm.Complete(ctx, planner.RoutePlannerSystemPrompt, prompt, llm.Options{
		Temperature: 0.7,
		MaxTokens:   4000,
		Kind:        "routes",
	})
	if err != nil {
		return planner.ParseOutcome{}, err
	}

	return planner.ParseRoutesWithFallback(raw), nil
}

func (s *RouteService) markFailed(ctx context.Context, tripID int64) {
	err := s.db.WithContext(ctx).Model(&model.Trip{}).
		Where("id = ?", tripID).
		Update("generation_status", model.GenerationStatusFailed).Error
	if err != nil {
		logger.Logger.Error("Failed to mark generation as failed",
			zap.Int64("trip_id", tripID),
			zap.Error(err),
		)
	}
}

func (s *RouteService) loadRoute(ctx context.Context, tripID, routeOptionID int64) (*model.RouteOption, error) {
	var route model.RouteOption
	if err := s.db.WithContext(ctx).Where("id = ? AND trip_id = ?", routeOptionID, tripID).First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.RouteNotFound
		}
		return nil, err
	}
	return &route, nil
}

func (s *RouteService) buildRouteItems(ctx context.Context, tripID, viewerID int64) ([]model.RouteOptionItem, error) {
	var routes []model.RouteOption
	if err := s.db.WithContext(ctx).Where("trip_id = ?", tripID).Order("option_number ASC").Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}

	var votes []model.Vote
	if err := s.db.WithContext(ctx).Where("trip_id = ?", tripID).Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}

	countByRoute := make(map[int64]int)
	myVotes := make(map[int64]bool)
	for _, v := range votes {
		countByRoute[v.RouteOptionID]++
		if v.UserID == viewerID {
			myVotes[v.RouteOptionID] = true
		}
	}

	items := make([]model.RouteOptionItem, 0, len(routes))
	for _, r := range routes {
		items = append(items, model.RouteOptionItem{
			ID:           r.ID,
			OptionNumber: r.OptionNumber,
			Title:        r.Title,
			Description:  r.Description,
			Reasoning:    r.Reasoning,
			RouteData:    r.RouteData,
			VoteCount:    countByRoute[r.ID],
			MyVote:       myVotes[r.ID],
			CreatedAt:    r.CreatedAt,
		})
	}

	return items, nil
}

// mapLLMError переводит ошибки провайдера в бизнес-коды
func mapLLMError(err error) error {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return pkgerrors.LLMNotConfigured
	case errors.Is(err, llm.ErrRateLimited):
		return pkgerrors.LLMRateLimited
	case errors.Is(err, llm.ErrAuthFailed):
		return pkgerrors.LLMAuthFailed
	default:
		return pkgerrors.LLMProviderError
	}
}
