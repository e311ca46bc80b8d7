package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

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
	checklistService *ChecklistService
	checklistOnce    sync.Once
)

func Checklist() *ChecklistService {
	checklistOnce.Do(func() {
		checklistService = NewChecklistService(database.DB(), llm.GetClient())
	})
	return checklistService
}

type ChecklistService struct {
	db  *gorm.DB
	llm llm.Client
}

func NewChecklistService(db *gorm.DB, client llm.Client) *ChecklistService {
	return &ChecklistService{db: db, llm: client}
}

// Generate строит чек-лист по победившему маршруту. Предусловия разные:
// без маршрутов просим сгенерировать их, без голосов просим проголосовать.
func (s *ChecklistService) Generate(ctx context.Context, userID, tripID string) (*model.ChecklistData, error) {
	user, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	results, err := votingAggregate(ctx, s.db, trip.ID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, pkgerrors.GenerateRoutesFirst
	}
	if results[0].VoteCount == 0 {
		return nil, pkgerrors.VoteFirst
	}

	winner, err := s.loadWinner(ctx, trip.ID, results[0].RouteOptionID)
	if err != nil {
		return nil, err
	}

	placesLine, err := s.placesLine(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	prompt := planner.BuildPackingPrompt(planner.TripInfo{
		Title:       trip.Title,
		Description: trip.Description,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
	}, winner.Title, winner.Description, placesLine)

	raw, err := s.llm.Complete(ctx, planner.PackingListSystemPrompt, prompt, llm.Options{
		Temperature: 0.6,
		MaxTokens:   2000,
		Kind:        "checklist",
	})
	if err != nil {
		metrics.GetMetrics().RecordGeneration(ctx, "checklist", "failed", 0)
		return nil, mapLLMError(err)
	}

	content := planner.ParsePackingResponse(raw)
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checklist: %w", err)
	}

	checklist := &model.TripChecklist{
		TripID:      trip.ID,
		CreatedByID: &user.ID,
		Content:     contentJSON,
	}

	// один чек-лист на поездку, регенерация перезаписывает
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&model.TripChecklist{}).Error; err != nil {
			return err
		}
		return tx.Create(checklist).Error
	})
	if err != nil {
		metrics.GetMetrics().RecordGeneration(ctx, "checklist", "failed", 0)
		return nil, fmt.Errorf("failed to store checklist: %w", err)
	}

	metrics.GetMetrics().RecordGeneration(ctx, "checklist", "success", 0)
	logger.Logger.Info("Checklist generated",
		zap.Int64("trip_id", trip.PublicID),
		zap.Int("categories", len(content.Categories)),
	)

	queue.PublishTripEvent(ctx, queue.EventChecklistGenerated, trip.PublicID, user.PublicID, map[string]interface{}{
		"categories": len(content.Categories),
	})

	return &model.ChecklistData{
		Content:   &content,
		CreatedAt: &checklist.CreatedAt,
	}, nil
}

// Get возвращает чек-лист поездки; до генерации content == null
func (s *ChecklistService) Get(ctx context.Context, userID, tripID string) (*model.ChecklistData, error) {
	_, trip, err := requireTripAccess(ctx, s.db, userID, tripID)
	if err != nil {
		return nil, err
	}

	var checklist model.TripChecklist
	if err := s.db.WithContext(ctx).Where("trip_id = ?", trip.ID).First(&checklist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.ChecklistData{}, nil
		}
		return nil, err
	}

	var content model.ChecklistContent
	if err := json.Unmarshal(checklist.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checklist content: %w", err)
	}

	return &model.ChecklistData{
		Content:   &content,
		CreatedAt: &checklist.CreatedAt,
	}, nil
}

func (s *ChecklistService) loadWinner(ctx context.Context, tripID, routeOptionID int64) (*model.RouteOption, error) {
	var route model.RouteOption
	if err := s.db.WithContext(ctx).Where("id = ? AND trip_id = ?", routeOptionID, tripID).First(&route).Error; err != nil {
		return nil, fmt.Errorf("failed to load winning route: %w", err)
	}
	return &route, nil
}

// placesLine собирает "Страна: город1, город2; Страна2: город" из пожеланий
func (s *ChecklistService) placesLine(ctx context.Context, tripID int64) (string, error) {
	var prefs []model.PlacePreference
	if err := s.db.WithContext(ctx).Where("trip_id = ?", tripID).Find(&prefs).Error; err != nil {
		return "", fmt.Errorf("failed to query preferences: %w", err)
	}

	citiesByCountry := make(map[string]map[string]struct{})
	for _, p := range prefs {
		country := strings.TrimSpace(p.Country)
		city := strings.TrimSpace(p.City)
		if country == "" || city == "" {
			continue
		}
		if citiesByCountry[country] == nil {
			citiesByCountry[country] = make(map[string]struct{})
		}
		citiesByCountry[country][city] = struct{}{}
	}

	countries := make([]string, 0, len(citiesByCountry))
	for c := range citiesByCountry {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	parts := make([]string, 0, len(countries))
	for _, country := range countries {
		cities := make([]string, 0, len(citiesByCountry[country]))
		for city := range citiesByCountry[country] {
			cities = append(cities, city)
		}
		sort.Strings(cities)
		parts = append(parts, country+": "+strings.Join(cities, ", "))
	}

	return strings.Join(parts, "; "), nil
}
