package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TripTogether/internal/model"
	"TripTogether/internal/service"
	"TripTogether/pkg/response"
)

// GenerateChecklist генерация чек-листа по победившему маршруту
// POST /v1/trips/:trip_id/checklist/generate
func GenerateChecklist(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Checklist().Generate(ctx, userID, c.Param("trip_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, data)
}

// GetChecklist чек-лист поездки, content null до генерации
// GET /v1/trips/:trip_id/checklist
func GetChecklist(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Checklist().Get(ctx, userID, c.Param("trip_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// SuggestPlaces подсказки мест для города
// POST /v1/suggestions/places
func SuggestPlaces(ctx context.Context, c *app.RequestContext) {
	if _, ok := requireUser(ctx, c); !ok {
		return
	}

	var req model.SuggestPlacesRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Suggestion().SuggestPlaces(ctx, req.Country, req.City)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}
