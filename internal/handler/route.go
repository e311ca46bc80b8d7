package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TripTogether/internal/model"
	"TripTogether/internal/service"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/response"
)

// GenerateRoutes запуск генерации маршрутов
// POST /v1/trips/:trip_id/routes/generate
func GenerateRoutes(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Route().Generate(ctx, userID, c.Param("trip_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, data)
}

// GetRoutes варианты маршрутов с голосами
// GET /v1/trips/:trip_id/routes
func GetRoutes(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Route().GetRoutes(ctx, userID, c.Param("trip_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// GetMissingPreferences пожелания, не попавшие в вариант маршрута
// GET /v1/trips/:trip_id/routes/:route_id/missing-preferences
func GetMissingPreferences(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	routeID, ok := pathInt64(ctx, c, "route_id", pkgerrors.RouteNotFound)
	if !ok {
		return
	}

	data, err := service.Route().MissingPreferences(ctx, userID, c.Param("trip_id"), routeID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// ExplainWhyNotIncluded объяснение от модели, почему место не вошло
// GET /v1/trips/:trip_id/routes/:route_id/why-not-included/:preference_id
func ExplainWhyNotIncluded(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	routeID, ok := pathInt64(ctx, c, "route_id", pkgerrors.RouteNotFound)
	if !ok {
		return
	}

	preferenceID, ok := pathInt64(ctx, c, "preference_id", pkgerrors.PreferenceNotFound)
	if !ok {
		return
	}

	data, err := service.Route().WhyNotIncluded(ctx, userID, c.Param("trip_id"), routeID, preferenceID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// CastVote голос за вариант маршрута
// POST /v1/trips/:trip_id/votes
func CastVote(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	var req model.VoteRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Vote().Cast(ctx, userID, c.Param("trip_id"), req.RouteOptionID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, nil)
}

// RetractVote снять свой голос
// DELETE /v1/trips/:trip_id/votes/:route_id
func RetractVote(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	routeID, ok := pathInt64(ctx, c, "route_id", pkgerrors.VoteNotFound)
	if !ok {
		return
	}

	if err := service.Vote().Retract(ctx, userID, c.Param("trip_id"), routeID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// GetMyVotes мои голоса в поездке
// GET /v1/trips/:trip_id/votes/my
func GetMyVotes(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Vote().MyVotes(ctx, userID, c.Param("trip_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// GetVotingResults итоги голосования
// GET /v1/trips/:trip_id/voting-results
func GetVotingResults(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Vote().Results(ctx, userID, c.Param("trip_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}
