package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TripTogether/internal/model"
	"TripTogether/internal/service"
	"TripTogether/pkg/response"
)

// CreateTrip создание поездки
// POST /v1/trips
func CreateTrip(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	var req model.CreateTripRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Trip().Create(ctx, userID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, data)
}

// ListTrips мои поездки
// GET /v1/trips
func ListTrips(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Trip().List(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// GetTrip карточка поездки
// GET /v1/trips/:trip_id
func GetTrip(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Trip().Detail(ctx, userID, c.Param("trip_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// UpdateTrip частичное обновление, только организатор
// PATCH /v1/trips/:trip_id
func UpdateTrip(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	var req model.UpdateTripRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Trip().Update(ctx, userID, c.Param("trip_id"), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// DeleteTrip удаление поездки, только организатор
// DELETE /v1/trips/:trip_id
func DeleteTrip(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	if err := service.Trip().Delete(ctx, userID, c.Param("trip_id")); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// JoinTrip вступление по коду приглашения
// POST /v1/trips/join
func JoinTrip(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	var req model.JoinTripRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Trip().Join(ctx, userID, req.InviteCode)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// LeaveTrip выход из поездки
// POST /v1/trips/:trip_id/leave
func LeaveTrip(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	if err := service.Trip().Leave(ctx, userID, c.Param("trip_id")); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
