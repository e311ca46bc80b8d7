package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TripTogether/internal/model"
	"TripTogether/internal/service"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/response"
)

// ListPreferences пожелания поездки
// GET /v1/trips/:trip_id/preferences
func ListPreferences(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Preference().List(ctx, userID, c.Param("trip_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// CreatePreference новое пожелание
// POST /v1/trips/:trip_id/preferences
func CreatePreference(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	var req model.CreatePreferenceRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Preference().Create(ctx, userID, c.Param("trip_id"), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, data)
}

// CheckDuplicatePreference мягкая проверка на похожее пожелание
// POST /v1/trips/:trip_id/preferences/check-duplicate
func CheckDuplicatePreference(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	var req model.CheckDuplicateRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Preference().CheckDuplicate(ctx, userID, c.Param("trip_id"), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// UpdatePreference изменение пожелания, только владелец
// PATCH /v1/trips/:trip_id/preferences/:preference_id
func UpdatePreference(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	preferenceID, ok := pathInt64(ctx, c, "preference_id", pkgerrors.PreferenceNotFound)
	if !ok {
		return
	}

	var req model.UpdatePreferenceRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Preference().Update(ctx, userID, c.Param("trip_id"), preferenceID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// DeletePreference удаление пожелания, только владелец
// DELETE /v1/trips/:trip_id/preferences/:preference_id
func DeletePreference(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	preferenceID, ok := pathInt64(ctx, c, "preference_id", pkgerrors.PreferenceNotFound)
	if !ok {
		return
	}

	if err := service.Preference().Delete(ctx, userID, c.Param("trip_id"), preferenceID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// SetReaction поставить или заменить реакцию на пожелание
// PUT /v1/trips/:trip_id/preferences/:preference_id/reaction
func SetReaction(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	preferenceID, ok := pathInt64(ctx, c, "preference_id", pkgerrors.PreferenceNotFound)
	if !ok {
		return
	}

	var req model.SetReactionRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Reaction().Set(ctx, userID, c.Param("trip_id"), preferenceID, req.Emoji)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// RemoveReaction снять свою реакцию
// DELETE /v1/trips/:trip_id/preferences/:preference_id/reaction
func RemoveReaction(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUser(ctx, c)
	if !ok {
		return
	}

	preferenceID, ok := pathInt64(ctx, c, "preference_id", pkgerrors.PreferenceNotFound)
	if !ok {
		return
	}

	if err := service.Reaction().Remove(ctx, userID, c.Param("trip_id"), preferenceID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
