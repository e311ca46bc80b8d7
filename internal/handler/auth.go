package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TripTogether/internal/middleware"
	"TripTogether/internal/model"
	"TripTogether/internal/service"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/response"
)

// RegisterUser регистрация
// POST /v1/auth/register
func RegisterUser(ctx context.Context, c *app.RequestContext) {
	var req model.RegisterRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Auth().Register(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, data)
}

// Login вход по email и паролю
// POST /v1/auth/login
func Login(ctx context.Context, c *app.RequestContext) {
	var req model.LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Auth().Login(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// RefreshToken обмен refresh-токена на новую пару
// POST /v1/auth/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req model.RefreshRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Auth().Refresh(ctx, req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// Me профиль текущего пользователя
// GET /v1/auth/me
func Me(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	data, err := service.Auth().Me(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}
