package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"TripTogether/internal/middleware"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/response"
)

// requireUser достаёт ID пользователя из JWT-контекста,
// при отсутствии сам отвечает 401
func requireUser(ctx context.Context, c *app.RequestContext) (string, bool) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return "", false
	}
	return userID, true
}

// pathInt64 разбирает числовой параметр пути; notFound уходит клиенту при мусоре
func pathInt64(ctx context.Context, c *app.RequestContext, name string, notFound error) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.Error(ctx, c, notFound)
		return 0, false
	}
	return id, true
}
