package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"TripTogether/pkg/errors"
)

// ErrorResponse — единый формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse — единый формат успешного ответа
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError
	}

	// Маппинг кода бизнес-ошибки в HTTP-статус
	switch def.Code {
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "USER_DEACTIVATED", "INVALID_TOKEN_TYPE":
		return http.StatusUnauthorized // 401
	case "NOT_PARTICIPANT", "NOT_ORGANIZER", "NOT_PREFERENCE_OWNER", "ORGANIZER_CANNOT_LEAVE":
		return http.StatusForbidden // 403
	case "TRIP_NOT_FOUND", "USER_NOT_FOUND", "PREFERENCE_NOT_FOUND", "ROUTE_NOT_FOUND",
		"VOTE_NOT_FOUND", "REACTION_NOT_FOUND", "INVALID_INVITE_CODE":
		return http.StatusNotFound // 404
	case "EMAIL_ALREADY_TAKEN", "USERNAME_ALREADY_TAKEN", "ALREADY_PARTICIPANT", "DUPLICATE_VOTE":
		return http.StatusConflict // 409
	case "LLM_RATE_LIMITED", "TOO_MANY_REQUESTS":
		return http.StatusTooManyRequests // 429
	case "LLM_NOT_CONFIGURED", "LLM_AUTH_FAILED", "LLM_PROVIDER_ERROR":
		return http.StatusInternalServerError // 500
	default:
		// PARTICIPANT_LIMIT_REACHED, GENERATION_IN_PROGRESS, NO_PREFERENCES,
		// GENERATE_ROUTES_FIRST, VOTE_FIRST и прочие нарушения предусловий
		return http.StatusBadRequest // 400
	}
}

func writeError(c *app.RequestContext, err error, details map[string]interface{}) {
	detail := ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
		Details: details,
	}
	if def, ok := err.(errors.Definition); ok {
		detail.Code = def.Code
		detail.Message = def.Message
	}

	c.JSON(errorToHTTPStatus(err), ErrorResponse{Error: detail})
}

// Error возвращает ошибку в едином формате
func Error(ctx context.Context, c *app.RequestContext, err error) {
	writeError(c, err, nil)
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	writeError(c, err, details)
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

// Created возвращает 201 для операций создания и генерации
func Created(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// NoContent возвращает 204 No Content (DELETE и похожие операции)
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
