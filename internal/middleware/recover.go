package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"TripTogether/config"
	"TripTogether/pkg/errors"
	"TripTogether/pkg/logger"
	"TripTogether/pkg/response"
)

// RecoverConfig управляет тем, что попадает в лог и в ответ при панике
type RecoverConfig struct {
	// писать заголовки и маленькое текстовое тело запроса в лог
	LogRequestDetails bool
	// отдавать панику и стек в теле ответа (вне production)
	ExposeDetails bool
}

func NewRecoverConfig() RecoverConfig {
	return RecoverConfig{
		LogRequestDetails: true,
		ExposeDetails:     !config.Cfg.IsProduction(),
	}
}

func RecoverMiddleware() app.HandlerFunc {
	return RecoverMiddlewareWithConfig(NewRecoverConfig())
}

func RecoverMiddlewareWithConfig(cfg RecoverConfig) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				stack := trimmedStack()
				logPanic(ctx, c, r, stack, cfg)
				writePanicResponse(c, r, stack, cfg)
			}
		}()

		c.Next(ctx)
	}
}

func writePanicResponse(c *app.RequestContext, r interface{}, stack string, cfg RecoverConfig) {
	def := errors.Definition{
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "Внутренняя ошибка сервера. Попробуйте позже.",
	}

	if !cfg.ExposeDetails {
		response.Error(context.Background(), c, def)
		return
	}

	response.ErrorWithDetails(context.Background(), c, def, map[string]interface{}{
		"panic":     fmt.Sprintf("%v", r),
		"stack":     stack,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func logPanic(ctx context.Context, c *app.RequestContext, r interface{}, stack string, cfg RecoverConfig) {
	fields := []zap.Field{
		zap.String("panic", fmt.Sprintf("%v", r)),
		zap.String("path", string(c.Path())),
		zap.String("method", string(c.Method())),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", string(c.GetHeader("X-Request-Id"))),
		zap.String("stack", stack),
	}

	if userID, ok := GetUserID(ctx, c); ok {
		fields = append(fields, zap.String("user_id", userID))
	}

	if cfg.LogRequestDetails {
		headers := make(map[string]string)
		c.Request.Header.VisitAll(func(key, value []byte) {
			headers[string(key)] = string(value)
		})
		fields = append(fields, zap.Any("headers", headers))

		// тело пишем только маленькое и текстовое
		if body := c.Request.Body(); len(body) > 0 && len(body) < 1024 {
			ct := string(c.ContentType())
			if strings.HasPrefix(ct, "application/json") || strings.HasPrefix(ct, "text/") {
				fields = append(fields, zap.ByteString("body", body))
			}
		}
	}

	logger.Logger.Error("Panic recovered", fields...)
}

// trimmedStack убирает из стека кадры runtime и самого recover
func trimmedStack() string {
	lines := strings.Split(string(debug.Stack()), "\n")

	filtered := make([]string, 0, len(lines))
	skip := 0
	for _, line := range lines {
		if skip > 0 {
			skip--
			continue
		}
		// кадр занимает две строки: функция и файл
		if strings.HasPrefix(line, "runtime/debug.Stack") ||
			strings.HasPrefix(line, "runtime.gopanic") ||
			strings.Contains(line, "middleware.trimmedStack") ||
			strings.Contains(line, "middleware.RecoverMiddlewareWithConfig") {
			skip = 1
			continue
		}
		filtered = append(filtered, line)
	}

	return strings.Join(filtered, "\n")
}
