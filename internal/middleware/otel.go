package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	requestsTotal  metric.Int64Counter
	requestLatency metric.Float64Histogram
	requestBytes   metric.Int64Histogram
	responseBytes  metric.Int64Histogram
	inFlight       metric.Int64UpDownCounter
)

// InitMetrics создаёт HTTP-инструменты; вызывается из Init до старта сервера
func InitMetrics(meter metric.Meter) error {
	var err error

	if requestsTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return err
	}

	if requestLatency, err = meter.Float64Histogram(
		"http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	); err != nil {
		return err
	}

	if requestBytes, err = meter.Int64Histogram(
		"http.server.request.size",
		metric.WithDescription("HTTP request size"),
		metric.WithUnit("By"),
	); err != nil {
		return err
	}

	if responseBytes, err = meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("HTTP response size"),
		metric.WithUnit("By"),
	); err != nil {
		return err
	}

	inFlight, err = meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	return err
}

// битый UTF-8 в атрибутах ломает OTLP-экспорт
func cleanUTF8(val string) string {
	return strings.ToValidUTF8(val, "")
}

// OpenTelemetryMiddleware вешает span и метрики на каждый запрос
func OpenTelemetryMiddleware() app.HandlerFunc {
	tracer := otel.Tracer("hertz-server")

	return func(ctx context.Context, c *app.RequestContext) {
		started := time.Now()
		if inFlight != nil {
			inFlight.Add(ctx, 1)
			defer inFlight.Add(ctx, -1)
		}

		method := cleanUTF8(string(c.Method()))
		route := cleanUTF8(string(c.Path()))

		spanCtx, span := tracer.Start(ctx, method+" "+route, trace.WithAttributes(
			semconv.HTTPMethod(method),
			semconv.HTTPRoute(route),
			semconv.HTTPURL(cleanUTF8(c.Request.URI().String())),
			semconv.HTTPScheme(cleanUTF8(string(c.Request.URI().Scheme()))),
			attribute.String("http.host", cleanUTF8(string(c.Host()))),
			attribute.String("http.user_agent", cleanUTF8(string(c.UserAgent()))),
		))
		defer span.End()

		if userID := c.GetString("user_id"); userID != "" {
			span.SetAttributes(attribute.String("enduser.id", cleanUTF8(userID)))
		}
		if requestID := c.GetHeader("X-Request-Id"); len(requestID) > 0 {
			span.SetAttributes(attribute.String("http.request_id", cleanUTF8(string(requestID))))
		}

		c.Next(spanCtx)

		status := int(c.Response.StatusCode())
		span.SetAttributes(semconv.HTTPStatusCode(status))

		if status >= 400 {
			span.SetStatus(codes.Error, "")
			if status >= 500 {
				if lastErr := c.Errors.Last(); lastErr != nil {
					span.RecordError(lastErr)
				}
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}

		if requestsTotal == nil {
			return
		}

		labels := metric.WithAttributes(
			semconv.HTTPMethod(method),
			semconv.HTTPRoute(route),
			semconv.HTTPStatusCode(status),
		)
		requestsTotal.Add(ctx, 1, labels)
		requestLatency.Record(ctx, time.Since(started).Seconds(), labels)

		if size := int64(c.Request.Header.ContentLength()); size > 0 {
			requestBytes.Record(ctx, size, labels)
		}
		if size := int64(len(c.Response.Body())); size > 0 {
			responseBytes.Record(ctx, size, labels)
		}
	}
}

// NewServerTracerConfig возвращает опцию сервера и tracing-middleware Hertz
func NewServerTracerConfig(opts ...hertztracing.Option) (config.Option, app.HandlerFunc) {
	tracer, cfg := hertztracing.NewServerTracer(opts...)
	return tracer, hertztracing.ServerMiddleware(cfg)
}
