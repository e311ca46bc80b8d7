package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	pkgdatabase "TripTogether/pkg/database"
	pkgmq "TripTogether/pkg/mq"
	pkgredis "TripTogether/pkg/redis"
)

// OTelMetrics — набор метрик сервиса
type OTelMetrics struct {
	// LLM
	LLMRequestsTotal   metric.Int64Counter
	LLMRequestDuration metric.Float64Histogram
	LLMActiveRequests  metric.Int64UpDownCounter

	// Генерация маршрутов / чек-листов
	GenerationsTotal       metric.Int64Counter
	GenerationParsedRoutes metric.Int64Histogram

	// События поездок (RabbitMQ)
	TripEventsPublished metric.Int64Counter
	TripEventsConsumed  metric.Int64Counter
}

var (
	metrics *OTelMetrics
	meter   = otel.Meter("triptogether")
)

// InitMetrics инициализирует метрики OpenTelemetry,
// включая инструменты БД, Redis и RabbitMQ
func InitMetrics() error {
	var err error

	if err = pkgdatabase.InitDatabaseMetrics(meter); err != nil {
		return err
	}
	if err = pkgredis.InitRedisMetrics(meter); err != nil {
		return err
	}
	if err = pkgmq.InitMQMetrics(meter); err != nil {
		return err
	}

	metrics = &OTelMetrics{}

	metrics.LLMRequestsTotal, err = meter.Int64Counter(
		"llm_requests_total",
		metric.WithDescription("Total number of LLM completion requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	metrics.LLMRequestDuration, err = meter.Float64Histogram(
		"llm_request_duration_seconds",
		metric.WithDescription("Time spent waiting for LLM completions"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2.5, 5, 10, 20, 30, 60, 120),
	)
	if err != nil {
		return err
	}

	metrics.LLMActiveRequests, err = meter.Int64UpDownCounter(
		"llm_active_requests",
		metric.WithDescription("Number of in-flight LLM requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	metrics.GenerationsTotal, err = meter.Int64Counter(
		"trip_generations_total",
		metric.WithDescription("Total number of route/checklist generation attempts"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return err
	}

	metrics.GenerationParsedRoutes, err = meter.Int64Histogram(
		"trip_generation_parsed_routes",
		metric.WithDescription("Number of route options parsed per successful generation"),
		metric.WithUnit("{route}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 4, 5),
	)
	if err != nil {
		return err
	}

	metrics.TripEventsPublished, err = meter.Int64Counter(
		"trip_events_published_total",
		metric.WithDescription("Total number of trip events published to the queue"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	metrics.TripEventsConsumed, err = meter.Int64Counter(
		"trip_events_consumed_total",
		metric.WithDescription("Total number of trip events consumed by the worker"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics возвращает глобальный набор метрик (nil до InitMetrics)
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordLLMRequest фиксирует запрос к LLM: kind — routes|checklist|suggestions|explain
func (m *OTelMetrics) RecordLLMRequest(ctx context.Context, kind, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("kind", kind),
		attribute.String("status", status),
	}

	m.LLMRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.LLMRequestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordGeneration фиксирует попытку генерации и число распарсенных вариантов
func (m *OTelMetrics) RecordGeneration(ctx context.Context, kind, status string, parsedRoutes int64) {
	if m == nil {
		return
	}
	m.GenerationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
	if status == "success" && kind == "routes" {
		m.GenerationParsedRoutes.Record(ctx, parsedRoutes)
	}
}

// RecordTripEventPublished фиксирует публикацию события поездки
func (m *OTelMetrics) RecordTripEventPublished(ctx context.Context, event string) {
	if m == nil {
		return
	}
	m.TripEventsPublished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
	))
}

// RecordTripEventConsumed фиксирует обработку события воркером
func (m *OTelMetrics) RecordTripEventConsumed(ctx context.Context, event, status string) {
	if m == nil {
		return
	}
	m.TripEventsConsumed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("status", status),
	))
}

// AddLLMActiveRequest увеличивает счётчик активных LLM-запросов
func (m *OTelMetrics) AddLLMActiveRequest(ctx context.Context) {
	if m == nil {
		return
	}
	m.LLMActiveRequests.Add(ctx, 1)
}

// SubtractLLMActiveRequest уменьшает счётчик активных LLM-запросов
func (m *OTelMetrics) SubtractLLMActiveRequest(ctx context.Context) {
	if m == nil {
		return
	}
	m.LLMActiveRequests.Add(ctx, -1)
}
