package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	commandsTotal   metric.Int64Counter
	commandDuration metric.Float64Histogram
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
)

// InitRedisMetrics создаёт инструменты для хука; вызывается один раз
// до первой команды
func InitRedisMetrics(meter metric.Meter) error {
	var err error

	if commandsTotal, err = meter.Int64Counter(
		"redis.commands.total",
		metric.WithDescription("Total number of Redis commands"),
		metric.WithUnit("{command}"),
	); err != nil {
		return err
	}

	if commandDuration, err = meter.Float64Histogram(
		"redis.command.duration",
		metric.WithDescription("Redis command duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5),
	); err != nil {
		return err
	}

	if cacheHits, err = meter.Int64Counter(
		"redis.cache.hits",
		metric.WithDescription("Number of cache hits"),
		metric.WithUnit("{hit}"),
	); err != nil {
		return err
	}

	cacheMisses, err = meter.Int64Counter(
		"redis.cache.misses",
		metric.WithDescription("Number of cache misses"),
		metric.WithUnit("{miss}"),
	)
	return err
}

// tracingHook реализует redis.Hook: span и метрики на каждую команду
type tracingHook struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

func (h *tracingHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *tracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := h.tracer.Start(ctx, cmd.Name(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(h.attrs...),
		)
		defer span.End()

		span.SetAttributes(semconv.DBOperation(cmd.Name()))
		// в span попадают только ключи, значения могут содержать токены
		if keys := commandKeys(cmd.Args()); len(keys) > 0 {
			span.SetAttributes(attribute.StringSlice("redis.keys", keys))
		}

		started := time.Now()
		err := next(ctx, cmd)

		status := "success"
		switch {
		case errors.Is(err, redis.Nil):
			status = "not_found"
			span.SetStatus(codes.Ok, "key not found")
		case err != nil:
			status = "error"
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		default:
			span.SetStatus(codes.Ok, "")
		}

		if commandsTotal != nil {
			labels := metric.WithAttributes(
				attribute.String("redis.command", cmd.Name()),
				attribute.String("redis.status", status),
			)
			commandsTotal.Add(ctx, 1, labels)
			commandDuration.Record(ctx, time.Since(started).Seconds(), labels)

			switch cmd.Name() {
			case "get", "mget":
				if errors.Is(err, redis.Nil) {
					cacheMisses.Add(ctx, 1)
				} else if err == nil {
					cacheHits.Add(ctx, 1)
				}
			}
		}

		return err
	}
}

func (h *tracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := h.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(h.attrs...),
		)
		defer span.End()

		span.SetAttributes(attribute.Int("redis.pipeline.count", len(cmds)))

		err := next(ctx, cmds)

		failed := 0
		for _, cmd := range cmds {
			if cmd.Err() != nil && !errors.Is(cmd.Err(), redis.Nil) {
				failed++
			}
		}
		span.SetAttributes(attribute.Int("redis.pipeline.errors", failed))

		if commandsTotal != nil {
			commandsTotal.Add(ctx, 1, metric.WithAttributes(
				attribute.String("redis.command", "pipeline"),
			))
		}

		return err
	}
}

// commandKeys возвращает до пяти ключей команды, маскируя чувствительные
func commandKeys(args []interface{}) []string {
	if len(args) < 2 {
		return nil
	}

	keys := make([]string, 0, 5)
	for _, arg := range args[1:] {
		key, ok := arg.(string)
		if !ok {
			continue
		}
		keys = append(keys, maskKey(key))
		if len(keys) == 5 {
			break
		}
	}
	return keys
}

func maskKey(key string) string {
	for _, marker := range []string{"token", "password", "secret", "session"} {
		if strings.Contains(key, marker) {
			if prefix, _, ok := strings.Cut(key, ":"); ok {
				return prefix + ":***"
			}
			return "***"
		}
	}
	if len(key) > 100 {
		return key[:100] + "..."
	}
	return key
}

// InstrumentRedisClient вешает хук трейсинга на клиент
func InstrumentRedisClient(client redis.Cmdable, serviceName string, db int) redis.Cmdable {
	cli, ok := client.(*redis.Client)
	if !ok {
		return client
	}

	cli.AddHook(&tracingHook{
		tracer: otel.Tracer(serviceName + ".redis"),
		attrs: []attribute.KeyValue{
			semconv.DBSystemRedis,
			semconv.DBRedisDBIndex(db),
			attribute.String("service.name", serviceName),
		},
	})
	return cli
}
