package database

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var (
	queriesTotal  metric.Int64Counter
	queryDuration metric.Float64Histogram
)

// секреты в SQL маскируем до записи в span
var secretColumns = regexp.MustCompile(`(password_hash|password|refresh_token|token)\s*=\s*'[^']*'`)

// InitDatabaseMetrics создаёт инструменты для gorm-плагина; вызывается
// один раз до первого запроса к БД
func InitDatabaseMetrics(meter metric.Meter) error {
	var err error

	if queriesTotal, err = meter.Int64Counter(
		"db.queries.total",
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("{query}"),
	); err != nil {
		return err
	}

	queryDuration, err = meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	return err
}

type PluginConfig struct {
	ServiceName   string
	EnableMetrics bool
	MaxSQLLength  int
}

// tracingPlugin реализует gorm.Plugin: span + метрики на каждый запрос
type tracingPlugin struct {
	tracer trace.Tracer
	cfg    PluginConfig
}

const (
	spanKey  = "tracing:span"
	startKey = "tracing:started_at"
)

func (p *tracingPlugin) Name() string { return "tracing" }

func (p *tracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	register := func(err *error, next error) {
		if *err == nil {
			*err = next
		}
	}

	var err error
	register(&err, cb.Query().Before("gorm:query").Register("tracing:before_query", p.before))
	register(&err, cb.Query().After("gorm:query").Register("tracing:after_query", p.after))
	register(&err, cb.Create().Before("gorm:create").Register("tracing:before_create", p.before))
	register(&err, cb.Create().After("gorm:create").Register("tracing:after_create", p.after))
	register(&err, cb.Update().Before("gorm:update").Register("tracing:before_update", p.before))
	register(&err, cb.Update().After("gorm:update").Register("tracing:after_update", p.after))
	register(&err, cb.Delete().Before("gorm:delete").Register("tracing:before_delete", p.before))
	register(&err, cb.Delete().After("gorm:delete").Register("tracing:after_delete", p.after))
	register(&err, cb.Row().Before("gorm:row").Register("tracing:before_row", p.before))
	register(&err, cb.Row().After("gorm:row").Register("tracing:after_row", p.after))
	register(&err, cb.Raw().Before("gorm:raw").Register("tracing:before_raw", p.before))
	register(&err, cb.Raw().After("gorm:raw").Register("tracing:after_raw", p.after))
	return err
}

func (p *tracingPlugin) before(db *gorm.DB) {
	ctx, span := p.tracer.Start(db.Statement.Context, sqlVerb(db.Statement.SQL.String()),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(p.statementAttributes(db)...),
	)

	db.InstanceSet(startKey, time.Now())
	db.InstanceSet(spanKey, span)
	db.Statement.Context = ctx
}

func (p *tracingPlugin) after(db *gorm.DB) {
	spanI, ok := db.InstanceGet(spanKey)
	if !ok {
		return
	}
	span, ok := spanI.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}

	switch {
	case db.Error == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(db.Error, gorm.ErrRecordNotFound):
		// not found — обычный исход выборки, не ошибка запроса
		span.SetStatus(codes.Ok, "record not found")
	default:
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if !p.cfg.EnableMetrics || queriesTotal == nil {
		return
	}

	startI, ok := db.InstanceGet(startKey)
	if !ok {
		return
	}
	started, ok := startI.(time.Time)
	if !ok {
		return
	}

	status := "success"
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		status = "error"
	}
	labels := metric.WithAttributes(
		attribute.String("db.operation", sqlVerb(db.Statement.SQL.String())),
		attribute.String("db.status", status),
	)

	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	queriesTotal.Add(ctx, 1, labels)
	queryDuration.Record(ctx, time.Since(started).Seconds(), labels)
}

func (p *tracingPlugin) statementAttributes(db *gorm.DB) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.DBSystemPostgreSQL,
		attribute.String("service.name", p.cfg.ServiceName),
	}

	if table := db.Statement.Table; table != "" {
		attrs = append(attrs, attribute.String("db.table", table))
	}

	sql := db.Statement.SQL.String()
	if len(sql) > p.cfg.MaxSQLLength {
		sql = sql[:p.cfg.MaxSQLLength] + "..."
	}
	sql = secretColumns.ReplaceAllString(strings.ToLower(sql), "$1='***'")

	return append(attrs, semconv.DBStatement(sql))
}

func sqlVerb(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	switch {
	case sql == "":
		return "db.unknown"
	case strings.HasPrefix(sql, "SELECT"):
		return "db.select"
	case strings.HasPrefix(sql, "INSERT"):
		return "db.insert"
	case strings.HasPrefix(sql, "UPDATE"):
		return "db.update"
	case strings.HasPrefix(sql, "DELETE"):
		return "db.delete"
	default:
		return "db.query"
	}
}

// WithOTELPlugin подключает трейсинг-плагин к gorm
func WithOTELPlugin(db *gorm.DB, cfg PluginConfig) error {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "triptogether"
	}
	if cfg.MaxSQLLength <= 0 {
		cfg.MaxSQLLength = 500
	}
	return db.Use(&tracingPlugin{
		tracer: otel.Tracer(cfg.ServiceName + ".gorm"),
		cfg:    cfg,
	})
}

// WithDefaultOTELPlugin подключает плагин с настройками по умолчанию
func WithDefaultOTELPlugin(db *gorm.DB, serviceName string) error {
	return WithOTELPlugin(db, PluginConfig{ServiceName: serviceName, EnableMetrics: true})
}
