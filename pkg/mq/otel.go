package mq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	messagesTotal   metric.Int64Counter
	messageDuration metric.Float64Histogram
	publishErrors   metric.Int64Counter
	consumeErrors   metric.Int64Counter
)

// InitMQMetrics создаёт инструменты для обёрток канала; вызывается
// один раз до первой публикации
func InitMQMetrics(meter metric.Meter) error {
	var err error

	if messagesTotal, err = meter.Int64Counter(
		"mq.messages.total",
		metric.WithDescription("Total number of RabbitMQ messages"),
		metric.WithUnit("{message}"),
	); err != nil {
		return err
	}

	if messageDuration, err = meter.Float64Histogram(
		"mq.message.duration",
		metric.WithDescription("RabbitMQ message processing duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5),
	); err != nil {
		return err
	}

	if publishErrors, err = meter.Int64Counter(
		"mq.publish.errors",
		metric.WithDescription("Number of RabbitMQ publish errors"),
		metric.WithUnit("{error}"),
	); err != nil {
		return err
	}

	consumeErrors, err = meter.Int64Counter(
		"mq.consume.errors",
		metric.WithDescription("Number of RabbitMQ consume errors"),
		metric.WithUnit("{error}"),
	)
	return err
}

// instrumentedChannel оборачивает amqp.Channel span'ами и метриками,
// trace-контекст уезжает и приезжает через заголовки сообщений
type instrumentedChannel struct {
	ch          *amqp.Channel
	serviceName string
	propagators propagation.TextMapPropagator
	tracer      trace.Tracer
}

func newInstrumentedChannel(ch *amqp.Channel, serviceName string) *instrumentedChannel {
	return &instrumentedChannel{
		ch:          ch,
		serviceName: serviceName,
		propagators: otel.GetTextMapPropagator(),
		tracer:      otel.Tracer(serviceName + ".rabbitmq"),
	}
}

func (ic *instrumentedChannel) publish(
	ctx context.Context,
	exchange, routingKey string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	started := time.Now()

	ctx, span := ic.tracer.Start(ctx, "rabbitmq.publish."+exchange, trace.WithAttributes(
		semconv.MessagingSystem("rabbitmq"),
		attribute.String("messaging.destination.kind", "exchange"),
		attribute.String("messaging.rabbitmq.exchange", exchange),
		attribute.String("messaging.rabbitmq.routing_key", routingKey),
		attribute.String("service.name", ic.serviceName),
	))
	defer span.End()

	headers := make(amqp.Table, len(msg.Headers)+2)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	ic.propagators.Inject(ctx, headerCarrier(headers))
	msg.Headers = headers

	err := ic.ch.PublishWithContext(ctx, exchange, routingKey, mandatory, immediate, msg)

	status := "success"
	if err != nil {
		status = "error"
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		if publishErrors != nil {
			publishErrors.Add(ctx, 1)
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}

	ic.record(ctx, "publish", exchange, routingKey, status, time.Since(started))
	return err
}

func (ic *instrumentedChannel) consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	ctx, span := ic.tracer.Start(context.Background(), "rabbitmq.consume."+queue, trace.WithAttributes(
		semconv.MessagingSystem("rabbitmq"),
		semconv.MessagingDestinationName(queue),
		attribute.String("messaging.destination.kind", "queue"),
		attribute.String("service.name", ic.serviceName),
	))
	defer span.End()

	deliveries, err := ic.ch.Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		if consumeErrors != nil {
			consumeErrors.Add(ctx, 1)
		}
		return nil, err
	}
	span.SetStatus(codes.Ok, "")

	out := make(chan amqp.Delivery)
	go func() {
		defer close(out)
		for msg := range deliveries {
			ic.traceDelivery(ctx, msg)
			out <- msg
		}
	}()
	return out, nil
}

func (ic *instrumentedChannel) traceDelivery(ctx context.Context, msg amqp.Delivery) {
	started := time.Now()

	msgCtx := ic.propagators.Extract(ctx, headerCarrier(msg.Headers))
	_, span := ic.tracer.Start(msgCtx, "rabbitmq.message.process", trace.WithAttributes(
		semconv.MessagingSystem("rabbitmq"),
		semconv.MessagingRabbitmqDestinationRoutingKey(msg.RoutingKey),
		semconv.MessagingMessageID(msg.MessageId),
		attribute.String("messaging.rabbitmq.exchange", msg.Exchange),
		attribute.String("service.name", ic.serviceName),
	))
	span.End()

	ic.record(ctx, "consume", msg.Exchange, msg.RoutingKey, "received", time.Since(started))
}

func (ic *instrumentedChannel) record(ctx context.Context, op, exchange, routingKey, status string, elapsed time.Duration) {
	if messagesTotal == nil {
		return
	}

	labels := metric.WithAttributes(
		semconv.MessagingSystem("rabbitmq"),
		attribute.String("messaging.operation", op),
		attribute.String("messaging.rabbitmq.exchange", exchange),
		attribute.String("messaging.rabbitmq.routing_key", routingKey),
		attribute.String("messaging.status", status),
	)
	messagesTotal.Add(ctx, 1, labels)
	messageDuration.Record(ctx, elapsed.Seconds(), labels)
}

// headerCarrier реализует propagation.TextMapCarrier поверх amqp.Table
type headerCarrier amqp.Table

func (c headerCarrier) Get(key string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	c[key] = value
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// PublishWithTracing публикует одно сообщение через обёрнутый канал
func PublishWithTracing(
	ctx context.Context,
	ch *amqp.Channel,
	serviceName, exchange, routingKey string,
	msg amqp.Publishing,
) error {
	return newInstrumentedChannel(ch, serviceName).publish(ctx, exchange, routingKey, false, false, msg)
}

// ConsumeWithTracing запускает потребителя через обёрнутый канал
func ConsumeWithTracing(
	ch *amqp.Channel,
	serviceName, queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	return newInstrumentedChannel(ch, serviceName).consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
}
