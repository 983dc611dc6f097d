package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// DefaultTimeLayout renders log timestamps in the en-US general date/time
// form, e.g. "10/17/2026 3:04:05 PM".
const DefaultTimeLayout = "1/2/2006 3:04:05 PM"

const instrumentationName = "github.com/xenking/order-processor/internal/domain/order"

// Processor validates orders, computes their totals, persists them and emits
// the customer notification and processing log line.
type Processor struct {
	store    Store
	notifier Notifier
	log      Sink

	now        func() time.Time
	timeLayout string

	tracer    trace.Tracer
	processed metric.Int64Counter
	totals    metric.Float64Histogram
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*processorOptions)

type processorOptions struct {
	now            func() time.Time
	timeLayout     string
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithClock overrides the clock used for log timestamps.
func WithClock(now func() time.Time) ProcessorOption {
	return func(o *processorOptions) { o.now = now }
}

// WithTimeLayout sets the time.Format layout of log timestamps.
func WithTimeLayout(layout string) ProcessorOption {
	return func(o *processorOptions) {
		if layout != "" {
			o.timeLayout = layout
		}
	}
}

// WithTracerProvider sets the tracer provider. Defaults to no-op.
func WithTracerProvider(tp trace.TracerProvider) ProcessorOption {
	return func(o *processorOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. Defaults to no-op.
func WithMeterProvider(mp metric.MeterProvider) ProcessorOption {
	return func(o *processorOptions) { o.meterProvider = mp }
}

// NewProcessor creates a Processor with the given collaborators.
func NewProcessor(store Store, notifier Notifier, log Sink, opts ...ProcessorOption) (*Processor, error) {
	o := processorOptions{
		now:            time.Now,
		timeLayout:     DefaultTimeLayout,
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter(instrumentationName)
	processed, err := meter.Int64Counter("orders.processed",
		metric.WithDescription("Number of successfully processed orders"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create processed counter")
	}
	totals, err := meter.Float64Histogram("orders.total",
		metric.WithDescription("Order totals after discount"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create totals histogram")
	}

	return &Processor{
		store:      store,
		notifier:   notifier,
		log:        log,
		now:        o.now,
		timeLayout: o.timeLayout,
		tracer:     o.tracerProvider.Tracer(instrumentationName),
		processed:  processed,
		totals:     totals,
	}, nil
}

// Process validates o, overwrites o.Total with the discounted total, appends
// the order to the store, notifies the customer and writes the log line.
//
// The only domain failure is ErrEmptyItems. Collaborator failures are
// returned wrapped and abort the remaining steps; earlier steps are not
// rolled back.
func (p *Processor) Process(ctx context.Context, o *Order) (rerr error) {
	ctx, span := p.tracer.Start(ctx, "order.Process")
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	if len(o.Items) == 0 {
		return ErrEmptyItems
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}

	o.Total = Total(o.CustomerType, o.Items)
	span.SetAttributes(
		attribute.String("order.id", o.ID),
		attribute.String("order.customer_type", o.CustomerType.String()),
	)

	if err := p.store.Append(ctx, o); err != nil {
		return errors.Wrap(err, "append order")
	}
	if err := p.notifier.Notify(ctx, o); err != nil {
		return errors.Wrap(err, "notify")
	}
	if err := p.log.WriteLine(ctx, "Order processed at "+p.now().Format(p.timeLayout)); err != nil {
		return errors.Wrap(err, "write log")
	}

	attrs := metric.WithAttributes(attribute.String("customer_type", o.CustomerType.String()))
	p.processed.Add(ctx, 1, attrs)
	p.totals.Record(ctx, o.Total.InexactFloat64(), attrs)

	zctx.From(ctx).Info("Order processed",
		zap.String("order_id", o.ID),
		zap.Stringer("customer_type", o.CustomerType),
		zap.Stringer("total", o.Total),
		zap.Int("items", len(o.Items)),
	)
	return nil
}
