package app

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/order-processor/internal/domain/order"
	"github.com/xenking/order-processor/internal/handler"
	"github.com/xenking/order-processor/internal/notify"
	"github.com/xenking/order-processor/internal/sink"
	"github.com/xenking/order-processor/internal/storage/file"
	"github.com/xenking/order-processor/internal/storage/memory"
	"github.com/xenking/order-processor/internal/storage/postgres"
	"github.com/xenking/order-processor/internal/storage/redis"
	"github.com/xenking/order-processor/pkg/health"
	"github.com/xenking/order-processor/pkg/httpmiddleware"
)

// Pipeline is the order processing pipeline assembled from Config.
type Pipeline struct {
	Store     order.Store
	Processor *order.Processor

	checks  map[string]health.CheckFunc
	closers []func() error
}

// Checks returns readiness checks for the configured backends.
func (p *Pipeline) Checks() map[string]health.CheckFunc {
	return p.checks
}

// Close releases backend connections in reverse order of creation and
// returns the first error.
func (p *Pipeline) Close() error {
	var first error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	p.closers = nil
	return first
}

// Build connects the configured store, notifier and processing log and
// creates the Processor. Console notifications are written to stdout.
func Build(ctx context.Context, cfg *Config, stdout io.Writer, opts ...order.ProcessorOption) (_ *Pipeline, rerr error) {
	p := &Pipeline{checks: make(map[string]health.CheckFunc)}
	defer func() {
		if rerr != nil {
			_ = p.Close()
		}
	}()

	switch cfg.Store.Driver {
	case StoreFile:
		p.Store = file.New(cfg.Store.Path)
		p.checks["store"] = health.DirCheck(cfg.Store.Path)
	case StoreMemory:
		p.Store = memory.New()
	case StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "create db pool")
		}
		p.closers = append(p.closers, func() error { pool.Close(); return nil })
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return nil, errors.Wrap(err, "run migrations")
		}
		p.Store = postgres.NewOrderStore(pool)
		p.checks["postgres"] = func(ctx context.Context) error {
			return pool.Ping(ctx)
		}
	case StoreRedis:
		rdb, err := redis.NewClient(cfg.Store.RedisAddr)
		if err != nil {
			return nil, errors.Wrap(err, "create redis client")
		}
		p.closers = append(p.closers, rdb.Close)
		p.Store = redis.New(rdb, cfg.Store.RedisKey)
		p.checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	default:
		return nil, errors.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	var notifier order.Notifier
	switch cfg.Notify.Driver {
	case NotifyConsole:
		notifier = notify.NewConsole(stdout)
	case NotifyKafka:
		k := notify.NewKafka(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		p.closers = append(p.closers, k.Close)
		notifier = k
	default:
		return nil, errors.Errorf("unknown notify driver %q", cfg.Notify.Driver)
	}

	p.checks["log"] = health.DirCheck(cfg.Log.Path)

	opts = append([]order.ProcessorOption{order.WithTimeLayout(cfg.TimeLayout())}, opts...)
	processor, err := order.NewProcessor(p.Store, notifier, sink.NewFile(cfg.Log.Path), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create processor")
	}
	p.Processor = processor
	return p, nil
}

// newHTTPHandler wraps h with the API middleware chain. RequestID and
// InjectLogger run first so Recovery can log panics with the request logger.
func newHTTPHandler(
	ctx context.Context,
	lg *zap.Logger,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	rl RateLimitConfig,
	h http.Handler,
) http.Handler {
	return httpmiddleware.Wrap(h,
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    rl.Max,
			Window: rl.Window,
		}),
		httpmiddleware.Instrument("order-api", tp, mp),
		httpmiddleware.LogRequests(),
	)
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the API service.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.Store.Driver),
		zap.String("notify", cfg.Notify.Driver),
	)

	pipeline, err := Build(ctx, cfg, os.Stdout,
		order.WithTracerProvider(m.TracerProvider()),
		order.WithMeterProvider(m.MeterProvider()),
	)
	if err != nil {
		return errors.Wrap(err, "build pipeline")
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			lg.Error("Close pipeline", zap.Error(err))
		}
	}()

	// Health check service.
	healthSvc := health.New()
	for name, check := range pipeline.Checks() {
		healthSvc.AddReadinessCheck(name, 5*time.Second, check)
	}
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	h := handler.NewHandler(
		handler.HandlerConfig{StrictCustomerType: cfg.StrictCustomerType},
		pipeline.Processor,
		pipeline.Store,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           newHTTPHandler(ctx, zctx.From(ctx), m.TracerProvider(), m.MeterProvider(), cfg.RateLimit, mux),
	}

	g, gctx := errgroup.WithContext(ctx)
	// Graceful shutdown: wait for cancellation, drain, then stop.
	g.Go(func() error {
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		return nil
	})
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	return g.Wait()
}
