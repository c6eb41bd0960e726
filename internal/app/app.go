// Package app initializes and holds the console's long-lived services, acting
// as a dependency injection container for the commands.
package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/api"
	"github.com/JakeFAU/catalog-console/internal/backend"
	"github.com/JakeFAU/catalog-console/internal/clock"
	"github.com/JakeFAU/catalog-console/internal/config"
	"github.com/JakeFAU/catalog-console/internal/console"
	"github.com/JakeFAU/catalog-console/internal/id/uuid"
	"github.com/JakeFAU/catalog-console/internal/logging"
	"github.com/JakeFAU/catalog-console/internal/metrics"
	"github.com/JakeFAU/catalog-console/internal/policy/ratelimit"
	"github.com/JakeFAU/catalog-console/internal/progress"
	"github.com/JakeFAU/catalog-console/internal/progress/sinks"
	"github.com/JakeFAU/catalog-console/internal/store"
	"github.com/JakeFAU/catalog-console/internal/store/memory"
	"github.com/JakeFAU/catalog-console/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

// Options carries process-level wiring that does not come from config.
type Options struct {
	// ConfigPath is an optional config file read by config.Load.
	ConfigPath string
	Out        io.Writer
	ErrOut     io.Writer
	// Logger overrides the logger built from config.
	Logger *zap.Logger
	// Transport overrides the base HTTP transport to the backend.
	Transport http.RoundTripper
}

// App holds all the shared services for one console run.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	client   *backend.Client
	hub      *progress.Hub
	imports  store.ImportRepository
	session  *console.Session
	status   *api.Server
	addr     net.Addr
	tracer   *sdktrace.TracerProvider
}

// New loads configuration and builds an App.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewFromConfig(ctx, cfg, opts)
}

// NewFromConfig builds an App from an already loaded Config. It fails fast
// if any service cannot be initialized.
func NewFromConfig(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		built, err := logging.New(logging.Options{Development: cfg.Logging.Development, Level: cfg.Logging.Level})
		if err != nil {
			return nil, err
		}
		logger = built
	}
	logger = logging.OrNop(logger)

	a := &App{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clientMetrics, err := metrics.NewClient(a.registry)
	if err != nil {
		return nil, err
	}
	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		Burst:             cfg.HTTP.Burst,
		OnWait:            clientMetrics.ObserveRateLimitWait,
	})
	base := opts.Transport
	if cfg.Tracing.Enabled {
		var traceOpts []sdktrace.TracerProviderOption
		if cfg.Tracing.LogSpans {
			traceOpts = append(traceOpts, sdktrace.WithBatcher(telemetry.NewLogExporter(logger.Named("trace"))))
		}
		a.tracer, err = telemetry.InitTracerProvider(ctx, cfg.Tracing.ServiceName, traceOpts...)
		if err != nil {
			return nil, err
		}
		base = telemetry.Transport(base, a.tracer)
	}
	transport := backend.NewTransport(clientMetrics.InstrumentRoundTripper(base), uuid.New(), limiter)
	a.client, err = backend.New(backend.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.RequestTimeout(),
		Transport: transport,
		Logger:    logger.Named("backend"),
	})
	if err != nil {
		return nil, fmt.Errorf("init backend client: %w", err)
	}

	promSink, err := sinks.NewPrometheusSink(a.registry)
	if err != nil {
		return nil, err
	}
	repo := memory.NewImportStore()
	a.imports = repo
	a.hub = progress.NewHub(progress.HubConfig{
		BufferSize:     cfg.Progress.BufferSize,
		MaxBatchEvents: cfg.Progress.MaxBatchEvents,
		MaxBatchWait:   cfg.BatchWait(),
		Logger:         logger.Named("hub"),
	},
		sinks.NewLogSink(logger.Named("progress")),
		promSink,
		sinks.NewStoreSink(repo, logger),
	)

	a.session, err = console.NewSession(a.client, console.SessionOptions{
		PageSize: cfg.Products.PageSize,
		Resync:   cfg.Progress.ResyncOnDrop,
		Emitter:  a.hub,
		Clock:    clock.New(),
		Out:      opts.Out,
		ErrOut:   opts.ErrOut,
		Logger:   logger,
	})
	if err != nil {
		a.closeHub()
		return nil, err
	}

	if cfg.Status.ListenAddr != "" {
		if err := a.startStatus(cfg.Status.ListenAddr); err != nil {
			a.closeHub()
			return nil, err
		}
	}

	logger.Debug("console services initialized",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Int("page_size", cfg.Products.PageSize),
		zap.Bool("resync_on_drop", cfg.Progress.ResyncOnDrop),
	)
	return a, nil
}

func (a *App) startStatus(addr string) error {
	serverMetrics, err := metrics.NewServer(a.registry)
	if err != nil {
		return err
	}
	a.status = api.NewServer(api.Options{
		Imports:  a.imports,
		Gatherer: a.registry,
		Metrics:  serverMetrics,
		Logger:   a.logger.Named("status"),
	})
	bound, err := a.status.Start(addr)
	if err != nil {
		return fmt.Errorf("start status server: %w", err)
	}
	a.addr = bound
	return nil
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Session returns the console session.
func (a *App) Session() *console.Session {
	return a.session
}

// Imports returns the repository of imports followed in this run.
func (a *App) Imports() store.ImportRepository {
	return a.imports
}

// Registry returns the Prometheus registry the console reports to.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// StatusAddr returns the status server address, or nil when it is disabled.
func (a *App) StatusAddr() net.Addr {
	return a.addr
}

// Close tears down open channels, stops the status server, flushes progress
// sinks and syncs the logger.
func (a *App) Close() {
	if a.session != nil {
		a.session.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if a.status != nil {
		if err := a.status.Shutdown(ctx); err != nil {
			a.logger.Warn("status server shutdown failed", zap.Error(err))
		}
	}
	if a.hub != nil {
		if err := a.hub.Close(ctx); err != nil {
			a.logger.Warn("progress hub close failed", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func (a *App) closeHub() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = a.hub.Close(ctx)
}
