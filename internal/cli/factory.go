package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/interpro2go"
	"github.com/aretw0/interpro2go/internal/config"
	"github.com/aretw0/interpro2go/internal/logging"
	"github.com/aretw0/interpro2go/pkg/adapters/memory"
	"github.com/aretw0/interpro2go/pkg/adapters/process"
	redisAdapter "github.com/aretw0/interpro2go/pkg/adapters/redis"
	"github.com/aretw0/interpro2go/pkg/adapters/workspace"
	"github.com/aretw0/interpro2go/pkg/observability"
	"github.com/aretw0/interpro2go/pkg/persistence/middleware"
	"github.com/aretw0/interpro2go/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Runtime is a fully wired service together with the resources it holds.
type Runtime struct {
	Service  *interpro2go.Service
	Registry *prometheus.Registry
	Logger   *slog.Logger

	// Store is the local object store when one is configured (memory or redis).
	// It is nil for the workspace backend.
	Store ports.ObjectStore

	closers []func() error
}

// Close releases connections opened by Build.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewLogger builds the application logger from cfg. A non-empty level overrides cfg.LogLevel.
func NewLogger(cfg config.Config, level string) (*slog.Logger, error) {
	if level == "" {
		level = cfg.LogLevel
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(stderr, lvl, cfg.LogFormat == "json"), nil
}

// Build wires the annotation service described by cfg.
// toolOutput receives the annotation tool's stdout and stderr; nil discards them.
func Build(cfg config.Config, logger *slog.Logger, toolOutput io.Writer) (*Runtime, error) {
	if err := cfg.PrepareScratch(); err != nil {
		return nil, err
	}

	rt := &Runtime{
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}
	rt.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := observability.NewMetrics(rt.Registry)
	opts := []interpro2go.Option{
		interpro2go.WithLogger(logger),
		interpro2go.WithMetrics(metrics),
		interpro2go.WithFailOnToolError(cfg.FailOnToolError),
	}

	var client *redis.Client
	if cfg.Store == config.StoreRedis || cfg.Redis.Lock {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, client.Close)
		opts = append(opts, interpro2go.WithLocker(redisAdapter.NewLocker(client, cfg.Redis.Prefix), cfg.LockTTL))
	} else {
		opts = append(opts, interpro2go.WithLocker(memory.NewLocker(), cfg.LockTTL))
	}

	var stores ports.StoreFactory
	switch cfg.Store {
	case config.StoreWorkspace:
		stores = workspace.Factory(cfg.WorkspaceURL, workspace.WithLogger(logger))
	case config.StoreMemory:
		rt.Store = memory.NewStore()
		stores = ports.StaticStore(rt.Store)
	case config.StoreRedis:
		rt.Store = redisAdapter.NewFromClient(client, redisAdapter.WithPrefix(cfg.Redis.Prefix))
		stores = ports.StaticStore(rt.Store)
	default:
		rt.Close()
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	stores = middleware.Factory(stores,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewMetricsMiddleware(metrics),
	)

	runnerOpts := []process.RunnerOption{
		process.WithBaseDir(cfg.Scratch),
		process.WithLogger(logger),
	}
	if toolOutput != nil {
		runnerOpts = append(runnerOpts, process.WithOutput(toolOutput))
	}
	runner := process.NewRunner(cfg.Tool, runnerOpts...)

	svc, err := interpro2go.New(cfg.Scratch, stores, runner, opts...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Service = svc

	logger.Debug("service wired",
		"store", cfg.Store,
		"scratch", cfg.Scratch,
		"tool", cfg.Tool.Command,
		"locking", client != nil,
	)
	return rt, nil
}
