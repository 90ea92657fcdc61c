package di

import (
	"fmt"

	domrepo "VolPath/internal/domain/repository"
	"VolPath/internal/handler/api"
	"VolPath/internal/repository"
	"VolPath/internal/simulation"
	"VolPath/internal/usecase"
	"VolPath/pkg/cache"
	"VolPath/pkg/config"
	apphttp "VolPath/pkg/http"
	"VolPath/pkg/kafka"
	applogger "VolPath/pkg/logger"
	"VolPath/pkg/metrics"
)

// ProvideGenerator builds the path generator with the configured worker count.
func ProvideGenerator(cfg *config.Config) *simulation.Generator {
	var opts []simulation.GeneratorOption
	if cfg.Simulation.Workers > 0 {
		opts = append(opts, simulation.WithWorkers(cfg.Simulation.Workers))
	}
	return simulation.NewGenerator(opts...)
}

// ProvideMetrics builds the Prometheus recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCacheService builds the configured cache backend. Returns nil when
// caching is disabled.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize)), nil
	case "redis":
		return newRedisCache(cfg)
	case "layered":
		rc, err := newRedisCache(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.Memory.MaxSize)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func newRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	return cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
}

// ProvideResultCache adapts the cache service to the result cache port.
// Returns nil when no cache backend is configured.
func ProvideResultCache(cfg *config.Config, svc cache.Service, l *applogger.Logger) domrepo.ResultCache {
	if svc == nil {
		return nil
	}
	return repository.NewCachedResultStore(svc, cfg.Cache.TTL, l)
}

// ProvidePublisher builds the Kafka publisher when enabled. The cleanup
// function closes the producer.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (domrepo.Publisher, func(), error) {
	if !cfg.Publisher.Enabled {
		return nil, func() {}, nil
	}

	producer, err := kafka.NewProducer(
		kafka.WithBrokers(cfg.Publisher.Brokers),
		kafka.WithCompression(cfg.Publisher.Compression),
		kafka.WithRequiredAcks(cfg.Publisher.RequiredAcks),
		kafka.WithMaxAttempts(cfg.Publisher.MaxAttempts),
		kafka.WithWriteTimeout(cfg.Publisher.WriteTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create producer: %w", err)
	}

	pub := repository.NewKafkaPublisher(producer, cfg.Publisher.Topic, l)
	return pub, func() { _ = pub.Close() }, nil
}

// ProvideRunner builds the simulation runner.
func ProvideRunner(gen *simulation.Generator, rc domrepo.ResultCache, pub domrepo.Publisher, m domrepo.Metrics) *usecase.SimulationRunner {
	return usecase.NewSimulationRunner(gen, rc, pub, m)
}

// ProvideLimits extracts request size caps from configuration.
func ProvideLimits(cfg *config.Config) api.Limits {
	return api.Limits{
		MaxPaths: cfg.Simulation.MaxPaths,
		MaxSteps: cfg.Simulation.MaxSteps,
	}
}

// ProvideHandler builds the API handler.
func ProvideHandler(runner *usecase.SimulationRunner, l *applogger.Logger, limits api.Limits) *api.Handler {
	return api.NewHandler(runner, l, limits)
}

// ProvideServer builds the HTTP server around the handler.
func ProvideServer(h *api.Handler, l *applogger.Logger, cfg *config.Config) *apphttp.Server {
	opts := []apphttp.ServerOption{
		apphttp.WithPort(cfg.Server.Port),
		apphttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, apphttp.WithMetricsPath(cfg.Metrics.Path))
	} else {
		opts = append(opts, apphttp.WithMetricsPath(""))
	}
	return apphttp.NewServer(h, l, opts...)
}
