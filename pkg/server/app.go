package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"VolPath/internal/di"
	"VolPath/pkg/config"
	apphttp "VolPath/pkg/http"
	applogger "VolPath/pkg/logger"
)

// App owns the service lifecycle: config, logger, wiring, HTTP server and
// graceful shutdown.
type App struct {
	cfg     *config.Config
	logger  *applogger.Logger
	server  *apphttp.Server
	cleanup func()
}

// NewApp loads configuration and wires the service.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	srv, cleanup, err := di.InitializeServer(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("wire service: %w", err)
	}

	return &App{
		cfg:     cfg,
		logger:  l,
		server:  srv,
		cleanup: cleanup,
	}, nil
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func (a *App) Run() error {
	defer a.cleanup()

	a.logger.Info("starting service",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("cache", a.cfg.Cache.Enabled),
		applogger.Bool("publisher", a.cfg.Publisher.Enabled),
	)

	if err := a.server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	a.logger.Info("shutting down", applogger.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(ctx); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}
	return nil
}
