//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"VolPath/pkg/config"
	apphttp "VolPath/pkg/http"
	applogger "VolPath/pkg/logger"
)

// InitializeServer wires the full HTTP service.
func InitializeServer(cfg *config.Config, l *applogger.Logger) (*apphttp.Server, func(), error) {
	wire.Build(
		ProvideGenerator,
		ProvideMetrics,
		ProvideCacheService,
		ProvideResultCache,
		ProvidePublisher,
		ProvideRunner,
		ProvideLimits,
		ProvideHandler,
		ProvideServer,
	)
	return nil, nil, nil
}
