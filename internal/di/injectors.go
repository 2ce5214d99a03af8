//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"gtmd/internal"
	"gtmd/internal/controllers"
	"gtmd/internal/providers"
	"gtmd/internal/services"
	"gtmd/internal/statistic"
	"gtmd/internal/structures"
)

var timeServiceSet = wire.NewSet(
	providers.NewProjectsProvider,
	statistic.NewEventStore,
	provideRepositoryOpener,
	services.NewTimeService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		timeServiceSet,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		statistic.NewZstdCompressor,
		statistic.NewFileManager,
		statistic.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitTimeService(cfg *structures.CliFlags) (services.TimeServiceInterface, error) {

	wire.Build(
		providers.NewConfigProvider,
		provideConsoleLogger,
		timeServiceSet,
	)

	return nil, nil
}
