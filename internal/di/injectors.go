//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"abd/internal"
	"abd/internal/controllers"
	"abd/internal/ledger"
	"abd/internal/providers"
	"abd/internal/services"
	"abd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewCacheProvider,
		providers.NewBroadcastProvider,

		ledger.NewZstdCompressor,
		ledger.NewStore,
		ledger.NewBackupManager,
		services.NewLedgerService,
		services.NewDigestService,
		services.NewCommandService,
		ledger.NewScheduler,
		controllers.NewCommandController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
