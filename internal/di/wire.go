//go:build wireinject
// +build wireinject

package di

import (
	"TickForge/pkg/config"
	"TickForge/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvidePostgresClient,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideRedisCache,

		// Repositories
		ProvideGameStore,
		ProvideTickLog,
		ProvideBusPublisher,
		ProvideQuoteCache,

		// Use cases
		ProvideStreamHub,
		ProvideSimulation,
		ProvideCandlesUseCase,
		ProvideOrdersUseCase,

		// HTTP surface
		ProvideMarketHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
