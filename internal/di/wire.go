//go:build wireinject
// +build wireinject

package di

import (
	"TrendBack/pkg/config"
	"TrendBack/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideBarSource,
		ProvideBarStore,
		ProvideTradeStore,
		ProvidePublisher,
		ProvideWebhook,

		// Use cases
		ProvideEngineConfig,
		ProvideBacktestUseCase,
		ProvideAdvisorUseCase,
		ProvideTradesUseCase,

		// HTTP and application
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
