//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/rakeshcr92/InsiderNet/internal/usecase"
	"github.com/rakeshcr92/InsiderNet/pkg/config"
	"github.com/rakeshcr92/InsiderNet/pkg/server"
)

var pipelineSet = wire.NewSet(
	// Observability
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,

	// Infrastructure clients
	ProvideClickHouseClient,
	ProvideKafkaProducer,
	ProvideCacheService,

	// Repositories
	ProvideSourceStore,
	ProvideTableSink,
	ProvidePublisher,
	ProvideResultCache,

	// Use case
	ProvidePipeline,
)

// InitializePipeline wires the pipeline for one-shot runs.
func InitializePipeline(cfg *config.Config) (*usecase.Pipeline, func(), error) {
	wire.Build(pipelineSet)
	return nil, nil, nil
}

// InitializeApp wires up all dependencies and returns the worker application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		pipelineSet,

		ProvideKafkaConsumer,
		ProvideRequestHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}
