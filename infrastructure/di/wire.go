//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/workflow"
	"github.com/gabigoranov/Study-Platform-sub000/infrastructure/config"
	"github.com/gabigoranov/Study-Platform-sub000/interfaces/http/rest"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Collector
	Sessions *workflow.Manager
	Workflow *workflow.ReviewWorkflow
	Router   *rest.Router
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideStorageClient,
	ProvidePlatformClient,
	ProvideGenerationAPI,
	ProvidePersistenceAPI,
	ProvideQueryCache,
	ProvideCommitPipeline,
	ProvideLayoutEngine,
	ProvideSessionManager,
	ProvideReviewWorkflow,
	ProvideJWTValidator,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
