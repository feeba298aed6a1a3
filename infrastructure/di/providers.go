package di

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gabigoranov/Study-Platform-sub000/application/commit"
	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/application/workflow"
	"github.com/gabigoranov/Study-Platform-sub000/domain/services"
	"github.com/gabigoranov/Study-Platform-sub000/infrastructure/cache"
	"github.com/gabigoranov/Study-Platform-sub000/infrastructure/config"
	"github.com/gabigoranov/Study-Platform-sub000/infrastructure/platform"
	"github.com/gabigoranov/Study-Platform-sub000/infrastructure/storage"
	"github.com/gabigoranov/Study-Platform-sub000/interfaces/http/rest"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/auth"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/observability"
)

// metricsNamespace prefixes every exported metric
const metricsNamespace = "studyengine"

// developmentJWTSecret signs nothing real; it exists so the engine boots
// without secrets in local development. Validate() rejects it in production.
const developmentJWTSecret = "local-development-secret"

// ProvideLogger creates the application logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideMetrics creates the metrics collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(metricsNamespace)
}

// ProvideStorageClient creates the Supabase-backed document store
func ProvideStorageClient(cfg *config.Config, logger *zap.Logger) (ports.StorageClient, error) {
	return storage.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StorageBucket, logger)
}

// ProvidePlatformClient creates the client for the study platform's API
func ProvidePlatformClient(cfg *config.Config, logger *zap.Logger) *platform.Client {
	return platform.NewClient(cfg.PlatformBaseURL, cfg.PlatformTimeout, platform.DefaultBreakerConfig(), logger)
}

// ProvideGenerationAPI exposes the platform client as the generation port
func ProvideGenerationAPI(client *platform.Client) ports.GenerationAPI {
	return client
}

// ProvidePersistenceAPI exposes the platform client as the persistence port
func ProvidePersistenceAPI(client *platform.Client) ports.PersistenceAPI {
	return client
}

// ProvideQueryCache creates the in-memory query cache
func ProvideQueryCache(metrics *observability.Collector) ports.QueryCache {
	return cache.NewInMemoryQueryCache(metrics)
}

// ProvideCommitPipeline creates the commit pipeline
func ProvideCommitPipeline(persistence ports.PersistenceAPI, queryCache ports.QueryCache, logger *zap.Logger) *commit.Pipeline {
	return commit.NewPipeline(persistence, queryCache, logger)
}

// ProvideLayoutEngine creates the mindmap layout engine
func ProvideLayoutEngine() *services.LayoutEngine {
	return services.NewLayoutEngine()
}

// ProvideSessionManager creates the in-memory session store
func ProvideSessionManager(cfg *config.Config) *workflow.Manager {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return workflow.NewManager(ttl)
}

// ProvideReviewWorkflow creates the review workflow orchestrator
func ProvideReviewWorkflow(
	sessions *workflow.Manager,
	storageClient ports.StorageClient,
	genAPI ports.GenerationAPI,
	persistence ports.PersistenceAPI,
	committer *commit.Pipeline,
	layout *services.LayoutEngine,
	metrics *observability.Collector,
	logger *zap.Logger,
) *workflow.ReviewWorkflow {
	return workflow.NewReviewWorkflow(sessions, storageClient, genAPI, persistence, committer, layout, metrics, logger)
}

// ProvideJWTValidator creates the bearer token validator
func ProvideJWTValidator(cfg *config.Config, logger *zap.Logger) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		logger.Warn("JWT_SECRET not set, using development fallback")
		secret = developmentJWTSecret
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		Leeway:    30 * time.Second,
	})
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	wf *workflow.ReviewWorkflow,
	storageClient ports.StorageClient,
	validator *auth.JWTValidator,
	metrics *observability.Collector,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, wf, storageClient, validator, metrics, logger)
}
