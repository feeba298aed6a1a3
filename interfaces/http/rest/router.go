package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/application/workflow"
	"github.com/gabigoranov/Study-Platform-sub000/infrastructure/config"
	"github.com/gabigoranov/Study-Platform-sub000/interfaces/http/rest/handlers"
	"github.com/gabigoranov/Study-Platform-sub000/interfaces/http/rest/middleware"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/auth"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	config    *config.Config
	workflow  *workflow.ReviewWorkflow
	storage   ports.StorageClient
	validator *auth.JWTValidator
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	wf *workflow.ReviewWorkflow,
	storage ports.StorageClient,
	validator *auth.JWTValidator,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:    cfg,
		workflow:  wf,
		storage:   storage,
		validator: validator,
		metrics:   metrics,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger, rt.metrics))

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.config.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			rt.metrics.GetRegistry(),
			promhttp.HandlerOpts{},
		))
	}

	// API routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.config.RateLimitPerMinute, rt.logger))

		sessionHandler := handlers.NewSessionHandler(rt.workflow, rt.logger)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Cancel)
				r.Post("/upload", sessionHandler.Upload)
				r.Post("/commit", sessionHandler.Commit)
				r.Post("/retry", sessionHandler.Retry)

				r.Put("/items/{index}", sessionHandler.ReplaceItem)
				r.Delete("/items/{index}", sessionHandler.RemoveItem)
				r.Put("/mindmap", sessionHandler.UpdateMindmapMeta)

				r.Route("/graph", func(r chi.Router) {
					r.Post("/placement", sessionHandler.StartPlacement)
					r.Post("/placement/confirm", sessionHandler.ConfirmPlacement)
					r.Delete("/placement", sessionHandler.CancelPlacement)
					r.Put("/nodes/{nodeID}", sessionHandler.UpdateNode)
					r.Delete("/nodes/{nodeID}", sessionHandler.RemoveNode)
					r.Post("/edges", sessionHandler.Connect)
					r.Delete("/edges/{edgeID}", sessionHandler.RemoveEdge)
					r.Post("/layout", sessionHandler.AutoLayout)
				})
			})
		})

		fileHandler := handlers.NewFileHandler(rt.storage, rt.logger)
		r.Route("/files", func(r chi.Router) {
			r.Get("/", fileHandler.List)
			r.Delete("/{filename}", fileHandler.Delete)
		})

		presetHandler := handlers.NewPresetHandler(rt.logger)
		r.Route("/presets", func(r chi.Router) {
			r.Get("/", presetHandler.List)
			r.Get("/{kind}", presetHandler.Get)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
