package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Aadhavan2906/task-manager/internal/agent"
	"github.com/Aadhavan2906/task-manager/internal/config"
	"github.com/Aadhavan2906/task-manager/internal/distribution"
	"github.com/Aadhavan2906/task-manager/internal/observability"
)

// Dependencies holds all injected dependencies for the HTTP transport layer.
type Dependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Gatherer     prometheus.Gatherer
	Authenticate func(http.Handler) http.Handler
	Service      *distribution.Service
	Directory    agent.Directory
	Readiness    observability.ReadinessChecks
}

// NewRouter creates a chi.Router with the full middleware pipeline and all
// route registrations. Health, readiness, and metrics endpoints bypass the
// authentication middleware.
func NewRouter(deps Dependencies) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware: applied to all routes including health.
	r.Use(Recovery(logger))
	r.Use(CORS(deps.Config.Server.CORS))
	r.Use(RequestID)
	r.Use(SecurityHeaders)

	// Public routes — bypass authentication.
	r.Get("/healthz", observability.HandleHealth())
	r.Get("/readyz", observability.HandleReady(deps.Readiness))
	if deps.Config.Observability.Metrics.Enabled && deps.Gatherer != nil {
		r.Method(http.MethodGet, deps.Config.Observability.Metrics.Path,
			observability.MetricsHandler(deps.Gatherer))
	}

	// Authenticated routes — full middleware chain.
	auth := deps.Authenticate
	if auth == nil {
		auth = func(next http.Handler) http.Handler { return next }
	}

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(BuildRequestContext)
		r.Use(HandlerTimeout(deps.Config.Server.HandlerTimeout))
		r.Use(RequestLogging(logger))
		r.Use(MetricsRecording(deps.Metrics))

		r.Route("/api", func(r chi.Router) {
			r.Post("/agents", handleCreateAgent(deps.Directory))
			r.Get("/agents", handleListAgents(deps.Directory))
			r.Get("/agents/{agentID}", handleGetAgent(deps.Directory))
			r.Delete("/agents/{agentID}", handleDeactivateAgent(deps.Directory))

			r.Post("/distributions", handleDistribute(deps.Service))
			r.Get("/distributions", handleListDistributions(deps.Service))

			r.Patch("/batches/{batchID}/status", handleUpdateBatchStatus(deps.Service))

			r.Get("/stats", handleStats(deps.Service))
		})
	})

	return r
}
