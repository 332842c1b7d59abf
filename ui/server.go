package ui

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"oncodash/domain/access"
	"oncodash/internal"
	"oncodash/internal/assistant"
	"oncodash/internal/config"
	"oncodash/internal/explain"
	"oncodash/internal/monitor"
	"oncodash/internal/sampler"
	"oncodash/internal/store"
	"oncodash/ports"
)

// Server is the dashboard web server. It owns no derived state of its own:
// everything it serves comes from the evaluation store, the poller, or a
// per-session view state.
type Server struct {
	router    *gin.Engine
	cfg       *config.Config
	store     *store.Store
	backend   ports.Backend
	sessions  ports.SessionStore
	sampler   *sampler.Sampler
	explain   *explain.Service
	monitor   *monitor.Poller
	assistant *assistant.Assistant
	views     *viewStates
	logger    *internal.Logger
}

// Deps bundles the server's collaborators.
type Deps struct {
	Config    *config.Config
	Store     *store.Store
	Backend   ports.Backend
	Sessions  ports.SessionStore
	Sampler   *sampler.Sampler
	Explain   *explain.Service
	Monitor   *monitor.Poller
	Assistant *assistant.Assistant
	Logger    *internal.Logger
}

// NewServer wires the router. The access policy is validated exhaustively
// here so a misconfigured allow-list fails startup instead of silently
// stranding a route.
func NewServer(deps Deps) (*Server, error) {
	if err := access.ValidatePolicy(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	gin.SetMode(deps.Config.Server.GinMode)
	s := &Server{
		router:    gin.Default(),
		cfg:       deps.Config,
		store:     deps.Store,
		backend:   deps.Backend,
		sessions:  deps.Sessions,
		sampler:   deps.Sampler,
		explain:   deps.Explain,
		monitor:   deps.Monitor,
		assistant: deps.Assistant,
		views:     newViewStates(),
		logger:    logger,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Public surface: sign-in and the auth operations themselves.
	s.router.GET(string(access.RouteSignin), s.handleSigninView)
	s.router.POST("/auth/login", s.handleLogin)
	s.router.POST("/auth/signup", s.handleSignup)
	s.router.POST("/auth/logout", s.handleLogout)

	// Everything else goes through the access guard.
	guarded := s.router.Group("/", s.RequireAccess())
	guarded.GET(string(access.RouteOverview), s.handleOverview)

	guarded.GET(string(access.RoutePredict), s.handlePredictView)
	guarded.PUT("/predict/record", s.handleEditRecord)
	guarded.POST("/predict/sample", s.handleSampleDistribution)
	guarded.POST("/predict/sample-varied", s.handleSampleVaried)
	guarded.POST("/predict/model", s.handleSelectModel)
	guarded.POST(string(access.RoutePredict), s.handlePredict)

	guarded.GET(string(access.RouteExplainability), s.handleExplainabilityView)
	guarded.GET("/explainability/shap", s.handleShap)
	guarded.GET("/explainability/importance", s.handleImportance)
	guarded.GET("/explainability/lime", s.handleLime)

	guarded.GET(string(access.RouteMetrics), s.handleMetrics)
	guarded.GET("/metrics/export", s.handleMetricsExport)

	guarded.GET("/monitoring", s.handleMonitoring)
	guarded.POST("/chat", s.handleChat)
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.logger.Info("[Server] listening on %s", addr)
	return srv.ListenAndServe()
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
