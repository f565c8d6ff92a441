package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/lichtwerk/internal/api/models"
	"github.com/smazurov/lichtwerk/internal/control"
	"github.com/smazurov/lichtwerk/internal/events"
	"github.com/smazurov/lichtwerk/internal/logging"
	"github.com/smazurov/lichtwerk/internal/metrics"
	"github.com/smazurov/lichtwerk/internal/statusled"
	"github.com/smazurov/lichtwerk/internal/version"
	"github.com/smazurov/lichtwerk/ui"
)

// Server is the HTTP control surface of the controller.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	control    *control.Service
	eventBus   *events.Bus
	options    *Options
	logger     *slog.Logger
}

// Options configures the API server.
type Options struct {
	Control           *control.Service
	EventBus          *events.Bus
	PrometheusHandler http.Handler       // Optional Prometheus metrics handler
	CORSOrigin        string             // Defaults to "*"
	StatusLED         *statusled.Manager // Optional board indicator

	// Reported by /api/health.
	DriverName string
	DemoMode   bool
	RenderMode func() string
}

// NewServer creates a new API server with Huma v2 using Go 1.22+ native routing
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	if opts.CORSOrigin != "" {
		corsConfig.AllowOrigin = opts.CORSOrigin
	}

	// Add CORS preflight handler for all OPTIONS requests
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("Lichtwerk API", "1.0.0")
	config.Info.Description = "Control API for an addressable LED strip"
	// Empty servers list will make OpenAPI use relative paths, working with any host
	config.Servers = []*huma.Server{}
	// Plain JSON bodies without $schema links; status carries extra
	// flattened option fields.
	config.CreateHooks = nil

	api := humago.New(mux, config)

	server := &Server{
		api:      api,
		mux:      mux,
		control:  opts.Control,
		eventBus: opts.EventBus,
		options:  opts,
		logger:   logging.GetLogger("api"),
	}

	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)

	// Registered before the API routes to avoid conflicts with the CORS handler
	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()

	// Serve frontend assets (in production mode or if dist exists)
	if frontendHandler, err := ui.Handler(); err == nil {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api") {
				http.NotFound(w, r)
				return
			}
			frontendHandler.ServeHTTP(w, r)
		})
	}

	return server
}

// GetMux returns the underlying HTTP ServeMux for additional setup
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start starts the HTTP server on the specified address. It blocks until the
// server stops.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting Lichtwerk API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down. Open SSE streams are closed immediately.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")

	if s.httpServer != nil {
		return s.httpServer.Close()
	}

	return nil
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health, strip driver and render loop counters",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		stats := metrics.GetRenderStats()
		mode := events.ModeIdle
		if s.options.RenderMode != nil {
			mode = s.options.RenderMode()
		}
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:      "ok",
				Message:     "API is healthy",
				Driver:      s.options.DriverName,
				DemoMode:    s.options.DemoMode,
				RenderMode:  mode,
				Frames:      stats.Frames,
				FrameErrors: stats.Errors,
				LastError:   stats.LastError,
				Dropped:     s.eventBus.Dropped(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		versionInfo := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   versionInfo.Version,
				GitCommit: versionInfo.GitCommit,
				BuildDate: versionInfo.BuildDate,
				GoVersion: versionInfo.GoVersion,
				Platform:  versionInfo.Platform,
			},
		}, nil
	})

	s.registerStateRoutes()
	s.registerEffectRoutes()
	s.registerSSERoutes()
	s.registerMetricsRoutes()
	s.registerLogRoutes()
	s.registerStatusLEDRoutes()
}
