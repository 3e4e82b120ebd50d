package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"cocsim/internal/config"
	"cocsim/internal/render"
)

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
// Example usage in tests:
//
//	router := api.NewRouter(api.RouterConfig{
//	    RateLimiter:    api.NewIPRateLimiter(api.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000}),
//	    DisableLogging: true,
//	})
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Showcase serves /api/showcase. Nil answers 404.
	Showcase ShowcaseSource

	// RateLimiter applies a per-IP budget; nil disables it. The caller owns
	// its cleanup goroutine.
	RateLimiter *IPRateLimiter

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, any localhost port is allowed.
	CORSOrigins []string

	// APIKey guards the batch endpoint when non-empty.
	APIKey string

	// Zero values select the config defaults.
	Limits config.ResourceLimits
	Sim    config.SimConfig
	Render config.RenderConfig

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool

	// Extra mounts additional routes (the WebSocket endpoint) on the router.
	Extra func(r chi.Router)
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// NewRouter is pure: it starts no goroutines and opens no listeners, so it
// is safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Limits == (config.ResourceLimits{}) {
		cfg.Limits = config.DefaultLimits()
	}
	if cfg.Sim == (config.SimConfig{}) {
		cfg.Sim = config.DefaultSim()
	}
	if cfg.Render == (config.RenderConfig{}) {
		cfg.Render = config.DefaultRender()
	}

	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Rate limiting before CORS rejects early.
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", APIKeyHeader},
		MaxAge:         300,
	}))

	h := &routerHandlers{
		showcase: cfg.Showcase,
		limits:   cfg.Limits,
		sim:      cfg.Sim,
		renderer: render.NewRenderer(render.Config{
			TileSize:      cfg.Render.TileSize,
			HeaderHeight:  cfg.Render.HeaderHeight,
			ShowCollision: cfg.Render.ShowCollision,
		}),
	}

	r.Route("/api", func(r chi.Router) {
		// Catalog
		r.Get("/building-types", h.handleBuildingTypes)
		r.Get("/unit-types", h.handleUnitTypes)
		r.Get("/game-types", h.handleGameTypes)

		// Maps
		r.Post("/maps/validate", h.handleValidateMap)
		r.Post("/render", h.handleRender)

		// Simulation
		r.Post("/simulate", h.handleSimulate)
		r.With(APIKeyMiddleware(cfg.APIKey)).Post("/simulate/batch", h.handleSimulateBatch)

		r.Get("/showcase", h.handleShowcase)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	if cfg.Extra != nil {
		cfg.Extra(r)
	}

	return r
}
