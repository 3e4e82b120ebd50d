package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cocsim/internal/config"
	"cocsim/internal/game"
)

// Server is the HTTP API server with WebSocket support.
//
// Background workers do not start until Start is called, so tests can build
// a Server and use Router without goroutines or listeners.
type Server struct {
	cfg         config.AppConfig
	showcase    *Showcase
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server

	ctx    context.Context // cancelled by Shutdown
	cancel context.CancelFunc
}

// NewServer builds the server. showcase may be nil to disable the live
// battle.
func NewServer(cfg config.AppConfig, showcase *Showcase) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:         cfg,
		showcase:    showcase,
		wsHub:       NewWebSocketHub(cfg.Limits, NewOriginChecker(cfg.Server.CORSOrigins)),
		rateLimiter: NewIPRateLimiter(RateLimitConfigFrom(cfg.Limits)),
		ctx:         ctx,
		cancel:      cancel,
	}

	rc := RouterConfig{
		RateLimiter: s.rateLimiter,
		CORSOrigins: cfg.Server.CORSOrigins,
		APIKey:      cfg.Server.APIKey,
		Limits:      cfg.Limits,
		Sim:         cfg.Sim,
		Render:      cfg.Render,
		Extra: func(r chi.Router) {
			r.Get("/ws", s.wsHub.HandleWebSocket)
		},
	}
	if showcase != nil {
		rc.Showcase = showcase
	}
	s.router = NewRouter(rc)
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	return s
}

// Start launches the showcase loop, the WebSocket hub and the HTTP
// listener. It blocks until the listener stops; after Shutdown it returns
// nil.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	if s.showcase != nil {
		if err := s.wsHub.SetGreeting("showcase:grid", s.showcaseGrid()); err != nil {
			ln.Close()
			return fmt.Errorf("encode showcase grid: %w", err)
		}
	}

	ctx := s.ctx
	go s.wsHub.Run(ctx)
	if s.showcase != nil {
		go s.showcase.Run(ctx)
		go s.wsHub.BroadcastShowcase(ctx, s.showcase, s.cfg.Showcase.BroadcastHz)
	}

	log.Printf("🌐 API server starting on %s", ln.Addr())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) showcaseGrid() map[string]any {
	return map[string]any{
		"totalSize": s.showcase.m.TotalSize(),
		"grid":      s.showcase.Grid(),
	}
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Shutdown stops background workers and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

// LoadShowcase builds the showcase, using the demo base or plan where m or
// plan is nil. It returns nil when the showcase is disabled.
func LoadShowcase(cfg config.ShowcaseConfig, m *game.Map, plan *game.AttackPlan) (*Showcase, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	base, p := DemoMap(), DemoPlan()
	if m != nil {
		base = *m
	}
	if plan != nil {
		p = *plan
	}
	return NewShowcase(base, p, cfg)
}
