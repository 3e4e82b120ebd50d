package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"cocsim/internal/api"
	"cocsim/internal/config"
	"cocsim/internal/game"
	"cocsim/internal/mapfile"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("🏰 ================================")
	log.Println("🏰  COCSIM - BATTLE SIMULATOR")
	log.Println("🏰 ================================")

	appConfig := config.Load()
	serverCfg := appConfig.Server
	limits := appConfig.Limits

	log.Printf("🛡️ Resource limits: %d batch jobs, %d workers, %.0f req/s per IP, %d WebSocket clients",
		limits.MaxBatchJobs, limits.MaxBatchWorkers, limits.RequestsPerSecond, limits.MaxWSConnections)
	if serverCfg.APIKey == "" {
		log.Println("⚠️ COCSIM_API_KEY not set - batch simulation is open")
	}

	if err := api.StartDebugServer(api.ObservabilityConfig{
		Enabled:       serverCfg.DebugEnabled,
		ListenAddr:    serverCfg.DebugAddr,
		BasicAuthUser: os.Getenv("DEBUG_USER"),
		BasicAuthPass: os.Getenv("DEBUG_PASS"),
	}); err != nil {
		log.Printf("⚠️ Debug server disabled: %v", err)
	}

	showcase, err := loadShowcase(appConfig.Showcase)
	if err != nil {
		log.Fatalf("❌ Showcase: %v", err)
	}
	if showcase == nil {
		log.Println("🎬 Showcase disabled")
	}

	server := api.NewServer(appConfig, showcase)

	addr := ":" + strconv.Itoa(serverCfg.Port)
	errc := make(chan error, 1)
	go func() {
		errc <- server.Start(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("✅ Server ready on http://localhost%s - press Ctrl+C to stop.", addr)
	select {
	case err := <-errc:
		if err != nil {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
		return
	case <-quit:
	}

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
	log.Println("👋 Goodbye!")
}

// loadShowcase reads the configured map and plan files; unset paths use the
// demo battle.
func loadShowcase(cfg config.ShowcaseConfig) (*api.Showcase, error) {
	var m *game.Map
	var plan *game.AttackPlan

	if cfg.Enabled && cfg.MapPath != "" {
		loaded, err := mapfile.LoadMap(cfg.MapPath)
		if err != nil {
			return nil, err
		}
		m = &loaded
		log.Printf("🗺️ Showcase map: %s", cfg.MapPath)
	}
	if cfg.Enabled && cfg.PlanPath != "" {
		loaded, err := mapfile.LoadPlan(cfg.PlanPath)
		if err != nil {
			return nil, err
		}
		plan = &loaded
		log.Printf("⚔️ Showcase plan: %s", cfg.PlanPath)
	}
	return api.LoadShowcase(cfg, m, plan)
}
