package config

import (
	"reflect"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Server.Port != 3000 || cfg.Server.DebugAddr != "127.0.0.1:6060" {
		t.Errorf("server %+v", cfg.Server)
	}
	if cfg.Sim.DeltaTime != 1.0/60.0 {
		t.Errorf("sim %+v", cfg.Sim)
	}
	if !cfg.Showcase.Enabled || cfg.Showcase.TickRate != 30 {
		t.Errorf("showcase %+v", cfg.Showcase)
	}
	if cfg.Limits != DefaultLimits() || cfg.Render != DefaultRender() || cfg.Batch != DefaultBatch() {
		t.Errorf("limits/render/batch differ from defaults: %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("COCSIM_API_KEY", "secret")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "2")
	t.Setenv("DEBUG_SERVER_ENABLED", "false")
	t.Setenv("SIM_DELTA_TIME", "0.05")
	t.Setenv("SHOWCASE_ENABLED", "false")
	t.Setenv("SHOWCASE_MAP", "maps/base.yaml")
	t.Setenv("MAX_BATCH_JOBS", "5")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RENDER_TILE_SIZE", "8")
	t.Setenv("RENDER_COLLISION", "true")
	t.Setenv("BATCH_WORKERS", "3")

	cfg := Load()

	if cfg.Server.Port != 8080 || cfg.Server.APIKey != "secret" || cfg.Server.DebugEnabled {
		t.Errorf("server %+v", cfg.Server)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.Server.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Server.ShutdownTimeout != 2*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Sim.DeltaTime != 0.05 {
		t.Errorf("DeltaTime = %v", cfg.Sim.DeltaTime)
	}
	if cfg.Showcase.Enabled || cfg.Showcase.MapPath != "maps/base.yaml" {
		t.Errorf("showcase %+v", cfg.Showcase)
	}
	if cfg.Limits.MaxBatchJobs != 5 || cfg.Limits.RequestsPerSecond != 2.5 {
		t.Errorf("limits %+v", cfg.Limits)
	}
	if cfg.Render.TileSize != 8 || !cfg.Render.ShowCollision {
		t.Errorf("render %+v", cfg.Render)
	}
	if cfg.Batch.Workers != 3 {
		t.Errorf("batch %+v", cfg.Batch)
	}
}

func TestInvalidEnvIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("SIM_DELTA_TIME", "-1")
	t.Setenv("RENDER_TILE_SIZE", "0")

	cfg := Load()
	if cfg.Server.Port != 3000 || cfg.Sim.DeltaTime != DefaultSim().DeltaTime || cfg.Render.TileSize != 16 {
		t.Errorf("invalid values applied: %+v", cfg)
	}
}
