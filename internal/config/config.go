// Package config provides centralized configuration management for the
// simulator binaries and the API server.
//
// Every section has a Default* constructor and, where it can be tuned at
// deploy time, a *FromEnv variant applying environment overrides.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int
	APIKey          string   // guards batch simulation when set
	CORSOrigins     []string // nil uses the API defaults
	ShutdownTimeout time.Duration
	DebugEnabled    bool
	DebugAddr       string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:            3000,
		ShutdownTimeout: 10 * time.Second,
		DebugEnabled:    true,
		DebugAddr:       "127.0.0.1:6060",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	cfg.APIKey = getEnvString("COCSIM_API_KEY", cfg.APIKey)
	if origins := getEnvString("CORS_ORIGINS", ""); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
	if s := getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 0); s > 0 {
		cfg.ShutdownTimeout = time.Duration(s) * time.Second
	}
	if os.Getenv("DEBUG_SERVER_ENABLED") == "false" {
		cfg.DebugEnabled = false
	}
	cfg.DebugAddr = getEnvString("DEBUG_SERVER_ADDR", cfg.DebugAddr)

	return cfg
}

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds defaults for simulation requests.
type SimConfig struct {
	DeltaTime    float64 // seconds per tick when a request gives none
	MinDeltaTime float64
	MaxDeltaTime float64
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		DeltaTime:    1.0 / 60.0,
		MinDeltaTime: 1.0 / 240.0,
		MaxDeltaTime: 0.5,
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if dt := getEnvFloat("SIM_DELTA_TIME", 0); dt > 0 {
		cfg.DeltaTime = dt
	}
	return cfg
}

// =============================================================================
// SHOWCASE CONFIGURATION
// =============================================================================

// ShowcaseConfig controls the battle replayed live over WebSocket.
type ShowcaseConfig struct {
	Enabled      bool
	MapPath      string // empty uses the built-in demo base
	PlanPath     string // empty uses the built-in demo plan
	TickRate     int    // ticks per wall-clock second
	RestartDelay time.Duration
	BroadcastHz  int
}

// DefaultShowcase returns the default showcase configuration.
func DefaultShowcase() ShowcaseConfig {
	return ShowcaseConfig{
		Enabled:      true,
		TickRate:     30,
		RestartDelay: 3 * time.Second,
		BroadcastHz:  10,
	}
}

// ShowcaseFromEnv returns showcase configuration with environment variable overrides.
func ShowcaseFromEnv() ShowcaseConfig {
	cfg := DefaultShowcase()

	if os.Getenv("SHOWCASE_ENABLED") == "false" {
		cfg.Enabled = false
	}
	cfg.MapPath = getEnvString("SHOWCASE_MAP", cfg.MapPath)
	cfg.PlanPath = getEnvString("SHOWCASE_PLAN", cfg.PlanPath)
	if r := getEnvInt("SHOWCASE_TICK_RATE", 0); r > 0 {
		cfg.TickRate = r
	}
	if hz := getEnvInt("SHOWCASE_BROADCAST_HZ", 0); hz > 0 {
		cfg.BroadcastHz = hz
	}
	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection on the API.
type ResourceLimits struct {
	MaxRequestBytes   int64   // request body cap
	MaxBatchJobs      int     // jobs per batch request
	MaxBatchWorkers   int     // workers per batch request
	RequestsPerSecond float64 // per client IP
	Burst             int
	MaxWSConnections  int
	MaxWSPerIP        int
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxRequestBytes:   1 << 20,
		MaxBatchJobs:      64,
		MaxBatchWorkers:   8,
		RequestsPerSecond: 10,
		Burst:             20,
		MaxWSConnections:  500,
		MaxWSPerIP:        10,
	}
}

// LimitsFromEnv returns resource limits with environment variable overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()

	if n := getEnvInt("MAX_BATCH_JOBS", 0); n > 0 {
		cfg.MaxBatchJobs = n
	}
	if n := getEnvInt("MAX_BATCH_WORKERS", 0); n > 0 {
		cfg.MaxBatchWorkers = n
	}
	if rps := getEnvFloat("RATE_LIMIT_RPS", 0); rps > 0 {
		cfg.RequestsPerSecond = rps
	}
	if b := getEnvInt("RATE_LIMIT_BURST", 0); b > 0 {
		cfg.Burst = b
	}
	return cfg
}

// =============================================================================
// RENDER CONFIGURATION
// =============================================================================

// RenderConfig holds PNG renderer settings.
type RenderConfig struct {
	TileSize      int // pixels per map tile
	HeaderHeight  int
	ShowCollision bool
}

// DefaultRender returns the default render configuration.
func DefaultRender() RenderConfig {
	return RenderConfig{
		TileSize:     16,
		HeaderHeight: 20,
	}
}

// RenderFromEnv returns render configuration with environment variable overrides.
func RenderFromEnv() RenderConfig {
	cfg := DefaultRender()

	if ts := getEnvInt("RENDER_TILE_SIZE", 0); ts > 0 {
		cfg.TileSize = ts
	}
	if os.Getenv("RENDER_COLLISION") == "true" {
		cfg.ShowCollision = true
	}
	return cfg
}

// =============================================================================
// BATCH CONFIGURATION
// =============================================================================

// BatchConfig holds headless runner settings.
type BatchConfig struct {
	Workers int // zero uses NumCPU
	Runs    int
}

// DefaultBatch returns the default batch configuration.
func DefaultBatch() BatchConfig {
	return BatchConfig{Runs: 1}
}

// BatchFromEnv returns batch configuration with environment variable overrides.
func BatchFromEnv() BatchConfig {
	cfg := DefaultBatch()

	if w := getEnvInt("BATCH_WORKERS", 0); w > 0 {
		cfg.Workers = w
	}
	if r := getEnvInt("BATCH_RUNS", 0); r > 0 {
		cfg.Runs = r
	}
	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Server   ServerConfig
	Sim      SimConfig
	Showcase ShowcaseConfig
	Limits   ResourceLimits
	Render   RenderConfig
	Batch    BatchConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Server:   ServerFromEnv(),
		Sim:      SimFromEnv(),
		Showcase: ShowcaseFromEnv(),
		Limits:   LimitsFromEnv(),
		Render:   RenderFromEnv(),
		Batch:    BatchFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
