package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"cocsim/internal/batch"
	"cocsim/internal/config"
	"cocsim/internal/game"
	"cocsim/internal/mapfile"
	"cocsim/internal/render"
)

// Handler methods shared by NewRouter and Server.

type routerHandlers struct {
	showcase ShowcaseSource
	limits   config.ResourceLimits
	sim      config.SimConfig
	renderer *render.Renderer
}

// GameTypes lists the whole catalog.
type GameTypes struct {
	Buildings []game.BuildingTypeInfo `json:"buildings"`
	Units     []game.UnitTypeInfo     `json:"units"`
}

func buildingInfos() []game.BuildingTypeInfo {
	types := game.BuildingTypes()
	out := make([]game.BuildingTypeInfo, len(types))
	for i, t := range types {
		out[i] = t.Info()
	}
	return out
}

func unitInfos() []game.UnitTypeInfo {
	types := game.UnitTypes()
	out := make([]game.UnitTypeInfo, len(types))
	for i, t := range types {
		out[i] = t.Info()
	}
	return out
}

func (h *routerHandlers) handleBuildingTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, buildingInfos())
}

func (h *routerHandlers) handleUnitTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, unitInfos())
}

func (h *routerHandlers) handleGameTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, GameTypes{Buildings: buildingInfos(), Units: unitInfos()})
}

// MapRequest is the body of /api/maps/validate and /api/render.
type MapRequest struct {
	Map game.Map `json:"map"`
}

// ValidateResponse reports whether a map is valid.
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (h *routerHandlers) handleValidateMap(w http.ResponseWriter, r *http.Request) {
	var req MapRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Map.Validate(); err != nil {
		writeJSON(w, ValidateResponse{Error: err.Error()})
		return
	}
	writeJSON(w, ValidateResponse{Valid: true})
}

// SimulateRequest is the body of /api/simulate.
type SimulateRequest struct {
	Map       game.Map        `json:"map"`
	Plan      game.AttackPlan `json:"plan"`
	DeltaTime float64         `json:"deltaT,omitempty"`
}

func (h *routerHandlers) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !h.decode(w, r, &req) {
		return
	}
	dt, err := h.deltaTime(req.DeltaTime)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := game.Simulate(r.Context(), req.Map, req.Plan, dt)
	if err != nil {
		writeSimError(w, err)
		return
	}
	RecordSimulation("simulate", time.Since(start))
	RecordGameSimulated("simulate", res.Stars)

	writeJSON(w, res)
}

// BatchRequest is the body of /api/simulate/batch.
type BatchRequest struct {
	Jobs    []batch.Job `json:"jobs"`
	Workers int         `json:"workers,omitempty"`
}

// BatchResponse holds per-job results in request order.
type BatchResponse struct {
	Results []batch.JobResult `json:"results"`
	Summary batch.Summary     `json:"summary"`
}

func (h *routerHandlers) handleSimulateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Jobs) == 0 {
		writeError(w, "jobs is required", http.StatusBadRequest)
		return
	}
	if len(req.Jobs) > h.limits.MaxBatchJobs {
		writeError(w, fmt.Sprintf("at most %d jobs per batch", h.limits.MaxBatchJobs), http.StatusBadRequest)
		return
	}
	for i := range req.Jobs {
		dt, err := h.deltaTime(req.Jobs[i].DeltaTime)
		if err != nil {
			writeError(w, fmt.Sprintf("job %d: %v", i, err), http.StatusBadRequest)
			return
		}
		req.Jobs[i].DeltaTime = dt
	}

	workers := req.Workers
	if workers <= 0 || workers > h.limits.MaxBatchWorkers {
		workers = h.limits.MaxBatchWorkers
	}

	start := time.Now()
	results, err := batch.Run(r.Context(), req.Jobs, batch.Options{
		Workers: workers,
		OnResult: func(res batch.JobResult) {
			if res.Err() == nil {
				RecordGameSimulated("batch", res.Result.Stars)
			}
		},
	})
	if err != nil {
		writeSimError(w, err)
		return
	}
	RecordSimulation("batch", time.Since(start))
	log.Printf("🧮 Batch of %d jobs finished in %v", len(results), time.Since(start).Round(time.Millisecond))

	writeJSON(w, BatchResponse{Results: results, Summary: batch.Summarize(results)})
}

func (h *routerHandlers) handleRender(w http.ResponseWriter, r *http.Request) {
	var req MapRequest
	if !h.decode(w, r, &req) {
		return
	}
	g, err := game.NewGame(req.Map)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	w.Header().Set("Content-Type", "image/png")
	if err := h.renderer.WritePNG(w, render.SceneOf(g)); err != nil {
		log.Printf("⚠️ Render failed: %v", err)
		return
	}
	RecordRender(time.Since(start))
}

func (h *routerHandlers) handleShowcase(w http.ResponseWriter, r *http.Request) {
	if h.showcase == nil {
		writeError(w, "showcase disabled", http.StatusNotFound)
		return
	}
	frame := h.showcase.Latest()
	if frame == nil {
		writeError(w, "showcase not started", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, frame)
}

// decode reads a size-capped JSON body, rejecting unknown fields. It writes
// the error response itself and reports whether decoding succeeded.
func (h *routerHandlers) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.limits.MaxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	if err := mapfile.Decode(data, mapfile.FormatJSON, out); err != nil {
		writeError(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// deltaTime resolves a requested tick length; zero selects the default.
func (h *routerHandlers) deltaTime(dt float64) (float64, error) {
	if dt == 0 {
		return h.sim.DeltaTime, nil
	}
	if dt < h.sim.MinDeltaTime || dt > h.sim.MaxDeltaTime {
		return 0, fmt.Errorf("deltaT %g outside [%g, %g]", dt, h.sim.MinDeltaTime, h.sim.MaxDeltaTime)
	}
	return dt, nil
}

func writeSimError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, "simulation cancelled", http.StatusServiceUnavailable)
	case isInputError(err):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("❌ Simulation failed: %v", err)
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

var inputErrors = []error{
	game.ErrInvalidMap, game.ErrUnknownBuilding, game.ErrUnknownUnit,
	game.ErrInvalidLevel, game.ErrInvalidOption, game.ErrOutOfBounds,
	game.ErrOverlap, game.ErrNotDroppable, game.ErrInvalidPlan,
}

func isInputError(err error) bool {
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
