package game

import (
	"context"
	"fmt"
)

// Result summarizes a finished battle.
type Result struct {
	Stars         int      `json:"stars"`
	Percent       int      `json:"percent"`
	TimeElapsed   float64  `json:"timeElapsed"`
	Ticks         uint64   `json:"ticks"`
	Progress      string   `json:"progress"`
	Destroyed     []string `json:"destroyed"`
	UnitsDeployed int      `json:"unitsDeployed"`
	UnitsLost     int      `json:"unitsLost"`
}

// SimOption customizes Simulate.
type SimOption func(*simConfig)

type simConfig struct {
	sink    EventSink
	onFrame func(*Game)
}

// WithEventSink forwards battle events to sink.
func WithEventSink(sink EventSink) SimOption {
	return func(c *simConfig) { c.sink = sink }
}

// WithFrameHook calls fn after every tick.
func WithFrameHook(fn func(*Game)) SimOption {
	return func(c *simConfig) { c.onFrame = fn }
}

// Simulate runs plan against m with a fixed tick of dt seconds until the
// battle is done or every unit is dropped and dead. ctx is checked between
// ticks.
func Simulate(ctx context.Context, m Map, plan AttackPlan, dt float64, opts ...SimOption) (Result, error) {
	if dt <= 0 {
		return Result{}, fmt.Errorf("delta time %v must be positive: %w", dt, ErrInvalidPlan)
	}
	var cfg simConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g, err := NewGame(m)
	if err != nil {
		return Result{}, err
	}
	g.SetEventSink(cfg.sink)

	exec, err := NewAttackPlanExecutor(g, plan)
	if err != nil {
		return Result{}, err
	}

	for !g.Done() {
		if err := ctx.Err(); err != nil {
			return g.Result(), err
		}
		if err := exec.Tick(g); err != nil {
			return g.Result(), err
		}
		if exec.Pending() == 0 && g.UnitsAlive() == 0 {
			break
		}
		g.Tick(dt)
		if cfg.onFrame != nil {
			cfg.onFrame(g)
		}
	}
	return g.Result(), nil
}

// Result summarizes the current state of the battle.
func (g *Game) Result() Result {
	r := Result{
		Stars:         g.Stars(),
		Percent:       g.DestructionPercentRounded(),
		TimeElapsed:   g.timeElapsed,
		Ticks:         g.tickNum,
		Progress:      g.ProgressInfo(),
		Destroyed:     []string{},
		UnitsDeployed: len(g.units),
		UnitsLost:     len(g.units) - g.UnitsAlive(),
	}
	for _, b := range g.buildings {
		if b.destroyed && b.Counted() {
			r.Destroyed = append(r.Destroyed, b.Type.Name)
		}
	}
	return r
}
