package api

import (
	"context"
	"log"
	"sync"
	"time"

	"cocsim/internal/config"
	"cocsim/internal/game"
)

// ShowcaseFrame is what WebSocket clients receive for the live battle.
type ShowcaseFrame struct {
	Snapshot game.GameSnapshot `json:"snapshot"`
	Grid     []game.Shape      `json:"grid,omitempty"`
	Entities []game.Shape      `json:"entities"`
	Run      int               `json:"run"`
}

// ShowcaseSource provides the latest showcase frame, or nil before the first
// tick.
type ShowcaseSource interface {
	Latest() *ShowcaseFrame
}

// Showcase replays one raid forever in real time. Only the loop goroutine
// touches the game; readers get immutable frames.
type Showcase struct {
	m    game.Map
	plan game.AttackPlan
	cfg  config.ShowcaseConfig

	mu     sync.RWMutex
	latest *ShowcaseFrame
	seq    uint64
	grid   []game.Shape
}

// NewShowcase checks m and plan once so the loop can never fail on input.
func NewShowcase(m game.Map, plan game.AttackPlan, cfg config.ShowcaseConfig) (*Showcase, error) {
	g, err := game.NewGame(m)
	if err != nil {
		return nil, err
	}
	if _, err := game.NewAttackPlanExecutor(g, plan); err != nil {
		return nil, err
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = config.DefaultShowcase().TickRate
	}
	return &Showcase{m: m, plan: plan, cfg: cfg, grid: g.DrawGrid()}, nil
}

// Latest returns the newest frame.
func (s *Showcase) Latest() *ShowcaseFrame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Grid returns the static tile layer of the showcase map.
func (s *Showcase) Grid() []game.Shape {
	return s.grid
}

// Run plays battles until ctx is cancelled.
func (s *Showcase) Run(ctx context.Context) {
	log.Printf("🎬 Showcase started (%d ticks/s)", s.cfg.TickRate)
	for run := 1; ; run++ {
		res, err := s.playOnce(ctx, run)
		if err != nil {
			log.Printf("🎬 Showcase stopped: %v", err)
			return
		}
		RecordGameSimulated("showcase", res.Stars)
		log.Printf("🎬 Showcase run %d finished: %s", run, res.Progress)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.RestartDelay):
		}
	}
}

func (s *Showcase) playOnce(ctx context.Context, run int) (game.Result, error) {
	g, err := game.NewGame(s.m)
	if err != nil {
		return game.Result{}, err
	}
	exec, err := game.NewAttackPlanExecutor(g, s.plan)
	if err != nil {
		return game.Result{}, err
	}

	dt := 1.0 / float64(s.cfg.TickRate)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	s.publish(g, run)
	for !g.Done() {
		select {
		case <-ctx.Done():
			return g.Result(), ctx.Err()
		case <-ticker.C:
		}

		if err := exec.Tick(g); err != nil {
			return g.Result(), err
		}
		if exec.Pending() == 0 && g.UnitsAlive() == 0 {
			break
		}

		start := time.Now()
		g.Tick(dt)
		RecordTick(time.Since(start))
		s.publish(g, run)
	}
	return g.Result(), nil
}

func (s *Showcase) publish(g *game.Game, run int) {
	frame := &ShowcaseFrame{
		Snapshot: g.Snapshot(),
		Entities: g.DrawEntities(),
		Run:      run,
	}
	s.mu.Lock()
	s.seq++
	frame.Snapshot.Sequence = s.seq
	s.latest = frame
	s.mu.Unlock()
}

// DemoMap is the base used when no showcase map is configured.
func DemoMap() game.Map {
	return game.Map{
		BaseSize:   20,
		BorderSize: 2,
		Buildings: []game.BuildingModel{
			{Name: "TownHall", X: 10, Y: 10, Level: 2},
			{Name: "Cannon", X: 6, Y: 6, Level: 3},
			{Name: "ArcherTower", X: 15, Y: 6, Level: 2},
			{Name: "Mortar", X: 6, Y: 15, Level: 1},
			{Name: "AirDefense", X: 15, Y: 15, Level: 1},
			{Name: "GoldMine", X: 3, Y: 10, Level: 4},
			{Name: "ElixirCollector", X: 18, Y: 10, Level: 4},
			{Name: "ArmyCamp", X: 10, Y: 3, Level: 2},
		},
	}
}

// DemoPlan attacks DemoMap from two sides.
func DemoPlan() game.AttackPlan {
	return game.AttackPlan{Units: []game.PlannedUnit{
		{Name: "Barbarian", Level: 4, Count: 12, X: 0.5, Y: 11.5},
		{Name: "Balloon", Level: 3, Count: 4, X: 23.5, Y: 0.5, DropTime: 3},
		{Name: "Dragon", Level: 2, Count: 2, X: 11.5, Y: 23.5, DropTime: 6},
	}}
}
