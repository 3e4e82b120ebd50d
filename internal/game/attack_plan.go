package game

import (
	"fmt"
	"sort"
)

// PlannedUnit is a group of identical units dropped at one point.
type PlannedUnit struct {
	Name     string  `json:"name" yaml:"name"`
	Level    int     `json:"level" yaml:"level"`
	Count    int     `json:"count,omitempty" yaml:"count,omitempty"` // 0 means 1
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	DropTime float64 `json:"dropTime" yaml:"dropTime"` // seconds after start
}

func (p PlannedUnit) count() int {
	if p.Count <= 0 {
		return 1
	}
	return p.Count
}

// AttackPlan lists the units to drop during a battle.
type AttackPlan struct {
	Units []PlannedUnit `json:"units" yaml:"units"`
}

// HousingSpace returns the army size of the plan. Unknown units count zero.
func (p *AttackPlan) HousingSpace() int {
	total := 0
	for _, pu := range p.Units {
		if t, err := LookupUnit(pu.Name); err == nil {
			total += t.HousingSpace * pu.count()
		}
	}
	return total
}

// AttackPlanExecutor drops the units of a plan when their drop time comes.
type AttackPlanExecutor struct {
	pending []PlannedUnit // sorted by drop time, stable
}

// NewAttackPlanExecutor checks every planned unit against the catalog and
// the drop zone of g.
func NewAttackPlanExecutor(g *Game, plan AttackPlan) (*AttackPlanExecutor, error) {
	pending := make([]PlannedUnit, len(plan.Units))
	copy(pending, plan.Units)

	for i, pu := range pending {
		t, err := LookupUnit(pu.Name)
		if err != nil {
			return nil, fmt.Errorf("plan unit %d: %w: %w", i, ErrInvalidPlan, err)
		}
		if pu.Level < 0 || pu.Level >= t.Levels() {
			return nil, fmt.Errorf("plan unit %d (%s): level %d: %w: %w", i, t.Name, pu.Level, ErrInvalidPlan, ErrInvalidLevel)
		}
		if pu.DropTime < 0 || pu.DropTime >= MaxAttackDuration {
			return nil, fmt.Errorf("plan unit %d (%s): drop time %.2f: %w", i, t.Name, pu.DropTime, ErrInvalidPlan)
		}
		tx, ty := TileOf(pu.X), TileOf(pu.Y)
		if !g.IsInsideMap(tx, ty) {
			return nil, fmt.Errorf("plan unit %d (%s): %w: %w", i, t.Name, ErrInvalidPlan, ErrOutOfBounds)
		}
		if !g.Droppable(tx, ty) {
			return nil, fmt.Errorf("plan unit %d (%s): %w: %w", i, t.Name, ErrInvalidPlan, ErrNotDroppable)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool { return pending[i].DropTime < pending[j].DropTime })
	return &AttackPlanExecutor{pending: pending}, nil
}

// Tick drops every unit due at the current battle time. Call it before
// Game.Tick.
func (e *AttackPlanExecutor) Tick(g *Game) error {
	n := 0
	for n < len(e.pending) && e.pending[n].DropTime <= g.TimeElapsed() {
		pu := e.pending[n]
		for i := 0; i < pu.count(); i++ {
			if _, err := g.DropUnit(pu.Name, pu.Level, pu.X, pu.Y); err != nil {
				return err
			}
		}
		n++
	}
	e.pending = e.pending[n:]
	return nil
}

// Pending returns the number of planned groups not dropped yet.
func (e *AttackPlanExecutor) Pending() int {
	return len(e.pending)
}
