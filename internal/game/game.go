// Package game is the deterministic battle simulation: a base of buildings on
// a tile grid, attacking units, defenses and projectiles, advanced by Tick.
//
// A Game is single-threaded. Every query reflects the state after the last
// completed Tick; run independent games in parallel instead of sharing one.
package game

import (
	"fmt"
	"math"

	"cocsim/internal/game/spatial"
)

// Game is one battle.
type Game struct {
	baseSize   int
	borderSize int

	buildings []*Building
	units     []*Unit

	// occupancy maps tiles to building IDs, collision maps subtiles to
	// building IDs. NoBuilding marks free cells.
	occupancy *spatial.Grid[int]
	collision *spatial.Grid[int]
	dropZone  *spatial.Grid[bool]

	pathfinder *Pathfinder

	timeElapsed float64
	tickNum     uint64

	townHallDestroyed bool
	destroyedCount    int // excluding walls
	totalCount        int // excluding walls
	lastStars         int

	needRedrawCollision bool

	sink        EventSink
	doneEmitted bool
}

// NewGame validates m and builds the battle.
func NewGame(m Map) (*Game, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	total := m.TotalSize()
	g := &Game{
		baseSize:            m.BaseSize,
		borderSize:          m.BorderSize,
		buildings:           make([]*Building, 0, len(m.Buildings)),
		occupancy:           spatial.NewGrid(total, NoBuilding),
		collision:           spatial.NewGrid(total*CollisionTilesPerMapTile, NoBuilding),
		needRedrawCollision: true,
	}

	for i, bm := range m.Buildings {
		t, err := LookupBuilding(bm.Name)
		if err != nil {
			return nil, fmt.Errorf("building %d: %w", i, err)
		}
		opts, err := t.ResolveOptions(bm.Options)
		if err != nil {
			return nil, fmt.Errorf("building %d: %w", i, err)
		}
		b := newBuilding(i, t, bm, opts)
		g.buildings = append(g.buildings, b)
		if b.Counted() {
			g.totalCount++
		}
		g.occupyTiles(b)
	}

	g.linkWalls()
	for _, b := range g.buildings {
		g.updateCollision(b)
	}
	g.dropZone = g.computeDropZone()
	g.pathfinder = newPathfinder(g)

	return g, nil
}

// computeDropZone marks every tile not within one tile (8-neighbourhood) of
// an occupied tile.
func (g *Game) computeDropZone() *spatial.Grid[bool] {
	size := g.TotalSize()
	zone := spatial.NewGrid(size, true)

	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if g.occupancy.At(x, y) == NoBuilding {
				continue
			}
			for nx := x - 1; nx <= x+1; nx++ {
				for ny := y - 1; ny <= y+1; ny++ {
					if zone.InBounds(nx, ny) {
						zone.Set(nx, ny, false)
					}
				}
			}
		}
	}
	return zone
}

// SetEventSink installs the receiver of battle events. nil disables events.
func (g *Game) SetEventSink(sink EventSink) {
	g.sink = sink
}

// Tick advances the battle by dt seconds: buildings first, then units.
// Ticking a finished battle panics.
func (g *Game) Tick(dt float64) {
	if g.Done() {
		panic("game: Tick called on a finished battle")
	}
	g.tickNum++

	for _, b := range g.buildings {
		g.tickBuilding(b, dt)
	}
	for _, u := range g.units {
		g.tickUnit(u, dt)
	}

	g.timeElapsed = math.Min(MaxAttackDuration, g.timeElapsed+dt)

	g.emit(EventTypeTick, TickPayload{DeltaTime: dt, UnitsAlive: g.UnitsAlive()})
	if g.Done() && !g.doneEmitted {
		g.doneEmitted = true
		g.emit(EventTypeDone, DonePayload{
			Stars:   g.Stars(),
			Percent: g.DestructionPercentRounded(),
			Elapsed: g.timeElapsed,
		})
	}
}

func (g *Game) onBuildingDestroyed(ev BuildingDestroyed) {
	g.needRedrawCollision = true

	b := g.buildings[ev.ID]
	if b.Kind() == KindTownHall {
		g.townHallDestroyed = true
	}
	if b.Counted() {
		g.destroyedCount++
	}

	g.emit(EventTypeBuildingDestroyed, BuildingDestroyedPayload{
		BuildingID: b.ID,
		Name:       b.Type.Name,
		Percent:    g.DestructionPercentRounded(),
	})
	if s := g.Stars(); s > g.lastStars {
		g.lastStars = s
		g.emit(EventTypeStars, StarsPayload{Stars: s, Percent: g.DestructionPercentRounded()})
	}
}

// Done reports whether the attack time ran out or three stars were earned.
func (g *Game) Done() bool {
	return g.timeElapsed == MaxAttackDuration || g.Stars() == 3
}

// Stars returns one star for the town hall, one for at least 50 %
// destruction and one for full destruction. Walls never count. A base
// without countable buildings yields no destruction stars.
func (g *Game) Stars() int {
	stars := 0
	if g.townHallDestroyed {
		stars++
	}
	if g.totalCount == 0 {
		return stars
	}
	if g.DestructionPercentRounded() >= 50 {
		stars++
	}
	if g.destroyedCount == g.totalCount {
		stars++
	}
	return stars
}

// DestructionPercent returns the share of destroyed non-wall buildings.
func (g *Game) DestructionPercent() float64 {
	if g.totalCount == 0 {
		return 0
	}
	return float64(g.destroyedCount) * 100 / float64(g.totalCount)
}

// DestructionPercentRounded is DestructionPercent rounded half to even.
func (g *Game) DestructionPercentRounded() int {
	return int(math.RoundToEven(g.DestructionPercent()))
}

// ProgressInfo formats the status line, e.g. "42 % | 1 star | 2 min 5 s left".
func (g *Game) ProgressInfo() string {
	totalSeconds := int(g.TimeLeft())
	minutes := totalSeconds / 60

	s := fmt.Sprintf("%d %% | %d star |", g.DestructionPercentRounded(), g.Stars())
	if minutes != 0 {
		s += fmt.Sprintf(" %d min", minutes)
	}
	return s + fmt.Sprintf(" %d s left", totalSeconds%60)
}

// TimeElapsed returns simulated seconds since the start.
func (g *Game) TimeElapsed() float64 {
	return g.timeElapsed
}

// TimeLeft returns the remaining attack time.
func (g *Game) TimeLeft() float64 {
	return MaxAttackDuration - g.timeElapsed
}

// TickNum returns the number of completed ticks.
func (g *Game) TickNum() uint64 {
	return g.tickNum
}

// TownHallDestroyed reports whether the town hall fell.
func (g *Game) TownHallDestroyed() bool {
	return g.townHallDestroyed
}

// DestroyedCount returns the number of destroyed non-wall buildings.
func (g *Game) DestroyedCount() int {
	return g.destroyedCount
}

// TotalCount returns the number of non-wall buildings.
func (g *Game) TotalCount() int {
	return g.totalCount
}

func (g *Game) BaseSize() int   { return g.baseSize }
func (g *Game) BorderSize() int { return g.borderSize }

// TotalSize returns the side of the map in tiles, border included.
func (g *Game) TotalSize() int {
	return g.baseSize + 2*g.borderSize
}

// IsBorder reports whether tile (x, y) lies in the border ring.
func (g *Game) IsBorder(x, y int) bool {
	return y < g.borderSize ||
		x < g.borderSize ||
		y >= g.baseSize+g.borderSize ||
		x >= g.baseSize+g.borderSize
}

// IsInsideMap reports whether tile (x, y) exists.
func (g *Game) IsInsideMap(x, y int) bool {
	return g.occupancy.InBounds(x, y)
}

// Droppable reports whether units may be dropped on tile (x, y).
func (g *Game) Droppable(x, y int) bool {
	return g.dropZone.InBounds(x, y) && g.dropZone.At(x, y)
}

// OccupantAt returns the ID of the building occupying tile (x, y), or
// NoBuilding.
func (g *Game) OccupantAt(x, y int) int {
	return g.occupancy.At(x, y)
}

// CollisionAt returns the ID of the building owning subtile (x, y), or
// NoBuilding.
func (g *Game) CollisionAt(x, y int) int {
	return g.collision.At(x, y)
}

// Buildings returns the building arena. It must not be modified.
func (g *Game) Buildings() []*Building {
	return g.buildings
}

// Units returns the unit arena. It must not be modified.
func (g *Game) Units() []*Unit {
	return g.units
}

// UnitsAlive counts units that are not dead.
func (g *Game) UnitsAlive() int {
	n := 0
	for _, u := range g.units {
		if !u.dead {
			n++
		}
	}
	return n
}

// Pathfinder returns the pathfinder bound to this game.
func (g *Game) Pathfinder() *Pathfinder {
	return g.pathfinder
}
