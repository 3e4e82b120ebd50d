package game

import (
	"fmt"
	"math"

	"cocsim/internal/game/geom"
)

// Building is a placed structure. Buildings live in the Game's arena and are
// referenced everywhere else by ID, which is their index in Game.Buildings().
type Building struct {
	ID        int
	Type      *BuildingType
	Level     int
	X, Y      int // top-left tile
	Health    float64
	MaxHealth float64
	Options   map[string]string
	Collider  geom.Collider

	destroyed bool
	// hidden buildings have no collider and occupy no tiles until revealed.
	hidden bool
	spent  bool

	// subscribers are building IDs notified when this building is destroyed.
	subscribers []int

	active *activeState
	wall   *wallState
}

func newBuilding(id int, t *BuildingType, m BuildingModel, opts map[string]string) *Building {
	health := t.Health[m.Level]
	b := &Building{
		ID:        id,
		Type:      t,
		Level:     m.Level,
		X:         m.X,
		Y:         m.Y,
		Health:    health,
		MaxHealth: health,
		Options:   opts,
	}

	switch t.Kind {
	case KindWall:
		b.wall = &wallState{neighbours: [4]int{NoBuilding, NoBuilding, NoBuilding, NoBuilding}}
		b.Collider = b.wallCollider(nil)
	case KindActive, KindTrap:
		b.active = newActiveState(t.newBehavior(m.Level, opts))
		if t.Trigger != nil {
			b.hidden = true
		} else {
			b.Collider = defaultCollider(b.Footprint())
		}
	default:
		b.Collider = defaultCollider(b.Footprint())
	}
	return b
}

// defaultCollider is centred on the footprint and scaled down so units
// stand slightly inside the footprint when attacking.
func defaultCollider(fp geom.Rect) geom.Collider {
	c := fp.Center()
	return geom.RectFromCenter(c.X, c.Y, fp.W*DefaultColliderScale, fp.H*DefaultColliderScale)
}

// Destroyed reports whether health reached zero.
func (b *Building) Destroyed() bool {
	return b.destroyed
}

// Kind returns the variant tag of the building.
func (b *Building) Kind() BuildingKind {
	return b.Type.Kind
}

// IsWall reports whether b is a wall segment.
func (b *Building) IsWall() bool {
	return b.Type.Kind == KindWall
}

// IsActive reports whether b attacks units.
func (b *Building) IsActive() bool {
	return b.active != nil
}

// Counted reports whether b counts toward destruction percentage and stars.
// Walls and traps never count; hidden defenses do.
func (b *Building) Counted() bool {
	return b.Type.Kind != KindWall && b.Type.Kind != KindTrap
}

// Hidden reports whether b is a trap or a defense that has not been revealed.
func (b *Building) Hidden() bool {
	return b.hidden
}

// Footprint returns the occupied tiles as a rectangle.
func (b *Building) Footprint() geom.Rect {
	return geom.Rect{X: float64(b.X), Y: float64(b.Y), W: float64(b.Type.Width), H: float64(b.Type.Height)}
}

// Center returns the middle of the footprint.
func (b *Building) Center() geom.Vec2 {
	return b.Footprint().Center()
}

// Phase returns the attack state of an active building, PhaseIdle otherwise.
func (b *Building) Phase() ActivePhase {
	if b.active == nil {
		return PhaseIdle
	}
	return b.active.phase
}

// Target returns the unit targeted by an active building, or NoUnit.
func (b *Building) Target() int {
	if b.active == nil {
		return NoUnit
	}
	return b.active.target
}

// Cooldown returns the remaining attack cooldown of an active building.
func (b *Building) Cooldown() float64 {
	if b.active == nil {
		return 0
	}
	return b.active.cooldown
}

// Projectiles returns the in-flight projectiles of an active building.
func (b *Building) Projectiles() []Projectile {
	if b.active == nil {
		return nil
	}
	return b.active.projectiles
}

func (b *Building) String() string {
	return fmt.Sprintf("%s#%d(L%d @%d,%d)", b.Type.Name, b.ID, b.Level, b.X, b.Y)
}

// DamageBuilding removes health from b and destroys it when health reaches
// zero. Damaging a destroyed building is a programming error and panics.
func (g *Game) DamageBuilding(b *Building, damage float64) {
	if b.destroyed {
		panic(fmt.Sprintf("game: damage applied to destroyed building %s", b))
	}
	b.Health = math.Max(0, b.Health-damage)
	if b.Health == 0 {
		g.destroyBuilding(b)
	}
}

func (g *Game) destroyBuilding(b *Building) {
	b.destroyed = true
	g.updateCollision(b)
	g.dispatch(BuildingDestroyed{ID: b.ID})
}

// updateCollision rasterizes the collider of b into the collision grid.
// A subtile belongs to b when its top-left corner lies inside the collider.
func (g *Game) updateCollision(b *Building) {
	x0 := b.X * CollisionTilesPerMapTile
	y0 := b.Y * CollisionTilesPerMapTile
	x1 := (b.X + b.Type.Width) * CollisionTilesPerMapTile
	y1 := (b.Y + b.Type.Height) * CollisionTilesPerMapTile

	for sx := x0; sx < x1; sx++ {
		for sy := y0; sy < y1; sy++ {
			p := geom.V(SubtileOrigin(sx), SubtileOrigin(sy))
			if !b.destroyed && b.Collider != nil && b.Collider.Contains(p) {
				g.collision.Set(sx, sy, b.ID)
			} else {
				g.collision.Set(sx, sy, NoBuilding)
			}
		}
	}
	g.needRedrawCollision = true
}

func (g *Game) occupyTiles(b *Building) {
	if b.hidden {
		return
	}
	for x := b.X; x < b.X+b.Type.Width; x++ {
		for y := b.Y; y < b.Y+b.Type.Height; y++ {
			g.occupancy.Set(x, y, b.ID)
		}
	}
}

// tickBuilding advances one building by dt.
func (g *Game) tickBuilding(b *Building, dt float64) {
	if b.active != nil {
		g.tickActive(b, dt)
	}
}
