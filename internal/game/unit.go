package game

import (
	"fmt"
	"math"

	"cocsim/internal/game/geom"
)

// UnitState is the movement state of a unit.
type UnitState uint8

const (
	UnitSeekingPath UnitState = iota
	UnitTraveling
	UnitAttacking
	UnitDead
)

func (s UnitState) String() string {
	switch s {
	case UnitSeekingPath:
		return "seeking-path"
	case UnitTraveling:
		return "traveling"
	case UnitAttacking:
		return "attacking"
	case UnitDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Unit is a deployed attacker. Units live in the Game's arena and are
// referenced by ID, their index in Game.Units().
type Unit struct {
	ID        int
	Type      *UnitType
	Level     int
	Pos       geom.Vec2
	Health    float64
	MaxHealth float64

	dead   bool
	target int
	// waypoints is a stack: the last element is the next point to reach.
	waypoints []geom.Vec2
	cooldown  float64
	armed     bool
}

// AttackBehavior applies one attack of u on target.
type AttackBehavior interface {
	Attack(g *Game, u *Unit, target *Building)
}

// DeathSplash damages buildings around a unit when it dies.
type DeathSplash struct {
	Radius float64
	Damage []float64 // per level
}

// melee hits the target only.
type melee struct{}

func (melee) Attack(g *Game, u *Unit, target *Building) {
	g.DamageBuilding(target, u.Type.Damage[u.Level])
}

// buildingSplash damages every building within Radius of the point of the
// target collider nearest to the unit.
type buildingSplash struct {
	Radius float64
}

func (s buildingSplash) Attack(g *Game, u *Unit, target *Building) {
	center := target.Collider.NearestPoint(u.Pos)
	g.splashBuildings(center, s.Radius, u.Type.Damage[u.Level])
}

// Dead reports whether health reached zero.
func (u *Unit) Dead() bool {
	return u.dead
}

// Collider returns the attackable boundary of u: a point at its position.
func (u *Unit) Collider() geom.Collider {
	return geom.Point(u.Pos)
}

// Target returns the ID of the targeted building, or NoBuilding.
func (u *Unit) Target() int {
	return u.target
}

// Waypoints returns the remaining waypoints in travel order.
func (u *Unit) Waypoints() []geom.Vec2 {
	out := make([]geom.Vec2, len(u.waypoints))
	for i, w := range u.waypoints {
		out[len(out)-1-i] = w
	}
	return out
}

// Cooldown returns the remaining attack cooldown.
func (u *Unit) Cooldown() float64 {
	return u.cooldown
}

// State derives the movement state from the unit's fields.
func (u *Unit) State() UnitState {
	switch {
	case u.dead:
		return UnitDead
	case u.target == NoBuilding || len(u.waypoints) == 0:
		return UnitSeekingPath
	case u.armed:
		return UnitAttacking
	default:
		return UnitTraveling
	}
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s#%d(L%d @%.2f,%.2f)", u.Type.Name, u.ID, u.Level, u.Pos.X, u.Pos.Y)
}

func (u *Unit) clearPlan() {
	u.target = NoBuilding
	u.waypoints = nil
	u.armed = false
	u.cooldown = 0
}

// AddUnit places a unit at pos without drop zone checks.
func (g *Game) AddUnit(t *UnitType, level int, pos geom.Vec2) (*Unit, error) {
	if level < 0 || level >= t.Levels() {
		return nil, fmt.Errorf("%s level %d (max %d): %w", t.Name, level, t.Levels()-1, ErrInvalidLevel)
	}
	u := &Unit{
		ID:        len(g.units),
		Type:      t,
		Level:     level,
		Pos:       pos,
		Health:    t.Health[level],
		MaxHealth: t.Health[level],
		target:    NoBuilding,
	}
	g.units = append(g.units, u)

	g.emit(EventTypeUnitSpawned, UnitSpawnedPayload{
		UnitID: u.ID, Name: t.Name, Level: level, X: pos.X, Y: pos.Y,
	})
	return u, nil
}

// DropUnit spawns the named unit at (x, y), which must be inside the map and
// droppable.
func (g *Game) DropUnit(name string, level int, x, y float64) (*Unit, error) {
	t, err := LookupUnit(name)
	if err != nil {
		return nil, err
	}
	tx, ty := TileOf(x), TileOf(y)
	if !g.IsInsideMap(tx, ty) {
		return nil, fmt.Errorf("drop %s at (%.2f, %.2f): %w", name, x, y, ErrOutOfBounds)
	}
	if !g.Droppable(tx, ty) {
		return nil, fmt.Errorf("drop %s at (%.2f, %.2f): %w", name, x, y, ErrNotDroppable)
	}
	return g.AddUnit(t, level, geom.V(x, y))
}

// DamageUnit removes health from u and kills it when health reaches zero.
// Damaging a dead unit is a programming error and panics.
func (g *Game) DamageUnit(u *Unit, damage float64) {
	if u.dead {
		panic(fmt.Sprintf("game: damage applied to dead unit %s", u))
	}
	u.Health = math.Max(0, u.Health-damage)
	if u.Health > 0 {
		return
	}

	u.dead = true
	u.clearPlan()
	g.emit(EventTypeUnitDied, UnitDiedPayload{UnitID: u.ID, Name: u.Type.Name, X: u.Pos.X, Y: u.Pos.Y})

	if d := u.Type.Death; d != nil {
		g.splashBuildings(u.Pos, d.Radius, d.Damage[u.Level])
	}
}

// splashBuildings damages every standing building whose collider lies within
// radius of p.
func (g *Game) splashBuildings(p geom.Vec2, radius, damage float64) {
	for _, b := range g.buildings {
		if b.destroyed || b.Collider == nil {
			continue
		}
		if geom.DistanceTo(b.Collider, p) <= radius {
			g.DamageBuilding(b, damage)
		}
	}
}

// pushUnit displaces u by delta, keeps it inside the map and makes it
// re-plan.
func (g *Game) pushUnit(u *Unit, delta geom.Vec2) {
	limit := float64(g.TotalSize())
	p := u.Pos.Add(delta)
	u.Pos = geom.V(clampf(p.X, 0, math.Nextafter(limit, 0)), clampf(p.Y, 0, math.Nextafter(limit, 0)))
	u.clearPlan()
}

func (g *Game) tickUnit(u *Unit, dt float64) {
	if u.dead {
		return
	}

	if u.target == NoBuilding || g.buildings[u.target].destroyed {
		u.clearPlan()
		target, waypoints, ok := g.pathfinder.FindPath(u)
		if !ok {
			return
		}
		u.target = target
		u.waypoints = waypoints
	}

	step := u.Type.Speed * dt
	for len(u.waypoints) > 0 {
		next := u.waypoints[len(u.waypoints)-1]
		dist := u.Pos.Dist(next)

		if dist <= DistanceToWaypointEps {
			if len(u.waypoints) == 1 {
				g.unitAttack(u, dt)
				return
			}
			u.waypoints = u.waypoints[:len(u.waypoints)-1]
			continue
		}

		if step >= dist {
			u.Pos = next
		} else {
			u.Pos = u.Pos.Add(next.Sub(u.Pos).Scale(step / dist))
		}
		return
	}
}

// unitAttack runs the attack cooldown of a unit standing at its attack point.
func (g *Game) unitAttack(u *Unit, dt float64) {
	switch {
	case !u.armed:
		u.armed = true
		u.cooldown = u.Type.AttackCooldown
	case u.cooldown == 0:
		u.Type.Attack.Attack(g, u, g.buildings[u.target])
		u.cooldown = u.Type.AttackCooldown
	default:
		u.cooldown = math.Max(0, u.cooldown-dt)
	}
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
