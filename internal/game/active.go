package game

import (
	"math"

	"cocsim/internal/game/geom"
)

// ActiveBehavior is the static attack profile of a defensive building type.
// Implementations are small structs of level tables.
type ActiveBehavior interface {
	AttackCooldown() float64
	MinAttackDistance() float64
	MaxAttackDistance() float64
	TargetDomain() Domain
	AttackDamage(level int) float64
	ProjectileSpeed(level int) float64
	Delivery() Delivery
}

// DeliveryKind is how a projectile resolves on arrival.
type DeliveryKind uint8

const (
	DeliveryPoint  DeliveryKind = iota // single unit hit
	DeliverySplash                     // area damage at a fixed impact point
	DeliveryPush                       // expanding wave pushing air units away
)

func (k DeliveryKind) String() string {
	switch k {
	case DeliveryPoint:
		return "point"
	case DeliverySplash:
		return "splash"
	case DeliveryPush:
		return "push"
	default:
		return "unknown"
	}
}

// Delivery describes the projectile of an active building.
type Delivery struct {
	Kind   DeliveryKind
	Radius float64 // splash radius
}

// arcFilter is implemented by buildings that only acquire targets inside a
// fixed arc.
type arcFilter interface {
	Arc() (rotation, opening float64)
}

// pusher is implemented by buildings firing DeliveryPush waves.
type pusher interface {
	PushStrength(level int) float64
}

// deathDamager is implemented by buildings exploding after destruction.
type deathDamager interface {
	DeathDamage(level int) float64
	DeathRadius() float64
	DeathDelay() float64
}

// ActivePhase is the attack state of an active building.
type ActivePhase uint8

const (
	PhaseIdle ActivePhase = iota
	PhaseAcquiring
	PhaseCoolingDown
	PhaseFiring
)

func (p ActivePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAcquiring:
		return "acquiring"
	case PhaseCoolingDown:
		return "cooling-down"
	case PhaseFiring:
		return "firing"
	default:
		return "unknown"
	}
}

type activeState struct {
	behavior    ActiveBehavior
	phase       ActivePhase
	target      int
	cooldown    float64
	projectiles []Projectile

	deathElapsed float64
	deathDone    bool
}

func newActiveState(behavior ActiveBehavior) *activeState {
	return &activeState{behavior: behavior, target: NoUnit}
}

// Behavior returns the attack profile of an active building, nil otherwise.
func (b *Building) Behavior() ActiveBehavior {
	if b.active == nil {
		return nil
	}
	return b.active.behavior
}

func (g *Game) tickActive(b *Building, dt float64) {
	st := b.active

	// In-flight projectiles land even after the building is gone.
	g.advanceProjectiles(b, dt)

	if b.destroyed {
		st.phase = PhaseIdle
		st.target = NoUnit
		g.tickDeathDamage(b, dt)
		return
	}
	if b.hidden && !g.spring(b) {
		return
	}

	st.phase = PhaseCoolingDown
	if !g.canAttack(b, st.target) {
		st.target = g.acquireTarget(b)
		if st.target == NoUnit {
			st.phase = PhaseIdle
			return
		}
		st.phase = PhaseAcquiring
		st.cooldown = st.behavior.AttackCooldown()
	}

	st.cooldown = math.Max(0, st.cooldown-dt)
	if st.cooldown == 0 {
		g.fire(b)
		st.cooldown = st.behavior.AttackCooldown()
		st.phase = PhaseFiring
	}
}

// canAttack reports whether unit id is alive, in the target domain and in
// range of b.
func (g *Game) canAttack(b *Building, id int) bool {
	if id == NoUnit {
		return false
	}
	u := g.units[id]
	if u.dead || !b.active.behavior.TargetDomain().Has(u.Type.Domain) {
		return false
	}

	center := b.Center()
	d := geom.DistanceTo(u.Collider(), center)
	beh := b.active.behavior
	if d < beh.MinAttackDistance() || d > beh.MaxAttackDistance() {
		return false
	}
	if arc, ok := beh.(arcFilter); ok {
		rotation, opening := arc.Arc()
		if !geom.ArcContains(rotation, opening, u.Pos.Sub(center).AngleDeg()) {
			return false
		}
	}
	return true
}

// acquireTarget returns the nearest attackable unit, lowest ID on ties.
func (g *Game) acquireTarget(b *Building) int {
	best := NoUnit
	bestDist := math.Inf(1)
	center := b.Center()

	for _, u := range g.units {
		if !g.canAttack(b, u.ID) {
			continue
		}
		if d := geom.DistanceTo(u.Collider(), center); d < bestDist {
			best, bestDist = u.ID, d
		}
	}
	return best
}

// fire launches a projectile at the current target.
func (g *Game) fire(b *Building) {
	st := b.active
	beh := st.behavior
	u := g.units[st.target]
	from := b.Center()
	delivery := beh.Delivery()

	var p Projectile
	if delivery.Kind == DeliveryPush {
		strength := 0.0
		if ps, ok := beh.(pusher); ok {
			strength = ps.PushStrength(b.Level)
		}
		p = newPushWave(from, u.Pos, beh.MaxAttackDistance(), strength)
	} else {
		p = newProjectile(from, u, beh.ProjectileSpeed(b.Level), beh.AttackDamage(b.Level), delivery, beh.TargetDomain())
	}
	st.projectiles = append(st.projectiles, p)

	g.emit(EventTypeProjectileFired, ProjectileFiredPayload{
		BuildingID: b.ID,
		TargetID:   u.ID,
		Kind:       delivery.Kind.String(),
		TimeLeft:   p.TimeLeft,
	})
}

// tickDeathDamage fires the one-shot explosion of a destroyed building.
func (g *Game) tickDeathDamage(b *Building, dt float64) {
	dd, ok := b.active.behavior.(deathDamager)
	if !ok || b.active.deathDone {
		return
	}
	b.active.deathElapsed += dt
	if b.active.deathElapsed < dd.DeathDelay() {
		return
	}
	b.active.deathDone = true
	g.splashUnits(b.Center(), dd.DeathRadius(), dd.DeathDamage(b.Level), DomainGround)
}

// splashUnits damages every alive unit of the domain within radius of p.
func (g *Game) splashUnits(p geom.Vec2, radius, damage float64, domain Domain) {
	for _, u := range g.units {
		if u.dead || !domain.Has(u.Type.Domain) {
			continue
		}
		if geom.DistanceTo(u.Collider(), p) <= radius {
			g.DamageUnit(u, damage)
		}
	}
}
