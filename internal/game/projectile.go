package game

import (
	"math"

	"cocsim/internal/game/geom"
)

// Push wave constants
const (
	PushWaveStartRadius = 1.0   // tiles
	PushWaveSpeed       = 10.0  // tiles per second
	PushWaveOpening     = 120.0 // degrees
)

// Projectile is an attack in flight from an active building. Point and
// splash projectiles travel in a straight line with a velocity fixed at
// launch; push waves expand from the building as an arc.
type Projectile struct {
	Kind     DeliveryKind
	Pos      geom.Vec2
	Vel      geom.Vec2
	TimeLeft float64 // seconds until it lands
	Damage   float64
	Domain   Domain

	// Point
	Target int

	// Splash
	Impact geom.Vec2
	Radius float64

	// Push wave
	Origin    geom.Vec2
	MaxRadius float64
	Rotation  float64 // degrees, 0 = right, 90 = down
	Opening   float64
	Strength  float64
	pushed    map[int]bool
}

func newProjectile(from geom.Vec2, target *Unit, speed, damage float64, d Delivery, domain Domain) Projectile {
	delta := target.Pos.Sub(from)
	dist := delta.Len()

	p := Projectile{
		Kind:   d.Kind,
		Pos:    from,
		Damage: damage,
		Domain: domain,
		Target: target.ID,
		Impact: target.Pos,
		Radius: d.Radius,
	}
	if speed > 0 && dist > 0 {
		p.Vel = delta.Normalize().Scale(speed)
		p.TimeLeft = dist / speed
	}
	return p
}

func newPushWave(from, toward geom.Vec2, maxRadius, strength float64) Projectile {
	return Projectile{
		Kind:      DeliveryPush,
		Pos:       from,
		Origin:    from,
		Radius:    PushWaveStartRadius,
		MaxRadius: maxRadius,
		Rotation:  toward.Sub(from).AngleDeg(),
		Opening:   PushWaveOpening,
		Strength:  strength,
		Domain:    DomainAir,
		Target:    NoUnit,
		TimeLeft:  math.Max(0, (maxRadius-PushWaveStartRadius)/PushWaveSpeed),
		pushed:    map[int]bool{},
	}
}

// advanceProjectiles moves every projectile of b and resolves the ones that
// landed. The slice is filtered in place.
func (g *Game) advanceProjectiles(b *Building, dt float64) {
	st := b.active
	kept := st.projectiles[:0]

	for i := range st.projectiles {
		p := st.projectiles[i]
		if p.Kind == DeliveryPush {
			if g.advancePushWave(&p, dt) {
				kept = append(kept, p)
			}
			continue
		}

		p.TimeLeft -= dt
		if p.TimeLeft > 0 {
			p.Pos = p.Pos.Add(p.Vel.Scale(dt))
			kept = append(kept, p)
			continue
		}
		g.land(&p)
	}

	st.projectiles = kept
}

func (g *Game) land(p *Projectile) {
	switch p.Kind {
	case DeliveryPoint:
		if u := g.units[p.Target]; !u.dead {
			g.DamageUnit(u, p.Damage)
		}
	case DeliverySplash:
		g.splashUnits(p.Impact, p.Radius, p.Damage, p.Domain)
	}
}

// advancePushWave grows the wave and pushes every air unit it crosses once.
// Returns false when the wave reached its maximum radius.
func (g *Game) advancePushWave(p *Projectile, dt float64) bool {
	p.Radius = math.Min(p.MaxRadius, p.Radius+PushWaveSpeed*dt)
	p.TimeLeft = math.Max(0, p.TimeLeft-dt)

	for _, u := range g.units {
		if u.dead || p.pushed[u.ID] || !p.Domain.Has(u.Type.Domain) {
			continue
		}
		delta := u.Pos.Sub(p.Origin)
		if delta.Len() > p.Radius || !geom.ArcContains(p.Rotation, p.Opening, delta.AngleDeg()) {
			continue
		}
		p.pushed[u.ID] = true
		g.pushUnit(u, delta.Normalize().Scale(p.Strength))
	}

	return p.Radius < p.MaxRadius
}
