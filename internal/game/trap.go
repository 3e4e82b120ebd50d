package game

import (
	"math"

	"cocsim/internal/game/geom"
)

// Trigger wakes a hidden building once a matching unit comes within Radius
// of its centre.
type Trigger struct {
	Radius          float64
	Domain          Domain
	MinHousingSpace int
}

// triggeredBy returns the nearest unit that sets off b, lowest ID on ties.
func (g *Game) triggeredBy(b *Building) int {
	tr := b.Type.Trigger
	best := NoUnit
	bestDist := math.Inf(1)
	center := b.Center()

	for _, u := range g.units {
		if u.dead || !tr.Domain.Has(u.Type.Domain) || u.Type.HousingSpace < tr.MinHousingSpace {
			continue
		}
		d := geom.DistanceTo(u.Collider(), center)
		if d <= tr.Radius && d < bestDist {
			best, bestDist = u.ID, d
		}
	}
	return best
}

// spring handles a hidden building for one tick. Traps fire once at the
// triggering unit and stay hidden; hidden defenses reveal themselves. It
// reports whether normal targeting should run this tick.
func (g *Game) spring(b *Building) bool {
	st := b.active
	st.phase = PhaseIdle
	if b.spent {
		return false
	}
	id := g.triggeredBy(b)
	if id == NoUnit {
		return false
	}

	if b.Type.Kind == KindTrap {
		st.target = id
		g.fire(b)
		st.target = NoUnit
		st.phase = PhaseFiring
		b.spent = true
		return false
	}

	g.reveal(b)
	return true
}

// reveal makes a hidden defense attackable. Every unit replans so the new
// building is considered.
func (g *Game) reveal(b *Building) {
	b.hidden = false
	b.Collider = defaultCollider(b.Footprint())
	g.updateCollision(b)
	for _, u := range g.units {
		if !u.dead {
			u.clearPlan()
		}
	}
}
