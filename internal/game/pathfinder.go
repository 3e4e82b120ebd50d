package game

import (
	"math"
	"sort"

	"cocsim/internal/game/geom"
	"cocsim/internal/game/spatial"
)

// WallCost is the cost of walking through one wall subtile.
const WallCost = 200.0

// groundCandidates is how many of the best targets get a full search.
const groundCandidates = 2

// Pathfinder chooses targets and computes waypoints for units.
type Pathfinder struct {
	g      *Game
	search *spatial.Search
}

func newPathfinder(g *Game) *Pathfinder {
	return &Pathfinder{g: g, search: spatial.NewSearch(g.collision.Size())}
}

// Targets returns the standing buildings u may attack, best first.
//
// Buildings are grouped by priority (matching the unit's preference, then
// not being a wall) and only the best group is kept, ordered by the distance
// from u to the building's attack area. Equal distances keep building order.
func (p *Pathfinder) Targets(u *Unit) []*Building {
	priority := func(b *Building) int {
		k := 0
		if b.Counted() {
			k = 1
		}
		if u.Type.Prefers != nil && u.Type.Prefers(b) {
			k += 2
		}
		return k
	}

	best := -1
	var out []*Building
	for _, b := range p.g.buildings {
		if b.destroyed || b.Collider == nil {
			continue
		}
		switch k := priority(b); {
		case k > best:
			best = k
			out = append(out[:0], b)
		case k == best:
			out = append(out, b)
		}
	}

	dist := make(map[int]float64, len(out))
	for _, b := range out {
		dist[b.ID] = geom.DistanceTo(b.Collider.AttackArea(u.Type.AttackRange), u.Pos)
	}
	sort.SliceStable(out, func(i, j int) bool { return dist[out[i].ID] < dist[out[j].ID] })
	return out
}

// FindPath picks the target of u and returns its waypoints as a stack (next
// waypoint last). ok is false when nothing is left to attack or no path
// exists.
func (p *Pathfinder) FindPath(u *Unit) (target int, waypoints []geom.Vec2, ok bool) {
	targets := p.Targets(u)
	if len(targets) == 0 {
		return NoBuilding, nil, false
	}

	if u.Type.Domain == DomainAir {
		t := targets[0]
		attack := t.Collider.AttackArea(u.Type.AttackRange).NearestPoint(u.Pos)
		return t.ID, []geom.Vec2{attack}, true
	}

	bestCost := math.Inf(1)
	var bestTarget *Building
	var bestCells []spatial.Cell
	for _, t := range targets[:min(groundCandidates, len(targets))] {
		cells, cost, found := p.groundSearch(u, t)
		if found && cost < bestCost {
			bestCost, bestTarget, bestCells = cost, t, cells
		}
	}
	if bestTarget == nil {
		return NoBuilding, nil, false
	}

	target, waypoints = p.waypoints(u, bestTarget, bestCells)
	return target, waypoints, true
}

func (p *Pathfinder) groundSearch(u *Unit, t *Building) ([]spatial.Cell, float64, bool) {
	attack := t.Collider.AttackArea(u.Type.AttackRange).NearestPoint(u.Pos)
	start := spatial.Cell{X: SubtileOf(u.Pos.X), Y: SubtileOf(u.Pos.Y)}
	goal := spatial.Cell{X: SubtileOf(attack.X), Y: SubtileOf(attack.Y)}

	return p.search.FindPath(p.costFunc(t.ID), start, goal)
}

// costFunc prices entering a subtile while walking to target.
func (p *Pathfinder) costFunc(target int) spatial.CostFunc {
	return func(x, y int) float64 {
		owner := p.g.collision.At(x, y)
		switch {
		case owner == NoBuilding || owner == target:
			return 1
		case p.g.buildings[owner].IsWall():
			return WallCost
		default:
			return math.Inf(1)
		}
	}
}

func (p *Pathfinder) blocked(x, y int) bool {
	return !p.g.collision.InBounds(x, y) || p.g.collision.At(x, y) != NoBuilding
}

// waypoints truncates cells at the first subtile owned by another building,
// which then becomes the target, simplifies the rest and converts it to a
// waypoint stack.
func (p *Pathfinder) waypoints(u *Unit, t *Building, cells []spatial.Cell) (int, []geom.Vec2) {
	target := t.ID
	truncated := false
	for i, c := range cells {
		owner := p.g.collision.At(c.X, c.Y)
		if owner != NoBuilding && owner != t.ID {
			target = owner
			truncated = true
			cells = cells[:max(i, 1)]
			break
		}
	}

	cells = spatial.Simplify(p.blocked, cells)
	if len(cells) > 1 {
		// The first cell is where the unit already stands.
		cells = cells[1:]
	}

	stack := make([]geom.Vec2, len(cells))
	for i, c := range cells {
		stack[len(cells)-1-i] = geom.V(SubtileCenter(c.X), SubtileCenter(c.Y))
	}
	if !truncated {
		stack[0] = t.Collider.AttackArea(u.Type.AttackRange).NearestPoint(u.Pos)
	}
	return target, stack
}
