package game

import "cocsim/internal/game/geom"

// Directions in neighbour order.
const (
	dirUp = iota
	dirRight
	dirDown
	dirLeft
)

var dirOffsets = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Relative to the wall tile origin.
var (
	wallCenter      = geom.Rect{X: 0.175, Y: 0.175, W: 0.65, H: 0.65}
	wallConnections = [4]geom.Rect{
		dirUp:    {X: 0.175, Y: 0, W: 0.65, H: 0.5},
		dirRight: {X: 0.5, Y: 0.175, W: 0.5, H: 0.65},
		dirDown:  {X: 0.175, Y: 0.5, W: 0.65, H: 0.5},
		dirLeft:  {X: 0, Y: 0.175, W: 0.5, H: 0.65},
	}
)

type wallState struct {
	// neighbours holds the IDs of adjacent walls (up, right, down, left).
	neighbours [4]int
}

// Neighbours returns the IDs of the adjacent walls in the order up, right,
// down, left. Missing neighbours are NoBuilding.
func (b *Building) Neighbours() [4]int {
	if b.wall == nil {
		return [4]int{NoBuilding, NoBuilding, NoBuilding, NoBuilding}
	}
	return b.wall.neighbours
}

// wallCollider is the centre post plus one bridge per standing neighbour.
// g may be nil before the walls are linked.
func (b *Building) wallCollider(g *Game) geom.Collider {
	origin := geom.V(float64(b.X), float64(b.Y))
	list := geom.List{wallCenter.Translate(origin)}

	for dir, id := range b.wall.neighbours {
		if id == NoBuilding || g == nil || g.buildings[id].destroyed {
			continue
		}
		list = append(list, wallConnections[dir].Translate(origin))
	}
	return list
}

// linkWalls stores the neighbour IDs of every wall and subscribes each wall
// to the destruction of its neighbours.
func (g *Game) linkWalls() {
	for _, b := range g.buildings {
		if b.wall == nil {
			continue
		}
		for dir, off := range dirOffsets {
			nx, ny := b.X+off[0], b.Y+off[1]
			if !g.IsInsideMap(nx, ny) {
				continue
			}
			id := g.occupancy.At(nx, ny)
			if id == NoBuilding || !g.buildings[id].IsWall() {
				continue
			}
			b.wall.neighbours[dir] = id
			g.buildings[id].subscribers = append(g.buildings[id].subscribers, b.ID)
		}
		b.Collider = b.wallCollider(g)
	}
}

// onNeighbourDestroyed rebuilds the collider of a wall after an adjacent
// wall fell.
func (b *Building) onNeighbourDestroyed(g *Game, _ BuildingDestroyed) {
	if b.wall == nil || b.destroyed {
		return
	}
	b.Collider = b.wallCollider(g)
	g.updateCollision(b)
}
