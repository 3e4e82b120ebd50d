package game

import "cocsim/internal/game/geom"

// DrawGrid returns one rect per tile coloured by TileColor. The grid never
// changes during a battle.
func (g *Game) DrawGrid() []Shape {
	size := g.TotalSize()
	out := make([]Shape, 0, size*size)

	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			color := TileColor(
				(x^y)&1 == 0,
				g.IsBorder(x, y),
				g.dropZone.At(x, y),
				g.occupancy.At(x, y) != NoBuilding,
			)
			out = append(out, Rect(float64(x), float64(y), 1, 1, color))
		}
	}
	return out
}

// NeedRedrawCollision reports whether the collision grid changed since the
// last DrawCollision.
func (g *Game) NeedRedrawCollision() bool {
	return g.needRedrawCollision
}

// DrawCollision returns CollisionShapes and clears the redraw flag.
func (g *Game) DrawCollision() []Shape {
	g.needRedrawCollision = false
	return g.CollisionShapes()
}

// CollisionShapes returns the owned subtiles, merging horizontal runs into
// one rect.
func (g *Game) CollisionShapes() []Shape {
	const side = 1.0 / CollisionTilesPerMapTile
	size := g.collision.Size()
	out := []Shape{}

	for y := 0; y < size; y++ {
		for x := 0; x < size; {
			if g.collision.At(x, y) == NoBuilding {
				x++
				continue
			}
			start := x
			for x < size && g.collision.At(x, y) != NoBuilding {
				x++
			}
			out = append(out, Rect(float64(start)*side, float64(y)*side, float64(x-start)*side, side, CollisionTileColor))
		}
	}
	return out
}

// DrawEntities returns the dynamic part of the scene: health bars, targeting
// lines, projectiles, push waves and units.
func (g *Game) DrawEntities() []Shape {
	var out []Shape

	for _, b := range g.buildings {
		if !b.destroyed && b.Health < b.MaxHealth {
			out = append(out, healthBar(b.Footprint(), b.Health/b.MaxHealth)...)
		}
		if b.active == nil {
			continue
		}
		if !b.destroyed && b.active.target != NoUnit {
			c, t := b.Center(), g.units[b.active.target].Pos
			out = append(out, Line(c.X, c.Y, t.X, t.Y, 0.05, targetLineColor))
		}
		for _, p := range b.active.projectiles {
			if p.Kind == DeliveryPush {
				out = append(out, Arc(p.Origin.X, p.Origin.Y, p.Radius, p.Rotation, p.Opening, 0.1, pushWaveColor))
				continue
			}
			out = append(out, Circle(p.Pos.X, p.Pos.Y, 0.1, projectileColor))
		}
	}

	for _, u := range g.units {
		if u.dead {
			continue
		}
		color, ok := unitColors[u.Type.Name]
		if !ok {
			color = "#FFFFFF"
		}
		out = append(out, Circle(u.Pos.X, u.Pos.Y, 0.25, color))
	}
	return out
}

func healthBar(fp geom.Rect, frac float64) []Shape {
	const h = 0.15
	return []Shape{
		Rect(fp.X, fp.Y-h, fp.W, h, healthBarBack),
		Rect(fp.X, fp.Y-h, fp.W*frac, h, healthBarFront),
	}
}

// BuildingColor is the fill used by renderers for a building footprint.
func BuildingColor(b *Building) string {
	switch {
	case b.destroyed:
		return destroyedColor
	case b.Kind() == KindWall:
		return wallBuilding
	case b.Kind() == KindTownHall:
		return townHallBuilding
	case b.IsActive():
		return activeBuilding
	default:
		return passiveBuilding
	}
}
