package spatial

// BlockedFunc reports whether a cell blocks line of sight.
type BlockedFunc func(x, y int) bool

// LineOfSight reports whether the straight segment between the centres of a
// and b crosses no blocked cell. The endpoints themselves are not tested.
// When the segment passes exactly through a cell corner both cells touching
// that corner must be free.
func LineOfSight(blocked BlockedFunc, a, b Cell) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	nx, ny := abs(dx), abs(dy)
	sx, sy := sign(dx), sign(dy)

	p := a
	for ix, iy := 0, 0; ix < nx || iy < ny; {
		decision := (1+2*ix)*ny - (1+2*iy)*nx
		switch {
		case decision == 0:
			if blocked(p.X+sx, p.Y) || blocked(p.X, p.Y+sy) {
				return false
			}
			p.X += sx
			p.Y += sy
			ix++
			iy++
		case decision < 0:
			p.X += sx
			ix++
		default:
			p.Y += sy
			iy++
		}
		if p != b && blocked(p.X, p.Y) {
			return false
		}
	}
	return true
}

// Simplify drops the intermediate cells of path that can be skipped by a
// straight line of sight. The first and last cells are always kept.
func Simplify(blocked BlockedFunc, path []Cell) []Cell {
	if len(path) <= 2 {
		out := make([]Cell, len(path))
		copy(out, path)
		return out
	}

	out := []Cell{path[0]}
	for i := 1; i < len(path); i++ {
		if !LineOfSight(blocked, out[len(out)-1], path[i]) {
			out = append(out, path[i-1])
		}
	}
	if out[len(out)-1] != path[len(path)-1] {
		out = append(out, path[len(path)-1])
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
