package geom

import "math"

// Collider is the attackable and blocking boundary of a building.
type Collider interface {
	// NearestPoint returns the point of the collider closest to p.
	// Points inside the collider are returned unchanged.
	NearestPoint(p Vec2) Vec2
	// AttackArea returns the region from which a unit with range r can hit
	// the collider.
	AttackArea(r float64) Collider
	// Contains reports inclusive membership.
	Contains(p Vec2) bool
	// BoundingBox returns the smallest Rect enclosing the collider.
	BoundingBox() Rect
}

// Rect is an axis aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// RectFromCenter builds a Rect of size w x h centred on (cx, cy).
func RectFromCenter(cx, cy, w, h float64) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the middle point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// Translate moves the rectangle by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

func (r Rect) NearestPoint(p Vec2) Vec2 {
	return Vec2{clamp(p.X, r.X, r.Right()), clamp(p.Y, r.Y, r.Bottom())}
}

func (r Rect) AttackArea(rng float64) Collider {
	return Rect{X: r.X - rng, Y: r.Y - rng, W: r.W + 2*rng, H: r.H + 2*rng}
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

func (r Rect) BoundingBox() Rect {
	return r
}

// Union returns the smallest Rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	return Rect{
		X: x,
		Y: y,
		W: math.Max(r.Right(), o.Right()) - x,
		H: math.Max(r.Bottom(), o.Bottom()) - y,
	}
}

// Point is a zero sized collider.
type Point Vec2

func (pt Point) NearestPoint(Vec2) Vec2 {
	return Vec2(pt)
}

func (pt Point) AttackArea(rng float64) Collider {
	return RectFromCenter(pt.X, pt.Y, 2*rng, 2*rng)
}

func (pt Point) Contains(p Vec2) bool {
	return p.X == pt.X && p.Y == pt.Y
}

func (pt Point) BoundingBox() Rect {
	return Rect{X: pt.X, Y: pt.Y}
}

// List is the union of its members.
type List []Collider

func (l List) NearestPoint(p Vec2) Vec2 {
	best := p
	bestDist := math.Inf(1)
	for _, c := range l {
		np := c.NearestPoint(p)
		if d := np.Dist(p); d < bestDist {
			best, bestDist = np, d
		}
	}
	return best
}

func (l List) AttackArea(rng float64) Collider {
	out := make(List, len(l))
	for i, c := range l {
		out[i] = c.AttackArea(rng)
	}
	return out
}

func (l List) Contains(p Vec2) bool {
	for _, c := range l {
		if c.Contains(p) {
			return true
		}
	}
	return false
}

func (l List) BoundingBox() Rect {
	if len(l) == 0 {
		return Rect{}
	}
	box := l[0].BoundingBox()
	for _, c := range l[1:] {
		box = box.Union(c.BoundingBox())
	}
	return box
}

// DistanceTo returns the distance from p to the nearest point of c.
func DistanceTo(c Collider, p Vec2) float64 {
	return c.NearestPoint(p).Dist(p)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
