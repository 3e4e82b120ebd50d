// Package geom provides the 2D vector math and the collider shapes used by
// the simulation. All coordinates are in map tile units.
package geom

import "math"

// Vec2 is a point or direction in tile units.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{v.X * k, v.Y * k}
}

// Len returns the Euclidean length.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Normalize returns the unit vector of v, or the zero vector if v is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// AngleDeg returns the bearing of v in degrees in (-180, 180].
// Y grows downward, so "up" is -90.
func (v Vec2) AngleDeg() float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// ArcContains reports whether angle lies inside the arc centred on rotation
// with the given opening, all in degrees.
func ArcContains(rotation, opening, angle float64) bool {
	diff := math.Mod(angle-rotation, 360)
	if diff > 180 {
		diff -= 360
	} else if diff < -180 {
		diff += 360
	}
	return math.Abs(diff) <= opening/2
}
