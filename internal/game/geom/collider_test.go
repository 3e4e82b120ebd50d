package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRectNearestPoint(t *testing.T) {
	r := Rect{X: 2, Y: 2, W: 2, H: 1}

	tests := []struct {
		name  string
		query Vec2
		want  Vec2
	}{
		{"inside returns itself", V(3, 2.5), V(3, 2.5)},
		{"left", V(0, 2.5), V(2, 2.5)},
		{"right", V(10, 2.2), V(4, 2.2)},
		{"above", V(3, -5), V(3, 2)},
		{"below", V(3.5, 8), V(3.5, 3)},
		{"top-left corner", V(0, 0), V(2, 2)},
		{"bottom-right corner", V(9, 9), V(4, 3)},
		{"on edge", V(4, 3), V(4, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.NearestPoint(tt.query)
			if got != tt.want {
				t.Errorf("NearestPoint(%v) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestRectAttackArea(t *testing.T) {
	r := Rect{X: 5, Y: 5, W: 1, H: 2}
	area := r.AttackArea(0.5).(Rect)

	want := Rect{X: 4.5, Y: 4.5, W: 2, H: 3}
	if area != want {
		t.Errorf("AttackArea = %+v, want %+v", area, want)
	}

	if !area.Contains(V(4.5, 4.5)) {
		t.Error("attack area bounds should be inclusive")
	}
	if area.Contains(V(4.4, 5)) {
		t.Error("point outside inflated area reported as contained")
	}
}

func TestRectFromCenter(t *testing.T) {
	r := RectFromCenter(11.5, 11.5, 1.95, 1.95)
	if !almostEqual(r.X, 10.525) || !almostEqual(r.Right(), 12.475) {
		t.Errorf("unexpected rect %+v", r)
	}
	if c := r.Center(); !almostEqual(c.X, 11.5) || !almostEqual(c.Y, 11.5) {
		t.Errorf("Center = %v", c)
	}
}

func TestPointCollider(t *testing.T) {
	p := Point{X: 1, Y: 1}

	if got := p.NearestPoint(V(5, 5)); got != V(1, 1) {
		t.Errorf("NearestPoint = %v", got)
	}

	area := p.AttackArea(2).(Rect)
	if area != (Rect{X: -1, Y: -1, W: 4, H: 4}) {
		t.Errorf("AttackArea = %+v", area)
	}
	if !p.Contains(V(1, 1)) || p.Contains(V(1, 1.01)) {
		t.Error("point contains only itself")
	}
}

func TestListCollider(t *testing.T) {
	l := List{
		Rect{X: 0, Y: 0, W: 1, H: 1},
		Rect{X: 5, Y: 0, W: 1, H: 1},
	}

	if got := l.NearestPoint(V(4, 0.5)); got != V(5, 0.5) {
		t.Errorf("NearestPoint picked %v, want member at x=5", got)
	}
	if !l.Contains(V(5.5, 0.5)) || l.Contains(V(3, 0.5)) {
		t.Error("Contains should test union membership")
	}

	box := l.BoundingBox()
	if box != (Rect{X: 0, Y: 0, W: 6, H: 1}) {
		t.Errorf("BoundingBox = %+v", box)
	}

	area := l.AttackArea(1).(List)
	if len(area) != 2 || !area.Contains(V(-1, -1)) {
		t.Errorf("AttackArea should inflate every member, got %+v", area)
	}
}

func TestEmptyList(t *testing.T) {
	var l List
	if l.Contains(V(0, 0)) {
		t.Error("empty list contains nothing")
	}
	if got := l.NearestPoint(V(3, 4)); got != V(3, 4) {
		t.Errorf("NearestPoint = %v", got)
	}
	if l.BoundingBox() != (Rect{}) {
		t.Error("empty bounding box expected")
	}
}

func TestArcContains(t *testing.T) {
	tests := []struct {
		rotation, opening, angle float64
		want                     bool
	}{
		{0, 120, 59, true},
		{0, 120, 61, false},
		{-90, 120, -140, true},
		{180, 120, -170, true},
		{180, 120, 100, false},
		{90, 120, 30, true},
	}

	for _, tt := range tests {
		if got := ArcContains(tt.rotation, tt.opening, tt.angle); got != tt.want {
			t.Errorf("ArcContains(%v, %v, %v) = %v, want %v", tt.rotation, tt.opening, tt.angle, got, tt.want)
		}
	}
}

func TestVectorOps(t *testing.T) {
	v := V(3, 4)
	if v.Len() != 5 {
		t.Errorf("Len = %v", v.Len())
	}
	n := v.Normalize()
	if !almostEqual(n.X, 0.6) || !almostEqual(n.Y, 0.8) {
		t.Errorf("Normalize = %v", n)
	}
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("zero vector should normalize to zero")
	}
	if d := V(1, 1).Dist(V(4, 5)); d != 5 {
		t.Errorf("Dist = %v", d)
	}
	if a := V(0, -1).AngleDeg(); a != -90 {
		t.Errorf("AngleDeg(up) = %v", a)
	}
}
