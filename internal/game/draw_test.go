package game

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"cocsim/internal/game/geom"
)

func TestDrawGridColors(t *testing.T) {
	g := mustGame(t, cannonMap())
	grid := g.DrawGrid()
	size := g.TotalSize()
	if len(grid) != size*size {
		t.Fatalf("grid shapes = %d, want %d", len(grid), size*size)
	}

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"occupied", 10, 10, BuildingTileEvenColor},
		{"occupied odd", 11, 10, BuildingTileOddColor},
		{"border drop zone", 0, 0, DropZoneBorderTileEvenColor},
		{"inner drop zone", 5, 6, DropZoneTileOddColor},
		{"next to building", 9, 9, TileEvenColor},
		{"next to building odd", 9, 10, TileOddColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := grid[tt.x*size+tt.y]
			if s.X != float64(tt.x) || s.Y != float64(tt.y) {
				t.Fatalf("shape at (%v,%v), want (%d,%d)", s.X, s.Y, tt.x, tt.y)
			}
			if s.Color != tt.want {
				t.Errorf("color = %s, want %s", s.Color, tt.want)
			}
		})
	}
}

func TestTileColorBorderWithoutDropZone(t *testing.T) {
	if got := TileColor(true, true, false, false); got != BorderTileEvenColor {
		t.Errorf("TileColor = %s", got)
	}
	if got := TileColor(false, true, false, false); got != BorderTileOddColor {
		t.Errorf("TileColor = %s", got)
	}
}

func TestDrawCollision(t *testing.T) {
	g := mustGame(t, cannonMap())
	if !g.NeedRedrawCollision() {
		t.Fatal("fresh game should need a collision redraw")
	}

	rects := g.DrawCollision()
	if len(rects) != 19 {
		t.Fatalf("collision rects = %d, want 19", len(rects))
	}
	for _, r := range rects {
		if r.Kind != ShapeRect || r.Color != CollisionTileColor {
			t.Fatalf("unexpected shape %+v", r)
		}
		if math.Abs(r.X-10.6) > 1e-9 || math.Abs(r.Width-1.9) > 1e-9 {
			t.Errorf("run x=%v width=%v, want 10.6 and 1.9", r.X, r.Width)
		}
	}
	if g.NeedRedrawCollision() {
		t.Error("DrawCollision should clear the flag")
	}

	cannon := g.Buildings()[0]
	g.DamageBuilding(cannon, cannon.Health)
	if !g.NeedRedrawCollision() {
		t.Error("destruction should request a redraw")
	}
	if n := len(g.DrawCollision()); n != 0 {
		t.Errorf("collision rects after destruction = %d", n)
	}
}

func TestDrawEntities(t *testing.T) {
	g := mustGame(t, cannonMap())
	cannon := g.Buildings()[0]
	g.AddUnit(mustUnit(t, "Barbarian"), 0, geom.V(11.5, 16))

	shapes := g.DrawEntities()
	if len(shapes) != 1 || shapes[0].Kind != ShapeCircle || shapes[0].Color != "#FFFF00" {
		t.Fatalf("expected a single unit circle, got %+v", shapes)
	}

	g.DamageBuilding(cannon, 10)
	g.Tick(0.1)

	counts := map[ShapeKind]int{}
	for _, s := range g.DrawEntities() {
		counts[s.Kind]++
	}
	if counts[ShapeRect] != 2 {
		t.Errorf("health bar rects = %d, want 2", counts[ShapeRect])
	}
	if counts[ShapeLine] != 1 {
		t.Errorf("targeting lines = %d, want 1", counts[ShapeLine])
	}
}

func TestShapeJSON(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  string
	}{
		{"rect", Rect(1.234, 2, 3.006, 4, "#000000"),
			`{"color":"#000000","height":4,"type":"rect","width":3.01,"x":1.23,"y":2}`},
		{"circle", Circle(0.5, 0.25, 0.1, "#FF0000"),
			`{"color":"#FF0000","radius":0.1,"type":"circle","x":0.5,"y":0.25}`},
		{"line", Line(0, 0, 1.111, 2.226, 0.05, "#FF0000"),
			`{"color":"#FF0000","type":"line","width":0.05,"x":0,"x2":1.11,"y":0,"y2":2.23}`},
		{"arc", Arc(5, 5, 2, -90, 120, 0.1, "#00FFFF"),
			`{"color":"#00FFFF","opening":120,"radius":2,"rotation":-90,"type":"arc","width":0.1,"x":5,"y":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.shape)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("got  %s\nwant %s", data, tt.want)
			}

			var back Shape
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatal(err)
			}
			if back.Kind != tt.shape.Kind || back.Color != tt.shape.Color {
				t.Errorf("decoded %+v", back)
			}
		})
	}
}

func TestFrameRecorder(t *testing.T) {
	g := mustGame(t, cannonMap())
	rec := NewFrameRecorder(3)

	for i := 0; i < 7; i++ {
		g.Tick(0.1)
		rec.Draw(g)
	}
	rec.Finish(g)

	// Ticks 1, 4 and 7 are drawn; Finish sees the last frame is current.
	if len(rec.Frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(rec.Frames))
	}
	first := rec.Frames[0]
	if len(first.Grid) != 24*24 || len(first.Collision) != 19 {
		t.Errorf("first frame grid=%d collision=%d", len(first.Grid), len(first.Collision))
	}
	for _, f := range rec.Frames[1:] {
		if f.Grid != nil || f.Collision != nil {
			t.Error("static layers repeated in later frames")
		}
		if f.TotalBaseSize != 24 || !strings.Contains(f.ProgressInfo, "star") {
			t.Errorf("frame header %d %q", f.TotalBaseSize, f.ProgressInfo)
		}
	}

	g.Tick(0.1)
	rec.Finish(g)
	if len(rec.Frames) != 4 {
		t.Errorf("Finish should record the new final state, frames = %d", len(rec.Frames))
	}
}
