package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"cocsim/internal/game"
)

func cannonGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.NewGame(game.Map{
		BaseSize:   20,
		BorderSize: 2,
		Buildings:  []game.BuildingModel{{Name: "Cannon", X: 10, Y: 10}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#324600", color.RGBA{0x32, 0x46, 0x00, 255}},
		{"#ffFFff", color.RGBA{255, 255, 255, 255}},
		{"#00ff7f", color.RGBA{0, 255, 127, 255}},
		{"bad", color.RGBA{255, 255, 255, 255}},
		{"", color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseHexColor(tt.in); got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func sameColor(c color.Color, hex string) bool {
	want := ParseHexColor(hex)
	r, g, b, _ := c.RGBA()
	return uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(b>>8) == want.B
}

func TestRenderTiles(t *testing.T) {
	g := cannonGame(t)
	r := NewRenderer(Config{TileSize: 4, HeaderHeight: 20})

	img := r.Render(SceneOf(g))
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 116 {
		t.Fatalf("bounds %v, want 96x116", b)
	}

	tests := []struct {
		name   string
		tx, ty int
		want   string
	}{
		{"border drop zone", 0, 0, game.DropZoneBorderTileEvenColor},
		{"building", 10, 10, game.BuildingTileEvenColor},
		{"blocked ground", 9, 9, game.TileEvenColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := img.At(tt.tx*4+2, 20+tt.ty*4+2)
			if !sameColor(c, tt.want) {
				t.Errorf("pixel of tile (%d,%d) = %v, want %s", tt.tx, tt.ty, c, tt.want)
			}
		})
	}

	if !g.NeedRedrawCollision() {
		t.Error("SceneOf must not clear the collision redraw flag")
	}
}

func TestRenderCollisionOverlay(t *testing.T) {
	g := cannonGame(t)
	r := NewRenderer(Config{TileSize: 10, ShowCollision: true})

	img := r.Render(SceneOf(g))
	// Centre of the cannon is covered by its collider.
	if c := img.At(115, 115); !sameColor(c, game.CollisionTileColor) {
		t.Errorf("collider pixel = %v", c)
	}
	// The footprint edge lies outside the scaled collider.
	if c := img.At(101, 101); sameColor(c, game.CollisionTileColor) {
		t.Error("collision drawn outside the collider")
	}
}

func TestWritePNG(t *testing.T) {
	g := cannonGame(t)
	if _, err := g.DropUnit("Barbarian", 0, 0.5, 0.5); err != nil {
		t.Fatal(err)
	}
	g.Tick(0.1)

	var buf bytes.Buffer
	if err := NewRenderer(DefaultConfig()).WritePNG(&buf, SceneOf(g)); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 24*16 || b.Dy() != 24*16+20 {
		t.Errorf("bounds %v", b)
	}
}

func TestScenesFromFrames(t *testing.T) {
	g := cannonGame(t)
	rec := game.NewFrameRecorder(1)
	for i := 0; i < 3; i++ {
		g.Tick(0.1)
		rec.Draw(g)
	}

	scenes := ScenesFromFrames(rec.Frames)
	if len(scenes) != 3 {
		t.Fatalf("scenes = %d", len(scenes))
	}
	for i, s := range scenes {
		if len(s.Grid) != 24*24 || len(s.Collision) == 0 {
			t.Errorf("scene %d grid=%d collision=%d", i, len(s.Grid), len(s.Collision))
		}
	}
}

func TestPoolRenderAllKeepsOrder(t *testing.T) {
	pool := NewPool(NewRenderer(Config{TileSize: 2}), 3)
	pool.Start()
	defer pool.Stop()

	scenes := make([]Scene, 8)
	for i := range scenes {
		scenes[i] = Scene{TotalSize: i + 1}
	}

	imgs := pool.RenderAll(scenes)
	for i, img := range imgs {
		if img == nil {
			t.Fatalf("image %d missing", i)
		}
		if w := img.Bounds().Dx(); w != (i+1)*2 {
			t.Errorf("image %d width %d, want %d", i, w, (i+1)*2)
		}
	}
}

func TestPoolStopped(t *testing.T) {
	pool := NewPool(NewRenderer(Config{TileSize: 2}), 0)
	if pool.NumWorkers() < 1 || pool.IsRunning() {
		t.Fatalf("workers=%d running=%v", pool.NumWorkers(), pool.IsRunning())
	}
	imgs := pool.RenderAll([]Scene{{TotalSize: 3}, {TotalSize: 4}, {TotalSize: 5}, {TotalSize: 6}, {TotalSize: 7}})
	if imgs[4].Bounds().Dx() != 14 {
		t.Errorf("sequential fallback width %d", imgs[4].Bounds().Dx())
	}
}
