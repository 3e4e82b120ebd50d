// Package render draws battle scenes to images with gg.
package render

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"cocsim/internal/game"
)

// Config sets the output resolution.
type Config struct {
	TileSize      int  // pixels per map tile
	HeaderHeight  int  // pixels above the map for the progress line
	ShowCollision bool // overlay collision subtiles
}

// DefaultConfig returns a 16 px per tile layout with a header.
func DefaultConfig() Config {
	return Config{TileSize: 16, HeaderHeight: 20}
}

// Scene is one picture of a battle in tile units.
type Scene struct {
	TotalSize int
	Progress  string
	Grid      []game.Shape
	Collision []game.Shape
	Entities  []game.Shape
}

// SceneOf captures the current state of g without touching its redraw flag.
func SceneOf(g *game.Game) Scene {
	return Scene{
		TotalSize: g.TotalSize(),
		Progress:  g.ProgressInfo(),
		Grid:      g.DrawGrid(),
		Collision: g.CollisionShapes(),
		Entities:  g.DrawEntities(),
	}
}

// ScenesFromFrames expands recorded frames into full scenes. Frames omit the
// grid and collision layers when unchanged, so they are carried forward.
func ScenesFromFrames(frames []game.Frame) []Scene {
	scenes := make([]Scene, len(frames))
	var grid, collision []game.Shape
	for i, f := range frames {
		if f.Grid != nil {
			grid = f.Grid
		}
		if f.Collision != nil {
			collision = f.Collision
		}
		scenes[i] = Scene{
			TotalSize: f.TotalBaseSize,
			Progress:  f.ProgressInfo,
			Grid:      grid,
			Collision: collision,
			Entities:  f.Entities,
		}
	}
	return scenes
}

// Renderer draws scenes. It holds no state between calls and is safe for
// concurrent use.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a renderer; a non-positive tile size uses the default.
func NewRenderer(cfg Config) *Renderer {
	if cfg.TileSize <= 0 {
		cfg.TileSize = DefaultConfig().TileSize
	}
	if cfg.HeaderHeight < 0 {
		cfg.HeaderHeight = 0
	}
	return &Renderer{cfg: cfg}
}

// Size returns the image dimensions for a map of totalSize tiles.
func (r *Renderer) Size(totalSize int) (w, h int) {
	w = totalSize * r.cfg.TileSize
	return w, w + r.cfg.HeaderHeight
}

// Render draws s and returns the image.
func (r *Renderer) Render(s Scene) image.Image {
	return r.draw(s).Image()
}

// WritePNG draws s and encodes it as PNG to w.
func (r *Renderer) WritePNG(w io.Writer, s Scene) error {
	return r.draw(s).EncodePNG(w)
}

func (r *Renderer) draw(s Scene) *gg.Context {
	width, height := r.Size(s.TotalSize)
	dc := gg.NewContext(width, height)

	dc.SetColor(color.RGBA{12, 12, 28, 255})
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	for _, sh := range s.Grid {
		r.drawShape(dc, sh)
	}
	if r.cfg.ShowCollision {
		for _, sh := range s.Collision {
			r.drawShape(dc, sh)
		}
	}
	for _, sh := range s.Entities {
		r.drawShape(dc, sh)
	}

	if r.cfg.HeaderHeight > 0 {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetColor(color.White)
		dc.DrawStringAnchored(s.Progress, 4, float64(r.cfg.HeaderHeight)/2, 0, 0.5)
	}
	return dc
}

// px converts tile units to pixels; py also skips the header.
func (r *Renderer) px(v float64) float64 {
	return v * float64(r.cfg.TileSize)
}

func (r *Renderer) py(v float64) float64 {
	return r.px(v) + float64(r.cfg.HeaderHeight)
}

func (r *Renderer) drawShape(dc *gg.Context, sh game.Shape) {
	dc.SetColor(ParseHexColor(sh.Color))

	switch sh.Kind {
	case game.ShapeRect:
		dc.DrawRectangle(r.px(sh.X), r.py(sh.Y), r.px(sh.Width), r.px(sh.Height))
		dc.Fill()
	case game.ShapeCircle:
		dc.DrawCircle(r.px(sh.X), r.py(sh.Y), r.px(sh.Radius))
		dc.Fill()
	case game.ShapeLine:
		dc.SetLineWidth(max(1, r.px(sh.Width)))
		dc.DrawLine(r.px(sh.X), r.py(sh.Y), r.px(sh.X2), r.py(sh.Y2))
		dc.Stroke()
	case game.ShapeArc:
		from := gg.Radians(sh.Rotation - sh.Opening/2)
		to := gg.Radians(sh.Rotation + sh.Opening/2)
		dc.SetLineWidth(max(1, r.px(sh.Width)))
		dc.DrawArc(r.px(sh.X), r.py(sh.Y), r.px(sh.Radius), from, to)
		dc.Stroke()
	}
}
