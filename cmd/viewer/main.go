// Command viewer replays a raid in a window.
//
// Space pauses, R restarts, +/- change the speed, C toggles the collision
// overlay.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"cocsim/internal/api"
	"cocsim/internal/game"
	"cocsim/internal/mapfile"
	"cocsim/internal/render"
)

const maxSpeed = 16

type viewer struct {
	m    game.Map
	plan game.AttackPlan

	g    *game.Game
	exec *game.AttackPlanExecutor

	cfg      render.Config
	renderer *render.Renderer
	screen   *ebiten.Image
	width    int
	height   int

	speed  int
	paused bool
	over   bool
}

func newViewer(m game.Map, plan game.AttackPlan, cfg render.Config) (*viewer, error) {
	v := &viewer{m: m, plan: plan, cfg: cfg, speed: 1}
	v.renderer = render.NewRenderer(cfg)
	if err := v.restart(); err != nil {
		return nil, err
	}
	v.width, v.height = v.renderer.Size(v.g.TotalSize())
	return v, nil
}

func (v *viewer) restart() error {
	g, err := game.NewGame(v.m)
	if err != nil {
		return err
	}
	exec, err := game.NewAttackPlanExecutor(g, v.plan)
	if err != nil {
		return err
	}
	v.g, v.exec, v.over = g, exec, false
	return nil
}

func (v *viewer) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.paused = !v.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := v.restart(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		v.speed = min(maxSpeed, v.speed*2)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		v.speed = max(1, v.speed/2)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		v.cfg.ShowCollision = !v.cfg.ShowCollision
		v.renderer = render.NewRenderer(v.cfg)
	}
	if v.paused || v.over {
		return nil
	}

	dt := 1.0 / float64(ebiten.TPS())
	for i := 0; i < v.speed && !v.over; i++ {
		if err := v.exec.Tick(v.g); err != nil {
			return err
		}
		if v.g.Done() || (v.exec.Pending() == 0 && v.g.UnitsAlive() == 0) {
			v.over = true
			log.Printf("🏁 %s", v.g.ProgressInfo())
			break
		}
		v.g.Tick(dt)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	img := v.renderer.Render(render.SceneOf(v.g))
	if rgba, ok := img.(*image.RGBA); ok && v.screen != nil {
		v.screen.WritePixels(rgba.Pix)
	} else {
		v.screen = ebiten.NewImageFromImage(img)
	}
	screen.DrawImage(v.screen, nil)

	status := fmt.Sprintf("x%d", v.speed)
	if v.paused {
		status += " paused"
	}
	if v.over {
		status += " finished (R to replay)"
	}
	ebitenutil.DebugPrintAt(screen, status, v.width-8*len(status)-4, 2)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

func main() {
	mapPath := flag.String("map", "", "base layout (.json, .yaml); empty uses the demo base")
	planPath := flag.String("plan", "", "attack plan (.json, .yaml); empty uses the demo plan")
	tileSize := flag.Int("tile", render.DefaultConfig().TileSize, "pixels per tile")
	flag.Parse()

	m, plan := api.DemoMap(), api.DemoPlan()
	var err error
	if *mapPath != "" {
		if m, err = mapfile.LoadMap(*mapPath); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}
	if *planPath != "" {
		if plan, err = mapfile.LoadPlan(*planPath); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	cfg := render.DefaultConfig()
	cfg.TileSize = *tileSize
	v, err := newViewer(m, plan, cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowTitle("cocsim viewer")
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
