// Command tui replays a raid in the terminal, two columns per tile.
//
// Space pauses, r restarts, +/- change the speed, q or Esc quits.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"cocsim/internal/api"
	"cocsim/internal/game"
	"cocsim/internal/mapfile"
	"cocsim/internal/render"
)

const frameInterval = 33 * time.Millisecond

type tui struct {
	screen tcell.Screen
	m      game.Map
	plan   game.AttackPlan

	g    *game.Game
	exec *game.AttackPlanExecutor
	grid []tcell.Color

	speed  int
	paused bool
	over   bool
}

func (t *tui) restart() error {
	g, err := game.NewGame(t.m)
	if err != nil {
		return err
	}
	exec, err := game.NewAttackPlanExecutor(g, t.plan)
	if err != nil {
		return err
	}
	t.g, t.exec, t.over = g, exec, false

	shapes := g.DrawGrid()
	t.grid = make([]tcell.Color, len(shapes))
	for i, sh := range shapes {
		t.grid[i] = hexColor(sh.Color)
	}
	return nil
}

func hexColor(hex string) tcell.Color {
	c := render.ParseHexColor(hex)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *tui) step() error {
	if t.paused || t.over {
		return nil
	}
	dt := frameInterval.Seconds()
	for i := 0; i < t.speed; i++ {
		if err := t.exec.Tick(t.g); err != nil {
			return err
		}
		if t.g.Done() || (t.exec.Pending() == 0 && t.g.UnitsAlive() == 0) {
			t.over = true
			return nil
		}
		t.g.Tick(dt)
	}
	return nil
}

func (t *tui) draw() {
	t.screen.Clear()
	snap := t.g.Snapshot()
	size := snap.TotalSize

	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			style := tcell.StyleDefault.Background(t.grid[x*size+y])
			t.screen.SetContent(2*x, y, ' ', nil, style)
			t.screen.SetContent(2*x+1, y, ' ', nil, style)
		}
	}

	for _, b := range snap.Buildings {
		if b.Hidden {
			continue
		}
		fg := hexColor(b.Color)
		label := []rune(abbrev(b.Name))
		if b.Destroyed {
			fg, label = tcell.ColorGray, []rune("xx")
		}
		style := tcell.StyleDefault.Background(t.grid[b.X*size+b.Y]).Foreground(fg).Bold(true)
		for i, r := range label {
			t.screen.SetContent(2*b.X+i, b.Y, r, nil, style)
		}
	}

	for _, u := range snap.Units {
		x, y := int(u.X), int(u.Y)
		if x < 0 || y < 0 || x >= size || y >= size {
			continue
		}
		glyph := unitGlyph(u.Name)
		style := tcell.StyleDefault.Background(t.grid[x*size+y]).Foreground(tcell.ColorWhite).Bold(true)
		t.screen.SetContent(2*x, y, glyph, nil, style)
	}

	status := fmt.Sprintf("%s  x%d", snap.Progress, t.speed)
	if t.paused {
		status += "  paused"
	}
	if t.over {
		status += "  finished (r to replay)"
	}
	drawText(t.screen, 0, size, status, tcell.StyleDefault)
	t.screen.Show()
}

func abbrev(name string) string {
	var upper []rune
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			upper = append(upper, r)
		}
	}
	if len(upper) >= 2 {
		return string(upper[:2])
	}
	if len(name) >= 2 {
		return name[:2]
	}
	return name
}

func unitGlyph(name string) rune {
	switch name {
	case "Dragon":
		return 'D'
	case "Balloon":
		return 'o'
	default:
		return []rune(strings.ToLower(name))[0]
	}
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// handle reports false when the viewer should exit.
func (t *tui) handle(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false, nil
		}
		if ev.Key() != tcell.KeyRune {
			return true, nil
		}
		switch ev.Rune() {
		case 'q':
			return false, nil
		case ' ':
			t.paused = !t.paused
		case 'r':
			return true, t.restart()
		case '+', '=':
			t.speed = min(16, t.speed*2)
		case '-':
			t.speed = max(1, t.speed/2)
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true, nil
}

func (t *tui) run() error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	// PollEvent returns nil once the screen is finalized.
	events := make(chan tcell.Event, 100)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	for {
		select {
		case ev := <-events:
			ok, err := t.handle(ev)
			if err != nil || !ok {
				return err
			}
		case <-ticker.C:
			if err := t.step(); err != nil {
				return err
			}
			t.draw()
		}
	}
}

func main() {
	mapPath := flag.String("map", "", "base layout (.json, .yaml); empty uses the demo base")
	planPath := flag.String("plan", "", "attack plan (.json, .yaml); empty uses the demo plan")
	flag.Parse()

	if err := start(*mapPath, *planPath); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}

func start(mapPath, planPath string) error {
	t := &tui{m: api.DemoMap(), plan: api.DemoPlan(), speed: 1}
	var err error
	if mapPath != "" {
		if t.m, err = mapfile.LoadMap(mapPath); err != nil {
			return err
		}
	}
	if planPath != "" {
		if t.plan, err = mapfile.LoadPlan(planPath); err != nil {
			return err
		}
	}
	if err := t.restart(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	t.screen = screen

	return t.run()
}
