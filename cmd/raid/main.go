// Command raid simulates an attack plan against a base headlessly.
//
//	raid -map base.yaml -plan plan.yaml -runs 100 -workers 8
//	raid -map base.yaml -plan plan.yaml -events events.jsonl -png final.png
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"cocsim/internal/batch"
	"cocsim/internal/config"
	"cocsim/internal/game"
	"cocsim/internal/mapfile"
	"cocsim/internal/render"
)

type options struct {
	mapPath    string
	planPath   string
	runs       int
	workers    int
	dt         float64
	eventsPath string
	pngPath    string
	framesDir  string
	frameEvery int
	jsonOut    bool
	copy       bool
}

func main() {
	_ = godotenv.Load(".env")
	appConfig := config.Load()

	var opts options
	flag.StringVar(&opts.mapPath, "map", "", "base layout (.json, .yaml)")
	flag.StringVar(&opts.planPath, "plan", "", "attack plan (.json, .yaml)")
	flag.IntVar(&opts.runs, "runs", appConfig.Batch.Runs, "number of simulations")
	flag.IntVar(&opts.workers, "workers", appConfig.Batch.Workers, "parallel workers (0 = NumCPU)")
	flag.Float64Var(&opts.dt, "dt", appConfig.Sim.DeltaTime, "seconds per tick")
	flag.StringVar(&opts.eventsPath, "events", "", "write battle events as JSON lines (single run)")
	flag.StringVar(&opts.pngPath, "png", "", "render the final state to a PNG (single run)")
	flag.StringVar(&opts.framesDir, "frames", "", "render a PNG sequence into this directory (single run)")
	flag.IntVar(&opts.frameEvery, "frame-every", 6, "ticks between frames for -frames")
	flag.BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	flag.BoolVar(&opts.copy, "copy", false, "copy the summary to the clipboard")
	flag.Parse()

	if opts.mapPath == "" || opts.planPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, appConfig.Render); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(ctx context.Context, opts options, renderCfg config.RenderConfig) error {
	m, err := mapfile.LoadMap(opts.mapPath)
	if err != nil {
		return err
	}
	plan, err := mapfile.LoadPlan(opts.planPath)
	if err != nil {
		return err
	}

	singleRunOnly := opts.eventsPath != "" || opts.pngPath != "" || opts.framesDir != ""
	if singleRunOnly && opts.runs > 1 {
		return errors.New("-events, -png and -frames need -runs 1")
	}

	var summary string
	if opts.runs <= 1 {
		summary, err = runSingle(ctx, m, plan, opts, renderCfg)
	} else {
		summary, err = runBatch(ctx, m, plan, opts)
	}
	if err != nil {
		return err
	}

	fmt.Println(summary)
	if opts.copy {
		if err := clipboard.WriteAll(summary); err != nil {
			log.Printf("⚠️ Clipboard unavailable: %v", err)
		} else {
			log.Println("📋 Summary copied to clipboard")
		}
	}
	return nil
}

func runSingle(ctx context.Context, m game.Map, plan game.AttackPlan, opts options, renderCfg config.RenderConfig) (string, error) {
	var simOpts []game.SimOption

	if opts.eventsPath != "" {
		el := game.NewEventLogWithLimit(rate.Inf)
		if err := el.Start(opts.eventsPath); err != nil {
			return "", fmt.Errorf("event log: %w", err)
		}
		defer func() {
			el.Stop()
			log.Printf("📝 %d events written to %s", el.GetTotalCount()-el.GetDroppedCount(), opts.eventsPath)
		}()
		simOpts = append(simOpts, game.WithEventSink(el))
	}

	var recorder *game.FrameRecorder
	var last *game.Game
	if opts.framesDir != "" {
		recorder = game.NewFrameRecorder(opts.frameEvery)
	}
	if recorder != nil || opts.pngPath != "" {
		simOpts = append(simOpts, game.WithFrameHook(func(g *game.Game) {
			last = g
			if recorder != nil {
				recorder.Draw(g)
			}
		}))
	}

	start := time.Now()
	res, err := game.Simulate(ctx, m, plan, opts.dt, simOpts...)
	if err != nil {
		return "", err
	}
	log.Printf("⚔️ Simulated %d ticks in %v", res.Ticks, time.Since(start).Round(time.Millisecond))

	renderer := render.NewRenderer(render.Config{
		TileSize:      renderCfg.TileSize,
		HeaderHeight:  renderCfg.HeaderHeight,
		ShowCollision: renderCfg.ShowCollision,
	})
	if opts.pngPath != "" && last == nil {
		// The battle ended before its first tick; show the untouched base.
		if last, err = game.NewGame(m); err != nil {
			return "", err
		}
		log.Println("💡 No tick was simulated, rendering the initial base")
	}
	if opts.pngPath != "" {
		if err := writePNG(opts.pngPath, renderer, render.SceneOf(last)); err != nil {
			return "", err
		}
		log.Printf("🖼️ Final state written to %s", opts.pngPath)
	}
	if recorder != nil && last != nil {
		recorder.Finish(last)
		if err := writeFrames(opts.framesDir, renderer, recorder.Frames); err != nil {
			return "", err
		}
	}

	if opts.jsonOut {
		b, err := json.MarshalIndent(res, "", "  ")
		return string(b), err
	}
	return formatResult(res), nil
}

func runBatch(ctx context.Context, m game.Map, plan game.AttackPlan, opts options) (string, error) {
	jobs := batch.Repeat(batch.Job{Map: m, Plan: plan, DeltaTime: opts.dt}, opts.runs)

	start := time.Now()
	results, err := batch.Run(ctx, jobs, batch.Options{Workers: opts.workers})
	if err != nil {
		return "", err
	}
	if err := batch.FirstError(results); err != nil {
		return "", err
	}
	log.Printf("⚔️ %d battles in %v", len(results), time.Since(start).Round(time.Millisecond))

	s := batch.Summarize(results)
	if opts.jsonOut {
		b, err := json.MarshalIndent(s, "", "  ")
		return string(b), err
	}
	return formatSummary(s), nil
}

func formatResult(res game.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d stars, %d%% in %.1f s (%d ticks)\n", res.Stars, res.Percent, res.TimeElapsed, res.Ticks)
	fmt.Fprintf(&b, "units: %d deployed, %d lost\n", res.UnitsDeployed, res.UnitsLost)
	fmt.Fprintf(&b, "destroyed: %s", strings.Join(res.Destroyed, ", "))
	return b.String()
}

func formatSummary(s batch.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d runs: %.2f stars, %.1f%% destruction, %.1f s average\n", s.Runs, s.MeanStars, s.MeanPercent, s.MeanTime)
	fmt.Fprintf(&b, "3 stars: %.0f%%\n", s.ThreeStarRate*100)
	fmt.Fprintf(&b, "stars 0/1/2/3: %d/%d/%d/%d", s.StarCounts[0], s.StarCounts[1], s.StarCounts[2], s.StarCounts[3])
	return b.String()
}

func writePNG(path string, r *render.Renderer, s render.Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WritePNG(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeFrames(dir string, r *render.Renderer, frames []game.Frame) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	pool := render.NewPool(r, 0)
	pool.Start()
	defer pool.Stop()

	images := pool.RenderAll(render.ScenesFromFrames(frames))
	for i, img := range images {
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame_%05d.png", i)))
		if err != nil {
			return err
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	log.Printf("🎞️ %d frames written to %s (%d workers)", len(images), dir, pool.NumWorkers())
	return nil
}
