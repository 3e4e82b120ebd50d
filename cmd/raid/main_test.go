package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cocsim/internal/batch"
	"cocsim/internal/config"
)

const testMap = `baseSize: 10
borderSize: 1
buildings:
  - name: TownHall
    x: 4
    y: 4
`

const testPlan = `units:
  - name: Dragon
    level: 10
    x: 0.5
    y: 0.5
`

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "base.yaml")
	planPath := filepath.Join(dir, "plan.yaml")
	if err := os.WriteFile(mapPath, []byte(testMap), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(planPath, []byte(testPlan), 0o644); err != nil {
		t.Fatal(err)
	}
	return mapPath, planPath
}

func TestRunSingleWritesArtifacts(t *testing.T) {
	mapPath, planPath := writeInputs(t)
	out := t.TempDir()

	opts := options{
		mapPath:    mapPath,
		planPath:   planPath,
		runs:       1,
		dt:         0.05,
		eventsPath: filepath.Join(out, "events.jsonl"),
		pngPath:    filepath.Join(out, "final.png"),
	}
	if err := run(context.Background(), opts, config.DefaultRender()); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{opts.eventsPath, opts.pngPath} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("%s: %v", filepath.Base(p), err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", filepath.Base(p))
		}
	}
}

func TestRunSingleEmptyPlanStillRenders(t *testing.T) {
	mapPath, _ := writeInputs(t)
	dir := t.TempDir()
	planPath := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(planPath, []byte("units: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := options{mapPath: mapPath, planPath: planPath, runs: 1, dt: 0.05, pngPath: filepath.Join(dir, "base.png")}
	if err := run(context.Background(), opts, config.DefaultRender()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(opts.pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("base.png is empty")
	}
}

func TestRunRejectsArtifactsInBatch(t *testing.T) {
	mapPath, planPath := writeInputs(t)
	opts := options{mapPath: mapPath, planPath: planPath, runs: 3, dt: 0.05, pngPath: "x.png"}
	if err := run(context.Background(), opts, config.DefaultRender()); err == nil {
		t.Fatal("expected an error for -png with -runs 3")
	}
}

func TestRunBatch(t *testing.T) {
	mapPath, planPath := writeInputs(t)
	opts := options{mapPath: mapPath, planPath: planPath, runs: 4, workers: 2, dt: 0.05}
	if err := run(context.Background(), opts, config.DefaultRender()); err != nil {
		t.Fatal(err)
	}
}

func TestFormatSummary(t *testing.T) {
	s := batch.Summary{Runs: 4, MeanStars: 2.5, MeanPercent: 87.5, MeanTime: 42, ThreeStarRate: 0.5, StarCounts: [4]int{0, 1, 1, 2}}
	got := formatSummary(s)
	for _, want := range []string{"4 runs", "2.50 stars", "87.5%", "3 stars: 50%", "0/1/1/2"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q lacks %q", got, want)
		}
	}
}
