package game

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func barbarianRaid() AttackPlan {
	return AttackPlan{Units: []PlannedUnit{
		{Name: "Barbarian", Level: 5, Count: 10, X: 0.5, Y: 11.5},
		{Name: "Barbarian", Level: 5, Count: 10, X: 23.5, Y: 11.5, DropTime: 2},
	}}
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, cannonMap(), barbarianRaid(), DefaultDeltaTime)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSimulateRejectsBadInput(t *testing.T) {
	if _, err := Simulate(context.Background(), cannonMap(), AttackPlan{}, 0); !errors.Is(err, ErrInvalidPlan) {
		t.Errorf("zero dt: %v", err)
	}
	if _, err := Simulate(context.Background(), Map{}, AttackPlan{}, 0.1); !errors.Is(err, ErrInvalidMap) {
		t.Errorf("empty map: %v", err)
	}
	plan := AttackPlan{Units: []PlannedUnit{{Name: "Barbarian", X: 10.5, Y: 10.5}}}
	if _, err := Simulate(context.Background(), cannonMap(), plan, 0.1); !errors.Is(err, ErrNotDroppable) {
		t.Errorf("drop on building: %v", err)
	}
}

func TestSimulateEmptyPlan(t *testing.T) {
	res, err := Simulate(context.Background(), cannonMap(), AttackPlan{}, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 0 || res.Stars != 0 || res.UnitsDeployed != 0 {
		t.Errorf("empty plan result %+v", res)
	}
}

func TestSimulateBarbariansBeatCannon(t *testing.T) {
	var frames int
	rec := &EventRecorder{}
	res, err := Simulate(context.Background(), cannonMap(), barbarianRaid(), 0.05,
		WithEventSink(rec),
		WithFrameHook(func(*Game) { frames++ }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stars != 2 || res.Percent != 100 {
		t.Errorf("result %+v, want 2 stars at 100 %%", res)
	}
	if len(res.Destroyed) != 1 || res.Destroyed[0] != "Cannon" {
		t.Errorf("Destroyed = %v", res.Destroyed)
	}
	if res.UnitsDeployed != 20 {
		t.Errorf("UnitsDeployed = %d, want 20", res.UnitsDeployed)
	}
	if uint64(frames) != res.Ticks {
		t.Errorf("frame hook called %d times for %d ticks", frames, res.Ticks)
	}
	if n := len(rec.OfType(EventTypeUnitSpawned)); n != 20 {
		t.Errorf("spawn events = %d", n)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	run := func() Result {
		res, err := Simulate(context.Background(), cannonMap(), barbarianRaid(), 0.05)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a, b := run(), run()
	if a.Ticks != b.Ticks || a.TimeElapsed != b.TimeElapsed || a.UnitsLost != b.UnitsLost {
		t.Errorf("runs differ: %+v vs %+v", a, b)
	}
}

func TestSnapshotBuffer(t *testing.T) {
	g := mustGame(t, cannonMap())
	g.DropUnit("Barbarian", 0, 0.5, 0.5)

	var buf SnapshotBuffer
	if buf.Latest() != nil {
		t.Fatal("empty buffer returned a snapshot")
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if s := buf.Latest(); s != nil && len(s.Buildings) != 1 {
					t.Errorf("torn snapshot with %d buildings", len(s.Buildings))
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		g.Tick(0.1)
		buf.Publish(g.Snapshot())
	}
	wg.Wait()

	s := buf.Latest()
	if s.Sequence != 10 || s.TickNumber != 10 {
		t.Errorf("sequence %d tick %d, want 10 and 10", s.Sequence, s.TickNumber)
	}
	if len(s.Units) != 1 || s.Units[0].Name != "Barbarian" {
		t.Errorf("units %+v", s.Units)
	}
	if s.Buildings[0].Phase == "" || s.Buildings[0].Color == "" {
		t.Errorf("cannon snapshot %+v", s.Buildings[0])
	}
}

func BenchmarkSimulateRaid(b *testing.B) {
	m, plan := cannonMap(), barbarianRaid()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Simulate(context.Background(), m, plan, DefaultDeltaTime); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSnapshot(b *testing.B) {
	g, err := NewGame(cannonMap())
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		g.DropUnit("Barbarian", 0, 0.5, 0.5)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g.Snapshot()
	}
}
