package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cocsim/internal/config"
	"cocsim/internal/game"
)

func TestDemoShowcaseIsValid(t *testing.T) {
	m := DemoMap()
	if err := m.Validate(); err != nil {
		t.Fatalf("demo map: %v", err)
	}
	s, err := NewShowcase(m, DemoPlan(), config.DefaultShowcase())
	if err != nil {
		t.Fatalf("demo plan: %v", err)
	}
	if len(s.Grid()) != m.TotalSize()*m.TotalSize() {
		t.Errorf("grid has %d cells", len(s.Grid()))
	}
	if s.Latest() != nil {
		t.Error("frame published before Run")
	}
}

func TestNewShowcaseRejectsBadPlan(t *testing.T) {
	plan := DemoPlan()
	plan.Units[0].X, plan.Units[0].Y = 12, 12
	_, err := NewShowcase(DemoMap(), plan, config.DefaultShowcase())
	if !errors.Is(err, game.ErrInvalidPlan) {
		t.Errorf("err = %v", err)
	}
}

func TestShowcasePublishesFrames(t *testing.T) {
	cfg := config.DefaultShowcase()
	cfg.TickRate = 200
	s, err := NewShowcase(DemoMap(), DemoPlan(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	var frame *ShowcaseFrame
	for time.Now().Before(deadline) {
		if f := s.Latest(); f != nil && f.Snapshot.TickNumber >= 5 {
			frame = f
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if frame == nil {
		t.Fatal("no frame after 5 ticks")
	}
	if frame.Run != 1 || frame.Snapshot.Sequence < 6 || len(frame.Snapshot.Buildings) != len(DemoMap().Buildings) {
		t.Errorf("frame run %d seq %d buildings %d", frame.Run, frame.Snapshot.Sequence, len(frame.Snapshot.Buildings))
	}
	if len(frame.Entities) == 0 {
		t.Error("no entity shapes")
	}
}

func TestLoadShowcase(t *testing.T) {
	cfg := config.DefaultShowcase()
	cfg.Enabled = false
	if s, err := LoadShowcase(cfg, nil, nil); s != nil || err != nil {
		t.Errorf("disabled: %v, %v", s, err)
	}

	m := game.Map{BaseSize: 10, BorderSize: 1, Buildings: []game.BuildingModel{{Name: "Cannon", X: 4, Y: 4}}}
	plan := game.AttackPlan{Units: []game.PlannedUnit{{Name: "Barbarian", X: 0.5, Y: 0.5}}}
	s, err := LoadShowcase(config.DefaultShowcase(), &m, &plan)
	if err != nil {
		t.Fatal(err)
	}
	if s.m.BaseSize != 10 || len(s.plan.Units) != 1 {
		t.Errorf("showcase ignored its inputs: %+v", s.m)
	}
}

func TestDebugHandler(t *testing.T) {
	h := DebugHandler(ObservabilityConfig{BasicAuthUser: "ops", BasicAuthPass: "pw"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no auth: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.SetBasicAuth("ops", "pw")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health: %d %q", rec.Code, rec.Body.String())
	}
}
