package game

import (
	"sync/atomic"
	"time"
)

// BuildingSnapshot is an immutable copy of building state for rendering.
type BuildingSnapshot struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Level     int     `json:"level"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	Destroyed bool    `json:"destroyed"`
	Hidden    bool    `json:"hidden,omitempty"`
	Phase     string  `json:"phase,omitempty"`
	Target    int     `json:"target"`
	Color     string  `json:"color"`
}

// UnitSnapshot is an immutable copy of unit state for rendering.
type UnitSnapshot struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Level     int     `json:"level"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	State     string  `json:"state"`
	Target    int     `json:"target"`
}

// GameSnapshot is a complete immutable game state. Slices are never shared
// with the game.
type GameSnapshot struct {
	Sequence    uint64    `json:"sequence"` // Monotonic sequence for ordering
	Timestamp   time.Time `json:"timestamp"`
	TickNumber  uint64    `json:"tickNumber"`
	TimeElapsed float64   `json:"timeElapsed"`
	TotalSize   int       `json:"totalSize"`
	Progress    string    `json:"progress"`
	Stars       int       `json:"stars"`
	Percent     int       `json:"percent"`
	Done        bool      `json:"done"`

	Buildings []BuildingSnapshot `json:"buildings"`
	Units     []UnitSnapshot     `json:"units"`
}

// Snapshot copies the current state of g.
func (g *Game) Snapshot() GameSnapshot {
	s := GameSnapshot{
		Timestamp:   time.Now(),
		TickNumber:  g.tickNum,
		TimeElapsed: g.timeElapsed,
		TotalSize:   g.TotalSize(),
		Progress:    g.ProgressInfo(),
		Stars:       g.Stars(),
		Percent:     g.DestructionPercentRounded(),
		Done:        g.Done(),
		Buildings:   make([]BuildingSnapshot, 0, len(g.buildings)),
		Units:       make([]UnitSnapshot, 0, len(g.units)),
	}

	for _, b := range g.buildings {
		bs := BuildingSnapshot{
			ID:        b.ID,
			Name:      b.Type.Name,
			Level:     b.Level,
			X:         b.X,
			Y:         b.Y,
			Width:     b.Type.Width,
			Height:    b.Type.Height,
			Health:    b.Health,
			MaxHealth: b.MaxHealth,
			Destroyed: b.destroyed,
			Hidden:    b.hidden,
			Target:    b.Target(),
			Color:     BuildingColor(b),
		}
		if b.IsActive() {
			bs.Phase = b.Phase().String()
		}
		s.Buildings = append(s.Buildings, bs)
	}

	for _, u := range g.units {
		s.Units = append(s.Units, UnitSnapshot{
			ID:        u.ID,
			Name:      u.Type.Name,
			Level:     u.Level,
			X:         u.Pos.X,
			Y:         u.Pos.Y,
			Health:    u.Health,
			MaxHealth: u.MaxHealth,
			State:     u.State().String(),
			Target:    u.target,
		})
	}
	return s
}

// SnapshotBuffer publishes the latest snapshot to concurrent readers. One
// producer calls Publish; any number of readers call Latest.
type SnapshotBuffer struct {
	latest   atomic.Pointer[GameSnapshot]
	sequence atomic.Uint64
}

// Publish stores s as the latest snapshot and stamps its sequence.
func (b *SnapshotBuffer) Publish(s GameSnapshot) {
	s.Sequence = b.sequence.Add(1)
	b.latest.Store(&s)
}

// Latest returns the newest snapshot, or nil before the first Publish.
func (b *SnapshotBuffer) Latest() *GameSnapshot {
	return b.latest.Load()
}

// Frame is one recorded picture of a battle. Grid and Collision are nil when
// unchanged since the previous frame.
type Frame struct {
	TimeElapsed   float64 `json:"timeElapsed"`
	ProgressInfo  string  `json:"progressInfo"`
	TotalBaseSize int     `json:"totalBaseSize"`
	Grid          []Shape `json:"grid"`
	Collision     []Shape `json:"collision"`
	Entities      []Shape `json:"entities"`
}

// FrameRecorder keeps one frame every TicksPerDraw ticks.
type FrameRecorder struct {
	TicksPerDraw int
	Frames       []Frame

	sinceLast int
	started   bool
}

// NewFrameRecorder records one frame every ticksPerDraw ticks.
func NewFrameRecorder(ticksPerDraw int) *FrameRecorder {
	return &FrameRecorder{TicksPerDraw: max(1, ticksPerDraw)}
}

// Draw is called once per tick.
func (r *FrameRecorder) Draw(g *Game) {
	if !r.started || r.sinceLast == r.TicksPerDraw {
		r.started = true
		r.sinceLast = 0
		r.record(g)
	}
	r.sinceLast++
}

// Finish records the final state unless it was just recorded.
func (r *FrameRecorder) Finish(g *Game) {
	if len(r.Frames) == 0 || r.Frames[len(r.Frames)-1].TimeElapsed != g.TimeElapsed() {
		r.record(g)
	}
}

func (r *FrameRecorder) record(g *Game) {
	f := Frame{
		TimeElapsed:   g.TimeElapsed(),
		ProgressInfo:  g.ProgressInfo(),
		TotalBaseSize: g.TotalSize(),
		Entities:      g.DrawEntities(),
	}
	if len(r.Frames) == 0 {
		f.Grid = g.DrawGrid()
	}
	if g.NeedRedrawCollision() {
		f.Collision = g.DrawCollision()
	}
	r.Frames = append(r.Frames, f)
}
