package game

import (
	"testing"

	"cocsim/internal/game/geom"
)

func targetIDs(bs []*Building) []int {
	ids := make([]int, len(bs))
	for i, b := range bs {
		ids[i] = b.ID
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTargets(t *testing.T) {
	m := Map{BaseSize: 20, Buildings: []BuildingModel{
		{Name: "GoldMine", X: 2, Y: 2},
		{Name: "GoldMine", X: 12, Y: 2},
		{Name: "Cannon", X: 12, Y: 12},
		{Name: "Wall", X: 18, Y: 3},
	}}

	tests := []struct {
		name string
		unit string
		pos  geom.Vec2
		want []int
	}{
		{"nearest first", "Barbarian", geom.V(16.5, 3.5), []int{1, 2, 0}},
		{"other side", "Barbarian", geom.V(0.5, 0.5), []int{0, 1, 2}},
		{"air without preference", "Dragon", geom.V(0.5, 0.5), []int{0, 1, 2}},
		{"balloon prefers defenses", "Balloon", geom.V(0.5, 0.5), []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGame(t, m)
			u, _ := g.AddUnit(mustUnit(t, tt.unit), 0, tt.pos)
			got := targetIDs(g.Pathfinder().Targets(u))
			if !equalInts(got, tt.want) {
				t.Errorf("Targets = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTargetsFallBackToWalls(t *testing.T) {
	g := mustGame(t, Map{BaseSize: 10, Buildings: []BuildingModel{
		{Name: "Wall", X: 2, Y: 2},
		{Name: "GoldMine", X: 5, Y: 5},
	}})
	u, _ := g.AddUnit(mustUnit(t, "Barbarian"), 0, geom.V(0.5, 0.5))

	if got := targetIDs(g.Pathfinder().Targets(u)); !equalInts(got, []int{1}) {
		t.Errorf("Targets = %v, want [1]", got)
	}

	mine := g.Buildings()[1]
	g.DamageBuilding(mine, mine.Health)
	if got := targetIDs(g.Pathfinder().Targets(u)); !equalInts(got, []int{0}) {
		t.Errorf("Targets after mine destroyed = %v, want [0]", got)
	}

	wall := g.Buildings()[0]
	g.DamageBuilding(wall, wall.Health)
	if _, _, ok := g.Pathfinder().FindPath(u); ok {
		t.Error("FindPath should fail on a cleared base")
	}
}

func TestAirPath(t *testing.T) {
	g := mustGame(t, Map{BaseSize: 20, Buildings: []BuildingModel{
		{Name: "Wall", X: 5, Y: 5},
		{Name: "Wall", X: 5, Y: 6},
		{Name: "Wall", X: 5, Y: 7},
		{Name: "GoldMine", X: 8, Y: 5},
	}})
	u, _ := g.AddUnit(mustUnit(t, "Dragon"), 0, geom.V(1, 6.5))

	target, wps, ok := g.Pathfinder().FindPath(u)
	if !ok || target != 3 {
		t.Fatalf("FindPath = %d, %v, %v", target, wps, ok)
	}
	if len(wps) != 1 {
		t.Fatalf("air path should be a single waypoint, got %v", wps)
	}
	mine := g.Buildings()[3]
	want := mine.Collider.AttackArea(1.0).NearestPoint(u.Pos)
	if wps[0] != want {
		t.Errorf("waypoint = %v, want %v", wps[0], want)
	}
}

func TestGroundPathStraight(t *testing.T) {
	g := mustGame(t, Map{BaseSize: 20, Buildings: []BuildingModel{{Name: "GoldMine", X: 10, Y: 5}}})
	u, _ := g.AddUnit(mustUnit(t, "Barbarian"), 0, geom.V(2.55, 6.55))

	target, wps, ok := g.Pathfinder().FindPath(u)
	if !ok || target != 0 {
		t.Fatalf("FindPath = %d, %v", target, ok)
	}
	if len(wps) != 1 {
		t.Fatalf("open ground should simplify to one waypoint, got %v", wps)
	}
	want := g.Buildings()[0].Collider.AttackArea(0.4).NearestPoint(u.Pos)
	if wps[0] != want {
		t.Errorf("final waypoint = %v, want exact attack point %v", wps[0], want)
	}
}

// TestGroundPathThroughWalls encloses a gold mine with walls; the barbarian
// must retarget to the wall blocking its route.
func TestGroundPathThroughWalls(t *testing.T) {
	g := mustGame(t, Map{BaseSize: 15, Buildings: walledMine()})
	u, _ := g.AddUnit(mustUnit(t, "Barbarian"), 0, geom.V(1.5, 7.5))

	target, wps, ok := g.Pathfinder().FindPath(u)
	if !ok {
		t.Fatal("walls are passable at a cost")
	}
	if !g.Buildings()[target].IsWall() {
		t.Fatalf("target = %s, want a wall", g.Buildings()[target])
	}
	if len(wps) == 0 {
		t.Fatal("no waypoints")
	}
	last := wps[0]
	if g.CollisionAt(SubtileOf(last.X), SubtileOf(last.Y)) != NoBuilding {
		t.Errorf("truncated path ends inside a building at %v", last)
	}
}

// walledMine returns a gold mine at (6, 6) inside a ring of walls.
func walledMine() []BuildingModel {
	bs := []BuildingModel{{Name: "GoldMine", X: 6, Y: 6}}
	for i := 5; i <= 9; i++ {
		bs = append(bs,
			BuildingModel{Name: "Wall", X: i, Y: 5},
			BuildingModel{Name: "Wall", X: i, Y: 9},
		)
	}
	for i := 6; i <= 8; i++ {
		bs = append(bs,
			BuildingModel{Name: "Wall", X: 5, Y: i},
			BuildingModel{Name: "Wall", X: 9, Y: i},
		)
	}
	return bs
}

// TestGroundPathPrefersCheaperCandidate puts the nearest mine behind walls and
// a second one in the open: the open mine is cheaper to reach and wins.
func TestGroundPathPrefersCheaperCandidate(t *testing.T) {
	ring := walledMine()
	bs := []BuildingModel{ring[0], {Name: "GoldMine", X: 5, Y: 12}}
	bs = append(bs, ring[1:]...)
	g := mustGame(t, Map{BaseSize: 20, Buildings: bs})
	u, _ := g.AddUnit(mustUnit(t, "Barbarian"), 0, geom.V(2.5, 7.5))

	if got := targetIDs(g.Pathfinder().Targets(u)); !equalInts(got, []int{0, 1}) {
		t.Fatalf("Targets = %v, want [0 1]", got)
	}

	target, wps, ok := g.Pathfinder().FindPath(u)
	if !ok {
		t.Fatal("no path")
	}
	if target != 1 {
		t.Fatalf("target = %s, want the open mine", g.Buildings()[target])
	}
	for _, w := range wps {
		if owner := g.CollisionAt(SubtileOf(w.X), SubtileOf(w.Y)); owner != NoBuilding && g.Buildings()[owner].IsWall() {
			t.Errorf("waypoint %v lies on wall %d", w, owner)
		}
	}
	want := g.Buildings()[1].Collider.AttackArea(0.4).NearestPoint(u.Pos)
	if wps[0] != want {
		t.Errorf("final waypoint = %v, want attack point %v", wps[0], want)
	}
}

func TestPathfinderDeterministic(t *testing.T) {
	m := Map{BaseSize: 20, Buildings: []BuildingModel{
		{Name: "Cannon", X: 8, Y: 8},
		{Name: "Wall", X: 6, Y: 9},
		{Name: "Wall", X: 6, Y: 10},
		{Name: "GoldMine", X: 13, Y: 8},
	}}

	var first []geom.Vec2
	for run := 0; run < 3; run++ {
		g := mustGame(t, m)
		u, _ := g.AddUnit(mustUnit(t, "Barbarian"), 0, geom.V(1.5, 10.5))
		_, wps, ok := g.Pathfinder().FindPath(u)
		if !ok {
			t.Fatal("no path")
		}
		if run == 0 {
			first = wps
			continue
		}
		if len(wps) != len(first) {
			t.Fatalf("run %d: %d waypoints, want %d", run, len(wps), len(first))
		}
		for i := range wps {
			if wps[i] != first[i] {
				t.Fatalf("run %d differs at %d: %v vs %v", run, i, wps[i], first[i])
			}
		}
	}
}

func TestUnitMovesWithoutOvershoot(t *testing.T) {
	g := mustGame(t, Map{BaseSize: 20, Buildings: []BuildingModel{{Name: "GoldMine", X: 10, Y: 5}}})
	u, _ := g.AddUnit(mustUnit(t, "Barbarian"), 0, geom.V(2.55, 6.55))
	attack := g.Buildings()[0].Collider.AttackArea(0.4).NearestPoint(u.Pos)

	g.Tick(10)
	if u.Pos != attack {
		t.Errorf("after a long tick Pos = %v, want %v", u.Pos, attack)
	}
	if u.State() == UnitSeekingPath {
		t.Error("unit should hold its target")
	}
}
