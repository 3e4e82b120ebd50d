package mapfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"cocsim/internal/game"
)

func sampleMap() game.Map {
	return game.Map{
		BaseSize:   20,
		BorderSize: 2,
		Buildings: []game.BuildingModel{
			{Name: "TownHall", X: 10, Y: 10, Level: 3},
			{Name: "Cannon", X: 4, Y: 4, Level: 1},
			{Name: "AirSweeper", X: 16, Y: 4, Options: map[string]string{"rotation": "Down"}},
		},
	}
}

func TestMapRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "base"+ext)
			want := sampleMap()
			if err := SaveMap(path, want); err != nil {
				t.Fatal(err)
			}
			got, err := LoadMap(path)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestPlanRoundTrip(t *testing.T) {
	want := game.AttackPlan{Units: []game.PlannedUnit{
		{Name: "Barbarian", Level: 2, Count: 5, X: 0.5, Y: 0.5},
		{Name: "Dragon", Level: 1, X: 23.5, Y: 12, DropTime: 3.5},
	}}
	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plan"+ext)
			if err := SavePlan(path, want); err != nil {
				t.Fatal(err)
			}
			got, err := LoadPlan(path)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestLoadMapYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.yaml")
	data := `baseSize: 10
borderSize: 1
buildings:
  - name: Cannon
    x: 2
    y: 2
    level: 0
  - name: XBow
    x: 6
    y: 6
    level: 2
    options:
      target: AirAndGround
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadMap(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Buildings) != 2 || m.Buildings[1].Options["target"] != "AirAndGround" {
		t.Errorf("parsed %+v", m)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"unknown extension", write("base.txt", "{}"), ErrUnknownFormat},
		{"invalid map", write("empty.json", `{"baseSize": 0, "borderSize": 0, "buildings": []}`), game.ErrInvalidMap},
		{"overlap", write("overlap.json",
			`{"baseSize": 10, "borderSize": 0, "buildings": [{"name": "Cannon", "x": 1, "y": 1, "level": 0}, {"name": "Cannon", "x": 2, "y": 2, "level": 0}]}`),
			game.ErrOverlap},
		{"missing file", filepath.Join(dir, "missing.json"), os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMap(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadMap = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := LoadMap(write("typo.json", `{"baseSize": 10, "borderSise": 0}`)); err == nil {
		t.Error("unknown field should be rejected")
	}
}
