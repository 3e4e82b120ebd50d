package game

import (
	"fmt"
)

// BuildingModel is a building as stored in a map file. X and Y are the
// top-left tile in map coordinates, border included.
type BuildingModel struct {
	Name    string            `json:"name" yaml:"name"`
	X       int               `json:"x" yaml:"x"`
	Y       int               `json:"y" yaml:"y"`
	Level   int               `json:"level" yaml:"level"`
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Map is a base layout.
type Map struct {
	BaseSize   int             `json:"baseSize" yaml:"baseSize"`
	BorderSize int             `json:"borderSize" yaml:"borderSize"`
	Buildings  []BuildingModel `json:"buildings" yaml:"buildings"`
}

// TotalSize returns the side of the map in tiles, border included.
func (m *Map) TotalSize() int {
	return m.BaseSize + 2*m.BorderSize
}

// Validate checks sizes, building types, levels, options, placement and
// overlap. Errors wrap ErrInvalidMap or a more specific sentinel.
func (m *Map) Validate() error {
	if m.BaseSize < 1 || m.BaseSize > MaxBaseSize {
		return fmt.Errorf("base size %d not in [1, %d]: %w", m.BaseSize, MaxBaseSize, ErrInvalidMap)
	}
	if m.BorderSize < 0 || m.BorderSize > MaxBorderSize {
		return fmt.Errorf("border size %d not in [0, %d]: %w", m.BorderSize, MaxBorderSize, ErrInvalidMap)
	}
	if len(m.Buildings) > MaxBuildings {
		return fmt.Errorf("%d buildings, at most %d allowed: %w", len(m.Buildings), MaxBuildings, ErrInvalidMap)
	}

	total := m.TotalSize()
	occupied := make([]int, total*total)
	for i := range occupied {
		occupied[i] = NoBuilding
	}

	lo, hi := m.BorderSize, m.BorderSize+m.BaseSize
	townHalls := 0

	for i, bm := range m.Buildings {
		t, err := LookupBuilding(bm.Name)
		if err != nil {
			return fmt.Errorf("building %d: %w", i, err)
		}
		if bm.Level < 0 || bm.Level >= t.Levels() {
			return fmt.Errorf("building %d (%s): level %d not in [0, %d]: %w", i, t.Name, bm.Level, t.Levels()-1, ErrInvalidLevel)
		}
		if _, err := t.ResolveOptions(bm.Options); err != nil {
			return fmt.Errorf("building %d: %w", i, err)
		}
		if t.Kind == KindTownHall {
			townHalls++
			if townHalls > 1 {
				return fmt.Errorf("building %d: more than one town hall: %w", i, ErrInvalidMap)
			}
		}

		if bm.X < lo || bm.Y < lo || bm.X+t.Width > hi || bm.Y+t.Height > hi {
			return fmt.Errorf("building %d (%s) at (%d, %d) outside the base: %w", i, t.Name, bm.X, bm.Y, ErrOutOfBounds)
		}
		for x := bm.X; x < bm.X+t.Width; x++ {
			for y := bm.Y; y < bm.Y+t.Height; y++ {
				idx := y*total + x
				if other := occupied[idx]; other != NoBuilding {
					return fmt.Errorf("building %d (%s) overlaps building %d at (%d, %d): %w", i, t.Name, other, x, y, ErrOverlap)
				}
				occupied[idx] = i
			}
		}
	}
	return nil
}
