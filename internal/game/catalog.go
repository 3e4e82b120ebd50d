package game

import (
	"fmt"
	"sort"
)

// BuildingKind tags the building variants.
type BuildingKind uint8

const (
	KindPassive BuildingKind = iota
	KindActive
	KindWall
	KindTownHall
	KindTrap
)

func (k BuildingKind) String() string {
	switch k {
	case KindPassive:
		return "passive"
	case KindActive:
		return "active"
	case KindWall:
		return "wall"
	case KindTownHall:
		return "townhall"
	case KindTrap:
		return "trap"
	default:
		return "unknown"
	}
}

// OptionSpec is a named, per-instance building setting and its allowed
// values. The first value is the default.
type OptionSpec struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// BuildingType is the static catalog entry of a building.
type BuildingType struct {
	Name    string
	Width   int
	Height  int
	Kind    BuildingKind
	Health  []float64 // per level, 0-based
	Options []OptionSpec

	// Trigger, when set, keeps the building hidden until a unit comes close.
	Trigger *Trigger

	// newBehavior builds the attack behaviour of active buildings and traps.
	newBehavior func(level int, opts map[string]string) ActiveBehavior
}

// Levels returns the number of levels of the type.
func (t *BuildingType) Levels() int {
	return len(t.Health)
}

// ResolveOptions checks opts against the option specs and fills defaults.
func (t *BuildingType) ResolveOptions(opts map[string]string) (map[string]string, error) {
	for name := range opts {
		if t.option(name) == nil {
			return nil, fmt.Errorf("%s: unknown option %q: %w", t.Name, name, ErrInvalidOption)
		}
	}

	resolved := make(map[string]string, len(t.Options))
	for _, spec := range t.Options {
		v, ok := opts[spec.Name]
		if !ok {
			resolved[spec.Name] = spec.Values[0]
			continue
		}
		if !contains(spec.Values, v) {
			return nil, fmt.Errorf("%s: option %s=%q not in %v: %w", t.Name, spec.Name, v, spec.Values, ErrInvalidOption)
		}
		resolved[spec.Name] = v
	}
	return resolved, nil
}

func (t *BuildingType) option(name string) *OptionSpec {
	for i := range t.Options {
		if t.Options[i].Name == name {
			return &t.Options[i]
		}
	}
	return nil
}

// BuildingTypeInfo is the JSON view of a building type.
type BuildingTypeInfo struct {
	Name    string       `json:"name"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Levels  int          `json:"levels"`
	Kind    string       `json:"kind"`
	Options []OptionSpec `json:"options"`
}

// Info returns the JSON view of t.
func (t *BuildingType) Info() BuildingTypeInfo {
	opts := t.Options
	if opts == nil {
		opts = []OptionSpec{}
	}
	return BuildingTypeInfo{
		Name:    t.Name,
		Width:   t.Width,
		Height:  t.Height,
		Levels:  t.Levels(),
		Kind:    t.Kind.String(),
		Options: opts,
	}
}

// UnitType is the static catalog entry of a unit.
type UnitType struct {
	Name           string
	Domain         Domain
	HousingSpace   int
	Speed          float64 // tiles per second
	AttackRange    float64 // tiles
	AttackCooldown float64 // seconds
	Health         []float64
	Damage         []float64

	Attack AttackBehavior
	// Death is optional damage dealt when the unit dies.
	Death *DeathSplash
	// Prefers, when set, ranks matching buildings above every other one.
	Prefers func(b *Building) bool
}

// Levels returns the number of levels of the type.
func (t *UnitType) Levels() int {
	return len(t.Health)
}

// UnitTypeInfo is the JSON view of a unit type.
type UnitTypeInfo struct {
	Name           string  `json:"name"`
	Domain         string  `json:"domain"`
	Levels         int     `json:"levels"`
	HousingSpace   int     `json:"housingSpace"`
	Speed          float64 `json:"speed"`
	AttackRange    float64 `json:"attackRange"`
	AttackCooldown float64 `json:"attackCooldown"`
}

// Info returns the JSON view of t.
func (t *UnitType) Info() UnitTypeInfo {
	return UnitTypeInfo{
		Name:           t.Name,
		Domain:         t.Domain.String(),
		Levels:         t.Levels(),
		HousingSpace:   t.HousingSpace,
		Speed:          t.Speed,
		AttackRange:    t.AttackRange,
		AttackCooldown: t.AttackCooldown,
	}
}

var (
	buildingRegistry = map[string]*BuildingType{}
	unitRegistry     = map[string]*UnitType{}
)

func registerBuilding(t *BuildingType) {
	if _, dup := buildingRegistry[t.Name]; dup {
		panic("game: building type registered twice: " + t.Name)
	}
	if len(t.Health) == 0 || t.Width <= 0 || t.Height <= 0 {
		panic("game: incomplete building type: " + t.Name)
	}
	if (t.Kind == KindActive || t.Kind == KindTrap) != (t.newBehavior != nil) {
		panic("game: active building without behaviour: " + t.Name)
	}
	if t.Kind == KindTrap && t.Trigger == nil {
		panic("game: trap without trigger: " + t.Name)
	}
	buildingRegistry[t.Name] = t
}

func registerUnit(t *UnitType) {
	if _, dup := unitRegistry[t.Name]; dup {
		panic("game: unit type registered twice: " + t.Name)
	}
	if len(t.Health) == 0 || len(t.Damage) != len(t.Health) || t.Attack == nil {
		panic("game: incomplete unit type: " + t.Name)
	}
	unitRegistry[t.Name] = t
}

// LookupBuilding returns the building type registered under name.
func LookupBuilding(name string) (*BuildingType, error) {
	t, ok := buildingRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownBuilding)
	}
	return t, nil
}

// LookupUnit returns the unit type registered under name.
func LookupUnit(name string) (*UnitType, error) {
	t, ok := unitRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownUnit)
	}
	return t, nil
}

// BuildingTypes returns every registered building type sorted by name.
func BuildingTypes() []*BuildingType {
	out := make([]*BuildingType, 0, len(buildingRegistry))
	for _, t := range buildingRegistry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UnitTypes returns every registered unit type sorted by name.
func UnitTypes() []*UnitType {
	out := make([]*UnitType, 0, len(unitRegistry))
	for _, t := range unitRegistry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
