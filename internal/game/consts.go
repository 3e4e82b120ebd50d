package game

import (
	"fmt"
	"math"
)

// Simulation constants
const (
	MaxAttackDuration        = 180.0 // seconds
	CollisionTilesPerMapTile = 10    // collision subtiles per map tile side
	DistanceToWaypointEps    = 0.1   // tiles
	DefaultColliderScale     = 0.65  // collider size relative to footprint
	DefaultDeltaTime         = 1.0 / 60.0

	MaxBaseSize   = 44
	MaxBorderSize = 4
	MaxBuildings  = 1000
)

// NoBuilding and NoUnit mark an empty grid cell or an unset target.
const (
	NoBuilding = -1
	NoUnit     = -1
)

// TileOf converts a tile-unit coordinate to the tile containing it.
func TileOf(v float64) int {
	return int(math.Floor(v))
}

// SubtileOf converts a tile-unit coordinate to the collision subtile
// containing it.
func SubtileOf(v float64) int {
	return int(math.Floor(v * CollisionTilesPerMapTile))
}

// SubtileOrigin returns the tile-unit coordinate of the top-left corner of
// subtile i.
func SubtileOrigin(i int) float64 {
	return float64(i) / CollisionTilesPerMapTile
}

// SubtileCenter returns the tile-unit coordinate of the middle of subtile i.
func SubtileCenter(i int) float64 {
	return (float64(i) + 0.5) / CollisionTilesPerMapTile
}

// Domain is the movement domain of a unit, or the set of domains a building
// can target.
type Domain uint8

const (
	DomainGround Domain = 1 << iota
	DomainAir

	DomainBoth = DomainGround | DomainAir
)

// Has reports whether d and o share a domain.
func (d Domain) Has(o Domain) bool {
	return d&o != 0
}

func (d Domain) String() string {
	switch d {
	case DomainGround:
		return "ground"
	case DomainAir:
		return "air"
	case DomainBoth:
		return "both"
	default:
		return fmt.Sprintf("domain(%d)", uint8(d))
	}
}
