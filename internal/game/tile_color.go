package game

// Tile palette
const (
	DropZoneTileEvenColor       = "#324628"
	DropZoneTileOddColor        = "#1E1E0A"
	DropZoneBorderTileEvenColor = "#324600"
	DropZoneBorderTileOddColor  = "#1E1E00"

	TileEvenColor       = "#282828"
	TileOddColor        = "#0A0A0A"
	BorderTileEvenColor = "#1E3C00"
	BorderTileOddColor  = "#141E00"

	BuildingTileEvenColor = "#785800"
	BuildingTileOddColor  = "#402F00"

	CollisionTileColor = "#FF0000"
)

// Entity colours
const (
	projectileColor  = "#FF0000"
	targetLineColor  = "#FF0000"
	pushWaveColor    = "#00FFFF"
	healthBarBack    = "#000000"
	healthBarFront   = "#00FF00"
	destroyedColor   = "#3C3C3C"
	activeBuilding   = "#B04040"
	passiveBuilding  = "#C8A050"
	wallBuilding     = "#A0A0A0"
	townHallBuilding = "#E0C030"
)

var unitColors = map[string]string{
	"Barbarian": "#FFFF00",
	"Dragon":    "#FF0000",
	"Balloon":   "#000000",
}

// TileColor picks the colour of a tile. Occupied tiles win over the drop zone,
// which wins over plain ground; border tiles use their own shades.
func TileColor(even, border, dropZone, occupied bool) string {
	switch {
	case occupied:
		return pick(even, BuildingTileEvenColor, BuildingTileOddColor)
	case dropZone && border:
		return pick(even, DropZoneBorderTileEvenColor, DropZoneBorderTileOddColor)
	case dropZone:
		return pick(even, DropZoneTileEvenColor, DropZoneTileOddColor)
	case border:
		return pick(even, BorderTileEvenColor, BorderTileOddColor)
	default:
		return pick(even, TileEvenColor, TileOddColor)
	}
}

func pick(even bool, a, b string) string {
	if even {
		return a
	}
	return b
}
