package game

import "errors"

// Input errors. Returned wrapped with context; test with errors.Is.
var (
	ErrInvalidMap      = errors.New("invalid map")
	ErrUnknownBuilding = errors.New("unknown building type")
	ErrUnknownUnit     = errors.New("unknown unit type")
	ErrInvalidLevel    = errors.New("level out of range")
	ErrInvalidOption   = errors.New("invalid building option")
	ErrOutOfBounds     = errors.New("position out of bounds")
	ErrOverlap         = errors.New("buildings overlap")
	ErrNotDroppable    = errors.New("position is not droppable")
	ErrInvalidPlan     = errors.New("invalid attack plan")
)
