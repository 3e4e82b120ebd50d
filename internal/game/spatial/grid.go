// Package spatial provides the square grids and the grid search used by the
// simulation.
//
// All structures use preallocated slices with integer indices (not pointers)
// to minimize GC pressure and keep copies cheap.
package spatial

import "fmt"

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// Up, Right, Down, Left. Every neighbour enumeration in this package uses
// this order.
var neighbourOffsets = [4]Cell{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Grid is a fixed-size square grid of values.
//
// Memory layout: cells are stored in row-major order (cells[y*size+x]).
type Grid[T any] struct {
	size  int
	cells []T
}

// NewGrid creates a size x size grid with every cell set to fill.
func NewGrid[T any](size int, fill T) *Grid[T] {
	if size < 0 {
		panic(fmt.Sprintf("spatial: negative grid size %d", size))
	}
	g := &Grid[T]{size: size, cells: make([]T, size*size)}
	g.Fill(fill)
	return g
}

// Size returns the side length.
func (g *Grid[T]) Size() int {
	return g.size
}

// InBounds reports whether (x, y) is a valid cell.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

// At returns the value at (x, y). Out of bounds access panics.
func (g *Grid[T]) At(x, y int) T {
	return g.cells[g.index(x, y)]
}

// Set stores v at (x, y). Out of bounds access panics.
func (g *Grid[T]) Set(x, y int, v T) {
	g.cells[g.index(x, y)] = v
}

// Fill resets every cell to v without reallocating.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Neighbours4 appends the in-bounds 4-neighbours of c to dst in the order
// up, right, down, left.
func (g *Grid[T]) Neighbours4(dst []Cell, c Cell) []Cell {
	for _, o := range neighbourOffsets {
		n := Cell{c.X + o.X, c.Y + o.Y}
		if g.InBounds(n.X, n.Y) {
			dst = append(dst, n)
		}
	}
	return dst
}

func (g *Grid[T]) index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("spatial: cell (%d, %d) outside %dx%d grid", x, y, g.size, g.size))
	}
	return y*g.size + x
}
