// Package board holds the intersection grid and the group/liberty analysis run on it.
package board

import "goban-local/types"

// Grid is a square board of intersections stored row-major.
type Grid struct {
	size  int
	cells []types.Stone
}

// neighbours lists the orthogonal offsets in the order groups are walked:
// left, right, up, down.
var neighbours = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// NewGrid creates an empty size x size grid.
func NewGrid(size int) *Grid {
	return &Grid{
		size:  size,
		cells: make([]types.Stone, size*size),
	}
}

// Size returns the side length of the grid.
func (g *Grid) Size() int {
	return g.size
}

// In reports whether (x, y) lies on the grid.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

// At returns the stone at (x, y), or Empty when (x, y) is off the grid.
func (g *Grid) At(x, y int) types.Stone {
	if !g.In(x, y) {
		return types.Empty
	}
	return g.cells[y*g.size+x]
}

// Set writes a stone at (x, y). Writes off the grid are ignored.
func (g *Grid) Set(x, y int, s types.Stone) {
	if !g.In(x, y) {
		return
	}
	g.cells[y*g.size+x] = s
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]types.Stone, len(g.cells))
	copy(cells, g.cells)
	return &Grid{size: g.size, cells: cells}
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid) Equal(o *Grid) bool {
	if g.size != o.size {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows copies the grid into a [y][x] slice for renderers.
func (g *Grid) Rows() [][]types.Stone {
	rows := make([][]types.Stone, g.size)
	for y := range rows {
		rows[y] = make([]types.Stone, g.size)
		copy(rows[y], g.cells[y*g.size:(y+1)*g.size])
	}
	return rows
}

// Count returns the number of intersections holding s.
func (g *Grid) Count(s types.Stone) int {
	n := 0
	for _, c := range g.cells {
		if c == s {
			n++
		}
	}
	return n
}
