// Package gtp serves a local game over GTP (Go Text Protocol).
package gtp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"goban-local/types"
)

// GTP coordinate system:
// - Columns: A-T (skipping I to avoid confusion with 1)
// - Rows: 1-19 (from bottom of board)
// - Example: D4, Q16, K10
//
// Board coordinate system:
// - X: 0-18 (left to right)
// - Y: 0-18 (top to bottom)
// - Example: (3, 15) for D4 on a 19x19 board

// ErrVertex error occurs when a vertex cannot be parsed or lies off the board
var ErrVertex = errors.New("invalid vertex")

// FormatVertex converts board coordinates (0-indexed, top-left origin) to GTP notation.
// For a 19x19 board: (0, 18) -> A1, (3, 15) -> D4, (15, 3) -> Q16
func FormatVertex(x, y, size int) string {
	// Column: A-T, skipping I
	col := 'A' + rune(x)
	if x >= 8 {
		col++ // Skip 'I'
	}

	// Row: 1-19 from bottom, so invert Y
	row := size - y

	return fmt.Sprintf("%c%d", col, row)
}

// FormatMove renders a move the way GTP and the move list show it.
func FormatMove(m types.Move, size int) string {
	if m.Pass {
		return "pass"
	}
	return FormatVertex(m.Point.X, m.Point.Y, size)
}

// ParseVertex converts GTP notation to board coordinates.
// For a 19x19 board: A1 -> (0, 18), D4 -> (3, 15), Q16 -> (15, 3)
// pass is true for "pass" in any case.
func ParseVertex(vertex string, size int) (p types.Point, pass bool, err error) {
	vertex = strings.TrimSpace(strings.ToUpper(vertex))

	if vertex == "PASS" {
		return types.NoPoint, true, nil
	}

	if len(vertex) < 2 {
		return types.NoPoint, false, fmt.Errorf("%w: %q", ErrVertex, vertex)
	}

	// Parse column (A-T, no I)
	letter := vertex[0]
	if letter < 'A' || letter > 'Z' || letter == 'I' {
		return types.NoPoint, false, fmt.Errorf("%w: bad column in %q", ErrVertex, vertex)
	}
	col := int(letter - 'A')
	if letter > 'I' {
		col-- // Account for skipped 'I'
	}

	row, err := strconv.Atoi(vertex[1:])
	if err != nil {
		return types.NoPoint, false, fmt.Errorf("%w: bad row in %q", ErrVertex, vertex)
	}

	// Convert row to Y coordinate (invert from bottom-up to top-down)
	y := size - row

	if col >= size || y < 0 || y >= size {
		return types.NoPoint, false, fmt.Errorf("%w: %q is off a %dx%d board", ErrVertex, vertex, size, size)
	}

	return types.Point{X: col, Y: y}, false, nil
}

// ParseColor converts a GTP color argument to a stone.
func ParseColor(color string) (types.Stone, error) {
	switch strings.ToLower(strings.TrimSpace(color)) {
	case "b", "black":
		return types.Black, nil
	case "w", "white":
		return types.White, nil
	}
	return types.Empty, fmt.Errorf("invalid color %q", color)
}

// FormatColor converts a stone to its GTP color name.
func FormatColor(s types.Stone) string {
	if s == types.Black {
		return "black"
	}
	return "white"
}
