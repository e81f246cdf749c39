// Package engine defines the interface front ends use to drive a game.
package engine

import "goban-local/types"

// Game defines the operations a front end needs from a local two-player game.
// *session.Session satisfies it.
type Game interface {
	// Size returns the side length of the board.
	Size() int

	// PlaceStone plays the current player's stone at the given coordinates.
	// Returns an error if the move is illegal.
	PlaceStone(x, y int) error

	// Pass passes the current turn.
	Pass()

	// Undo steps back one move. Returns false if there is nothing to undo.
	Undo() bool

	// Redo steps forward one move. Returns false if there is nothing to redo.
	Redo() bool

	CanUndo() bool
	CanRedo() bool

	// Cell returns the stone at (x, y). Off-board points are Empty.
	Cell(x, y int) types.Stone

	// CurrentPlayer returns the player to move.
	CurrentPlayer() types.Stone

	// Captures returns the stones captured by black and by white.
	Captures() (black, white int)

	// LastMove returns the last placement, ok is false after a pass.
	LastMove() (p types.Point, ok bool)

	// MoveNumber returns the move number annotation at (x, y), 0 if none.
	MoveNumber(x, y int) int

	// Moves returns the moves leading to the current position.
	Moves() []types.Move

	// SetCellDirect writes a stone without rule checks.
	SetCellDirect(x, y int, stone types.Stone)

	// Snapshot returns a copy of the position for rendering.
	Snapshot() *types.BoardState

	// Serialize renders the game as a compact text code.
	Serialize() string

	// Deserialize replaces the game with the one in code.
	// The game is unchanged on error.
	Deserialize(code string) error
}

// Factory creates a new game of the given board size.
type Factory func(size int) (Game, error)

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	BoardSize int     // 9, 13, or 19
	Komi      float64 // Recorded in exported SGF only
	Code      string  // Game code to load, empty for a fresh board
	SGFPath   string  // SGF file to load, empty for a fresh board
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		BoardSize: 19,
		Komi:      6.5,
	}
}
