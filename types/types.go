// Package types contains shared data structures for goban-local.
package types

import (
	"encoding/json"
	"fmt"
)

// Stone is the content of a single intersection.
type Stone uint8

const (
	Empty Stone = iota
	Black
	White
)

// Opponent returns the other player's colour. Empty has no opponent.
func (s Stone) Opponent() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

// Valid reports whether s is one of the three intersection states.
func (s Stone) Valid() bool {
	return s <= White
}

func (s Stone) String() string {
	switch s {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	}
	return fmt.Sprintf("stone(%d)", uint8(s))
}

// Point is a position on the board, 0-indexed with the origin at the top left.
type Point struct {
	X int
	Y int
}

// NoPoint marks the absence of a position, e.g. the last move after a pass.
var NoPoint = Point{X: -1, Y: -1}

// UnmarshalJSON allows Point to be unmarshaled from a JSON array [x, y].
func (p *Point) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("point needs 2 coordinates, got %d", len(v))
	}
	p.X = v[0]
	p.Y = v[1]
	return nil
}

// MarshalJSON writes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// Move is a single entry of a game record: a placement or a pass.
type Move struct {
	Point  Point
	Player Stone
	Pass   bool
}

// Place builds a placement move.
func Place(x, y int, player Stone) Move {
	return Move{Point: Point{X: x, Y: y}, Player: player}
}

// PassMove builds a pass move.
func PassMove(player Stone) Move {
	return Move{Point: NoPoint, Player: player, Pass: true}
}

func (m Move) String() string {
	if m.Pass {
		return fmt.Sprintf("%s pass", m.Player)
	}
	return fmt.Sprintf("%s (%d,%d)", m.Player, m.Point.X, m.Point.Y)
}

// BoardState is a read-only snapshot of a game, handed to renderers.
// Board is indexed as Board[y][x].
type BoardState struct {
	Size          int       `json:"size"`
	MoveNumber    int       `json:"move_number"`
	TotalMoves    int       `json:"total_moves"`
	PlayerToMove  Stone     `json:"player_to_move"`
	Board         [][]Stone `json:"board"`
	MoveNumbers   [][]int   `json:"move_numbers"`
	BlackCaptures int       `json:"black_captures"`
	WhiteCaptures int       `json:"white_captures"`
	LastMove      Point     `json:"last_move"`
}

// Height returns the board height.
func (b *BoardState) Height() int {
	return len(b.Board)
}

// Width returns the board width.
func (b *BoardState) Width() int {
	if b.Height() == 0 {
		return 0
	}
	return len(b.Board[0])
}

// HasLastMove reports whether the most recent move was a placement.
func (b *BoardState) HasLastMove() bool {
	return b.LastMove != NoPoint
}

// NewBoardState creates a new empty board of the given size.
func NewBoardState(size int) *BoardState {
	board := make([][]Stone, size)
	numbers := make([][]int, size)
	for i := range board {
		board[i] = make([]Stone, size)
		numbers[i] = make([]int, size)
	}
	return &BoardState{
		Size:         size,
		PlayerToMove: Black,
		Board:        board,
		MoveNumbers:  numbers,
		LastMove:     NoPoint,
	}
}
