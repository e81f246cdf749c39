// Package rules validates and applies single moves: bounds, occupancy,
// suicide, captures and turn alternation. There is no ko rule.
package rules

import (
	"errors"
	"fmt"

	"goban-local/board"
	"goban-local/types"
)

var (
	// ErrOutOfBounds error occurs when a placement lies off the board
	ErrOutOfBounds = errors.New("move position is out of range")
	// ErrOccupied error occurs when a placement targets a non-empty intersection
	ErrOccupied = errors.New("the position is occupied")
	// ErrSuicide error occurs when a placement would leave its own group without liberties
	ErrSuicide = errors.New("suicide is not allowed")
)

// State is the position reached after a sequence of moves.
type State struct {
	Board         *board.Grid
	Player        types.Stone
	BlackCaptures int
	WhiteCaptures int
	LastMove      types.Point
}

// Outcome describes what a committed move did to the board.
type Outcome struct {
	Move     types.Move
	Captured []types.Point
}

// New returns the initial state of a size x size game: empty board, Black to play.
func New(size int) *State {
	return &State{
		Board:    board.NewGrid(size),
		Player:   types.Black,
		LastMove: types.NoPoint,
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.Board = s.Board.Clone()
	return &c
}

// Captures returns the number of stones captured by player.
func (s *State) Captures(player types.Stone) int {
	switch player {
	case types.Black:
		return s.BlackCaptures
	case types.White:
		return s.WhiteCaptures
	}
	return 0
}

// Check reports whether the current player may place a stone at p.
// It never changes the state.
func (s *State) Check(p types.Point) error {
	if !s.Board.In(p.X, p.Y) {
		return fmt.Errorf("%w: (%d,%d) on %dx%[4]d", ErrOutOfBounds, p.X, p.Y, s.Board.Size())
	}
	if s.Board.At(p.X, p.Y) != types.Empty {
		return fmt.Errorf("%w: (%d,%d) holds %v", ErrOccupied, p.X, p.Y, s.Board.At(p.X, p.Y))
	}

	scratch := s.Board.Clone()
	scratch.Set(p.X, p.Y, s.Player)

	opponent := s.Player.Opponent()
	for _, n := range adjacent(scratch, p) {
		if scratch.At(n.X, n.Y) == opponent && !scratch.HasLiberty(n.X, n.Y, opponent) {
			// capturing takes precedence over suicide
			return nil
		}
	}
	if !scratch.HasLiberty(p.X, p.Y, s.Player) {
		return fmt.Errorf("%w: %v at (%d,%d)", ErrSuicide, s.Player, p.X, p.Y)
	}
	return nil
}

// Play validates and commits a placement for the current player.
func (s *State) Play(p types.Point) (Outcome, error) {
	if err := s.Check(p); err != nil {
		return Outcome{}, err
	}
	return s.Commit(types.Place(p.X, p.Y, s.Player)), nil
}

// Pass commits a pass for the current player. Passing is always legal.
func (s *State) Pass() Outcome {
	return s.Commit(types.PassMove(s.Player))
}

// Commit applies m without any validation. It is used for moves that were
// already checked when first played, e.g. while replaying a record.
func (s *State) Commit(m types.Move) Outcome {
	out := Outcome{Move: m}
	if m.Pass {
		s.LastMove = types.NoPoint
		s.Player = m.Player.Opponent()
		return out
	}

	p := m.Point
	s.Board.Set(p.X, p.Y, m.Player)

	opponent := m.Player.Opponent()
	for _, n := range adjacent(s.Board, p) {
		if s.Board.At(n.X, n.Y) != opponent {
			continue
		}
		out.Captured = append(out.Captured, s.Board.CaptureIfDead(n.X, n.Y, opponent)...)
	}

	switch m.Player {
	case types.Black:
		s.BlackCaptures += len(out.Captured)
	case types.White:
		s.WhiteCaptures += len(out.Captured)
	}
	s.LastMove = p
	s.Player = opponent
	return out
}

// adjacent returns the on-board neighbours of p, left, right, up, down.
func adjacent(g *board.Grid, p types.Point) []types.Point {
	out := make([]types.Point, 0, 4)
	for _, n := range [4]types.Point{
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y - 1},
		{X: p.X, Y: p.Y + 1},
	} {
		if g.In(n.X, n.Y) {
			out = append(out, n)
		}
	}
	return out
}
