// Package session is the facade a front end drives: it owns the board size,
// the move log and the position derived from it.
package session

import (
	"errors"
	"fmt"

	"goban-local/codec"
	"goban-local/movelog"
	"goban-local/rules"
	"goban-local/types"
)

// ErrBoardSize error occurs when a session is created with an unsupported size
var ErrBoardSize = errors.New("board size must be 9, 13 or 19")

// Logger is the logging collaborator of a session. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for move and load events.
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session is a single game. It is not safe for concurrent use.
type Session struct {
	size    int
	state   *rules.State
	log     *movelog.Log
	numbers []int // 1-based move number per cell, 0 when unannotated
	logger  Logger
}

// ValidSize reports whether size is one of the supported board sizes.
func ValidSize(size int) bool {
	_, ok := codec.SizeCode(size)
	return ok
}

// New starts an empty game on a size x size board.
func New(size int, opts ...Option) (*Session, error) {
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: got %d", ErrBoardSize, size)
	}
	s := &Session{
		size:    size,
		state:   rules.New(size),
		log:     movelog.New(),
		numbers: make([]int, size*size),
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug("session created", "size", size)
	return s, nil
}

// Restore starts a game on a size x size board from an existing record.
// Every move is checked; the first illegal one fails the restore.
func Restore(size int, moves []types.Move, opts ...Option) (*Session, error) {
	s, err := New(size, opts...)
	if err != nil {
		return nil, err
	}
	numbers := make([]int, size*size)
	st, err := movelog.Verify(size, moves, numbering(numbers, size))
	if err != nil {
		return nil, err
	}
	s.state = st
	s.log = movelog.FromMoves(moves)
	s.numbers = numbers
	return s, nil
}

// Size returns the side length of the board.
func (s *Session) Size() int {
	return s.size
}

// PlaceStone plays the current player's stone at (x, y).
// The error wraps rules.ErrOutOfBounds, rules.ErrOccupied or rules.ErrSuicide.
func (s *Session) PlaceStone(x, y int) error {
	out, err := s.state.Play(types.Point{X: x, Y: y})
	if err != nil {
		s.logger.Debug("move rejected", "x", x, "y", y, "error", err)
		return err
	}
	s.log.Append(out.Move)
	s.annotate(s.log.Cursor(), out)
	s.logger.Debug("stone placed", "move", s.log.Cursor(), "x", x, "y", y,
		"player", out.Move.Player.String(), "captured", len(out.Captured))
	return nil
}

// Pass passes the current player's turn. It always succeeds.
func (s *Session) Pass() {
	out := s.state.Pass()
	s.log.Append(out.Move)
	s.logger.Debug("pass", "move", s.log.Cursor(), "player", out.Move.Player.String())
}

// Undo steps back one move. Returns false when there is nothing to undo.
func (s *Session) Undo() bool {
	if !s.log.Back() {
		return false
	}
	s.reconstruct()
	return true
}

// Redo steps forward one move. Returns false when there is nothing to redo.
func (s *Session) Redo() bool {
	if !s.log.Forward() {
		return false
	}
	s.reconstruct()
	return true
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool {
	return s.log.Cursor() > 0
}

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool {
	return s.log.Cursor() < s.log.Len()
}

// Cell returns the stone at (x, y). Points off the board are Empty.
func (s *Session) Cell(x, y int) types.Stone {
	return s.state.Board.At(x, y)
}

// CurrentPlayer returns the player to move.
func (s *Session) CurrentPlayer() types.Stone {
	return s.state.Player
}

// Captures returns the number of stones captured by black and by white.
func (s *Session) Captures() (black, white int) {
	return s.state.BlackCaptures, s.state.WhiteCaptures
}

// LastMove returns the point of the last placement. ok is false at the start
// of the game and after a pass.
func (s *Session) LastMove() (p types.Point, ok bool) {
	if s.state.LastMove == types.NoPoint {
		return types.NoPoint, false
	}
	return s.state.LastMove, true
}

// MoveNumber returns the 1-based number of the move that placed the stone at
// (x, y), or 0 when the point carries no annotation.
func (s *Session) MoveNumber(x, y int) int {
	if !s.state.Board.In(x, y) {
		return 0
	}
	return s.numbers[y*s.size+x]
}

// Moves returns the moves that lead to the current position.
func (s *Session) Moves() []types.Move {
	return s.log.Committed()
}

// SetCellDirect writes a stone without any rule checks, for setting up
// positions. Edits are not part of the move log.
func (s *Session) SetCellDirect(x, y int, stone types.Stone) {
	if !s.state.Board.In(x, y) || !stone.Valid() {
		return
	}
	if s.state.Board.At(x, y) != stone {
		s.numbers[y*s.size+x] = 0
	}
	s.state.Board.Set(x, y, stone)
	s.logger.Debug("cell edited", "x", x, "y", y, "stone", stone.String())
}

// Snapshot copies the current position for renderers.
func (s *Session) Snapshot() *types.BoardState {
	bs := types.NewBoardState(s.size)
	bs.Board = s.state.Board.Rows()
	for y := 0; y < s.size; y++ {
		copy(bs.MoveNumbers[y], s.numbers[y*s.size:(y+1)*s.size])
	}
	bs.MoveNumber = s.log.Cursor()
	bs.TotalMoves = s.log.Len()
	bs.PlayerToMove = s.state.Player
	bs.BlackCaptures = s.state.BlackCaptures
	bs.WhiteCaptures = s.state.WhiteCaptures
	bs.LastMove = s.state.LastMove
	return bs
}

// reconstruct rebuilds the position from the log up to the cursor.
func (s *Session) reconstruct() {
	numbers := make([]int, s.size*s.size)
	s.state = s.log.Reconstruct(s.size, numbering(numbers, s.size))
	s.numbers = numbers
	s.logger.Debug("position rebuilt", "cursor", s.log.Cursor(), "moves", s.log.Len())
}

// annotate records the move number of a placement and clears captured points.
func (s *Session) annotate(number int, out rules.Outcome) {
	numbering(s.numbers, s.size)(number, out)
}

func numbering(numbers []int, size int) movelog.StepFunc {
	return func(number int, out rules.Outcome) {
		for _, p := range out.Captured {
			numbers[p.Y*size+p.X] = 0
		}
		if !out.Move.Pass {
			numbers[out.Move.Point.Y*size+out.Move.Point.X] = number
		}
	}
}
