// Package movelog keeps the ordered record of a game together with a cursor,
// and rebuilds positions by replaying that record from an empty board.
package movelog

import (
	"errors"
	"fmt"

	"goban-local/rules"
	"goban-local/types"
)

// Log is an append-only list of moves. Moves at or past the cursor are the
// redo tail; appending while the cursor is not at the end discards them.
type Log struct {
	moves  []types.Move
	cursor int
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// FromMoves builds a log positioned at the end of moves.
func FromMoves(moves []types.Move) *Log {
	l := &Log{moves: make([]types.Move, len(moves))}
	copy(l.moves, moves)
	l.cursor = len(moves)
	return l
}

// Len returns the total number of moves, including the redo tail.
func (l *Log) Len() int {
	return len(l.moves)
}

// Cursor returns the number of moves that make up the current position.
func (l *Log) Cursor() int {
	return l.cursor
}

// Append truncates the redo tail and adds m at the cursor.
func (l *Log) Append(m types.Move) {
	if l.cursor < len(l.moves) {
		l.moves = l.moves[:l.cursor]
	}
	l.moves = append(l.moves, m)
	l.cursor++
}

// Back moves the cursor one move towards the start. Returns false at the start.
func (l *Log) Back() bool {
	if l.cursor == 0 {
		return false
	}
	l.cursor--
	return true
}

// Forward moves the cursor one move towards the end. Returns false at the end.
func (l *Log) Forward() bool {
	if l.cursor == len(l.moves) {
		return false
	}
	l.cursor++
	return true
}

// Committed returns a copy of the moves before the cursor.
func (l *Log) Committed() []types.Move {
	out := make([]types.Move, l.cursor)
	copy(out, l.moves[:l.cursor])
	return out
}

// At returns the i-th move of the full log.
func (l *Log) At(i int) types.Move {
	return l.moves[i]
}

// StepFunc observes each replayed move. number is 1-based.
type StepFunc func(number int, out rules.Outcome)

// Replay rebuilds the position reached after moves on an empty size x size board.
// Moves are committed without validation.
func Replay(size int, moves []types.Move, step StepFunc) *rules.State {
	st := rules.New(size)
	for i, m := range moves {
		out := st.Commit(m)
		if step != nil {
			step(i+1, out)
		}
	}
	return st
}

// Reconstruct replays the log up to the cursor.
func (l *Log) Reconstruct(size int, step StepFunc) *rules.State {
	return Replay(size, l.moves[:l.cursor], step)
}

// IllegalMoveError reports the first move of a record that breaks the rules.
type IllegalMoveError struct {
	Index int
	Move  types.Move
	Err   error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("move %d (%v): %v", e.Index+1, e.Move, e.Err)
}

func (e *IllegalMoveError) Unwrap() error {
	return e.Err
}

// ErrOutOfTurn is wrapped when a record has a player moving twice in a row.
var ErrOutOfTurn = errors.New("move played out of turn")

// Verify replays moves with full validation, as for untrusted input.
// It returns the resulting state or an *IllegalMoveError.
func Verify(size int, moves []types.Move, step StepFunc) (*rules.State, error) {
	st := rules.New(size)
	for i, m := range moves {
		if m.Player != st.Player {
			return nil, &IllegalMoveError{Index: i, Move: m, Err: ErrOutOfTurn}
		}
		var out rules.Outcome
		if m.Pass {
			out = st.Pass()
		} else {
			var err error
			if out, err = st.Play(m.Point); err != nil {
				return nil, &IllegalMoveError{Index: i, Move: m, Err: err}
			}
		}
		if step != nil {
			step(i+1, out)
		}
	}
	return st, nil
}
