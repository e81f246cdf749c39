package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goban-local/codec"
	"goban-local/rules"
	"goban-local/types"
)

func newSession(t *testing.T, size int) *Session {
	t.Helper()
	s, err := New(size)
	require.NoError(t, err)
	return s
}

func place(t *testing.T, s *Session, points ...types.Point) {
	t.Helper()
	for _, p := range points {
		require.NoError(t, s.PlaceStone(p.X, p.Y), "place (%d,%d)", p.X, p.Y)
	}
}

// position captures everything a front end can observe about a session.
type position struct {
	board          [][]types.Stone
	player         types.Stone
	black, white   int
	last           types.Point
	hasLast        bool
	numberedPoints map[types.Point]int
}

func observe(s *Session) position {
	p := position{
		board:          s.Snapshot().Board,
		player:         s.CurrentPlayer(),
		numberedPoints: map[types.Point]int{},
	}
	p.black, p.white = s.Captures()
	p.last, p.hasLast = s.LastMove()
	for y := 0; y < s.Size(); y++ {
		for x := 0; x < s.Size(); x++ {
			if n := s.MoveNumber(x, y); n > 0 {
				p.numberedPoints[types.Point{X: x, Y: y}] = n
			}
		}
	}
	return p
}

func TestNewValidatesSize(t *testing.T) {
	for _, size := range []int{9, 13, 19} {
		s, err := New(size)
		require.NoError(t, err)
		assert.Equal(t, size, s.Size())
		assert.Equal(t, types.Black, s.CurrentPlayer())
	}
	for _, size := range []int{0, 1, 8, 10, 18, 20, 25} {
		_, err := New(size)
		assert.ErrorIs(t, err, ErrBoardSize, "size %d", size)
	}
}

func TestCaptureScenario(t *testing.T) {
	s := newSession(t, 9)

	require.NoError(t, s.PlaceStone(1, 1)) // B
	require.NoError(t, s.PlaceStone(0, 1)) // W
	s.Pass()
	require.NoError(t, s.PlaceStone(1, 0)) // W
	s.Pass()
	require.NoError(t, s.PlaceStone(2, 1)) // W
	s.Pass()
	require.NoError(t, s.PlaceStone(1, 2)) // W captures

	assert.Equal(t, types.Empty, s.Cell(1, 1))
	black, white := s.Captures()
	assert.Equal(t, 0, black)
	assert.Equal(t, 1, white)
	assert.Equal(t, 0, s.MoveNumber(1, 1), "captured stone loses its number")
	assert.Equal(t, 8, s.MoveNumber(1, 2))
}

func TestSuicideScenario(t *testing.T) {
	s := newSession(t, 9)
	s.Pass()
	place(t, s, types.Point{X: 1, Y: 0})
	s.Pass()
	place(t, s, types.Point{X: 0, Y: 1})
	before := observe(s)

	err := s.PlaceStone(0, 0)
	require.ErrorIs(t, err, rules.ErrSuicide)
	assert.Equal(t, "Suicide", Status(err))
	assert.Equal(t, before, observe(s))
	assert.Len(t, s.Moves(), 4)
}

func TestIllegalPlacementsDoNotTouchLog(t *testing.T) {
	s := newSession(t, 9)
	place(t, s, types.Point{X: 4, Y: 4})

	err := s.PlaceStone(4, 4)
	assert.ErrorIs(t, err, rules.ErrOccupied)
	assert.Equal(t, "Occupied", Status(err))

	err = s.PlaceStone(9, 4)
	assert.ErrorIs(t, err, rules.ErrOutOfBounds)
	assert.Equal(t, "OutOfBounds", Status(err))

	assert.Len(t, s.Moves(), 1)
	assert.False(t, s.CanRedo())
}

func TestTurnAlternation(t *testing.T) {
	s := newSession(t, 13)
	for i := 0; i < 6; i++ {
		before := s.CurrentPlayer()
		if i%3 == 2 {
			s.Pass()
		} else {
			require.NoError(t, s.PlaceStone(i, i))
		}
		assert.NotEqual(t, before, s.CurrentPlayer())
	}
}

func TestPassClearsLastMove(t *testing.T) {
	s := newSession(t, 9)
	_, ok := s.LastMove()
	assert.False(t, ok)

	place(t, s, types.Point{X: 2, Y: 3})
	p, ok := s.LastMove()
	require.True(t, ok)
	assert.Equal(t, types.Point{X: 2, Y: 3}, p)

	s.Pass()
	_, ok = s.LastMove()
	assert.False(t, ok)
}

func TestCellOutOfBoundsIsEmpty(t *testing.T) {
	s := newSession(t, 9)
	assert.Equal(t, types.Empty, s.Cell(-1, 0))
	assert.Equal(t, types.Empty, s.Cell(0, 9))
	assert.Equal(t, 0, s.MoveNumber(100, 100))
}

func TestUndoRedoInverse(t *testing.T) {
	s := newSession(t, 9)
	points := []types.Point{{X: 1, Y: 1}, {X: 0, Y: 1}, {X: 5, Y: 5}, {X: 1, Y: 0}, {X: 6, Y: 6}, {X: 2, Y: 1}, {X: 7, Y: 7}, {X: 1, Y: 2}}
	var states []position
	states = append(states, observe(s))
	for _, p := range points {
		place(t, s, p)
		states = append(states, observe(s))
	}

	for c := len(points); c > 0; c-- {
		require.Equal(t, states[c], observe(s), "cursor %d", c)
		require.True(t, s.Undo())
		require.True(t, s.Redo())
		require.Equal(t, states[c], observe(s), "undo/redo at cursor %d", c)
		require.True(t, s.Undo())
		require.Equal(t, states[c-1], observe(s), "after undo to %d", c-1)
	}
	assert.False(t, s.Undo())
	assert.False(t, s.CanUndo())

	for c := 1; c <= len(points); c++ {
		require.True(t, s.Redo())
		require.Equal(t, states[c], observe(s))
	}
	assert.False(t, s.Redo())
}

func TestUndoRestoresCapturedStones(t *testing.T) {
	s := newSession(t, 9)
	place(t, s, types.Point{X: 1, Y: 1}, types.Point{X: 0, Y: 1}, types.Point{X: 8, Y: 8},
		types.Point{X: 1, Y: 0}, types.Point{X: 8, Y: 7}, types.Point{X: 2, Y: 1},
		types.Point{X: 8, Y: 6}, types.Point{X: 1, Y: 2})
	require.Equal(t, types.Empty, s.Cell(1, 1))

	require.True(t, s.Undo())
	assert.Equal(t, types.Black, s.Cell(1, 1))
	assert.Equal(t, 1, s.MoveNumber(1, 1))
	_, white := s.Captures()
	assert.Equal(t, 0, white)
	assert.Equal(t, types.White, s.CurrentPlayer())
}

func TestBranchDiscardsFuture(t *testing.T) {
	s := newSession(t, 9)
	place(t, s, types.Point{X: 0, Y: 0}, types.Point{X: 1, Y: 1}, types.Point{X: 2, Y: 2})

	require.True(t, s.Undo())
	require.True(t, s.CanRedo())
	place(t, s, types.Point{X: 3, Y: 3})

	assert.False(t, s.Redo())
	assert.False(t, s.CanRedo())
	assert.Equal(t, types.Empty, s.Cell(2, 2))
	assert.Equal(t, types.White, s.Cell(3, 3))
	assert.Len(t, s.Moves(), 3)
}

func TestSerializeRoundTrip(t *testing.T) {
	s := newSession(t, 19)
	place(t, s, types.Point{X: 1, Y: 1}, types.Point{X: 0, Y: 1}, types.Point{X: 10, Y: 10},
		types.Point{X: 1, Y: 0}, types.Point{X: 11, Y: 11}, types.Point{X: 2, Y: 1},
		types.Point{X: 12, Y: 12}, types.Point{X: 1, Y: 2})
	s.Pass()
	place(t, s, types.Point{X: 18, Y: 18})

	code := s.Serialize()

	loaded := newSession(t, 9)
	require.NoError(t, loaded.Deserialize(code))
	assert.Equal(t, 19, loaded.Size())
	assert.Equal(t, observe(s), observe(loaded))
	assert.Equal(t, s.Moves(), loaded.Moves())
	assert.Equal(t, code, loaded.Serialize())
}

func TestSerializeOnlyCommittedPrefix(t *testing.T) {
	s := newSession(t, 9)
	place(t, s, types.Point{X: 0, Y: 0}, types.Point{X: 1, Y: 1}, types.Point{X: 2, Y: 2})
	require.True(t, s.Undo())

	rec, err := codec.DecodeText(s.Serialize())
	require.NoError(t, err)
	assert.Len(t, rec.Moves, 2)
	assert.Equal(t, types.Black, rec.Player)

	loaded := newSession(t, 9)
	require.NoError(t, loaded.Deserialize(s.Serialize()))
	assert.False(t, loaded.CanRedo())
	assert.True(t, loaded.CanUndo())
}

func TestDeserializeFailureLeavesSessionUnchanged(t *testing.T) {
	s := newSession(t, 9)
	place(t, s, types.Point{X: 4, Y: 4}, types.Point{X: 3, Y: 3})
	require.True(t, s.Undo())
	before := observe(s)
	code := s.Serialize()

	tests := []struct {
		name string
		code string
		want error
	}{
		{"empty", "", codec.ErrTruncated},
		{"bad alphabet", "!!!!", codec.ErrInvalidField},
		{"truncated moves", "AQAAAw", codec.ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Deserialize(tt.code)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, observe(s))
			assert.Equal(t, code, s.Serialize())
			assert.True(t, s.CanRedo(), "redo tail must survive a failed load")
		})
	}
}

func TestDeserializeInferredPass(t *testing.T) {
	moves := []types.Move{
		types.Place(0, 0, types.Black),
		types.PassMove(types.White),
		types.Place(1, 1, types.White),
	}
	code, err := codec.EncodeText(&codec.Record{Size: 9, Player: types.Black, Moves: moves})
	require.NoError(t, err)

	s := newSession(t, 19)
	require.NoError(t, s.Deserialize(code))
	assert.Equal(t, 9, s.Size())
	assert.Equal(t, moves, s.Moves())
	assert.Equal(t, types.Black, s.Cell(0, 0))
	assert.Equal(t, types.White, s.Cell(1, 1))
	assert.Equal(t, types.Black, s.CurrentPlayer())
	assert.Equal(t, 3, s.MoveNumber(1, 1))

	assert.ErrorIs(t, CheckCode(code), codec.ErrInvalidField, "white moves twice in a row")
}

func TestDeserializeDerivesStateFromMoves(t *testing.T) {
	code, err := codec.EncodeText(&codec.Record{
		Size:          9,
		Player:        types.Empty,
		BlackCaptures: 2,
		WhiteCaptures: 4,
		Moves:         []types.Move{types.Place(0, 0, types.Black)},
	})
	require.NoError(t, err)

	s := newSession(t, 9)
	require.NoError(t, s.Deserialize(code))
	assert.Equal(t, types.White, s.CurrentPlayer())
	black, white := s.Captures()
	assert.Equal(t, 0, black)
	assert.Equal(t, 0, white)
	assert.Equal(t, "AAIEAQEA", code)
	assert.NotEqual(t, code, s.Serialize(), "re-encoding writes the derived header")
	assert.ErrorIs(t, CheckCode(code), codec.ErrInvalidField)
}

func TestCheckCode(t *testing.T) {
	s := newSession(t, 9)
	place(t, s, types.Point{X: 4, Y: 4}, types.Point{X: 3, Y: 3})
	assert.NoError(t, CheckCode(s.Serialize()))

	occupied, err := codec.EncodeText(&codec.Record{
		Size:   9,
		Player: types.White,
		Moves:  []types.Move{types.Place(0, 0, types.Black), types.Place(0, 0, types.White)},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, CheckCode(occupied), codec.ErrInvalidField)
	assert.ErrorIs(t, CheckCode("AQAAAw"), codec.ErrTruncated)
}

func TestSetCellDirect(t *testing.T) {
	s := newSession(t, 9)
	place(t, s, types.Point{X: 4, Y: 4})
	require.Equal(t, 1, s.MoveNumber(4, 4))

	s.SetCellDirect(0, 0, types.White)
	assert.Equal(t, types.White, s.Cell(0, 0))
	assert.Equal(t, types.White, s.CurrentPlayer(), "edits do not change the turn")

	s.SetCellDirect(4, 4, types.Black)
	assert.Equal(t, 1, s.MoveNumber(4, 4), "rewriting the same stone keeps its number")

	s.SetCellDirect(4, 4, types.White)
	assert.Equal(t, types.White, s.Cell(4, 4))
	assert.Equal(t, 0, s.MoveNumber(4, 4), "a different stone drops the number")

	place(t, s, types.Point{X: 5, Y: 5})
	require.Equal(t, 2, s.MoveNumber(5, 5))
	s.SetCellDirect(5, 5, types.Empty)
	assert.Equal(t, types.Empty, s.Cell(5, 5))
	assert.Equal(t, 0, s.MoveNumber(5, 5))

	// off-board and invalid writes are ignored
	s.SetCellDirect(9, 9, types.Black)
	s.SetCellDirect(1, 1, types.Stone(7))
	assert.Equal(t, types.Empty, s.Cell(1, 1))
	assert.Len(t, s.Moves(), 2)
}

func TestRestore(t *testing.T) {
	s, err := Restore(9, []types.Move{
		types.Place(2, 2, types.Black),
		types.PassMove(types.White),
		types.Place(3, 3, types.Black),
	})
	require.NoError(t, err)
	assert.Equal(t, types.White, s.CurrentPlayer())
	assert.Equal(t, 3, s.MoveNumber(3, 3))
	assert.True(t, s.Undo())

	_, err = Restore(9, []types.Move{types.Place(2, 2, types.White)})
	assert.Error(t, err)

	_, err = Restore(12, nil)
	assert.ErrorIs(t, err, ErrBoardSize)
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) record(level, msg string) {
	l.lines = append(l.lines, fmt.Sprintf("%s %s", level, msg))
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.record("DEBUG", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record("INFO", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("WARN", msg) }

func TestLoggerIsInjected(t *testing.T) {
	logger := &recordingLogger{}
	s, err := New(9, WithLogger(logger))
	require.NoError(t, err)

	place(t, s, types.Point{X: 0, Y: 0})
	_ = s.Deserialize("!")

	assert.Contains(t, logger.lines, "DEBUG session created")
	assert.Contains(t, logger.lines, "DEBUG stone placed")
	assert.Contains(t, logger.lines, "WARN game code rejected")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "OK", Status(nil))
	assert.Equal(t, "Overflow", Status(fmt.Errorf("wrapped: %w", codec.ErrOverflow)))
	assert.Equal(t, "BoardSize", Status(ErrBoardSize))
}
