package session

import (
	"errors"
	"fmt"

	"goban-local/codec"
	"goban-local/movelog"
	"goban-local/rules"
)

// Serialize renders the moves up to the cursor, the player to move and the
// capture counts as a game code. Direct cell edits are not included.
func (s *Session) Serialize() string {
	rec := &codec.Record{
		Size:          s.size,
		Player:        s.state.Player,
		BlackCaptures: uint32(s.state.BlackCaptures),
		WhiteCaptures: uint32(s.state.WhiteCaptures),
		Moves:         s.log.Committed(),
	}
	text, err := codec.EncodeText(rec)
	if err != nil {
		// every committed move was validated against this board size
		panic(fmt.Sprintf("session: encode game code: %v", err))
	}
	return text
}

// Deserialize replaces the game with the one described by code. The moves are
// trusted and replayed without rule checks; the player to move and the capture
// counts come from that replay, not from the header. On any error the session
// is left exactly as it was. Errors wrap codec.ErrTruncated, codec.ErrOverflow
// or codec.ErrInvalidField.
func (s *Session) Deserialize(code string) error {
	rec, err := codec.DecodeText(code)
	if err != nil {
		s.logger.Warn("game code rejected", "error", err)
		return err
	}

	numbers := make([]int, rec.Size*rec.Size)
	st := movelog.Replay(rec.Size, rec.Moves, numbering(numbers, rec.Size))

	s.size = rec.Size
	s.state = st
	s.log = movelog.FromMoves(rec.Moves)
	s.numbers = numbers
	s.logger.Info("game code loaded", "size", s.size, "moves", len(rec.Moves))
	return nil
}

// CheckCode decodes code and replays it with full validation: every move must
// be legal and in turn, and the header's player and capture counts must match
// the replay. Use it on codes from untrusted sources; Deserialize loads codes
// that fail here.
func CheckCode(code string) error {
	rec, err := codec.DecodeText(code)
	if err != nil {
		return err
	}
	st, err := movelog.Verify(rec.Size, rec.Moves, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", codec.ErrInvalidField, err)
	}
	if st.Player != rec.Player ||
		uint32(st.BlackCaptures) != rec.BlackCaptures ||
		uint32(st.WhiteCaptures) != rec.WhiteCaptures {
		return fmt.Errorf("%w: header says %v to play with captures %d/%d, moves give %v with %d/%d",
			codec.ErrInvalidField, rec.Player, rec.BlackCaptures, rec.WhiteCaptures,
			st.Player, st.BlackCaptures, st.WhiteCaptures)
	}
	return nil
}

// Status renders the result of a move attempt as a short line for status bars.
func Status(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, rules.ErrOutOfBounds):
		return "OutOfBounds"
	case errors.Is(err, rules.ErrOccupied):
		return "Occupied"
	case errors.Is(err, rules.ErrSuicide):
		return "Suicide"
	case errors.Is(err, codec.ErrTruncated):
		return "Truncated"
	case errors.Is(err, codec.ErrOverflow):
		return "Overflow"
	case errors.Is(err, codec.ErrInvalidField):
		return "InvalidField"
	case errors.Is(err, ErrBoardSize):
		return "BoardSize"
	}
	return err.Error()
}
