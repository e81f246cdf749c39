// Package codec packs a game record into a short byte string and back.
//
// Layout:
//
//	header      size code << 2 | player      (1 byte)
//	varint      black captures
//	varint      white captures
//	varint      move count
//	moves       count x little-endian uint16
//
// A move is 0xFFFF for a pass, otherwise (y*size+x) << 2 | player.
// The text form is the byte string in the URL-safe base64 alphabet without padding.
package codec

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"goban-local/types"
)

var (
	// ErrTruncated error occurs when the input ends before a declared field
	ErrTruncated = errors.New("game code is truncated")
	// ErrOverflow error occurs when a varint does not fit in 32 bits
	ErrOverflow = errors.New("varint overflows 32 bits")
	// ErrInvalidField error occurs when a decoded field is out of its valid range
	ErrInvalidField = errors.New("game code field is invalid")
)

const passEntry = 0xFFFF

// Sizes lists the supported board sizes in size-code order.
var Sizes = [...]int{9, 13, 19}

// Record is everything a game code carries.
type Record struct {
	Size          int
	Player        types.Stone
	BlackCaptures uint32
	WhiteCaptures uint32
	Moves         []types.Move
}

// SizeCode returns the header code of a board size.
func SizeCode(size int) (byte, bool) {
	for i, s := range Sizes {
		if s == size {
			return byte(i), true
		}
	}
	return 0, false
}

// Encode packs r. It fails with ErrInvalidField when r cannot be represented.
func Encode(r *Record) ([]byte, error) {
	code, ok := SizeCode(r.Size)
	if !ok {
		return nil, fmt.Errorf("%w: board size %d", ErrInvalidField, r.Size)
	}
	if !r.Player.Valid() {
		return nil, fmt.Errorf("%w: player %v", ErrInvalidField, r.Player)
	}

	buf := make([]byte, 0, 4+2*len(r.Moves))
	buf = append(buf, code<<2|byte(r.Player))
	buf = AppendVarint(buf, r.BlackCaptures)
	buf = AppendVarint(buf, r.WhiteCaptures)
	buf = AppendVarint(buf, uint32(len(r.Moves)))

	for i, m := range r.Moves {
		entry, err := packMove(m, r.Size)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		buf = binary.LittleEndian.AppendUint16(buf, entry)
	}
	return buf, nil
}

func packMove(m types.Move, size int) (uint16, error) {
	if m.Pass {
		return passEntry, nil
	}
	if m.Player != types.Black && m.Player != types.White {
		return 0, fmt.Errorf("%w: move player %v", ErrInvalidField, m.Player)
	}
	p := m.Point
	if p.X < 0 || p.X >= size || p.Y < 0 || p.Y >= size {
		return 0, fmt.Errorf("%w: position (%d,%d)", ErrInvalidField, p.X, p.Y)
	}
	return uint16((p.Y*size+p.X)<<2) | uint16(m.Player), nil
}

// Decode unpacks a byte string produced by Encode.
func Decode(buf []byte) (*Record, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrTruncated)
	}
	header := buf[0]
	if header>>4 != 0 {
		return nil, fmt.Errorf("%w: header 0x%02x", ErrInvalidField, header)
	}
	sizeCode := int(header>>2) & 0x3
	if sizeCode >= len(Sizes) {
		return nil, fmt.Errorf("%w: size code %d", ErrInvalidField, sizeCode)
	}
	player := types.Stone(header & 0x3)
	if !player.Valid() {
		return nil, fmt.Errorf("%w: player bits %d", ErrInvalidField, player)
	}

	r := &Record{Size: Sizes[sizeCode], Player: player}
	pos := 1

	fields := []*uint32{&r.BlackCaptures, &r.WhiteCaptures}
	for _, f := range fields {
		v, n, err := ReadVarint(buf[pos:])
		if err != nil {
			return nil, err
		}
		*f = v
		pos += n
	}

	count, n, err := ReadVarint(buf[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	if uint64(len(buf)-pos) < 2*uint64(count) {
		return nil, fmt.Errorf("%w: %d moves declared, %d bytes left", ErrTruncated, count, len(buf)-pos)
	}
	if len(buf)-pos != 2*int(count) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidField, len(buf)-pos-2*int(count))
	}

	cells := r.Size * r.Size
	r.Moves = make([]types.Move, 0, count)
	for i := 0; i < int(count); i++ {
		entry := binary.LittleEndian.Uint16(buf[pos:])
		pos += 2

		if entry == passEntry {
			mover := types.Black
			if i%2 == 1 {
				mover = types.White
			}
			r.Moves = append(r.Moves, types.PassMove(mover))
			continue
		}

		mover := types.Stone(entry & 0x3)
		if mover != types.Black && mover != types.White {
			return nil, fmt.Errorf("%w: move %d player bits %d", ErrInvalidField, i+1, mover)
		}
		idx := int(entry >> 2)
		if idx >= cells {
			return nil, fmt.Errorf("%w: move %d position %d on %dx%[4]d", ErrInvalidField, i+1, idx, r.Size)
		}
		r.Moves = append(r.Moves, types.Place(idx%r.Size, idx/r.Size, mover))
	}
	return r, nil
}

// EncodeText packs r and renders it in the URL-safe alphabet.
func EncodeText(r *Record) (string, error) {
	buf, err := Encode(r)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// DecodeText parses a string produced by EncodeText.
func DecodeText(s string) (*Record, error) {
	buf, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	return Decode(buf)
}
