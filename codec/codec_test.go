package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goban-local/types"
)

func TestVarint(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{0xffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, tt := range tests {
		got := AppendVarint(nil, tt.v)
		assert.Equal(t, tt.want, got, "AppendVarint(%d)", tt.v)

		v, n, err := ReadVarint(append(got, 0xee))
		require.NoError(t, err)
		assert.Equal(t, tt.v, v)
		assert.Equal(t, len(tt.want), n)
	}
}

func TestReadVarintErrors(t *testing.T) {
	_, _, err := ReadVarint(nil)
	assert.ErrorIs(t, err, ErrTruncated)

	_, _, err = ReadVarint([]byte{0x80, 0x80})
	assert.ErrorIs(t, err, ErrTruncated)

	_, _, err = ReadVarint([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	assert.ErrorIs(t, err, ErrOverflow)

	_, _, err = ReadVarint([]byte{0xff, 0xff, 0xff, 0xff, 0x1f})
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestEncodeLayout(t *testing.T) {
	r := &Record{
		Size:   9,
		Player: types.Black,
		Moves: []types.Move{
			types.Place(0, 0, types.Black),
			types.PassMove(types.White),
			types.Place(1, 1, types.White),
		},
	}

	buf, err := Encode(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x01,       // 9x9, black to play
		0x00, 0x00, // captures
		0x03,       // three moves
		0x01, 0x00, // black (0,0)
		0xff, 0xff, // pass
		0x2a, 0x00, // white at index 10
	}, buf)

	text, err := EncodeText(r)
	require.NoError(t, err)
	assert.Equal(t, "AQAAAwEA__8qAA", text)
}

func TestDecodeInfersPassPlayer(t *testing.T) {
	r, err := DecodeText("AQAAAwEA__8qAA")
	require.NoError(t, err)

	assert.Equal(t, 9, r.Size)
	assert.Equal(t, types.Black, r.Player)
	require.Len(t, r.Moves, 3)
	assert.Equal(t, []types.Move{
		types.Place(0, 0, types.Black),
		types.PassMove(types.White),
		types.Place(1, 1, types.White),
	}, r.Moves)
}

func TestRoundTrip(t *testing.T) {
	tests := []*Record{
		{Size: 9, Player: types.Black, Moves: []types.Move{}},
		{Size: 13, Player: types.White, BlackCaptures: 3, WhiteCaptures: 200, Moves: []types.Move{
			types.Place(12, 12, types.Black),
			types.PassMove(types.White),
		}},
		{Size: 19, Player: types.Black, BlackCaptures: 70000, Moves: []types.Move{
			types.Place(18, 18, types.Black),
			types.Place(0, 18, types.White),
			types.PassMove(types.Black),
			types.PassMove(types.White),
		}},
	}
	for _, r := range tests {
		text, err := EncodeText(r)
		require.NoError(t, err)

		got, err := DecodeText(text)
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestEncodeRejects(t *testing.T) {
	_, err := Encode(&Record{Size: 15, Player: types.Black})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = Encode(&Record{Size: 9, Player: types.Black, Moves: []types.Move{types.Place(9, 0, types.Black)}})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = Encode(&Record{Size: 9, Player: types.Black, Moves: []types.Move{types.Place(0, 0, types.Empty)}})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"size code 3", []byte{0x0d, 0, 0, 0}, ErrInvalidField},
		{"player bits 3", []byte{0x03, 0, 0, 0}, ErrInvalidField},
		{"high header bits", []byte{0x11, 0, 0, 0}, ErrInvalidField},
		{"missing captures", []byte{0x01}, ErrTruncated},
		{"missing move count", []byte{0x01, 0, 0}, ErrTruncated},
		{"capture overflow", []byte{0x01, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01, 0, 0}, ErrOverflow},
		{"missing moves", []byte{0x01, 0, 0, 0x02, 0x01, 0x00}, ErrTruncated},
		{"half a move", []byte{0x01, 0, 0, 0x01, 0x01}, ErrTruncated},
		{"trailing bytes", []byte{0x01, 0, 0, 0x00, 0x00}, ErrInvalidField},
		{"move player bits 0", []byte{0x01, 0, 0, 0x01, 0x04, 0x00}, ErrInvalidField},
		{"move player bits 3", []byte{0x01, 0, 0, 0x01, 0x07, 0x00}, ErrInvalidField},
		{"position off 9x9", []byte{0x01, 0, 0, 0x01, 0x45, 0x01}, ErrInvalidField}, // index 81
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.buf)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeTextRejectsBadAlphabet(t *testing.T) {
	_, err := DecodeText("AQ+A")
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = DecodeText("AQAAA")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestHeaderAllowsEmptyPlayer(t *testing.T) {
	r, err := Decode([]byte{0x08, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 19, r.Size)
	assert.Equal(t, types.Empty, r.Player)
}

func TestSizeCode(t *testing.T) {
	for i, size := range Sizes {
		code, ok := SizeCode(size)
		require.True(t, ok)
		assert.Equal(t, byte(i), code)
	}
	_, ok := SizeCode(7)
	assert.False(t, ok)
}
