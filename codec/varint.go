package codec

import (
	"encoding/binary"
	"fmt"
)

// maxVarintBits is the number of payload bits a varint may carry.
const maxVarintBits = 32

// AppendVarint appends v in LEB128 form: 7 bits per byte, low bits first,
// high bit set while more bytes follow.
func AppendVarint(dst []byte, v uint32) []byte {
	return binary.AppendUvarint(dst, uint64(v))
}

// ReadVarint decodes a varint from the start of buf and returns the value and
// the number of bytes consumed.
func ReadVarint(buf []byte) (uint32, int, error) {
	var v uint32
	var shift uint
	for i, b := range buf {
		if shift+7 > maxVarintBits && b&0x7f>>(maxVarintBits-shift) != 0 {
			return 0, 0, fmt.Errorf("%w: varint value exceeds %d bits", ErrOverflow, maxVarintBits)
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
		if shift >= maxVarintBits {
			return 0, 0, fmt.Errorf("%w: varint longer than %d bits", ErrOverflow, maxVarintBits)
		}
	}
	return 0, 0, fmt.Errorf("%w: varint not terminated after %d bytes", ErrTruncated, len(buf))
}
