// Package hexcodec implements fixed-width hex <-> unsigned integer
// conversion for u8/u16/u32, with no partial parses: the output/input
// length is fixed by the target width, zero-padded, big-endian nibble
// order.
package hexcodec

import "github.com/daedaluz/ascom/ascerr"

const hexDigitsUpper = "0123456789ABCDEF"
const hexDigitsLower = "0123456789abcdef"

// EncodeUint8 writes the 2-hex-character representation of v into out,
// which must be at least 2 bytes long.
func EncodeUint8(v uint8, out []byte, upper bool) {
	digits := hexDigitsLower
	if upper {
		digits = hexDigitsUpper
	}
	out[0] = digits[(v>>4)&0xF]
	out[1] = digits[v&0xF]
}

// EncodeUint16 writes the 4-hex-character representation of v into out.
func EncodeUint16(v uint16, out []byte, upper bool) {
	EncodeUint8(uint8(v>>8), out[0:2], upper)
	EncodeUint8(uint8(v), out[2:4], upper)
}

// EncodeUint32 writes the 8-hex-character representation of v into out.
func EncodeUint32(v uint32, out []byte, upper bool) {
	EncodeUint16(uint16(v>>16), out[0:4], upper)
	EncodeUint16(uint16(v), out[4:8], upper)
}

func nibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// DecodeUint8 parses exactly 2 hex characters from in. It throws
// ascerr.NotHexChar (via ascerr.Throw) if any character is not a hex digit.
func DecodeUint8(in []byte) uint8 {
	hi, ok := nibble(in[0])
	if !ok {
		ascerr.Throw(ascerr.NotHexChar)
	}
	lo, ok := nibble(in[1])
	if !ok {
		ascerr.Throw(ascerr.NotHexChar)
	}
	return hi<<4 | lo
}

// DecodeUint16 parses exactly 4 hex characters from in.
func DecodeUint16(in []byte) uint16 {
	hi := DecodeUint8(in[0:2])
	lo := DecodeUint8(in[2:4])
	return uint16(hi)<<8 | uint16(lo)
}

// DecodeUint32 parses exactly 8 hex characters from in.
func DecodeUint32(in []byte) uint32 {
	hi := DecodeUint16(in[0:4])
	lo := DecodeUint16(in[4:8])
	return uint32(hi)<<16 | uint32(lo)
}
