// Package varint implements canonical LEB128 variable-length encoding of
// unsigned 64-bit integers, the single primitive every other codec in the
// .sorex container builds on.
package varint

import (
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// MaxBytes is the maximum number of bytes a canonical LEB128 u64 can occupy:
// ceil(64/7) = 10.
const MaxBytes = 10

// Encode appends the canonical LEB128 encoding of v to dst and returns the
// extended slice. Canonical means the minimum number of bytes: there is
// never a trailing continuation byte whose payload is all zero.
func Encode(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendedLen reports how many bytes Encode(v) would write, without
// allocating.
func AppendedLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}

// Decode reads a single LEB128 u64 from the front of buf, returning the
// decoded value and the number of bytes consumed. It fails with
// MalformedVarint when the 10th byte still carries the continuation bit,
// when the accumulated value would overflow 64 bits, or when buf runs out
// before a terminating byte is seen.
func Decode(buf []byte) (value uint64, consumed int, err error) {
	var shift uint
	for i := 0; i < MaxBytes; i++ {
		if i >= len(buf) {
			return 0, 0, xerrors.New(xerrors.MalformedVarint, "truncated varint: ran out of input before terminator")
		}
		b := buf[i]
		payload := uint64(b & 0x7f)

		if i == MaxBytes-1 {
			// The 10th byte may only contribute to bit 63; anything beyond
			// that, or a continuation bit still set, is an overflow.
			if b&0x80 != 0 {
				return 0, 0, xerrors.New(xerrors.MalformedVarint, "varint exceeds 10 bytes")
			}
			if payload > 1 {
				return 0, 0, xerrors.New(xerrors.MalformedVarint, "varint overflows u64")
			}
		}

		value |= payload << shift
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, xerrors.New(xerrors.MalformedVarint, "varint exceeds 10 bytes")
}
