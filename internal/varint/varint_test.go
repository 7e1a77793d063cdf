package varint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorexsearch/sorex/internal/xerrors"
)

func TestEncodeDecode_Roundtrip(t *testing.T) {
	// Given: a spread of values across the u64 range
	values := []uint64{0, 1, 2, 63, 64, 127, 128, 129, 16383, 16384,
		1 << 20, 1<<35 - 1, math.MaxUint32, math.MaxUint64}

	for _, v := range values {
		// When: encoding then decoding
		buf := Encode(nil, v)
		got, n, err := Decode(buf)

		// Then: the roundtrip is exact and consumes the whole buffer
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}
}

func TestEncode_IsCanonical(t *testing.T) {
	// Given: an encoded value
	buf := Encode(nil, 300)

	// When: re-encoding the decoded value
	v, _, err := Decode(buf)
	require.NoError(t, err)
	buf2 := Encode(nil, v)

	// Then: the bytes are identical (no redundant continuation groups)
	assert.Equal(t, buf, buf2)
}

func TestDecode_TruncatedInput(t *testing.T) {
	// Given: a continuation byte with nothing following
	_, _, err := Decode([]byte{0x80})

	// Then: MalformedVarint
	require.Error(t, err)
	kind, ok := xerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, xerrors.MalformedVarint, kind)
}

func TestDecode_TooManyBytes(t *testing.T) {
	// Given: 10 bytes all with the continuation bit set
	buf := make([]byte, 10)
	for i := range buf {
		buf[i] = 0x80
	}

	// Then: MalformedVarint (terminator never arrives)
	_, _, err := Decode(buf)
	require.Error(t, err)
	kind, _ := xerrors.KindOf(err)
	assert.Equal(t, xerrors.MalformedVarint, kind)
}

func TestDecode_OverflowsU64(t *testing.T) {
	// Given: 9 continuation bytes of 0x7f, then a last byte with a value too
	// large to fit in the single remaining bit
	buf := append([]byte{}, bytesOf(0x7f, 9)...)
	buf = append(buf, 0x02)

	// Then: MalformedVarint
	_, _, err := Decode(buf)
	require.Error(t, err)
	kind, _ := xerrors.KindOf(err)
	assert.Equal(t, xerrors.MalformedVarint, kind)
}

func TestDecode_EmptyInput(t *testing.T) {
	_, _, err := Decode(nil)
	require.Error(t, err)
}

func TestAppendedLen_MatchesEncodedLength(t *testing.T) {
	for _, v := range []uint64{0, 127, 128, 1 << 20, math.MaxUint64} {
		buf := Encode(nil, v)
		assert.Equal(t, len(buf), AppendedLen(v))
	}
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b | 0x80
	}
	return out
}
