// Package vocab implements the front-compressed vocabulary codec:
// spec.md §4.3. Each term after the first stores only the byte length it
// shares with its lexicographic predecessor plus the differing suffix,
// which is effective because the vocabulary is sorted.
package vocab

import (
	"github.com/sorexsearch/sorex/internal/varint"
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// Encode front-compresses a lexicographically sorted, deduplicated term
// list into its on-disk byte representation.
func Encode(terms []string) []byte {
	var buf []byte
	var prev string
	for _, term := range terms {
		shared := commonPrefixLen(prev, term)
		suffix := term[shared:]
		buf = varint.Encode(buf, uint64(shared))
		buf = varint.Encode(buf, uint64(len(suffix)))
		buf = append(buf, suffix...)
		prev = term
	}
	return buf
}

// Decode reconstructs the term list from its front-compressed encoding.
// The decoder reuses a single growable scratch buffer across all terms
// (pre-sized to the longest term seen so far) so reassembly does not
// allocate per term beyond the final string copy.
func Decode(buf []byte, termCount int) ([]string, error) {
	terms := make([]string, 0, termCount)
	scratch := make([]byte, 0, 64)

	off := 0
	for i := 0; i < termCount; i++ {
		shared, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n

		suffixLen, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n

		if shared > uint64(len(scratch)) {
			return nil, xerrors.New(xerrors.MalformedVocabulary,
				"shared prefix length exceeds predecessor term length")
		}
		if off+int(suffixLen) > len(buf) {
			return nil, xerrors.New(xerrors.Truncated, "vocabulary suffix runs past buffer end")
		}

		scratch = scratch[:shared]
		scratch = append(scratch, buf[off:off+int(suffixLen)]...)
		off += int(suffixLen)

		term := string(scratch)
		terms = append(terms, term)
	}
	return terms, nil
}

// commonPrefixLen returns the length, in bytes, of the longest common
// prefix of a and b.
func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
