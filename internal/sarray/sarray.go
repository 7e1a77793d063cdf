// Package sarray implements the two-stream suffix array codec over the
// concatenated vocabulary (spec.md §4.5), used by suffix search to resolve
// a query prefix to the set of vocabulary terms it occurs within.
package sarray

import (
	"github.com/sorexsearch/sorex/internal/binfmt"
	"github.com/sorexsearch/sorex/internal/varint"
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// Entry is a single suffix array position: the suffix starting at byte
// offset Offset within vocabulary term TermIdx.
type Entry struct {
	TermIdx uint32
	Offset  uint32
}

// Encode serializes entries, already sorted by the strings they denote
// (spec.md §3), into the two-stream delta-varint form: stream A carries
// term indices, stream B carries byte offsets, each independently
// delta-encoded from its own predecessor. Separating the streams groups
// similar values together, which compresses better under brotli than an
// interleaved layout.
func Encode(entries []Entry) []byte {
	buf := varint.Encode(nil, uint64(len(entries)))

	var prevTerm uint32
	for i, e := range entries {
		if i == 0 {
			buf = varint.Encode(buf, uint64(e.TermIdx))
		} else {
			buf = varint.Encode(buf, uint64(e.TermIdx-prevTerm))
		}
		prevTerm = e.TermIdx
	}

	var prevOffset uint32
	for i, e := range entries {
		if i == 0 {
			buf = varint.Encode(buf, uint64(e.Offset))
		} else {
			buf = varint.Encode(buf, uint64(e.Offset-prevOffset))
		}
		prevOffset = e.Offset
	}

	return buf
}

// Decode parses the suffix array, bounding every TermIdx against vocabSize
// and every Offset against the length of the term it names (via termLen).
// Per the Open Question resolution recorded in SPEC_FULL.md, sortedness of
// the decoded sequence is NOT re-verified at load time for a trusted index
// buffer — only bounds are enforced, as spec.md §4.5 permits.
func Decode(buf []byte, vocabSize uint32, termLen func(termIdx uint32) int) ([]Entry, error) {
	count, n, err := varint.Decode(buf)
	if err != nil {
		return nil, err
	}
	if count > binfmt.MaxTermCount {
		return nil, xerrors.New(xerrors.MalformedSuffixArray, "entry count exceeds MaxTermCount")
	}
	off := n

	entries := make([]Entry, count)

	var prevTerm uint32
	for i := uint64(0); i < count; i++ {
		delta, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n

		var termIdx uint32
		if i == 0 {
			termIdx = uint32(delta)
		} else {
			termIdx = prevTerm + uint32(delta)
		}
		if termIdx >= vocabSize {
			return nil, xerrors.New(xerrors.MalformedSuffixArray, "term_idx out of vocabulary bounds")
		}
		entries[i].TermIdx = termIdx
		prevTerm = termIdx
	}

	var prevOffset uint32
	for i := uint64(0); i < count; i++ {
		delta, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n

		var offset uint32
		if i == 0 {
			offset = uint32(delta)
		} else {
			offset = prevOffset + uint32(delta)
		}
		if int(offset) > termLen(entries[i].TermIdx) {
			return nil, xerrors.New(xerrors.MalformedSuffixArray, "offset exceeds owning term's length")
		}
		entries[i].Offset = offset
		prevOffset = offset
	}

	return entries, nil
}
