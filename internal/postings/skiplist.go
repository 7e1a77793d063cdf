package postings

import (
	"github.com/sorexsearch/sorex/internal/varint"
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// Skip list tuning constants (spec.md §4.4).
const (
	SkipListThreshold = 1024 // minimum entry_count before a skip list is built
	SkipInterval      = 64   // level-0 spacing, doubling per level
	MaxSkipLevels     = 4
)

// skipEntry is one (doc_id, byte_offset) waypoint. byte_offset points at the
// start of the corresponding entry within the term's encoded posting bytes
// (i.e. relative to the first byte after the entry-count varint).
type skipEntry struct {
	docID      uint32
	byteOffset uint32
}

// SkipList is the decoded, queryable form of a term's skip list. It holds
// at most MaxSkipLevels levels (none when decoded from an empty buffer),
// sparsest first, each an ascending run of skipEntry.
type SkipList struct {
	levels [][]skipEntry
}

// BuildSkipList constructs the skip list for a posting list given the byte
// offset, within the encoded posting stream, at which each entry begins.
// offsets[i] must be the offset of entries[i]'s first byte, i.e. the start
// of its doc_id_delta varint.
// It returns nil when entries is too short to warrant one
// (spec.md §4.4: entry_count ≥ SkipListThreshold).
func BuildSkipList(entries []Posting, offsets []uint32) []byte {
	if len(entries) < SkipListThreshold {
		return nil
	}

	var levels [][]skipEntry
	interval := SkipInterval
	for level := 0; level < MaxSkipLevels; level++ {
		var lvl []skipEntry
		for i := 0; i < len(entries); i += interval {
			lvl = append(lvl, skipEntry{docID: entries[i].DocID, byteOffset: offsets[i]})
		}
		levels = append(levels, lvl)
		if interval >= len(entries) {
			break
		}
		interval *= 2
	}

	// Sparsest level first, so the seek operation descends from coarse to
	// fine.
	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}

	return encodeLevels(levels)
}

func encodeLevels(levels [][]skipEntry) []byte {
	buf := varint.Encode(nil, uint64(len(levels)))
	for _, lvl := range levels {
		buf = varint.Encode(buf, uint64(len(lvl)))
		var prevDoc, prevOff uint32
		for i, e := range lvl {
			if i == 0 {
				buf = varint.Encode(buf, uint64(e.docID))
				buf = varint.Encode(buf, uint64(e.byteOffset))
			} else {
				buf = varint.Encode(buf, uint64(e.docID-prevDoc))
				buf = varint.Encode(buf, uint64(e.byteOffset-prevOff))
			}
			prevDoc, prevOff = e.docID, e.byteOffset
		}
	}
	return buf
}

// DecodeSkipList parses a skip list previously produced by BuildSkipList.
// An empty buf decodes to an empty SkipList (no levels), which Seek treats
// as "no acceleration available".
func DecodeSkipList(buf []byte) (*SkipList, error) {
	if len(buf) == 0 {
		return &SkipList{}, nil
	}

	numLevels, n, err := varint.Decode(buf)
	if err != nil {
		return nil, err
	}
	off := n
	if numLevels > MaxSkipLevels {
		return nil, xerrors.New(xerrors.MalformedPostings, "skip list level count exceeds MaxSkipLevels")
	}

	levels := make([][]skipEntry, 0, numLevels)
	for l := uint64(0); l < numLevels; l++ {
		count, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n

		lvl := make([]skipEntry, 0, count)
		var prevDoc, prevOff uint32
		for i := uint64(0); i < count; i++ {
			docDelta, n, err := varint.Decode(buf[off:])
			if err != nil {
				return nil, err
			}
			off += n

			offDelta, n, err := varint.Decode(buf[off:])
			if err != nil {
				return nil, err
			}
			off += n

			var docID, byteOffset uint32
			if i == 0 {
				docID = uint32(docDelta)
				byteOffset = uint32(offDelta)
			} else {
				docID = prevDoc + uint32(docDelta)
				byteOffset = prevOff + uint32(offDelta)
			}
			lvl = append(lvl, skipEntry{docID: docID, byteOffset: byteOffset})
			prevDoc, prevOff = docID, byteOffset
		}
		levels = append(levels, lvl)
	}

	return &SkipList{levels: levels}, nil
}

// Seek returns the byte offset of the last waypoint with doc_id ≤ target,
// visiting the levels from sparsest to finest and binary-searching each
// level in full; the result comes from the finest level. ok is false when no entry
// qualifies (target is smaller than every doc_id in the list) or the skip
// list carries no levels.
func (s *SkipList) Seek(target uint32) (byteOffset uint32, ok bool) {
	if s == nil || len(s.levels) == 0 {
		return 0, false
	}

	found := false
	for _, lvl := range s.levels {
		idx := lastIndexLE(lvl, target, 0)
		if idx < 0 {
			// target precedes this level's first waypoint entirely; finer
			// levels won't find anything earlier either.
			if found {
				break
			}
			return 0, false
		}
		byteOffset = lvl[idx].byteOffset
		found = true
	}
	return byteOffset, found
}

// lastIndexLE returns the index of the last entry in lvl (starting the
// search no earlier than from) with docID ≤ target, or -1 if none qualify.
func lastIndexLE(lvl []skipEntry, target uint32, from int) int {
	lo, hi := from, len(lvl)-1
	best := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if lvl[mid].docID <= target {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}
