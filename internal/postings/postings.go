// Package postings implements the per-term delta-encoded posting list codec
// (spec.md §4.4) plus the multi-level skip list used to seek within long
// lists (spec.md §3, §4.4). A posting list belongs to exactly one
// vocabulary term; lists are stored back to back in vocabulary order, each
// self-delimited by a leading varint entry count.
package postings

import (
	"math"

	"github.com/sorexsearch/sorex/internal/varint"
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// Posting is a single (doc_id, field_type, section_idx, score) occurrence
// record.
type Posting struct {
	DocID      uint32
	Field      FieldType
	SectionIdx uint32
	Score      float64
}

// SectionCounter reports how many sections a document owns, so the decoder
// can reject a section_idx that doesn't belong to its document.
type SectionCounter func(docID uint32) uint32

// Encode serializes a single term's posting list, already sorted ascending
// by DocID, into its delta-encoded byte form.
func Encode(entries []Posting) []byte {
	buf := varint.Encode(nil, uint64(len(entries)))

	var prevDoc, prevSection uint32
	for i, p := range entries {
		var docDelta, secDelta uint32
		if i == 0 {
			docDelta = p.DocID
			secDelta = p.SectionIdx
		} else {
			docDelta = p.DocID - prevDoc
			secDelta = p.SectionIdx - prevSection
		}
		buf = varint.Encode(buf, uint64(docDelta))
		buf = append(buf, byte(p.Field))
		buf = varint.Encode(buf, uint64(secDelta))
		buf = varint.Encode(buf, math.Float64bits(p.Score))

		prevDoc = p.DocID
		prevSection = p.SectionIdx
	}
	return buf
}

// EncodeWithOffsets behaves like Encode but additionally returns, for each
// entry, the byte offset (relative to the start of the per-entry tuples,
// i.e. excluding the leading entry-count varint) at which that entry's
// doc_id_delta begins. Builders use these offsets to build the entry's
// skip list (see BuildSkipList).
func EncodeWithOffsets(entries []Posting) (buf []byte, offsets []uint32) {
	countPrefix := varint.Encode(nil, uint64(len(entries)))
	body := Encode(entries)[len(countPrefix):]

	offsets = make([]uint32, len(entries))
	var prevDoc, prevSection uint32
	off := 0
	for i, p := range entries {
		offsets[i] = uint32(off)

		var docDelta, secDelta uint32
		if i == 0 {
			docDelta = p.DocID
			secDelta = p.SectionIdx
		} else {
			docDelta = p.DocID - prevDoc
			secDelta = p.SectionIdx - prevSection
		}
		off += varint.AppendedLen(uint64(docDelta))
		off++ // field type byte
		off += varint.AppendedLen(uint64(secDelta))
		off += varint.AppendedLen(math.Float64bits(p.Score))

		prevDoc, prevSection = p.DocID, p.SectionIdx
	}

	return append(countPrefix, body...), offsets
}

// Decode parses one term's posting list starting at the front of buf. It
// returns the decoded entries and the number of bytes consumed, so the
// caller can advance to the next term's list.
//
// docCount bounds DocID; sectionsOf reports the section count owned by a
// given document, bounding SectionIdx (NoSection is always accepted,
// representing a title posting with no section).
func Decode(buf []byte, docCount uint32, sectionsOf SectionCounter) (entries []Posting, consumed int, err error) {
	count, n, err := varint.Decode(buf)
	if err != nil {
		return nil, 0, err
	}
	off := n

	entries = make([]Posting, 0, count)
	var prevDoc, prevSection uint32

	for i := uint64(0); i < count; i++ {
		docDelta, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n

		if off >= len(buf) {
			return nil, 0, xerrors.New(xerrors.Truncated, "posting entry truncated before field byte")
		}
		field := FieldType(buf[off])
		off++
		if !field.Valid() {
			return nil, 0, xerrors.New(xerrors.MalformedPostings, "unknown field type byte")
		}

		secDelta, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n

		scoreBits, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n

		var docID, sectionIdx uint32
		if i == 0 {
			docID = uint32(docDelta)
			sectionIdx = uint32(secDelta)
		} else {
			docID = prevDoc + uint32(docDelta)
			sectionIdx = prevSection + uint32(secDelta)
		}

		if docID >= docCount {
			return nil, 0, xerrors.New(xerrors.MalformedPostings, "doc_id delta exceeds doc_count")
		}
		if sectionIdx != NoSection && sectionsOf != nil {
			if sectionIdx >= sectionsOf(docID) {
				return nil, 0, xerrors.New(xerrors.MalformedPostings, "section_idx exceeds document's section count")
			}
		}

		entries = append(entries, Posting{
			DocID:      docID,
			Field:      field,
			SectionIdx: sectionIdx,
			Score:      math.Float64frombits(scoreBits),
		})

		prevDoc, prevSection = docID, sectionIdx
	}

	return entries, off, nil
}
