// Package loader assembles a raw .sorex byte buffer into a LoadedLayer: a
// fully validated, read-only view over every section, built once per
// process and never mutated afterward (spec.md §3: "Lifecycle", §4.7:
// "Loaded layer").
package loader

import (
	"github.com/sorexsearch/sorex/internal/binfmt"
	"github.com/sorexsearch/sorex/internal/docstore"
	"github.com/sorexsearch/sorex/internal/fuzzy"
	"github.com/sorexsearch/sorex/internal/postings"
	"github.com/sorexsearch/sorex/internal/sarray"
	"github.com/sorexsearch/sorex/internal/sections"
	"github.com/sorexsearch/sorex/internal/varint"
	"github.com/sorexsearch/sorex/internal/vocab"
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// LoadedLayer holds validated, typed views over every section of a .sorex
// buffer. Every doc_id referenced by a posting is in range, every suffix
// array entry addresses a valid byte within its term, and every section ID
// and document string is valid UTF-8 — the guarantees spec.md §4.7
// requires of a layer that reached Ready.
type LoadedLayer struct {
	State State

	Header  *binfmt.Header
	Offsets binfmt.SectionOffsets

	Wasm       []byte
	Vocabulary []string
	Tables     docstore.Tables
	Docs       []docstore.Document
	SectionIDs []string
	Postings   map[uint32][]postings.Posting
	// SkipLists accelerates seeking within a term's *encoded* posting
	// bytes; Postings above is already fully decoded into per-doc slices
	// at load time, so query-time candidate lookup has no raw byte stream
	// left to seek into (see DESIGN.md). Decoded and validated here so a
	// future lazy-decode path can adopt it without a format change.
	SkipLists   map[uint32]*postings.SkipList
	SuffixArray []sarray.Entry
	DFA         *fuzzy.DFA
}

// FromBytes validates and decodes buf into a Ready LoadedLayer, or returns
// the first *xerrors.InvalidIndex encountered (spec.md §4.7: "Failure at
// any step -> InvalidIndex(reason)").
func FromBytes(buf []byte) (*LoadedLayer, error) {
	l := &LoadedLayer{State: New}

	header, err := binfmt.DecodeHeader(buf)
	if err != nil {
		l.State = Failed
		return nil, err
	}
	l.Header = header
	l.State = HeaderOk

	if _, err := binfmt.VerifyFooter(buf); err != nil {
		l.State = Failed
		return nil, err
	}
	l.State = FooterOk

	offsets := header.Derive()
	total := offsets.End() + binfmt.FooterSize
	if int(total) != len(buf) {
		l.State = Failed
		return nil, xerrors.New(xerrors.MalformedHeader, "derived section offsets do not cover the full buffer")
	}
	for i := 0; i < len(offsets.Offset); i++ {
		if uint64(offsets.Offset[i])+uint64(offsets.Length[i]) > uint64(len(buf)) {
			l.State = Failed
			return nil, xerrors.New(xerrors.MalformedHeader, "section runs past buffer end")
		}
	}
	l.Offsets = offsets
	l.State = OffsetsOk

	if err := l.decodeSections(buf); err != nil {
		l.State = Failed
		return nil, err
	}
	l.State = SectionsOk
	l.State = Ready
	return l, nil
}

func (l *LoadedLayer) section(buf []byte, s binfmt.Section) []byte {
	start := l.Offsets.Offset[s]
	end := start + l.Offsets.Length[s]
	return buf[start:end]
}

func (l *LoadedLayer) decodeSections(buf []byte) error {
	l.Wasm = l.section(buf, binfmt.SectionWasm)

	vocabulary, err := vocab.Decode(l.section(buf, binfmt.SectionVocabulary), int(l.Header.TermCount))
	if err != nil {
		return err
	}
	l.Vocabulary = vocabulary

	tables, err := docstore.DecodeTables(l.section(buf, binfmt.SectionDictTables))
	if err != nil {
		return err
	}
	l.Tables = tables

	docs, err := docstore.DecodeDocs(l.section(buf, binfmt.SectionDocs), tables)
	if err != nil {
		return err
	}
	if uint32(len(docs)) != l.Header.DocCount {
		return xerrors.New(xerrors.MalformedDocs, "decoded document count does not match header doc_count")
	}
	l.Docs = docs

	sectionIDs, err := sections.Decode(l.section(buf, binfmt.SectionSectionTable))
	if err != nil {
		return err
	}
	for _, d := range docs {
		if uint64(d.SectionStart)+uint64(d.SectionCount) > uint64(len(sectionIDs)) {
			return xerrors.New(xerrors.MalformedDocs, "document section range exceeds section table bounds")
		}
	}
	l.SectionIDs = sectionIDs

	sectionsOf := func(docID uint32) uint32 {
		if docID >= uint32(len(docs)) {
			return 0
		}
		return docs[docID].SectionCount
	}
	termPostings, err := decodePostingsSection(l.section(buf, binfmt.SectionPostings), l.Header.TermCount, l.Header.DocCount, sectionsOf)
	if err != nil {
		return err
	}
	l.Postings = termPostings

	skipLists, err := decodeSkipListsSection(l.section(buf, binfmt.SectionSkipLists), l.Header.TermCount)
	if err != nil {
		return err
	}
	l.SkipLists = skipLists

	termLen := func(termIdx uint32) int { return len(vocabulary[termIdx]) }
	suffixArray, err := sarray.Decode(l.section(buf, binfmt.SectionSuffixArray), l.Header.TermCount, termLen)
	if err != nil {
		return err
	}
	l.SuffixArray = suffixArray

	dfa, err := fuzzy.Load(l.section(buf, binfmt.SectionLevDFA))
	if err != nil {
		return err
	}
	l.DFA = dfa

	return nil
}

// decodePostingsSection decodes the concatenated, per-term posting lists
// (spec.md §4.4), one after another in vocabulary order.
func decodePostingsSection(buf []byte, termCount, docCount uint32, sectionsOf postings.SectionCounter) (map[uint32][]postings.Posting, error) {
	result := make(map[uint32][]postings.Posting, termCount)
	off := 0
	for t := uint32(0); t < termCount; t++ {
		entries, consumed, err := postings.Decode(buf[off:], docCount, sectionsOf)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			result[t] = entries
		}
		off += consumed
	}
	return result, nil
}

// decodeSkipListsSection decodes the sparse SKIP_LISTS section: a varint
// count of included skip lists, then for each, the owning term index, a
// byte length, and the skip list bytes (spec.md §4.4 defines the skip
// list's own internal shape; this directory format is this implementation's
// own bookkeeping for locating each term's skip list within the section).
func decodeSkipListsSection(buf []byte, termCount uint32) (map[uint32]*postings.SkipList, error) {
	if len(buf) == 0 {
		return map[uint32]*postings.SkipList{}, nil
	}

	count, n, err := varint.Decode(buf)
	if err != nil {
		return nil, err
	}
	off := n

	result := make(map[uint32]*postings.SkipList, count)
	for i := uint64(0); i < count; i++ {
		termIdx, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n
		if uint32(termIdx) >= termCount {
			return nil, xerrors.New(xerrors.MalformedPostings, "skip list directory term_idx out of bounds")
		}

		byteLen, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n
		if off+int(byteLen) > len(buf) {
			return nil, xerrors.New(xerrors.Truncated, "skip list entry runs past buffer end")
		}

		sl, err := postings.DecodeSkipList(buf[off : off+int(byteLen)])
		if err != nil {
			return nil, err
		}
		off += int(byteLen)

		result[uint32(termIdx)] = sl
	}
	return result, nil
}
