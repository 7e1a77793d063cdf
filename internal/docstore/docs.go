package docstore

import (
	"unicode/utf8"

	"github.com/sorexsearch/sorex/internal/varint"
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// NoIndex marks an absent optional dictionary reference (no category, no
// author).
const NoIndex = -1

// Document is one entry of the DOCS section (spec.md §3: "Document"). It
// also carries SectionStart/SectionCount, which this implementation uses
// to resolve a posting's document-local section_idx against the single
// flat SECTION_TABLE: section_idx i of this document is
// SECTION_TABLE[SectionStart+i], valid for i < SectionCount.
type Document struct {
	DocID        uint32
	Href         string
	Title        string
	CategoryIdx  int32 // index into Tables.Categories, or NoIndex
	AuthorIdx    int32 // index into Tables.Authors, or NoIndex
	TagIdxs      []uint32
	SectionStart uint32
	SectionCount uint32
}

// EncodeDocs serializes the DOCS section. docs must be ordered by DocID,
// dense and 0-based (spec.md §3).
func EncodeDocs(docs []Document) []byte {
	buf := varint.Encode(nil, uint64(len(docs)))
	for _, d := range docs {
		buf = varint.Encode(buf, uint64(len(d.Href)))
		buf = append(buf, d.Href...)
		buf = varint.Encode(buf, uint64(len(d.Title)))
		buf = append(buf, d.Title...)
		buf = varint.Encode(buf, uint64(d.CategoryIdx+1))
		buf = varint.Encode(buf, uint64(d.AuthorIdx+1))
		buf = varint.Encode(buf, uint64(len(d.TagIdxs)))
		for _, tagIdx := range d.TagIdxs {
			buf = varint.Encode(buf, uint64(tagIdx))
		}
		buf = varint.Encode(buf, uint64(d.SectionStart))
		buf = varint.Encode(buf, uint64(d.SectionCount))
	}
	return buf
}

// DecodeDocs parses the DOCS section, validating every document against
// the dictionary sizes it may reference (spec.md §4.7 requires the loader
// to reject any out-of-range reference before the layer is considered
// valid).
func DecodeDocs(buf []byte, tables Tables) ([]Document, error) {
	count, n, err := varint.Decode(buf)
	if err != nil {
		return nil, err
	}
	off := n

	docs := make([]Document, 0, count)
	for i := uint64(0); i < count; i++ {
		href, consumed, err := readString(buf[off:])
		if err != nil {
			return nil, err
		}
		off += consumed
		if href == "" {
			return nil, xerrors.New(xerrors.MalformedDocs, "document href must be non-empty")
		}

		title, consumed, err := readString(buf[off:])
		if err != nil {
			return nil, err
		}
		off += consumed

		rawCategory, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n
		categoryIdx := int32(rawCategory) - 1
		if categoryIdx != NoIndex && int(categoryIdx) >= len(tables.Categories) {
			return nil, xerrors.New(xerrors.MalformedDocs, "category index out of dictionary bounds")
		}

		rawAuthor, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n
		authorIdx := int32(rawAuthor) - 1
		if authorIdx != NoIndex && int(authorIdx) >= len(tables.Authors) {
			return nil, xerrors.New(xerrors.MalformedDocs, "author index out of dictionary bounds")
		}

		tagCount, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n

		tagIdxs := make([]uint32, 0, tagCount)
		for j := uint64(0); j < tagCount; j++ {
			tagIdx, n, err := varint.Decode(buf[off:])
			if err != nil {
				return nil, err
			}
			off += n
			if int(tagIdx) >= len(tables.Tags) {
				return nil, xerrors.New(xerrors.MalformedDocs, "tag index out of dictionary bounds")
			}
			tagIdxs = append(tagIdxs, uint32(tagIdx))
		}

		sectionStart, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n

		sectionCount, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n

		docs = append(docs, Document{
			DocID:        uint32(i),
			Href:         href,
			Title:        title,
			CategoryIdx:  categoryIdx,
			AuthorIdx:    authorIdx,
			TagIdxs:      tagIdxs,
			SectionStart: uint32(sectionStart),
			SectionCount: uint32(sectionCount),
		})
	}
	return docs, nil
}

// readString decodes a varint length prefix followed by that many raw
// bytes, validated as UTF-8, returning the string and bytes consumed.
func readString(buf []byte) (string, int, error) {
	length, n, err := varint.Decode(buf)
	if err != nil {
		return "", 0, err
	}
	off := n
	if off+int(length) > len(buf) {
		return "", 0, xerrors.New(xerrors.Truncated, "string field runs past buffer end")
	}
	raw := buf[off : off+int(length)]
	if !utf8.Valid(raw) {
		return "", 0, xerrors.New(xerrors.MalformedDocs, "document field is not valid UTF-8")
	}
	return string(raw), off + int(length), nil
}
