// Package sections implements the flat section-table codec (spec.md §4.6):
// a length-prefixed list of section ID strings, referenced from postings by
// index and sliced per document via SectionStart/SectionCount.
package sections

import (
	"unicode/utf8"

	"github.com/sorexsearch/sorex/internal/varint"
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// Encode serializes the flat section ID table. IDs may repeat across
// documents in content but are addressed positionally; the empty string is
// only meaningful when referenced by a sentinel posting (a title with no
// section).
func Encode(ids []string) []byte {
	buf := varint.Encode(nil, uint64(len(ids)))
	for _, id := range ids {
		buf = varint.Encode(buf, uint64(len(id)))
		buf = append(buf, id...)
	}
	return buf
}

// Decode parses the section table, rejecting any entry that is not valid
// UTF-8 (spec.md §4.6: "Valid UTF-8 is mandatory").
func Decode(buf []byte) ([]string, error) {
	count, n, err := varint.Decode(buf)
	if err != nil {
		return nil, err
	}
	off := n

	ids := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		length, n, err := varint.Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n

		if off+int(length) > len(buf) {
			return nil, xerrors.New(xerrors.MalformedSectionTable, "section id runs past buffer end")
		}
		raw := buf[off : off+int(length)]
		off += int(length)

		if !utf8.Valid(raw) {
			return nil, xerrors.New(xerrors.MalformedSectionTable, "section id is not valid UTF-8")
		}
		ids = append(ids, string(raw))
	}
	return ids, nil
}
