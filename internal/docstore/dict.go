// Package docstore implements the dict-table and docs codecs (spec.md
// §4: component O, "Dict-table + docs codec"): document metadata (title,
// href, author, category, tags) is dictionary-compressed, since category
// and author values in particular repeat heavily across a collection.
package docstore

import (
	"github.com/sorexsearch/sorex/internal/varint"
	"github.com/sorexsearch/sorex/internal/vocab"
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// encodeDict serializes a single shared string dictionary, self-delimited
// by a leading entry count and byte length so several dictionaries can be
// packed back to back in one section. values must already be
// lexicographically sorted and deduplicated by the builder; the payload
// reuses the vocabulary front-compression codec (spec.md §4.3), since
// dictionary values share the same "sorted, mostly similar strings" shape
// vocabulary terms do.
func encodeDict(values []string) []byte {
	payload := vocab.Encode(values)
	buf := varint.Encode(nil, uint64(len(values)))
	buf = varint.Encode(buf, uint64(len(payload)))
	return append(buf, payload...)
}

// decodeDict parses one dictionary from the front of buf, returning the
// values and the number of bytes consumed.
func decodeDict(buf []byte) (values []string, consumed int, err error) {
	count, n, err := varint.Decode(buf)
	if err != nil {
		return nil, 0, err
	}
	off := n

	byteLen, n, err := varint.Decode(buf[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n

	if off+int(byteLen) > len(buf) {
		return nil, 0, xerrors.New(xerrors.Truncated, "dictionary payload runs past buffer end")
	}
	values, err = vocab.Decode(buf[off:off+int(byteLen)], int(count))
	if err != nil {
		return nil, 0, err
	}
	off += int(byteLen)

	return values, off, nil
}
