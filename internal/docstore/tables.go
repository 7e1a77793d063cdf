package docstore

// Tables holds the three shared dictionaries the DICT_TABLES section packs
// back to back: categories, authors, and tags. Each is independently
// sorted and deduplicated; documents reference entries by index rather
// than repeating the strings (spec.md §3: "Stored via dict-table
// compression").
type Tables struct {
	Categories []string
	Authors    []string
	Tags       []string
}

// EncodeTables serializes all three dictionaries in a fixed order.
func EncodeTables(t Tables) []byte {
	buf := encodeDict(t.Categories)
	buf = append(buf, encodeDict(t.Authors)...)
	buf = append(buf, encodeDict(t.Tags)...)
	return buf
}

// DecodeTables parses the DICT_TABLES section.
func DecodeTables(buf []byte) (Tables, error) {
	categories, n, err := decodeDict(buf)
	if err != nil {
		return Tables{}, err
	}
	off := n

	authors, n, err := decodeDict(buf[off:])
	if err != nil {
		return Tables{}, err
	}
	off += n

	tags, _, err := decodeDict(buf[off:])
	if err != nil {
		return Tables{}, err
	}

	return Tables{Categories: categories, Authors: authors, Tags: tags}, nil
}
