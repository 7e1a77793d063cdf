package postings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorexsearch/sorex/internal/xerrors"
)

func fixedSections(n uint32) SectionCounter {
	return func(uint32) uint32 { return n }
}

func TestEncodeDecode_Roundtrip(t *testing.T) {
	entries := []Posting{
		{DocID: 2, Field: FieldTitle, SectionIdx: NoSection, Score: 1000},
		{DocID: 5, Field: FieldHeading, SectionIdx: 1, Score: 100},
		{DocID: 5, Field: FieldContent, SectionIdx: 3, Score: 1},
		{DocID: 9, Field: FieldContent, SectionIdx: 0, Score: 1},
	}

	buf := Encode(entries)
	got, consumed, err := Decode(buf, 10, fixedSections(5))

	require.NoError(t, err)
	assert.Equal(t, entries, got)
	assert.Equal(t, len(buf), consumed)
}

func TestEncodeDecode_EmptyList(t *testing.T) {
	got, consumed, err := Decode(Encode(nil), 10, fixedSections(5))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, consumed) // varint(0) is one byte
}

func TestDecode_RejectsDocIDBeyondDocCount(t *testing.T) {
	entries := []Posting{{DocID: 9, Field: FieldContent, SectionIdx: 0, Score: 1}}
	buf := Encode(entries)

	_, _, err := Decode(buf, 5, fixedSections(5)) // docCount=5, but DocID=9
	require.Error(t, err)
	kind, _ := xerrors.KindOf(err)
	assert.Equal(t, xerrors.MalformedPostings, kind)
}

func TestDecode_RejectsSectionIdxBeyondDocSections(t *testing.T) {
	entries := []Posting{{DocID: 1, Field: FieldContent, SectionIdx: 10, Score: 1}}
	buf := Encode(entries)

	_, _, err := Decode(buf, 5, fixedSections(2)) // doc has only 2 sections
	require.Error(t, err)
	kind, _ := xerrors.KindOf(err)
	assert.Equal(t, xerrors.MalformedPostings, kind)
}

func TestDecode_TitleSentinelAlwaysAccepted(t *testing.T) {
	entries := []Posting{{DocID: 1, Field: FieldTitle, SectionIdx: NoSection, Score: 1000}}
	buf := Encode(entries)

	got, _, err := Decode(buf, 5, fixedSections(0))
	require.NoError(t, err)
	assert.Equal(t, NoSection, got[0].SectionIdx)
}

func TestDecode_MultipleListsBackToBack(t *testing.T) {
	list1 := []Posting{{DocID: 1, Field: FieldTitle, SectionIdx: NoSection, Score: 1000}}
	list2 := []Posting{{DocID: 2, Field: FieldContent, SectionIdx: 0, Score: 1}, {DocID: 4, Field: FieldContent, SectionIdx: 1, Score: 1}}

	buf := append(Encode(list1), Encode(list2)...)

	got1, n1, err := Decode(buf, 10, fixedSections(5))
	require.NoError(t, err)
	assert.Equal(t, list1, got1)

	got2, n2, err := Decode(buf[n1:], 10, fixedSections(5))
	require.NoError(t, err)
	assert.Equal(t, list2, got2)
	assert.Equal(t, len(buf), n1+n2)
}

func TestDecode_UnknownFieldTypeByte(t *testing.T) {
	buf := Encode([]Posting{{DocID: 0, Field: FieldTitle, SectionIdx: NoSection, Score: 1}})
	// Corrupt the field-type byte (first byte after the entry-count and
	// doc-id-delta varints, both of which are 1 byte for these small values).
	buf[2] = 0xFF

	_, _, err := Decode(buf, 5, fixedSections(0))
	require.Error(t, err)
	kind, _ := xerrors.KindOf(err)
	assert.Equal(t, xerrors.MalformedPostings, kind)
}
