package sarray

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorexsearch/sorex/internal/xerrors"
)

// buildFor constructs the full, sorted suffix array over terms, exactly as
// a builder would, for use as test fixtures.
func buildFor(terms []string) []Entry {
	type suffix struct {
		s string
		e Entry
	}
	var all []suffix
	for ti, term := range terms {
		for off := 0; off <= len(term); off++ {
			all = append(all, suffix{s: term[off:], e: Entry{TermIdx: uint32(ti), Offset: uint32(off)}})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].s < all[j].s })

	entries := make([]Entry, len(all))
	for i, a := range all {
		entries[i] = a.e
	}
	return entries
}

func termLenFn(terms []string) func(uint32) int {
	return func(ti uint32) int { return len(terms[ti]) }
}

func TestEncodeDecode_Roundtrip(t *testing.T) {
	terms := []string{"apple", "apply", "banana"}
	entries := buildFor(terms)

	buf := Encode(entries)
	got, err := Decode(buf, uint32(len(terms)), termLenFn(terms))

	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestEncodeDecode_Empty(t *testing.T) {
	got, err := Decode(Encode(nil), 0, func(uint32) int { return 0 })
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecode_RejectsTermIdxOutOfBounds(t *testing.T) {
	entries := []Entry{{TermIdx: 5, Offset: 0}}
	buf := Encode(entries)

	_, err := Decode(buf, 2, func(uint32) int { return 10 })
	require.Error(t, err)
	kind, _ := xerrors.KindOf(err)
	assert.Equal(t, xerrors.MalformedSuffixArray, kind)
}

func TestDecode_RejectsOffsetBeyondTermLength(t *testing.T) {
	entries := []Entry{{TermIdx: 0, Offset: 99}}
	buf := Encode(entries)

	_, err := Decode(buf, 1, func(uint32) int { return 5 })
	require.Error(t, err)
	kind, _ := xerrors.KindOf(err)
	assert.Equal(t, xerrors.MalformedSuffixArray, kind)
}

func TestFindPrefix_ReturnsOriginatingTerms(t *testing.T) {
	terms := []string{"apple", "apply", "banana", "grape"}
	entries := buildFor(terms)

	got := FindPrefix(entries, terms, "app")
	assert.Equal(t, []uint32{0, 1}, got)
}

func TestFindPrefix_MatchesInternalSuffixes(t *testing.T) {
	terms := []string{"pineapple"}
	entries := buildFor(terms)

	// "apple" occurs as a suffix of "pineapple" starting at offset 4.
	got := FindPrefix(entries, terms, "apple")
	assert.Equal(t, []uint32{0}, got)
}

func TestFindPrefix_NoMatches(t *testing.T) {
	terms := []string{"apple", "banana"}
	entries := buildFor(terms)

	assert.Empty(t, FindPrefix(entries, terms, "zzz"))
}

func TestFindPrefix_EmptyPrefix(t *testing.T) {
	terms := []string{"apple"}
	entries := buildFor(terms)

	assert.Empty(t, FindPrefix(entries, terms, ""))
}
