package sections

import (
	"sort"

	"github.com/sorexsearch/sorex/internal/xerrors"
)

// Range is one document's section range: a contiguous, half-open byte span
// [Start, End) tagged with a heading Level (spec.md §3: "Section"). Level
// mirrors HTML heading depth, 1 through 6.
type Range struct {
	ID    string
	Start uint32
	End   uint32
	Level uint8
}

// Validate checks the non-overlap invariant (spec.md §4.14) for one
// document's sections against its total length docLen: every section has
// Start < End ≤ docLen, 1 ≤ Level ≤ 6, sections are sorted by Start, and no
// two sections overlap.
func Validate(ranges []Range, docLen uint32) error {
	for i, r := range ranges {
		if r.Start >= r.End {
			return xerrors.New(xerrors.MalformedSectionTable, "section start is not less than its end")
		}
		if r.End > docLen {
			return xerrors.New(xerrors.MalformedSectionTable, "section end exceeds document length")
		}
		if r.Level < 1 || r.Level > 6 {
			return xerrors.New(xerrors.MalformedSectionTable, "section level out of range [1,6]")
		}
		if i > 0 && ranges[i-1].Start > r.Start {
			return xerrors.New(xerrors.MalformedSectionTable, "sections are not sorted by start offset")
		}
		if i > 0 && r.Start < ranges[i-1].End {
			return xerrors.New(xerrors.MalformedSectionTable, "sections overlap")
		}
	}
	return nil
}

// FindSectionAtOffset returns the index of the unique section in ranges
// (sorted ascending by Start, already validated by Validate) covering the
// given byte offset, or ok=false when no section covers it.
func FindSectionAtOffset(ranges []Range, offset uint32) (idx int, ok bool) {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].End > offset })
	if i == len(ranges) || ranges[i].Start > offset {
		return 0, false
	}
	return i, true
}
