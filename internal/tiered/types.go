// Package tiered implements the three-tier search pipeline (spec.md
// §4.11: exact, prefix, fuzzy), the AND accumulator/merger (§4.12), and
// the scoring rules that drive bucketed ranking (§4.13).
package tiered

import "github.com/sorexsearch/sorex/internal/postings"

// MatchType mirrors FieldType at query time (spec.md §3): smaller value is
// a higher-ranked bucket, Title beating Content regardless of score.
type MatchType uint8

const (
	MatchTitle MatchType = iota
	MatchSection
	MatchSubsection
	MatchSubsubsection
	MatchContent
)

// matchTypeFromField maps a posting's FieldType to the query-time
// MatchType vocabulary; the two enumerations share an ordinal layout by
// construction.
func matchTypeFromField(f postings.FieldType) MatchType {
	return MatchType(f)
}

// NoSectionIdx mirrors postings.NoSection: a result with no section
// (a title-level match outside any section).
const NoSectionIdx = postings.NoSection

// Tier identifies which stage of the pipeline produced a SearchResult.
type Tier uint8

const (
	TierExact Tier = 1
	TierPrefix Tier = 2
	TierFuzzy Tier = 3
)

// SearchResult is one ranked hit (spec.md §6: "SearchResult").
// MatchedTerm is the vocabulary index of the term that produced it, never
// the raw query string.
type SearchResult struct {
	DocID       uint32
	Score       float64
	Tier        Tier
	MatchType   MatchType
	SectionIdx  uint32 // NoSectionIdx when the match has no section
	MatchedTerm uint32
}
