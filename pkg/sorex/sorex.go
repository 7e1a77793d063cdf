// Package sorex is the public facade of the embeddable search engine: load
// a .sorex buffer, build a searcher over it, and run queries. Everything
// under internal/ is an implementation detail; this package is the only
// supported integration surface (spec.md §6: "Engine API").
package sorex

import (
	"github.com/sorexsearch/sorex/internal/loader"
	"github.com/sorexsearch/sorex/internal/tiered"
)

// MatchType identifies where in a document a result matched. Smaller
// values rank higher, regardless of score: Title always outranks Content.
type MatchType = tiered.MatchType

const (
	MatchTitle         = tiered.MatchTitle
	MatchSection       = tiered.MatchSection
	MatchSubsection    = tiered.MatchSubsection
	MatchSubsubsection = tiered.MatchSubsubsection
	MatchContent       = tiered.MatchContent
)

// Tier identifies which stage of the search pipeline produced a result.
type Tier = tiered.Tier

const (
	TierExact  = tiered.TierExact
	TierPrefix = tiered.TierPrefix
	TierFuzzy  = tiered.TierFuzzy
)

// NoSection marks a SearchResult that has no owning section (a title-level
// match).
const NoSection = tiered.NoSectionIdx

// SearchResult is one ranked hit.
type SearchResult = tiered.SearchResult

// Document is the metadata of one indexed document.
type Document = tiered.DocumentMeta

// LoadedLayer is a validated, read-only view over a .sorex buffer's
// sections. Construct one with FromBytes; it holds no mutable state and is
// safe to share across concurrent readers (spec.md §5).
type LoadedLayer struct {
	inner *loader.LoadedLayer
}

// FromBytes validates and loads a .sorex buffer (spec.md §6:
// "LoadedLayer::from_bytes"). The only error it can return is
// *InvalidIndex; a successful return is guaranteed queryable.
func FromBytes(buf []byte) (*LoadedLayer, error) {
	inner, err := loader.FromBytes(buf)
	if err != nil {
		return nil, err
	}
	return &LoadedLayer{inner: inner}, nil
}

// SectionIDs returns the flat section-ID table the layer's postings and
// documents reference by index.
func (l *LoadedLayer) SectionIDs() []string {
	return l.inner.SectionIDs
}

// TermCount reports the vocabulary size.
func (l *LoadedLayer) TermCount() int {
	return len(l.inner.Vocabulary)
}

// DocCount reports the document count.
func (l *LoadedLayer) DocCount() int {
	return len(l.inner.Docs)
}

// VocabularySample returns up to n vocabulary terms, for introspection
// tooling (e.g. `sorex info`). Terms are returned in on-disk order.
func (l *LoadedLayer) VocabularySample(n int) []string {
	if n > len(l.inner.Vocabulary) {
		n = len(l.inner.Vocabulary)
	}
	out := make([]string, n)
	copy(out, l.inner.Vocabulary[:n])
	return out
}

// TierSearcher runs queries against a LoadedLayer (spec.md §6:
// "TierSearcher"). Construction derives lookup tables once; Search and its
// per-tier variants never mutate the searcher or its layer.
type TierSearcher struct {
	inner *tiered.TierSearcher
}

// FromLayer builds a TierSearcher over layer.
func FromLayer(layer *LoadedLayer) (*TierSearcher, error) {
	inner, err := tiered.FromLayer(layer.inner)
	if err != nil {
		return nil, err
	}
	return &TierSearcher{inner: inner}, nil
}

// Search runs the full three-tier pipeline: exact, then prefix excluding
// exact's documents, then fuzzy excluding both, with the pooled results
// from all three tiers re-sorted together by the same bucketed ordering
// each tier uses on its own: MatchType ascending, score descending, doc_id
// ascending (spec.md §4.11). Tier is never itself a tie-break key, so a
// later tier can still out-rank an earlier one for a different document.
// An empty or whitespace-only query, or limit ≤ 0, returns an empty result
// without doing any work.
func (s *TierSearcher) Search(query string, limit int) []SearchResult {
	return s.inner.Search(query, limit)
}

// SearchTier1Exact runs only the exact-match tier.
func (s *TierSearcher) SearchTier1Exact(query string, limit int) []SearchResult {
	return s.inner.SearchTier1Exact(query, limit)
}

// SearchTier2Prefix runs only the prefix-match tier, excluding any doc_id
// in exclude.
func (s *TierSearcher) SearchTier2Prefix(query string, exclude map[uint32]struct{}, limit int) []SearchResult {
	return s.inner.SearchTier2Prefix(query, exclude, limit)
}

// SearchTier3Fuzzy runs only the fuzzy-match tier, excluding any doc_id in
// exclude.
func (s *TierSearcher) SearchTier3Fuzzy(query string, exclude map[uint32]struct{}, limit int) []SearchResult {
	return s.inner.SearchTier3Fuzzy(query, exclude, limit)
}

// Docs returns the metadata of every indexed document, ordered by doc_id.
func (s *TierSearcher) Docs() []Document {
	return s.inner.Docs()
}
