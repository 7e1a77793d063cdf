package tiered

import (
	"sort"
	"strings"

	"github.com/sorexsearch/sorex/internal/fuzzy"
	"github.com/sorexsearch/sorex/internal/loader"
	"github.com/sorexsearch/sorex/internal/normalize"
	"github.com/sorexsearch/sorex/internal/sarray"
)

// MaxQueryBytes caps query length (spec.md §5: "query length cap
// (implementation chooses, e.g., 200 bytes)"). Queries longer than this are
// truncated before normalization, not rejected — a host surfaces this as a
// UX concern, not an engine error (spec.md §5 places no error path on
// query-time code).
const MaxQueryBytes = 200

// TierSearcher holds a LoadedLayer plus the term -> vocabulary-index
// lookup table it builds once at construction (spec.md §3: "the
// TierSearcher holds a LoadedLayer and adds derived lookup structures").
type TierSearcher struct {
	layer     *loader.LoadedLayer
	termIndex map[string]uint32
}

// FromLayer builds a TierSearcher over an already-validated layer.
func FromLayer(layer *loader.LoadedLayer) (*TierSearcher, error) {
	idx := make(map[string]uint32, len(layer.Vocabulary))
	for i, term := range layer.Vocabulary {
		idx[term] = uint32(i)
	}
	return &TierSearcher{layer: layer, termIndex: idx}, nil
}

// Docs exposes the layer's document metadata (spec.md §6: "docs() -> &[DocumentMeta]").
func (s *TierSearcher) Docs() []DocumentMeta {
	out := make([]DocumentMeta, len(s.layer.Docs))
	for i, d := range s.layer.Docs {
		out[i] = DocumentMeta{
			DocID: d.DocID,
			Href:  d.Href,
			Title: d.Title,
		}
		if d.CategoryIdx >= 0 {
			out[i].Category = s.layer.Tables.Categories[d.CategoryIdx]
		}
		if d.AuthorIdx >= 0 {
			out[i].Author = s.layer.Tables.Authors[d.AuthorIdx]
		}
		for _, tagIdx := range d.TagIdxs {
			out[i].Tags = append(out[i].Tags, s.layer.Tables.Tags[tagIdx])
		}
	}
	return out
}

// DocumentMeta is the host-facing projection of a docstore.Document.
type DocumentMeta struct {
	DocID    uint32
	Href     string
	Title    string
	Category string
	Author   string
	Tags     []string
}

func tokenize(query string) []string {
	if len(query) > MaxQueryBytes {
		query = query[:MaxQueryBytes]
	}
	normalized := normalize.String(query)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// candidate is one term's contribution toward a document, used internally
// by the merger before a SearchResult is emitted.
type candidate struct {
	docID       uint32
	matchType   MatchType
	sectionIdx  uint32
	score       float64
	matchedTerm uint32
}

// Search runs the aggregated pipeline (spec.md §4.11): T1, then T2
// excluding T1's doc set, then T3 excluding T1∪T2. The three tiers'
// candidates are pooled and re-sorted together under the same bucketed
// ordering each tier applies on its own (MatchType ascending, score
// descending, doc_id ascending). Tier is never itself a tie-break key, so
// a later tier's Title-bucket hit for one document still outranks an
// earlier tier's Content-bucket hit for another (spec.md §8 invariant 11).
func (s *TierSearcher) Search(query string, limit int) []SearchResult {
	if limit <= 0 {
		return nil
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	t1 := s.searchExact(terms, unlimited)
	exclude := docSetOf(t1)

	t2 := s.searchPrefix(terms, exclude, unlimited)
	for _, r := range t2 {
		exclude[r.DocID] = struct{}{}
	}

	t3 := s.searchFuzzy(terms, exclude, unlimited)

	out := make([]SearchResult, 0, len(t1)+len(t2)+len(t3))
	out = append(out, t1...)
	out = append(out, t2...)
	out = append(out, t3...)
	sortBucketed(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

const unlimited = -1

func docSetOf(results []SearchResult) map[uint32]struct{} {
	set := make(map[uint32]struct{}, len(results))
	for _, r := range results {
		set[r.DocID] = struct{}{}
	}
	return set
}

// SearchTier1Exact is the standalone T1 operation (spec.md §4.11).
func (s *TierSearcher) SearchTier1Exact(query string, limit int) []SearchResult {
	if limit <= 0 {
		return nil
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	return s.searchExact(terms, limit)
}

// SearchTier2Prefix is the standalone T2 operation.
func (s *TierSearcher) SearchTier2Prefix(query string, exclude map[uint32]struct{}, limit int) []SearchResult {
	if limit <= 0 {
		return nil
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	return s.searchPrefix(terms, exclude, limit)
}

// SearchTier3Fuzzy is the standalone T3 operation.
func (s *TierSearcher) SearchTier3Fuzzy(query string, exclude map[uint32]struct{}, limit int) []SearchResult {
	if limit <= 0 {
		return nil
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	return s.searchFuzzy(terms, exclude, limit)
}

func (s *TierSearcher) searchExact(terms []string, limit int) []SearchResult {
	perTerm := make([][]candidate, len(terms))
	for i, term := range terms {
		vocabIdx, ok := s.termIndex[term]
		if !ok {
			perTerm[i] = nil
			continue
		}
		perTerm[i] = s.candidatesForTerm(vocabIdx, nil, 1.0)
	}
	return mergeAnd(perTerm, TierExact, limit)
}

func (s *TierSearcher) searchPrefix(terms []string, exclude map[uint32]struct{}, limit int) []SearchResult {
	perTerm := make([][]candidate, len(terms))
	for i, term := range terms {
		matches := sarray.FindPrefix(s.layer.SuffixArray, s.layer.Vocabulary, term)
		var cands []candidate
		for _, vocabIdx := range matches {
			penalty := prefixPenalty(len(term), len(s.layer.Vocabulary[vocabIdx]))
			cands = append(cands, s.candidatesForTerm(vocabIdx, exclude, penalty)...)
		}
		perTerm[i] = cands
	}
	return mergeAnd(perTerm, TierPrefix, limit)
}

func (s *TierSearcher) searchFuzzy(terms []string, exclude map[uint32]struct{}, limit int) []SearchResult {
	k := 2
	if s.layer.DFA != nil {
		k = s.layer.DFA.K
	}

	perTerm := make([][]candidate, len(terms))
	for i, term := range terms {
		matcher := fuzzy.NewMatcher(s.layer.DFA, term)
		var cands []candidate
		for vocabIdx, vocabTerm := range s.layer.Vocabulary {
			distance, ok := matcher.Matches(vocabTerm)
			if !ok {
				continue
			}
			penalty := fuzzyPenalty(distance, k)
			cands = append(cands, s.candidatesForTerm(uint32(vocabIdx), exclude, penalty)...)
		}
		perTerm[i] = cands
	}
	return mergeAnd(perTerm, TierFuzzy, limit)
}

// candidatesForTerm expands one vocabulary term's posting list into
// candidates, applying scalePenalty to every base field score and
// dropping any doc_id present in exclude.
func (s *TierSearcher) candidatesForTerm(vocabIdx uint32, exclude map[uint32]struct{}, scalePenalty float64) []candidate {
	entries := s.layer.Postings[vocabIdx]
	if len(entries) == 0 {
		return nil
	}
	out := make([]candidate, 0, len(entries))
	for _, p := range entries {
		if exclude != nil {
			if _, excluded := exclude[p.DocID]; excluded {
				continue
			}
		}
		out = append(out, candidate{
			docID:       p.DocID,
			matchType:   matchTypeFromField(p.Field),
			sectionIdx:  p.SectionIdx,
			score:       baseFieldScore(p.Field) * scalePenalty,
			matchedTerm: vocabIdx,
		})
	}
	return out
}

// mergeAnd implements the accumulator/merger (spec.md §4.12): multi-term
// AND across per-term candidate sets, per-document max-per-term scoring,
// best-candidate section selection, then bucketed sort (§4.11).
func mergeAnd(perTerm [][]candidate, tier Tier, limit int) []SearchResult {
	if len(perTerm) == 0 {
		return nil
	}

	// termMax[i][docID] = the highest-scoring candidate term i contributed
	// for that document (max over sections for that term).
	termMax := make([]map[uint32]candidate, len(perTerm))
	for i, cands := range perTerm {
		best := make(map[uint32]candidate, len(cands))
		for _, c := range cands {
			cur, ok := best[c.docID]
			if !ok || c.score > cur.score {
				best[c.docID] = c
			}
		}
		termMax[i] = best
		if len(best) == 0 {
			// This term contributed nothing at all: AND across terms can
			// never retain any document.
			return nil
		}
	}

	retained := make(map[uint32]struct{})
	for docID := range termMax[0] {
		retained[docID] = struct{}{}
	}
	for _, m := range termMax[1:] {
		for docID := range retained {
			if _, ok := m[docID]; !ok {
				delete(retained, docID)
			}
		}
	}

	results := make([]SearchResult, 0, len(retained))
	for docID := range retained {
		var sum float64
		var best candidate
		haveBest := false
		for _, m := range termMax {
			c := m[docID]
			sum += c.score
			if !haveBest || isBetterCandidate(c, best) {
				best = c
				haveBest = true
			}
		}
		results = append(results, SearchResult{
			DocID:       docID,
			Score:       sum,
			Tier:        tier,
			MatchType:   best.matchType,
			SectionIdx:  best.sectionIdx,
			MatchedTerm: best.matchedTerm,
		})
	}

	sortBucketed(results)
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// isBetterCandidate reports whether a should supply the emitted section
// over b: (MatchType ascending, section score descending).
func isBetterCandidate(a, b candidate) bool {
	if a.matchType != b.matchType {
		return a.matchType < b.matchType
	}
	return a.score > b.score
}

// sortBucketed applies the tie-break and ordering policy (spec.md §4.11):
// MatchType ascending, score descending, doc_id ascending.
func sortBucketed(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.MatchType != b.MatchType {
			return a.MatchType < b.MatchType
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.DocID < b.DocID
	})
}
