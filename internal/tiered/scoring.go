package tiered

import "github.com/sorexsearch/sorex/internal/postings"

// baseFieldScore returns the base score for a field type (spec.md §4.13).
// The constants form a strict hierarchy with margin > 0.5 between adjacent
// levels, so no combination of tier penalties can invert the bucket order
// the merger's (MatchType, score) tie-break relies on.
func baseFieldScore(f postings.FieldType) float64 {
	switch f {
	case postings.FieldTitle:
		return 1000.0
	case postings.FieldHeading:
		return 100.0
	case postings.FieldSubheading:
		return 10.0
	case postings.FieldSubsubheading:
		return 2.0
	default: // postings.FieldContent
		return 1.0
	}
}

// prefixPenalty scales a T2 candidate's score down by how much longer the
// matched vocabulary term is than the query term it was typed as a prefix
// of (spec.md §4.13): queryTermLen / candidateTermLen, always in (0, 1]
// since a prefix match's candidate is at least as long as the query term.
func prefixPenalty(queryTermLen, candidateTermLen int) float64 {
	return float64(queryTermLen) / float64(candidateTermLen)
}

// fuzzyPenalty scales a T3 candidate's score by how close its edit
// distance is to the fixed k (spec.md §4.13): (k+1-distance)/(k+1).
func fuzzyPenalty(distance, k int) float64 {
	return float64(k+1-distance) / float64(k+1)
}
