package fuzzy

// QueryMatcher binds a DFA to one query string (spec.md §4.10:
// "matcher(dfa, query) -> QueryMatcher"), precomputing the query's runes so
// repeated Matches calls against many vocabulary terms don't re-decode it.
type QueryMatcher struct {
	k     int
	query []rune
}

// NewMatcher builds a QueryMatcher for query under dfa's fixed k.
func NewMatcher(dfa *DFA, query string) *QueryMatcher {
	return &QueryMatcher{k: dfa.K, query: []rune(query)}
}

// Matches runs the automaton against target, returning the edit distance
// if it is within k, or ok=false otherwise (spec.md §4.10:
// "matches(target) -> Option<distance>"). The row transition at each
// target character is driven by that character's characteristic vector
// over the query (BuildVector), so the update rule never inspects the
// target alphabet directly — only equality against the query.
//
// Guarantees: |len(query)-len(target)| ≤ d whenever a distance d is
// returned (a property of true edit distance); Matches(query) == (0, true);
// deterministic for a given (query, target) pair.
func (m *QueryMatcher) Matches(target string) (distance int, ok bool) {
	q := m.query
	t := []rune(target)
	qn, tn := len(q), len(t)

	if diff := tn - qn; diff > m.k || diff < -m.k {
		return 0, false
	}

	prev := make([]int, qn+1)
	cur := make([]int, qn+1)
	for j := 0; j <= qn; j++ {
		prev[j] = j
	}

	for i := 1; i <= tn; i++ {
		c := t[i-1]
		vec := BuildVector(q, 0, qn, c)

		cur[0] = i
		for j := 1; j <= qn; j++ {
			cost := 1
			if vec.Bit(j - 1) {
				cost = 0
			}
			cur[j] = minOf3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}

	d := prev[qn]
	if d > m.k {
		return 0, false
	}
	return d, true
}

func minOf3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
