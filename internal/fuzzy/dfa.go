// Package fuzzy implements the parametric Levenshtein DFA used for
// bounded-edit-distance fuzzy matching (spec.md §4.10): k is fixed at build
// time (2), and matching computes a full edit-distance row per target
// character, driven by per-character characteristic vectors rather than a
// precomputed, alphabet-specific transition table.
package fuzzy

import (
	"github.com/sorexsearch/sorex/internal/xerrors"
)

// MaxK is the maximum edit distance this package supports, per spec.md
// §4.10 ("k fixed at build time (2)").
const MaxK = 2

// DFA is bound to a fixed edit distance k; it holds no query-specific
// state, so a single DFA can produce many QueryMatchers.
type DFA struct {
	K int
}

// Encode serializes the DFA's parameters to the on-disk LEV_DFA
// representation. There is no separately persisted transition table: every
// transition is a deterministic function of the current DP row and the
// current characteristic vector (see QueryMatcher.Matches), so the only
// build-time parameter that needs to survive a round trip is k itself.
func Encode(d *DFA) []byte {
	return []byte{byte(d.K)}
}

// Load reads a DFA back from its on-disk bytes (spec.md §4.10: "load(bytes)
// -> DFA").
func Load(buf []byte) (*DFA, error) {
	if len(buf) < 1 {
		return nil, xerrors.New(xerrors.DfaLoad, "empty DFA buffer")
	}
	k := int(buf[0])
	if k < 0 || k > MaxK {
		return nil, xerrors.New(xerrors.DfaLoad, "k out of supported range")
	}
	return &DFA{K: k}, nil
}
