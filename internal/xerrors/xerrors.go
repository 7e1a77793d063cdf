// Package xerrors provides InvalidIndex, the single structured error type
// every index validation and decode path in sorex surfaces. It mirrors the
// category/code shape the host CLI expects to log and present, but keeps a
// fixed, closed set of kinds rather than an open code namespace: the engine
// has exactly the error surface spec.md §7 describes and nothing more.
package xerrors

import "fmt"

// Kind identifies one of the closed set of ways a .sorex buffer can fail to
// load. Query-time code never produces a Kind: a validated LoadedLayer
// cannot make Search return an error.
type Kind string

const (
	MalformedVarint       Kind = "malformed_varint"
	MalformedVocabulary   Kind = "malformed_vocabulary"
	MalformedPostings     Kind = "malformed_postings"
	MalformedSuffixArray  Kind = "malformed_suffix_array"
	MalformedSectionTable Kind = "malformed_section_table"
	MalformedDocs         Kind = "malformed_docs"
	MalformedHeader       Kind = "malformed_header"
	ChecksumMismatch      Kind = "checksum_mismatch"
	Truncated             Kind = "truncated"
	DfaLoad               Kind = "dfa_load"
)

// InvalidIndex is the single error type surfaced to embedders for a failed
// load (spec.md §7: "all validation errors surface as a single
// InvalidIndex(kind, detail)"). It carries enough structure for a host to
// log a reason and show a user a specific message.
type InvalidIndex struct {
	Kind    Kind
	Detail  string
	Context map[string]string
	Cause   error
}

// Error implements the error interface.
func (e *InvalidIndex) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid index: %s", e.Kind)
	}
	return fmt.Sprintf("invalid index: %s: %s", e.Kind, e.Detail)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *InvalidIndex) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match InvalidIndex values by Kind, the same way a
// caller would match a sentinel error.
func (e *InvalidIndex) Is(target error) bool {
	t, ok := target.(*InvalidIndex)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithContext attaches a key/value pair of diagnostic context and returns
// the receiver for chaining at the call site.
func (e *InvalidIndex) WithContext(key, value string) *InvalidIndex {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// New builds an InvalidIndex of the given kind.
func New(kind Kind, detail string) *InvalidIndex {
	return &InvalidIndex{Kind: kind, Detail: detail}
}

// Wrap builds an InvalidIndex of the given kind around an underlying cause.
func Wrap(kind Kind, detail string, cause error) *InvalidIndex {
	return &InvalidIndex{Kind: kind, Detail: detail, Cause: cause}
}

// KindOf extracts the Kind from an error if it is (or wraps) an
// InvalidIndex.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if ii, ok := err.(*InvalidIndex); ok {
			return ii.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = u.Unwrap()
	}
	return "", false
}
