package binfmt

// Size bounds enforced at load time so the engine never needs to budget for
// an unbounded index: spec.md §5 relies on these to argue that no query-time
// step is long enough to need a cancellation path.
const (
	// MaxFileSize bounds any single section's declared length.
	MaxFileSize = 1 << 30 // 1 GiB
	// MaxTermCount bounds the vocabulary size.
	MaxTermCount = 1 << 24
	// MaxDocCount bounds the document count.
	MaxDocCount = 1 << 24
	// MaxPostingSize bounds the entry count of a single term's posting list.
	MaxPostingSize = 1 << 24
)
