package loader

// State is one step of the loader's state machine (spec.md §4.7 / "Loader
// state machine"): New -> HeaderOk -> FooterOk -> OffsetsOk -> SectionsOk
// -> Ready, or Failed at any step. A LoadedLayer is only safe to query once
// its State is Ready.
type State int

const (
	New State = iota
	HeaderOk
	FooterOk
	OffsetsOk
	SectionsOk
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case New:
		return "New"
	case HeaderOk:
		return "HeaderOk"
	case FooterOk:
		return "FooterOk"
	case OffsetsOk:
		return "OffsetsOk"
	case SectionsOk:
		return "SectionsOk"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}
