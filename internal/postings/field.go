package postings

// FieldType identifies where in a document a term occurred. Values are
// ordered so that smaller is "more important" for ranking purposes:
// Title < Heading < Subheading < Subsubheading < Content (spec.md §3).
type FieldType uint8

const (
	FieldTitle FieldType = iota
	FieldHeading
	FieldSubheading
	FieldSubsubheading
	FieldContent
	fieldTypeCount
)

// Valid reports whether f is one of the five known field types.
func (f FieldType) Valid() bool {
	return f < fieldTypeCount
}

func (f FieldType) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldHeading:
		return "heading"
	case FieldSubheading:
		return "subheading"
	case FieldSubsubheading:
		return "subsubheading"
	case FieldContent:
		return "content"
	default:
		return "unknown"
	}
}

// NoSection is the sentinel SectionIdx used by postings for title fields
// that do not belong to any section (spec.md §3).
const NoSection = ^uint32(0)
