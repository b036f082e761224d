package models

// Segment describes one downloadable byte range of a representation.
// Ranges are inclusive on both ends, per HTTP Range semantics.
type Segment struct {
	// URL is the fully-qualified URL the range is served from.
	URL string
	// Start is the first byte offset of the segment.
	Start uint64
	// End is the last byte offset of the segment.
	End uint64
}

// Size returns the segment's byte length.
func (s Segment) Size() uint64 {
	return s.End - s.Start + 1
}

// FetchGroup is a planned single HTTP request covering one or more
// consecutive same-URL segments. First and Last index into the segment
// list the group was planned from.
type FetchGroup struct {
	URL   string
	Start uint64
	End   uint64
	First int
	Last  int
}

// Size returns the group's combined byte span.
func (g FetchGroup) Size() uint64 {
	return g.End - g.Start + 1
}

// Segments returns how many segments the group covers.
func (g FetchGroup) Segments() int {
	return g.Last - g.First + 1
}
