package dash

import (
	"strconv"
	"strings"

	"kinedl/internal/models"
)

// InitSegment extracts a representation's initialization segment.
func InitSegment(rep *Representation) (models.Segment, error) {
	init := rep.SegmentList.Initialization
	if init.SourceURL == "" {
		return models.Segment{}, shapeErrorf("representation %s: initialization has no sourceURL", rep.ID)
	}
	start, end, err := parseByteRange(init.Range)
	if err != nil {
		return models.Segment{}, shapeErrorf("representation %s: initialization range %q: %v", rep.ID, init.Range, err)
	}
	return models.Segment{URL: init.SourceURL, Start: start, End: end}, nil
}

// BodySegments flattens a representation's SegmentList into an ordered
// segment slice. Within a run of consecutive segments on the same URL each
// segment must start exactly one byte after its predecessor ends; the
// coalescer fetches a group as one contiguous span, so a gap or overlap
// would corrupt the assembled stream. Violations are rejected here.
func BodySegments(rep *Representation) ([]models.Segment, error) {
	urls := rep.SegmentList.SegmentURLs
	if len(urls) == 0 {
		return nil, shapeErrorf("representation %s: segment list is empty", rep.ID)
	}

	segments := make([]models.Segment, 0, len(urls))
	for i, su := range urls {
		if su.Media == "" {
			return nil, shapeErrorf("representation %s: segment %d has no media URL", rep.ID, i)
		}
		start, end, err := parseByteRange(su.MediaRange)
		if err != nil {
			return nil, shapeErrorf("representation %s: segment %d mediaRange %q: %v", rep.ID, i, su.MediaRange, err)
		}
		if i > 0 {
			prev := segments[i-1]
			if prev.URL == su.Media && start != prev.End+1 {
				return nil, shapeErrorf("representation %s: segment %d starts at byte %d, expected %d",
					rep.ID, i, start, prev.End+1)
			}
		}
		segments = append(segments, models.Segment{URL: su.Media, Start: start, End: end})
	}
	return segments, nil
}

// parseByteRange parses an inclusive "start-end" byte range attribute.
func parseByteRange(s string) (uint64, uint64, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, strconv.ErrSyntax
	}
	start, err := strconv.ParseUint(from, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	end, err := strconv.ParseUint(to, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, strconv.ErrRange
	}
	return start, end, nil
}
