package dash

import (
	"kinedl/internal/models"
)

// PlanGroups partitions an ordered segment list into fetch groups, each
// describing one contiguous byte span on one URL. It is a single greedy
// left-to-right pass: a group absorbs following segments while they share
// the group's URL, the group stays within maxGroupSegments, and the span
// from the group's first byte to the candidate's last byte stays within
// maxChunkBytes. A lone segment larger than maxChunkBytes still forms its
// own group; the limits bound growth, not the minimum unit.
//
// The pass is deterministic and never reorders: concatenating the groups'
// spans reproduces the input segments byte for byte.
func PlanGroups(segments []models.Segment, maxGroupSegments int, maxChunkBytes uint64) []models.FetchGroup {
	if maxGroupSegments < 1 {
		maxGroupSegments = 1
	}

	var groups []models.FetchGroup
	for i := 0; i < len(segments); {
		group := models.FetchGroup{
			URL:   segments[i].URL,
			Start: segments[i].Start,
			End:   segments[i].End,
			First: i,
			Last:  i,
		}

		j := i + 1
		for j < len(segments) &&
			j-i < maxGroupSegments &&
			segments[j].URL == group.URL &&
			segments[j].End-group.Start+1 <= maxChunkBytes {
			group.End = segments[j].End
			group.Last = j
			j++
		}

		groups = append(groups, group)
		i = j
	}
	return groups
}
