package dash

import (
	"bytes"
	"context"
	"fmt"

	"kinedl/internal/models"
)

// ProgressFunc is invoked before each fetch group request with the group,
// its index among all planned groups, the group count and the total number
// of body segments in the stream.
type ProgressFunc func(group models.FetchGroup, groupIndex, groupCount, totalSegments int)

// Assembler downloads one elementary stream: the init segment first as a
// single request, then every planned fetch group strictly in order. The
// result is the exact concatenation of init bytes and group bytes; nothing
// is reordered or deduplicated.
type Assembler struct {
	downloader       *SegmentDownloader
	maxGroupSegments int
	maxChunkBytes    uint64
	progress         ProgressFunc
}

// NewAssembler creates an assembler with the given coalescing limits.
// progress may be nil.
func NewAssembler(dl *SegmentDownloader, maxGroupSegments int, maxChunkBytes uint64, progress ProgressFunc) *Assembler {
	return &Assembler{
		downloader:       dl,
		maxGroupSegments: maxGroupSegments,
		maxChunkBytes:    maxChunkBytes,
		progress:         progress,
	}
}

// Assemble fetches the init segment and all body segments and returns the
// stream as one byte slice in manifest order.
func (a *Assembler) Assemble(ctx context.Context, init models.Segment, body []models.Segment) ([]byte, error) {
	total := init.Size()
	for _, s := range body {
		total += s.Size()
	}
	buf := bytes.NewBuffer(make([]byte, 0, total))

	data, err := a.downloader.FetchRange(ctx, init.URL, init.Start, init.End)
	if err != nil {
		return nil, fmt.Errorf("init segment: %w", err)
	}
	buf.Write(data)

	groups := PlanGroups(body, a.maxGroupSegments, a.maxChunkBytes)
	for i, group := range groups {
		if a.progress != nil {
			a.progress(group, i, len(groups), len(body))
		}
		data, err := a.downloader.FetchRange(ctx, group.URL, group.Start, group.End)
		if err != nil {
			return nil, fmt.Errorf("segments %d-%d: %w", group.First+1, group.Last+1, err)
		}
		buf.Write(data)
	}

	return buf.Bytes(), nil
}
