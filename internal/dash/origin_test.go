package dash_test

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"kinedl/internal/models"
)

// rangeOrigin is a mock origin serving byte ranges out of in-memory blobs,
// keyed by URL path. Every served range is recorded for assertions.
type rangeOrigin struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	requests []string
	referers []string
}

func newRangeOrigin(blobs map[string][]byte) *rangeOrigin {
	return &rangeOrigin{blobs: blobs}
}

// Requests returns the served ranges as "path start-end" strings, in order.
func (o *rangeOrigin) Requests() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.requests...)
}

// Referers returns the Referer header of every served request.
func (o *rangeOrigin) Referers() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.referers...)
}

func (o *rangeOrigin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	blob, ok := o.blobs[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}

	spec := strings.TrimPrefix(r.Header.Get("Range"), "bytes=")
	from, to, ok := strings.Cut(spec, "-")
	if !ok {
		http.Error(w, "missing range", http.StatusBadRequest)
		return
	}
	start, err1 := strconv.ParseUint(from, 10, 64)
	end, err2 := strconv.ParseUint(to, 10, 64)
	if err1 != nil || err2 != nil || end < start || end >= uint64(len(blob)) {
		http.Error(w, "bad range", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	o.mu.Lock()
	o.requests = append(o.requests, fmt.Sprintf("%s %d-%d", r.URL.Path, start, end))
	o.referers = append(o.referers, r.Header.Get("Referer"))
	o.mu.Unlock()

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, len(blob)))
	w.WriteHeader(http.StatusPartialContent)
	w.Write(blob[start : end+1])
}

// contiguousSegments builds n contiguous segments of the given size on url,
// starting at offset.
func contiguousSegments(url string, offset, size uint64, n int) []models.Segment {
	segs := make([]models.Segment, 0, n)
	for i := 0; i < n; i++ {
		segs = append(segs, models.Segment{URL: url, Start: offset, End: offset + size - 1})
		offset += size
	}
	return segs
}
