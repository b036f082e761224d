package dash

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"kinedl/internal/errs"
	"kinedl/internal/logger"
)

const retryDelay = 500 * time.Millisecond

// SegmentDownloader performs byte-range requests against the origin.
// Connection reuse across a run of same-URL requests is handled by the
// shared http.Client's transport pool.
type SegmentDownloader struct {
	httpClient *http.Client
	logger     logger.Logger
	referer    string
	timeout    time.Duration
	maxRetries int
}

// NewSegmentDownloader creates a new downloader. timeout bounds each request;
// maxRetries is the number of extra attempts after a failure (0 = fail fast).
func NewSegmentDownloader(client *http.Client, log logger.Logger, referer string, timeout time.Duration, maxRetries int) *SegmentDownloader {
	return &SegmentDownloader{
		httpClient: client,
		logger:     log,
		referer:    referer,
		timeout:    timeout,
		maxRetries: maxRetries,
	}
}

// FetchRange downloads the inclusive byte range [start, end] from url and
// returns exactly end-start+1 bytes. Any transport failure, non-success
// status, or short body is reported as errs.ErrNetwork.
func (sd *SegmentDownloader) FetchRange(ctx context.Context, url string, start, end uint64) ([]byte, error) {
	attempts := sd.maxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := sd.fetchOnce(ctx, url, start, end)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if attempt < attempts {
			sd.logger.Warnf("fetch attempt %d/%d failed: %v", attempt, attempts, err)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", errs.ErrNetwork, ctx.Err())
			case <-time.After(retryDelay):
			}
		}
	}
	return nil, lastErr
}

func (sd *SegmentDownloader) fetchOnce(ctx context.Context, url string, start, end uint64) ([]byte, error) {
	if sd.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sd.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", errs.ErrNetwork, url, err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))
	if sd.referer != "" {
		req.Header.Set("Referer", sd.referer)
	}

	sd.logger.Debugf("GET %s bytes=%d-%d", url, start, end)
	resp, err := sd.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", errs.ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("%w: fetch %s: status %d", errs.ErrNetwork, url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body from %s: %v", errs.ErrNetwork, url, err)
	}
	if want := end - start + 1; uint64(len(data)) != want {
		return nil, fmt.Errorf("%w: fetch %s: got %d bytes, want %d", errs.ErrNetwork, url, len(data), want)
	}
	return data, nil
}
