package dash

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"kinedl/internal/errs"
	"kinedl/internal/logger"
)

// Client is responsible for all communication with the origin server.
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
	timeout    time.Duration
}

// NewClient creates a new DASH client. timeout bounds each request made
// through the client, including segment fetches sharing its transport.
func NewClient(log logger.Logger, timeout time.Duration) *Client {
	transport := &http.Transport{
		ResponseHeaderTimeout: 10 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		logger:     log,
		timeout:    timeout,
	}
}

// FetchManifest fetches the MPD from the given URL, parses it and validates
// its shape.
func (c *Client) FetchManifest(ctx context.Context, url, referer string) (*MPD, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build manifest request: %v", errs.ErrNetwork, err)
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	c.logger.Debugf("fetching manifest from %s", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch manifest from %s: %v", errs.ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch manifest from %s: status %d", errs.ErrNetwork, url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest body: %v", errs.ErrNetwork, err)
	}

	var mpd MPD
	if err := xml.Unmarshal(data, &mpd); err != nil {
		return nil, shapeErrorf("manifest XML: %v", err)
	}
	if err := mpd.Validate(); err != nil {
		return nil, err
	}

	c.logger.Debugf("manifest parsed: %d adaptation sets", len(mpd.Periods[0].Sets))
	return &mpd, nil
}

// HttpClient returns the underlying http.Client instance so segment
// downloads can share its connection pool.
func (c *Client) HttpClient() *http.Client {
	return c.httpClient
}
