package dash_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinedl/internal/dash"
	"kinedl/internal/errs"
	"kinedl/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewLoggerTo(io.Discard, "error")
}

func TestFetchRangeExactBytes(t *testing.T) {
	blob := make([]byte, 100)
	for i := range blob {
		blob[i] = byte(i)
	}
	origin := newRangeOrigin(map[string][]byte{"/seg": blob})
	server := httptest.NewServer(origin)
	defer server.Close()

	dl := dash.NewSegmentDownloader(server.Client(), testLogger(), "https://example.test", 0, 0)
	data, err := dl.FetchRange(context.Background(), server.URL+"/seg", 10, 29)

	require.NoError(t, err)
	assert.Equal(t, blob[10:30], data)
	assert.Equal(t, []string{"/seg 10-29"}, origin.Requests())
	assert.Equal(t, []string{"https://example.test"}, origin.Referers())
}

func TestFetchRangeNotFound(t *testing.T) {
	origin := newRangeOrigin(map[string][]byte{})
	server := httptest.NewServer(origin)
	defer server.Close()

	dl := dash.NewSegmentDownloader(server.Client(), testLogger(), "", 0, 0)
	_, err := dl.FetchRange(context.Background(), server.URL+"/missing", 0, 9)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNetwork)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchRangeShortBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte("short"))
	}))
	defer server.Close()

	dl := dash.NewSegmentDownloader(server.Client(), testLogger(), "", 0, 0)
	_, err := dl.FetchRange(context.Background(), server.URL, 0, 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNetwork)
	assert.Contains(t, err.Error(), "want 100")
}

func TestFetchRangeNoRetryByDefault(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dl := dash.NewSegmentDownloader(server.Client(), testLogger(), "", 0, 0)
	_, err := dl.FetchRange(context.Background(), server.URL, 0, 9)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchRangeRetriesThenSucceeds(t *testing.T) {
	blob := []byte("0123456789")
	var hits int32
	origin := newRangeOrigin(map[string][]byte{"/seg": blob})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		origin.ServeHTTP(w, r)
	}))
	defer server.Close()

	dl := dash.NewSegmentDownloader(server.Client(), testLogger(), "", 0, 2)
	data, err := dl.FetchRange(context.Background(), server.URL+"/seg", 0, 9)

	require.NoError(t, err)
	assert.Equal(t, blob, data)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestFetchRangeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	dl := dash.NewSegmentDownloader(server.Client(), testLogger(), "", 50*time.Millisecond, 0)
	_, err := dl.FetchRange(context.Background(), server.URL, 0, 9)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNetwork)
}
