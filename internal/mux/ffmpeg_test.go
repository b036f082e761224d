package mux_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinedl/internal/errs"
	"kinedl/internal/logger"
	"kinedl/internal/mux"
)

// fakeFFmpeg writes a shell script standing in for the real binary and
// returns its path. The script records its arguments to argsFile.
func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

func testLogger() logger.Logger {
	return logger.NewLoggerTo(io.Discard, "error")
}

func TestMuxSuccess(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := fakeFFmpeg(t, `echo "$@" > `+argsFile)

	m := mux.New(bin, testLogger())
	err := m.Mux(context.Background(), "id.video", "id.audio", "out.mp4")
	require.NoError(t, err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t,
		"-y -i id.video -i id.audio -c copy -bsf:a aac_adtstoasc out.mp4",
		strings.TrimSpace(string(args)))
}

func TestMuxFailureSurfacesStderr(t *testing.T) {
	bin := fakeFFmpeg(t, `echo "codec error" >&2; exit 1`)

	m := mux.New(bin, testLogger())
	err := m.Mux(context.Background(), "id.video", "id.audio", "out.mp4")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrMuxer)
	assert.Contains(t, err.Error(), "codec error")
}

func TestMuxMissingBinary(t *testing.T) {
	m := mux.New(filepath.Join(t.TempDir(), "no-such-ffmpeg"), testLogger())
	err := m.Mux(context.Background(), "id.video", "id.audio", "out.mp4")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrMuxer)
}
