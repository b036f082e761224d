package mux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"kinedl/internal/errs"
	"kinedl/internal/logger"
)

// Muxer combines the two elementary stream files into a playable MP4 by
// invoking an external ffmpeg binary. Codecs are copied as-is; the AAC
// bitstream filter rewraps ADTS audio for the MP4 container.
type Muxer struct {
	bin    string
	logger logger.Logger
}

// New creates a muxer invoking the given binary.
func New(bin string, log logger.Logger) *Muxer {
	return &Muxer{bin: bin, logger: log}
}

// Mux writes outPath from the video and audio stream files. A non-zero exit
// is reported as errs.ErrMuxer carrying the tool's stderr text.
func (m *Muxer) Mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c", "copy",
		"-bsf:a", "aac_adtstoasc",
		outPath,
	}
	m.logger.Debugf("running %s %s", m.bin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, m.bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s", errs.ErrMuxer, msg)
	}
	return nil
}
