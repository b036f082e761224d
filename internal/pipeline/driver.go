package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"kinedl/internal/config"
	"kinedl/internal/dash"
	"kinedl/internal/logger"
	"kinedl/internal/mux"
)

// ProgressFactory builds a per-stream progress callback. stream is "audio"
// or "video"; totalSegments counts the stream's body segments.
type ProgressFactory func(stream string, totalSegments int) dash.ProgressFunc

// Driver orchestrates a full run: manifest, selection, the two stream
// downloads, muxing, and temp-file cleanup. Audio is downloaded fully before
// video begins; every step is sequential and any failure aborts the run.
type Driver struct {
	cfg    *config.Config
	log    logger.Logger
	client *dash.Client
	muxer  *mux.Muxer

	// NewProgress, when set, supplies a progress callback per stream.
	NewProgress ProgressFactory
}

// New creates a pipeline driver.
func New(cfg *config.Config, log logger.Logger, client *dash.Client, muxer *mux.Muxer) *Driver {
	return &Driver{cfg: cfg, log: log, client: client, muxer: muxer}
}

// Run downloads the presentation identified by videoID and produces
// {videoName}.mp4. The intermediate {videoID}.audio and {videoID}.video
// files are removed only after the muxer succeeds, so a failed mux leaves
// them behind for diagnosis.
func (d *Driver) Run(ctx context.Context, videoID, videoName string) error {
	manifestURL := fmt.Sprintf("%s/%s/master.mpd", strings.TrimSuffix(d.cfg.BaseURL, "/"), videoID)
	mpd, err := d.client.FetchManifest(ctx, manifestURL, d.cfg.Referer)
	if err != nil {
		return err
	}

	audioRep, videoRep, err := dash.SelectStreams(mpd)
	if err != nil {
		return err
	}
	d.log.Infof("selected video representation %s (%dx%d), audio representation %s",
		videoRep.ID, videoRep.Width, videoRep.Height, audioRep.ID)

	dl := dash.NewSegmentDownloader(d.client.HttpClient(), d.log, d.cfg.Referer, d.cfg.FetchTimeout, d.cfg.FetchRetries)

	audioPath := videoID + ".audio"
	videoPath := videoID + ".video"

	if err := d.downloadStream(ctx, dl, audioRep, d.cfg.AudioChunkSegments, audioPath, "audio"); err != nil {
		return err
	}
	if err := d.downloadStream(ctx, dl, videoRep, d.cfg.VideoChunkSegments, videoPath, "video"); err != nil {
		return err
	}

	outPath := videoName + ".mp4"
	d.log.Infof("muxing %s + %s -> %s", videoPath, audioPath, outPath)
	if err := d.muxer.Mux(ctx, videoPath, audioPath, outPath); err != nil {
		return err
	}

	for _, path := range []string{audioPath, videoPath} {
		if err := os.Remove(path); err != nil {
			d.log.Warnf("could not remove %s: %v", path, err)
		}
	}
	return nil
}

func (d *Driver) downloadStream(ctx context.Context, dl *dash.SegmentDownloader, rep *dash.Representation, maxGroupSegments int, path, stream string) error {
	init, err := dash.InitSegment(rep)
	if err != nil {
		return err
	}
	body, err := dash.BodySegments(rep)
	if err != nil {
		return err
	}

	var progress dash.ProgressFunc
	if d.NewProgress != nil {
		progress = d.NewProgress(stream, len(body))
	}

	d.log.Infof("downloading %s stream: %d segments", stream, len(body)+1)
	assembler := dash.NewAssembler(dl, maxGroupSegments, d.cfg.SafeChunkLen, progress)
	data, err := assembler.Assemble(ctx, init, body)
	if err != nil {
		return fmt.Errorf("%s stream: %w", stream, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s stream: %w", stream, err)
	}
	d.log.Infof("%s stream done: %s (%d bytes)", stream, path, len(data))
	return nil
}
