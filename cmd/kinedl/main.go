package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"kinedl/internal/config"
	"kinedl/internal/dash"
	"kinedl/internal/logger"
	"kinedl/internal/models"
	"kinedl/internal/mux"
	"kinedl/internal/pipeline"
)

type args struct {
	VideoID   string `arg:"positional,required" help:"Kinescope video ID, e.g. 201234567"`
	VideoName string `arg:"positional" help:"output file name stem (defaults to the video ID)"`
}

func (args) Description() string {
	return "Downloads a Kinescope DASH presentation and muxes it into an MP4 file.\nRequires the ffmpeg utility."
}

func main() {
	var a args
	arg.MustParse(&a)
	if a.VideoName == "" {
		a.VideoName = a.VideoID
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fatal(err)
	}

	log := logger.NewLogger(cfg.LogLevel())
	client := dash.NewClient(log, cfg.FetchTimeout)
	muxer := mux.New(cfg.FFmpegBin, log)

	driver := pipeline.New(cfg, log, client, muxer)
	driver.NewProgress = progressFor(cfg, log)

	if err := driver.Run(context.Background(), a.VideoID, a.VideoName); err != nil {
		fatal(err)
	}
	fmt.Printf("Done: %s.mp4\n", a.VideoName)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// progressFor picks the progress display: a single overwritten bar per
// stream normally, or one diagnostic line per request in debug mode.
func progressFor(cfg *config.Config, log logger.Logger) pipeline.ProgressFactory {
	if cfg.Debug {
		return func(stream string, totalSegments int) dash.ProgressFunc {
			return func(g models.FetchGroup, groupIndex, groupCount, total int) {
				log.Debugf("%s segments %d-%d/%d (%d)\tbytes=%d-%d\tsize=%s",
					stream, g.First+1, g.Last+1, total, g.Segments(),
					g.Start, g.End, humanize.Bytes(g.Size()))
			}
		}
	}
	return func(stream string, totalSegments int) dash.ProgressFunc {
		bar := progressbar.NewOptions(totalSegments,
			progressbar.OptionSetDescription(stream),
			progressbar.OptionSetWriter(os.Stdout),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		return func(g models.FetchGroup, groupIndex, groupCount, total int) {
			_ = bar.Add(g.Segments())
		}
	}
}
