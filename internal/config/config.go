package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for every environment knob.
const (
	DefaultBaseURL            = "https://kinescope.io"
	DefaultAudioChunkSegments = 200
	DefaultVideoChunkSegments = 100
	DefaultSafeChunkLen       = 24000000
	DefaultFetchTimeout       = 2 * time.Minute
	DefaultFetchRetries       = 0
	DefaultFFmpegBin          = "ffmpeg"
)

// Config holds the fully processed application configuration. It is built
// once at startup and passed down by reference; nothing mutates it afterward.
type Config struct {
	// BaseURL is the origin the manifest is fetched from.
	BaseURL string
	// Referer is sent with every request. Defaults to BaseURL.
	Referer string
	// AudioChunkSegments caps how many audio segments one fetch group may cover.
	AudioChunkSegments int
	// VideoChunkSegments caps how many video segments one fetch group may cover.
	VideoChunkSegments int
	// SafeChunkLen caps a fetch group's byte span.
	SafeChunkLen uint64
	// Debug switches the progress display to per-request diagnostics and
	// enables debug logging.
	Debug bool
	// FetchTimeout bounds each HTTP request.
	FetchTimeout time.Duration
	// FetchRetries is the number of extra attempts per fetch. Zero means
	// any failure is immediately fatal.
	FetchRetries int
	// FFmpegBin is the muxer binary to invoke.
	FFmpegBin string
}

// FromEnv builds a Config from defaults overlaid with environment lookups.
// A .env file in the working directory is honored if present.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:            DefaultBaseURL,
		AudioChunkSegments: DefaultAudioChunkSegments,
		VideoChunkSegments: DefaultVideoChunkSegments,
		SafeChunkLen:       DefaultSafeChunkLen,
		FetchTimeout:       DefaultFetchTimeout,
		FetchRetries:       DefaultFetchRetries,
		FFmpegBin:          DefaultFFmpegBin,
	}

	if v := os.Getenv("BASEURL"); v != "" {
		cfg.BaseURL = v
	}
	cfg.Referer = cfg.BaseURL
	if v := os.Getenv("REFERER"); v != "" {
		cfg.Referer = v
	}
	if v := os.Getenv("FFMPEG"); v != "" {
		cfg.FFmpegBin = v
	}

	var err error
	if cfg.AudioChunkSegments, err = intEnv("AUDIO_CHUNK_SEGMENTS", cfg.AudioChunkSegments); err != nil {
		return nil, err
	}
	if cfg.VideoChunkSegments, err = intEnv("VIDEO_CHUNK_SEGMENTS", cfg.VideoChunkSegments); err != nil {
		return nil, err
	}
	if cfg.FetchRetries, err = intEnv("FETCH_RETRIES", cfg.FetchRetries); err != nil {
		return nil, err
	}
	if cfg.SafeChunkLen, err = uintEnv("SAFE_CHUNK_LEN", cfg.SafeChunkLen); err != nil {
		return nil, err
	}

	if v := os.Getenv("DEBUG"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEBUG value %q: %w", v, err)
		}
		cfg.Debug = n != 0
	}

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT value %q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AudioChunkSegments < 1 {
		return fmt.Errorf("AUDIO_CHUNK_SEGMENTS must be at least 1, got %d", c.AudioChunkSegments)
	}
	if c.VideoChunkSegments < 1 {
		return fmt.Errorf("VIDEO_CHUNK_SEGMENTS must be at least 1, got %d", c.VideoChunkSegments)
	}
	if c.SafeChunkLen < 1 {
		return fmt.Errorf("SAFE_CHUNK_LEN must be at least 1, got %d", c.SafeChunkLen)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("FETCH_RETRIES must not be negative, got %d", c.FetchRetries)
	}
	return nil
}

// LogLevel maps the debug flag to a logger level string.
func (c *Config) LogLevel() string {
	if c.Debug {
		return "debug"
	}
	return "info"
}

func intEnv(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, v, err)
	}
	return n, nil
}

func uintEnv(name string, def uint64) (uint64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, v, err)
	}
	return n, nil
}
