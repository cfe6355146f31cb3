package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/maishathasin/youtube-to-jpg/internal/runner"
)

// FormatSelector prefers a separate best video+audio pair already in MP4/M4A,
// falls back to a single best MP4 stream, then to whatever is best.
const FormatSelector = "bv*[ext=mp4]+ba[ext=m4a]/b[ext=mp4]/best"

var (
	// ErrToolFailed indicates yt-dlp exited non-zero or could not be launched.
	ErrToolFailed = errors.New("yt-dlp failed")
	// ErrMissingOutput indicates yt-dlp reported success but the expected
	// file is absent. The exit code alone is not trusted as proof of a
	// usable artifact.
	ErrMissingOutput = errors.New("yt-dlp did not produce the expected file")
)

// Downloader fetches a remote video and coerces it into an MP4 container.
type Downloader struct {
	logger zerolog.Logger
	runner runner.Runner
	bin    string
}

// New creates a downloader invoking the yt-dlp binary at bin
func New(logger zerolog.Logger, run runner.Runner, bin string) *Downloader {
	return &Downloader{
		logger: logger.With().Str("component", "download").Logger(),
		runner: run,
		bin:    bin,
	}
}

// Args builds the yt-dlp invocation for url writing to target.
func (d *Downloader) Args(url, target string) []string {
	return []string{
		"-o", target,
		"-f", FormatSelector,
		"--remux-video", "mp4",
		url,
	}
}

// Download runs yt-dlp and verifies the artifact exists afterward. No retries;
// a failed download is surfaced to the caller.
func (d *Downloader) Download(ctx context.Context, url, target string) error {
	if parent := filepath.Dir(target); parent != "." {
		// Best-effort; a later write failure is the real signal.
		_ = os.MkdirAll(parent, 0o755)
	}

	d.logger.Info().
		Str("url", url).
		Str("target", target).
		Msg("downloading video")

	if err := d.runner.Run(ctx, d.bin, d.Args(url, target)...); err != nil {
		return fmt.Errorf("%w: %v", ErrToolFailed, err)
	}

	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingOutput, target)
	}

	d.logger.Info().Str("target", target).Msg("download complete")
	return nil
}
